package datastore_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"paytrack/internal/datastore"
	"paytrack/internal/leave"
	"paytrack/internal/localstore"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"
	"paytrack/internal/user"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeBackend struct {
	usersFn     func(ctx context.Context) ([]user.UserResponse, error)
	salariesFn  func(ctx context.Context) ([]salary.SalaryResponse, error)
	overtimesFn func(ctx context.Context) ([]overtime.OvertimeResponse, error)
	leavesFn    func(ctx context.Context) ([]leave.LeaveResponse, error)
}

func (f *fakeBackend) FetchUsers(ctx context.Context) ([]user.UserResponse, error) {
	if f.usersFn != nil {
		return f.usersFn(ctx)
	}
	return nil, nil
}

func (f *fakeBackend) FetchSalaries(ctx context.Context) ([]salary.SalaryResponse, error) {
	if f.salariesFn != nil {
		return f.salariesFn(ctx)
	}
	return nil, nil
}

func (f *fakeBackend) FetchOvertimes(ctx context.Context) ([]overtime.OvertimeResponse, error) {
	if f.overtimesFn != nil {
		return f.overtimesFn(ctx)
	}
	return nil, nil
}

func (f *fakeBackend) FetchLeaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	if f.leavesFn != nil {
		return f.leavesFn(ctx)
	}
	return nil, nil
}

func TestStore_Dispatch(t *testing.T) {
	t.Run("upsert appends then replaces by id", func(t *testing.T) {
		store := datastore.NewStore(&fakeBackend{})

		id := uuid.New().String()
		store.Dispatch(datastore.UpsertSalary{Item: salary.SalaryResponse{ID: id, BaseSalary: 15000}})
		store.Dispatch(datastore.UpsertSalary{Item: salary.SalaryResponse{ID: uuid.New().String(), BaseSalary: 12000}})

		state := store.Snapshot()
		assert.Len(t, state.Salaries.Items, 2)

		store.Dispatch(datastore.UpsertSalary{Item: salary.SalaryResponse{ID: id, BaseSalary: 16000}})

		state = store.Snapshot()
		assert.Len(t, state.Salaries.Items, 2)
		for _, item := range state.Salaries.Items {
			if item.ID == id {
				assert.Equal(t, 16000, item.BaseSalary)
			}
		}
	})

	t.Run("remove drops by id and ignores unknown ids", func(t *testing.T) {
		store := datastore.NewStore(&fakeBackend{})

		id := uuid.New().String()
		store.Dispatch(datastore.UpsertLeave{Item: leave.LeaveResponse{ID: id, LeaveType: "ANNUAL"}})
		store.Dispatch(datastore.Remove{Entity: datastore.EntityLeaves, ID: uuid.New().String()})

		assert.Len(t, store.Snapshot().Leaves.Items, 1)

		store.Dispatch(datastore.Remove{Entity: datastore.EntityLeaves, ID: id})

		assert.Empty(t, store.Snapshot().Leaves.Items)
	})

	t.Run("set error keeps existing items", func(t *testing.T) {
		store := datastore.NewStore(&fakeBackend{})

		store.Dispatch(datastore.UpsertUser{Item: user.UserResponse{ID: uuid.New().String(), Name: "Riley"}})
		store.Dispatch(datastore.SetError{Entity: datastore.EntityUsers, Message: "backend down"})

		state := store.Snapshot()
		assert.Equal(t, "backend down", state.Users.Err)
		assert.Len(t, state.Users.Items, 1)
	})

	t.Run("replace resets error and contents", func(t *testing.T) {
		store := datastore.NewStore(&fakeBackend{})

		store.Dispatch(datastore.UpsertUser{Item: user.UserResponse{ID: uuid.New().String()}})
		store.Dispatch(datastore.SetError{Entity: datastore.EntityUsers, Message: "stale"})
		store.Dispatch(datastore.ReplaceUsers{Items: []user.UserResponse{
			{ID: uuid.New().String()},
			{ID: uuid.New().String()},
		}})

		state := store.Snapshot()
		assert.Empty(t, state.Users.Err)
		assert.Len(t, state.Users.Items, 2)
	})
}

func TestStore_Snapshot(t *testing.T) {
	t.Run("snapshot is isolated from later dispatches", func(t *testing.T) {
		store := datastore.NewStore(&fakeBackend{})

		store.Dispatch(datastore.UpsertOvertime{Item: overtime.OvertimeResponse{ID: uuid.New().String(), Hours: 2}})
		before := store.Snapshot()

		store.Dispatch(datastore.UpsertOvertime{Item: overtime.OvertimeResponse{ID: uuid.New().String(), Hours: 4}})

		assert.Len(t, before.Overtimes.Items, 1)
		assert.Len(t, store.Snapshot().Overtimes.Items, 2)
	})
}

func TestStore_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("success replaces all four collections", func(t *testing.T) {
		backend := &fakeBackend{
			usersFn: func(ctx context.Context) ([]user.UserResponse, error) {
				return []user.UserResponse{{ID: uuid.New().String()}}, nil
			},
			salariesFn: func(ctx context.Context) ([]salary.SalaryResponse, error) {
				return []salary.SalaryResponse{{ID: uuid.New().String()}, {ID: uuid.New().String()}}, nil
			},
			overtimesFn: func(ctx context.Context) ([]overtime.OvertimeResponse, error) {
				return nil, nil
			},
			leavesFn: func(ctx context.Context) ([]leave.LeaveResponse, error) {
				return []leave.LeaveResponse{{ID: uuid.New().String()}}, nil
			},
		}
		store := datastore.NewStore(backend)

		err := store.Refresh(ctx)

		assert.NoError(t, err)
		state := store.Snapshot()
		assert.Len(t, state.Users.Items, 1)
		assert.Len(t, state.Salaries.Items, 2)
		assert.Empty(t, state.Overtimes.Items)
		assert.Len(t, state.Leaves.Items, 1)
		assert.False(t, state.Users.Loading)
	})

	t.Run("success - local backend reads the Redis mirror", func(t *testing.T) {
		db, redisMock := redismock.NewClientMock()

		leaveID := uuid.New().String()
		item, _ := json.Marshal(leave.LeaveResponse{ID: leaveID, LeaveType: "SICK"})
		redisMock.ExpectHGetAll("localstore:users").SetVal(map[string]string{})
		redisMock.ExpectHGetAll("localstore:salaries").SetVal(map[string]string{})
		redisMock.ExpectHGetAll("localstore:overtimes").SetVal(map[string]string{})
		redisMock.ExpectHGetAll("localstore:leaves").SetVal(map[string]string{leaveID: string(item)})

		backend := datastore.NewLocalBackend(
			localstore.New[user.UserResponse](db, localstore.CollectionUsers),
			localstore.New[salary.SalaryResponse](db, localstore.CollectionSalaries),
			localstore.New[overtime.OvertimeResponse](db, localstore.CollectionOvertimes),
			localstore.New[leave.LeaveResponse](db, localstore.CollectionLeaves),
		)
		store := datastore.NewStore(backend)

		err := store.Refresh(ctx)

		assert.NoError(t, err)
		state := store.Snapshot()
		assert.Len(t, state.Leaves.Items, 1)
		assert.Equal(t, leaveID, state.Leaves.Items[0].ID)
		assert.Empty(t, state.Users.Items)
	})

	t.Run("partial failure keeps prior items and records error", func(t *testing.T) {
		fetchErr := errors.New("salaries unavailable")
		backend := &fakeBackend{
			salariesFn: func(ctx context.Context) ([]salary.SalaryResponse, error) {
				return nil, fetchErr
			},
			leavesFn: func(ctx context.Context) ([]leave.LeaveResponse, error) {
				return []leave.LeaveResponse{{ID: uuid.New().String()}}, nil
			},
		}
		store := datastore.NewStore(backend)
		store.Dispatch(datastore.UpsertSalary{Item: salary.SalaryResponse{ID: uuid.New().String(), BaseSalary: 15000}})

		err := store.Refresh(ctx)

		assert.ErrorIs(t, err, fetchErr)
		state := store.Snapshot()
		assert.Equal(t, fetchErr.Error(), state.Salaries.Err)
		assert.Len(t, state.Salaries.Items, 1, "failed fetch must not clear prior items")
		assert.Len(t, state.Leaves.Items, 1, "other collections still replace")
	})
}

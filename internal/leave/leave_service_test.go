package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"paytrack/internal/leave"
	leaveerrors "paytrack/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveRepository struct {
	withTxFn              func(tx *sql.Tx) leave.Repository
	createFn              func(ctx context.Context, l *leave.Leave) error
	findAllFn             func(ctx context.Context) ([]leave.Leave, error)
	findAllByUserFn       func(ctx context.Context, userID string) ([]leave.Leave, error)
	findByIDFn            func(ctx context.Context, id string) (*leave.Leave, error)
	updateFn              func(ctx context.Context, l *leave.Leave) error
	deleteFn              func(ctx context.Context, id string) error
	hasOverlappingLeaveFn func(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context) ([]leave.Leave, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByUser(ctx context.Context, userID string) ([]leave.Leave, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingLeave(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	if f.hasOverlappingLeaveFn != nil {
		return f.hasOverlappingLeaveFn(ctx, userID, start, end, excludeID)
	}
	return false, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	svc := leave.NewService(db, repo)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success counts days inclusive", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			UserID:    userID,
			LeaveType: "ANNUAL",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-03",
			Reason:    "Family trip",
		}

		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, 3, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Create(ctx, userID, false, req)

		assert.NoError(t, err)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success single day", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			UserID:    userID,
			LeaveType: "SICK",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-01",
		}

		resp, err := deps.service.Create(ctx, userID, false, req)

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			UserID:    userID,
			LeaveType: "ANNUAL",
			StartDate: "2026-09-03",
			EndDate:   "2026-09-01",
		}

		_, err := deps.service.Create(ctx, userID, false, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := leave.CreateLeaveRequest{
			UserID:    userID,
			LeaveType: "ANNUAL",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-03",
		}

		deps.repo.hasOverlappingLeaveFn = func(ctx context.Context, uid string, start, end time.Time, excludeID string) (bool, error) {
			assert.Equal(t, userID, uid)
			assert.Empty(t, excludeID)
			return true, nil
		}

		_, err := deps.service.Create(ctx, userID, false, req)

		assert.ErrorIs(t, err, leaveerrors.ErrOverlappingLeave)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative create for another user", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := leave.CreateLeaveRequest{
			UserID:    uuid.New().String(),
			LeaveType: "ANNUAL",
			StartDate: "2026-09-01",
			EndDate:   "2026-09-03",
		}

		_, err := deps.service.Create(ctx, userID, false, req)

		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	id := uuid.New().String()

	t.Run("success records rejection reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{
				ID:        uuid.MustParse(targetID),
				UserID:    uuid.New(),
				LeaveType: "ANNUAL",
				StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
				TotalDays: 3,
				Status:    leave.StatusPending,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, leave.StatusRejected, l.Status)
			assert.NotNil(t, l.RejectionReason)
			assert.Equal(t, "Short staffed that week", *l.RejectionReason)
			assert.NotNil(t, l.DecidedBy)
			assert.Equal(t, adminID, l.DecidedBy.String())
			return nil
		}

		resp, err := deps.service.Reject(ctx, adminID, id, "Short staffed that week")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.NotNil(t, resp.RejectionReason)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative rejecting an approved request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{ID: uuid.MustParse(targetID), Status: leave.StatusApproved}, nil
		}

		_, err := deps.service.Reject(ctx, adminID, id, "too late")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Approve(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	id := uuid.New().String()

	t.Run("success from pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{
				ID:        uuid.MustParse(targetID),
				UserID:    uuid.New(),
				StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				TotalDays: 1,
				Status:    leave.StatusPending,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.Nil(t, l.RejectionReason)
			// request payload stays untouched
			assert.Equal(t, 1, l.TotalDays)
			return nil
		}

		resp, err := deps.service.Approve(ctx, adminID, id)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New().String()
	id := uuid.New().String()

	t.Run("success recomputes total days on new range", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		endDate := "2026-09-05"
		req := leave.UpdateLeaveRequest{EndDate: &endDate}

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{
				ID:        uuid.MustParse(targetID),
				UserID:    uuid.MustParse(ownerID),
				StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
				TotalDays: 3,
				Status:    leave.StatusPending,
			}, nil
		}
		deps.repo.hasOverlappingLeaveFn = func(ctx context.Context, uid string, start, end time.Time, excludeID string) (bool, error) {
			assert.Equal(t, id, excludeID)
			return false, nil
		}

		resp, err := deps.service.Update(ctx, ownerID, false, id, req)

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative decided request is immutable", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		reason := "updated reason"
		req := leave.UpdateLeaveRequest{Reason: &reason}

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*leave.Leave, error) {
			return &leave.Leave{
				ID:     uuid.MustParse(targetID),
				UserID: uuid.MustParse(ownerID),
				Status: leave.StatusRejected,
			}, nil
		}

		_, err := deps.service.Update(ctx, ownerID, false, id, req)

		assert.ErrorIs(t, err, leaveerrors.ErrDecidedImmutable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("success employee scope", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllByUserFn = func(ctx context.Context, uid string) ([]leave.Leave, error) {
			assert.Equal(t, actorID, uid)
			return []leave.Leave{
				{
					ID:        uuid.New(),
					UserID:    uuid.MustParse(actorID),
					LeaveType: "SICK",
					StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
					TotalDays: 2,
					Status:    leave.StatusPending,
				},
			}, nil
		}

		resp, err := deps.service.GetAll(ctx, actorID, false)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "SICK", resp[0].LeaveType)
	})

	t.Run("negative repo error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.repo.findAllFn = func(ctx context.Context) ([]leave.Leave, error) {
			return nil, errors.New("db error")
		}

		resp, err := deps.service.GetAll(ctx, actorID, true)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

package overtime_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"paytrack/internal/overtime"
	overtimeerrors "paytrack/internal/overtime/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeOvertimeRepository struct {
	withTxFn        func(tx *sql.Tx) overtime.Repository
	createFn        func(ctx context.Context, o *overtime.Overtime) error
	findAllFn       func(ctx context.Context) ([]overtime.Overtime, error)
	findAllByUserFn func(ctx context.Context, userID string) ([]overtime.Overtime, error)
	findByIDFn      func(ctx context.Context, id string) (*overtime.Overtime, error)
	updateFn        func(ctx context.Context, o *overtime.Overtime) error
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeOvertimeRepository) WithTx(tx *sql.Tx) overtime.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOvertimeRepository) Create(ctx context.Context, o *overtime.Overtime) error {
	if f.createFn != nil {
		return f.createFn(ctx, o)
	}
	return nil
}

func (f *fakeOvertimeRepository) FindAll(ctx context.Context) ([]overtime.Overtime, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeOvertimeRepository) FindAllByUser(ctx context.Context, userID string) ([]overtime.Overtime, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeOvertimeRepository) FindByID(ctx context.Context, id string) (*overtime.Overtime, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeOvertimeRepository) Update(ctx context.Context, o *overtime.Overtime) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, o)
	}
	return nil
}

func (f *fakeOvertimeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type overtimeServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service overtime.Service
	repo    *fakeOvertimeRepository
}

func setupOvertimeServiceTest(t *testing.T) *overtimeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeOvertimeRepository{}
	svc := overtime.NewService(db, repo)

	return &overtimeServiceDeps{
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

func TestOvertimeService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success starts pending", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := overtime.CreateOvertimeRequest{
			UserID: userID,
			Date:   "2026-08-20",
			Hours:  2.5,
			Reason: "Release night",
		}

		deps.repo.createFn = func(ctx context.Context, o *overtime.Overtime) error {
			assert.Equal(t, overtime.StatusPending, o.Status)
			assert.Equal(t, 2.5, o.Hours)
			assert.Nil(t, o.DecidedBy)
			return nil
		}

		resp, err := deps.service.Create(ctx, userID, false, req)

		assert.NoError(t, err)
		assert.Equal(t, overtime.StatusPending, resp.Status)
		assert.Equal(t, "2026-08-20", resp.Date)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative create for another user", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		req := overtime.CreateOvertimeRequest{
			UserID: uuid.New().String(),
			Date:   "2026-08-20",
			Hours:  2,
		}

		_, err := deps.service.Create(ctx, userID, false, req)

		assert.ErrorIs(t, err, overtimeerrors.ErrNotOwner)
	})

	t.Run("negative invalid date", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		req := overtime.CreateOvertimeRequest{
			UserID: userID,
			Date:   "20/08/2026",
			Hours:  2,
		}

		_, err := deps.service.Create(ctx, userID, false, req)

		assert.ErrorIs(t, err, overtimeerrors.ErrInvalidDateFormat)
	})
}

func TestOvertimeService_Approve(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New().String()
	id := uuid.New().String()

	t.Run("success stamps decision fields only", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		ownerID := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*overtime.Overtime, error) {
			return &overtime.Overtime{
				ID:     uuid.MustParse(targetID),
				UserID: ownerID,
				Date:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
				Hours:  2.5,
				Reason: "Release night",
				Status: overtime.StatusPending,
			}, nil
		}
		deps.repo.updateFn = func(ctx context.Context, o *overtime.Overtime) error {
			assert.Equal(t, overtime.StatusApproved, o.Status)
			assert.NotNil(t, o.DecidedBy)
			assert.Equal(t, adminID, o.DecidedBy.String())
			assert.NotNil(t, o.DecidedAt)
			// payload fields stay untouched
			assert.Equal(t, 2.5, o.Hours)
			assert.Equal(t, "Release night", o.Reason)
			return nil
		}

		resp, err := deps.service.Approve(ctx, adminID, id)

		assert.NoError(t, err)
		assert.Equal(t, overtime.StatusApproved, resp.Status)
		assert.Equal(t, 2.5, resp.Hours)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative approving an approved request", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*overtime.Overtime, error) {
			return &overtime.Overtime{ID: uuid.MustParse(targetID), Status: overtime.StatusApproved}, nil
		}

		_, err := deps.service.Approve(ctx, adminID, id)

		assert.ErrorIs(t, err, overtimeerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative rejecting a rejected request", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*overtime.Overtime, error) {
			return &overtime.Overtime{ID: uuid.MustParse(targetID), Status: overtime.StatusRejected}, nil
		}

		_, err := deps.service.Reject(ctx, adminID, id)

		assert.ErrorIs(t, err, overtimeerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestOvertimeService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New().String()
	id := uuid.New().String()

	t.Run("success while pending", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		hours := 4.0
		req := overtime.UpdateOvertimeRequest{Hours: &hours}

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*overtime.Overtime, error) {
			return &overtime.Overtime{
				ID:     uuid.MustParse(targetID),
				UserID: uuid.MustParse(ownerID),
				Date:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
				Hours:  2,
				Status: overtime.StatusPending,
			}, nil
		}

		resp, err := deps.service.Update(ctx, ownerID, false, id, req)

		assert.NoError(t, err)
		assert.Equal(t, 4.0, resp.Hours)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative decided request is immutable", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		hours := 4.0
		req := overtime.UpdateOvertimeRequest{Hours: &hours}

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*overtime.Overtime, error) {
			return &overtime.Overtime{
				ID:     uuid.MustParse(targetID),
				UserID: uuid.MustParse(ownerID),
				Status: overtime.StatusApproved,
			}, nil
		}

		_, err := deps.service.Update(ctx, ownerID, false, id, req)

		assert.ErrorIs(t, err, overtimeerrors.ErrDecidedImmutable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestOvertimeService_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New().String()
	id := uuid.New().String()

	t.Run("negative foreign record without admin", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*overtime.Overtime, error) {
			return &overtime.Overtime{ID: uuid.MustParse(targetID), UserID: uuid.New()}, nil
		}

		_, err := deps.service.GetByID(ctx, ownerID, false, id)

		assert.ErrorIs(t, err, overtimeerrors.ErrNotOwner)
	})

	t.Run("success foreign record as admin", func(t *testing.T) {
		deps := setupOvertimeServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, targetID string) (*overtime.Overtime, error) {
			return &overtime.Overtime{
				ID:     uuid.MustParse(targetID),
				UserID: uuid.New(),
				Status: overtime.StatusPending,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, ownerID, true, id)

		assert.NoError(t, err)
		assert.Equal(t, id, resp.ID)
	})
}

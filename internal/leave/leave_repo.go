package leave

import (
	"context"
	"database/sql"
	"time"

	"paytrack/internal/ownership"
	"paytrack/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context) ([]Leave, error)
	FindAllByUser(ctx context.Context, userID string) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, id string) error
	HasOverlappingLeave(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto tx so its writes commit or roll back
// with the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	txDB, err := connection.BindTx(tx)
	if err != nil {
		return r
	}
	return &repository{db: txDB}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(ownership.Scope(userID)).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Leave{}, "id = ?", id).Error
}

// HasOverlappingLeave reports whether the user already has a non-rejected
// leave whose period intersects [start, end]. Rejected requests do not block
// a new request for the same days.
func (r *repository) HasOverlappingLeave(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&Leave{}).
		Scopes(ownership.Scope(userID)).
		Where("status <> ?", StatusRejected).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

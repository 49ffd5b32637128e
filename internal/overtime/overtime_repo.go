package overtime

import (
	"context"
	"database/sql"

	"paytrack/internal/ownership"
	"paytrack/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=overtime_repo.go -destination=mock/overtime_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, o *Overtime) error
	FindAll(ctx context.Context) ([]Overtime, error)
	FindAllByUser(ctx context.Context, userID string) ([]Overtime, error)
	FindByID(ctx context.Context, id string) (*Overtime, error)
	Update(ctx context.Context, o *Overtime) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, o *Overtime) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Overtime, error) {
	var overtimes []Overtime
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&overtimes).Error
	return overtimes, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Overtime, error) {
	var overtimes []Overtime
	err := r.db.WithContext(ctx).
		Scopes(ownership.Scope(userID)).
		Order("date DESC").
		Find(&overtimes).Error
	return overtimes, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Overtime, error) {
	var o Overtime
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	return &o, err
}

func (r *repository) Update(ctx context.Context, o *Overtime) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Overtime{}, "id = ?", id).Error
}

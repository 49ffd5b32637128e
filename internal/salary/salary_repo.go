package salary

import (
	"context"
	"database/sql"

	"paytrack/internal/ownership"
	"paytrack/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Salary) error
	FindAll(ctx context.Context) ([]Salary, error)
	FindAllByUser(ctx context.Context, userID string) ([]Salary, error)
	FindByID(ctx context.Context, id string) (*Salary, error)
	Update(ctx context.Context, s *Salary) error
	Delete(ctx context.Context, id string) error
	PeriodExists(ctx context.Context, userID string, month, year int, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, s *Salary) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Salary, error) {
	var salaries []Salary
	err := r.db.WithContext(ctx).
		Order("year DESC, month DESC").
		Find(&salaries).Error
	return salaries, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Salary, error) {
	var salaries []Salary
	err := r.db.WithContext(ctx).
		Scopes(ownership.Scope(userID)).
		Order("year DESC, month DESC").
		Find(&salaries).Error
	return salaries, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Salary, error) {
	var s Salary
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) Update(ctx context.Context, s *Salary) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Salary{}, "id = ?", id).Error
}

func (r *repository) PeriodExists(ctx context.Context, userID string, month, year int, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Salary{}).
		Scopes(ownership.Scope(userID)).
		Where("month = ?", month).
		Where("year = ?", year)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

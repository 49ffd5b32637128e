package salary

import (
	"errors"

	salaryerrors "paytrack/internal/salary/errors"
	"paytrack/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryerrors.ErrSalaryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return salaryerrors.ErrPeriodTaken
	}

	return apperror.FromPostgres(err, "salary storage error")
}

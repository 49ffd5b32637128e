package salary

import (
	"time"

	"github.com/google/uuid"
)

type Salary struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_salaries_user_period"`
	BaseSalary  int       `gorm:"type:bigint;not null"`
	OvertimePay int       `gorm:"type:bigint;not null;default:0"`
	Bonus       int       `gorm:"type:bigint;not null;default:0"`
	PaymentDate time.Time `gorm:"type:date;not null"`
	Month       int       `gorm:"type:int;not null;index:idx_salaries_user_period"`
	Year        int       `gorm:"type:int;not null;index:idx_salaries_user_period"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GrossSalary is derived, never stored.
func (s Salary) GrossSalary() int {
	return s.BaseSalary + s.OvertimePay + s.Bonus
}

// NetSalary equals the gross; no deductions are tracked.
func (s Salary) NetSalary() int {
	return s.GrossSalary()
}

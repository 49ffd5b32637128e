package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the auth-side view of the users table. Profile fields live in the
// user module; this struct carries only what login/register needs.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Password     string    `gorm:"type:varchar(255);not null"`
	EmployeeType string    `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	StartDate    time.Time `gorm:"type:date"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

package overtime

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Overtime struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_overtimes_user_date"`

	Date   time.Time `gorm:"type:date;not null;index:idx_overtimes_user_date"`
	Hours  float64   `gorm:"type:numeric(5,2);not null"`
	Reason string    `gorm:"type:text"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

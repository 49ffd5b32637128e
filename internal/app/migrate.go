package app

import (
	"paytrack/internal/auth"
	"paytrack/internal/holiday"
	"paytrack/internal/leave"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"

	"gorm.io/gorm"
)

// The outbox table is queried with raw SQL, so its schema lives here rather
// than on a gorm model.
const outboxEventsDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id VARCHAR(64),
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(100) NOT NULL,
	topic VARCHAR(200) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message VARCHAR(500),
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
	ON outbox_events (status, created_at);
`

// runMigrations brings the schema up to date on startup. auth.User carries
// the full users column set, so it stands in for the user module's narrower
// view of the same table.
func runMigrations(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&auth.User{},
		&salary.Salary{},
		&overtime.Overtime{},
		&leave.Leave{},
		&holiday.Holiday{},
	); err != nil {
		return err
	}
	return gormDB.Exec(outboxEventsDDL).Error
}

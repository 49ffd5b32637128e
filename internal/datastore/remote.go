package datastore

import (
	"context"

	"paytrack/internal/leave"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"
	"paytrack/internal/user"
)

// serviceBackend reads full collections straight from the entity services.
// It fetches as an unrestricted reader, so it must only feed stores whose
// consumers enforce their own access control.
type serviceBackend struct {
	users     user.Service
	salaries  salary.Service
	overtimes overtime.Service
	leaves    leave.Service
}

func NewServiceBackend(
	users user.Service,
	salaries salary.Service,
	overtimes overtime.Service,
	leaves leave.Service,
) Backend {
	return &serviceBackend{
		users:     users,
		salaries:  salaries,
		overtimes: overtimes,
		leaves:    leaves,
	}
}

func (b *serviceBackend) FetchUsers(ctx context.Context) ([]user.UserResponse, error) {
	return b.users.GetAll(ctx)
}

func (b *serviceBackend) FetchSalaries(ctx context.Context) ([]salary.SalaryResponse, error) {
	return b.salaries.GetAll(ctx, "", true)
}

func (b *serviceBackend) FetchOvertimes(ctx context.Context) ([]overtime.OvertimeResponse, error) {
	return b.overtimes.GetAll(ctx, "", true)
}

func (b *serviceBackend) FetchLeaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	return b.leaves.GetAll(ctx, "", true)
}

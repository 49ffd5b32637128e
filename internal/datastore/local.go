package datastore

import (
	"context"

	"paytrack/internal/leave"
	"paytrack/internal/localstore"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"
	"paytrack/internal/user"
)

// localBackend reads collections from the Redis mirror instead of Postgres.
type localBackend struct {
	users     *localstore.Store[user.UserResponse]
	salaries  *localstore.Store[salary.SalaryResponse]
	overtimes *localstore.Store[overtime.OvertimeResponse]
	leaves    *localstore.Store[leave.LeaveResponse]
}

func NewLocalBackend(
	users *localstore.Store[user.UserResponse],
	salaries *localstore.Store[salary.SalaryResponse],
	overtimes *localstore.Store[overtime.OvertimeResponse],
	leaves *localstore.Store[leave.LeaveResponse],
) Backend {
	return &localBackend{
		users:     users,
		salaries:  salaries,
		overtimes: overtimes,
		leaves:    leaves,
	}
}

func (b *localBackend) FetchUsers(ctx context.Context) ([]user.UserResponse, error) {
	return b.users.GetAll(ctx)
}

func (b *localBackend) FetchSalaries(ctx context.Context) ([]salary.SalaryResponse, error) {
	return b.salaries.GetAll(ctx)
}

func (b *localBackend) FetchOvertimes(ctx context.Context) ([]overtime.OvertimeResponse, error) {
	return b.overtimes.GetAll(ctx)
}

func (b *localBackend) FetchLeaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	return b.leaves.GetAll(ctx)
}

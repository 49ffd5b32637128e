package datastore

import (
	"paytrack/internal/leave"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"
	"paytrack/internal/user"
)

// Entity names the collection an action targets.
type Entity string

const (
	EntityUsers     Entity = "users"
	EntitySalaries  Entity = "salaries"
	EntityOvertimes Entity = "overtimes"
	EntityLeaves    Entity = "leaves"
)

// Action is the closed set of state transitions the store understands.
// Anything the application wants to change goes through Dispatch with one of
// these; there is no other way to mutate the state.
type Action interface {
	isAction()
}

// SetLoading flips the loading flag of one collection.
type SetLoading struct {
	Entity  Entity
	Loading bool
}

// SetError records a fetch failure on one collection. Items already held are
// kept as-is so stale data keeps rendering while the error is shown.
type SetError struct {
	Entity  Entity
	Message string
}

// Remove drops one record by id from a collection. Unknown ids are a no-op.
type Remove struct {
	Entity Entity
	ID     string
}

type ReplaceUsers struct{ Items []user.UserResponse }
type ReplaceSalaries struct{ Items []salary.SalaryResponse }
type ReplaceOvertimes struct{ Items []overtime.OvertimeResponse }
type ReplaceLeaves struct{ Items []leave.LeaveResponse }

type UpsertUser struct{ Item user.UserResponse }
type UpsertSalary struct{ Item salary.SalaryResponse }
type UpsertOvertime struct{ Item overtime.OvertimeResponse }
type UpsertLeave struct{ Item leave.LeaveResponse }

func (SetLoading) isAction()       {}
func (SetError) isAction()         {}
func (Remove) isAction()           {}
func (ReplaceUsers) isAction()     {}
func (ReplaceSalaries) isAction()  {}
func (ReplaceOvertimes) isAction() {}
func (ReplaceLeaves) isAction()    {}
func (UpsertUser) isAction()       {}
func (UpsertSalary) isAction()     {}
func (UpsertOvertime) isAction()   {}
func (UpsertLeave) isAction()      {}

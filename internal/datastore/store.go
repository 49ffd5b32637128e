// Package datastore holds an in-memory read model of the four entity
// collections. All mutation goes through Dispatch with a closed action set;
// Refresh replaces collections wholesale from a Backend. Updates are
// last-write-wins with no conflict resolution.
package datastore

import (
	"context"
	"sync"

	"paytrack/internal/leave"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"
	"paytrack/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Collection pairs a slice of response DTOs with its fetch status. Err holds
// the last fetch failure; a failed refresh never clears Items.
type Collection[T any] struct {
	Items   []T
	Loading bool
	Err     string
}

// State is one immutable snapshot of everything the store holds.
type State struct {
	Users     Collection[user.UserResponse]
	Salaries  Collection[salary.SalaryResponse]
	Overtimes Collection[overtime.OvertimeResponse]
	Leaves    Collection[leave.LeaveResponse]
}

// Backend supplies full collection contents for Refresh. The remote backend
// reads through the entity services; the local backend reads the Redis
// mirror.
type Backend interface {
	FetchUsers(ctx context.Context) ([]user.UserResponse, error)
	FetchSalaries(ctx context.Context) ([]salary.SalaryResponse, error)
	FetchOvertimes(ctx context.Context) ([]overtime.OvertimeResponse, error)
	FetchLeaves(ctx context.Context) ([]leave.LeaveResponse, error)
}

type Store struct {
	mu      sync.RWMutex
	state   State
	backend Backend
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewStore(backend Backend, logger ...*zap.Logger) *Store {
	l := zap.L().Named("datastore")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("datastore")
	}
	return &Store{
		backend: backend,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

// Dispatch applies one action to the state under the write lock.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, action)
}

// Snapshot returns a deep copy of the current state. Callers can hold and
// iterate it without racing later dispatches.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Users.Items = append([]user.UserResponse(nil), s.state.Users.Items...)
	out.Salaries.Items = append([]salary.SalaryResponse(nil), s.state.Salaries.Items...)
	out.Overtimes.Items = append([]overtime.OvertimeResponse(nil), s.state.Overtimes.Items...)
	out.Leaves.Items = append([]leave.LeaveResponse(nil), s.state.Leaves.Items...)
	return out
}

// Refresh reloads all four collections from the backend. Concurrent callers
// share one in-flight refresh through singleflight. Each collection is
// fetched independently: a failure marks that collection's Err and keeps its
// previous items, the others still replace.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, _ := s.sf.Do("refresh", func() (interface{}, error) {
		var firstErr error

		s.Dispatch(SetLoading{Entity: EntityUsers, Loading: true})
		if users, err := s.backend.FetchUsers(ctx); err != nil {
			s.logger.Warn("refresh users failed", zap.Error(err))
			s.Dispatch(SetError{Entity: EntityUsers, Message: err.Error()})
			firstErr = err
		} else {
			s.Dispatch(ReplaceUsers{Items: users})
		}
		s.Dispatch(SetLoading{Entity: EntityUsers, Loading: false})

		s.Dispatch(SetLoading{Entity: EntitySalaries, Loading: true})
		if salaries, err := s.backend.FetchSalaries(ctx); err != nil {
			s.logger.Warn("refresh salaries failed", zap.Error(err))
			s.Dispatch(SetError{Entity: EntitySalaries, Message: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
		} else {
			s.Dispatch(ReplaceSalaries{Items: salaries})
		}
		s.Dispatch(SetLoading{Entity: EntitySalaries, Loading: false})

		s.Dispatch(SetLoading{Entity: EntityOvertimes, Loading: true})
		if overtimes, err := s.backend.FetchOvertimes(ctx); err != nil {
			s.logger.Warn("refresh overtimes failed", zap.Error(err))
			s.Dispatch(SetError{Entity: EntityOvertimes, Message: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
		} else {
			s.Dispatch(ReplaceOvertimes{Items: overtimes})
		}
		s.Dispatch(SetLoading{Entity: EntityOvertimes, Loading: false})

		s.Dispatch(SetLoading{Entity: EntityLeaves, Loading: true})
		if leaves, err := s.backend.FetchLeaves(ctx); err != nil {
			s.logger.Warn("refresh leaves failed", zap.Error(err))
			s.Dispatch(SetError{Entity: EntityLeaves, Message: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
		} else {
			s.Dispatch(ReplaceLeaves{Items: leaves})
		}
		s.Dispatch(SetLoading{Entity: EntityLeaves, Loading: false})

		return nil, firstErr
	})
	return err
}

func reduce(state State, action Action) State {
	switch a := action.(type) {
	case SetLoading:
		switch a.Entity {
		case EntityUsers:
			state.Users.Loading = a.Loading
		case EntitySalaries:
			state.Salaries.Loading = a.Loading
		case EntityOvertimes:
			state.Overtimes.Loading = a.Loading
		case EntityLeaves:
			state.Leaves.Loading = a.Loading
		}

	case SetError:
		switch a.Entity {
		case EntityUsers:
			state.Users.Err = a.Message
		case EntitySalaries:
			state.Salaries.Err = a.Message
		case EntityOvertimes:
			state.Overtimes.Err = a.Message
		case EntityLeaves:
			state.Leaves.Err = a.Message
		}

	case ReplaceUsers:
		state.Users.Items = a.Items
		state.Users.Err = ""
	case ReplaceSalaries:
		state.Salaries.Items = a.Items
		state.Salaries.Err = ""
	case ReplaceOvertimes:
		state.Overtimes.Items = a.Items
		state.Overtimes.Err = ""
	case ReplaceLeaves:
		state.Leaves.Items = a.Items
		state.Leaves.Err = ""

	case UpsertUser:
		state.Users.Items = upsert(state.Users.Items, a.Item, func(v user.UserResponse) string { return v.ID })
	case UpsertSalary:
		state.Salaries.Items = upsert(state.Salaries.Items, a.Item, func(v salary.SalaryResponse) string { return v.ID })
	case UpsertOvertime:
		state.Overtimes.Items = upsert(state.Overtimes.Items, a.Item, func(v overtime.OvertimeResponse) string { return v.ID })
	case UpsertLeave:
		state.Leaves.Items = upsert(state.Leaves.Items, a.Item, func(v leave.LeaveResponse) string { return v.ID })

	case Remove:
		switch a.Entity {
		case EntityUsers:
			state.Users.Items = remove(state.Users.Items, a.ID, func(v user.UserResponse) string { return v.ID })
		case EntitySalaries:
			state.Salaries.Items = remove(state.Salaries.Items, a.ID, func(v salary.SalaryResponse) string { return v.ID })
		case EntityOvertimes:
			state.Overtimes.Items = remove(state.Overtimes.Items, a.ID, func(v overtime.OvertimeResponse) string { return v.ID })
		case EntityLeaves:
			state.Leaves.Items = remove(state.Leaves.Items, a.ID, func(v leave.LeaveResponse) string { return v.ID })
		}
	}

	return state
}

// upsert replaces the record with the same id, or appends. Copy-on-write so
// snapshots taken before the dispatch stay intact.
func upsert[T any](items []T, item T, id func(T) string) []T {
	out := append([]T(nil), items...)
	for i := range out {
		if id(out[i]) == id(item) {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

func remove[T any](items []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		if id(v) == target {
			continue
		}
		out = append(out, v)
	}
	return out
}

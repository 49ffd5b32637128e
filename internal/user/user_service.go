package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"paytrack/internal/events"
	"paytrack/internal/messaging/kafka"
	"paytrack/internal/shared/contextutil"
	usererrors "paytrack/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all users failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create user requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidStartDate
	}

	exists, err := qtx.EmailExists(ctx, req.Email, nil)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	if exists {
		return UserResponse{}, usererrors.ErrEmailTaken
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		EmployeeType: req.EmployeeType,
		StartDate:    startDate,
		IsActive:     true,
	}

	if err := qtx.Create(ctx, u); err != nil {
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeCreated, *u); err != nil {
		s.logger.Error("create user outbox persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create user commit failed", zap.Error(err))
		return UserResponse{}, err
	}
	s.logger.Info("create user success", zap.String("user_id", u.ID.String()))

	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update user requested",
		zap.String("request_id", rid),
		zap.String("user_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.EmployeeType != nil {
		u.EmployeeType = *req.EmployeeType
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return UserResponse{}, usererrors.ErrInvalidStartDate
		}
		u.StartDate = startDate
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeUpdated, *u); err != nil {
		s.logger.Error("update user outbox persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update user commit failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}
	s.logger.Info("update user success", zap.String("user_id", id))

	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeDeleted, *u); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) enqueueChange(ctx context.Context, tx *sql.Tx, rid, change string, u User) error {
	if s.outbox == nil {
		return nil
	}

	var payload json.RawMessage
	if change != events.ChangeDeleted {
		var err error
		payload, err = json.Marshal(mapToResponse(u))
		if err != nil {
			return err
		}
	}

	return events.Enqueue(ctx, s.outbox.WithTx(tx), events.EntityChangedEvent{
		EventType:  "user_" + change,
		RequestID:  rid,
		Entity:     "user",
		EntityID:   u.ID.String(),
		UserID:     u.ID.String(),
		Change:     change,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		EmployeeType: u.EmployeeType,
		StartDate:    u.StartDate.Format("2006-01-02"),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    u.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}

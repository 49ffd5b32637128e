package salary

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"paytrack/internal/events"
	"paytrack/internal/messaging/kafka"
	salaryerrors "paytrack/internal/salary/errors"
	"paytrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]SalaryResponse, error)
	GetByUserID(ctx context.Context, actorID string, canReadAll bool, userID string) ([]SalaryResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (SalaryResponse, error)
	Create(ctx context.Context, actorID string, canManageAll bool, req CreateSalaryRequest) (SalaryResponse, error)
	Update(ctx context.Context, actorID string, canManageAll bool, id string, req UpdateSalaryRequest) (SalaryResponse, error)
	Delete(ctx context.Context, actorID string, canManageAll bool, id string) error
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
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]SalaryResponse, error) {
	var (
		salaries []Salary
		err      error
	)
	if canReadAll {
		salaries, err = s.repo.FindAll(ctx)
	} else {
		salaries, err = s.repo.FindAllByUser(ctx, actorID)
	}
	if err != nil {
		s.logger.Error("get all salaries failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(salaries), nil
}

func (s *service) GetByUserID(ctx context.Context, actorID string, canReadAll bool, userID string) ([]SalaryResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, salaryerrors.ErrInvalidUserID
	}
	if !canReadAll && userID != actorID {
		return nil, salaryerrors.ErrNotOwner
	}

	salaries, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(salaries), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (SalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	sal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if !canReadAll && sal.UserID.String() != actorID {
		return SalaryResponse{}, salaryerrors.ErrNotOwner
	}
	return mapToResponse(*sal), nil
}

func (s *service) Create(ctx context.Context, actorID string, canManageAll bool, req CreateSalaryRequest) (SalaryResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create salary requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("user_id", req.UserID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidUserID
	}
	if !canManageAll && req.UserID != actorID {
		return SalaryResponse{}, salaryerrors.ErrNotOwner
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidPaymentDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	taken, err := qtx.PeriodExists(ctx, req.UserID, req.Month, req.Year, nil)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if taken {
		return SalaryResponse{}, salaryerrors.ErrPeriodTaken
	}

	sal := &Salary{
		ID:          uuid.New(),
		UserID:      userID,
		BaseSalary:  req.BaseSalary,
		OvertimePay: req.OvertimePay,
		Bonus:       req.Bonus,
		PaymentDate: paymentDate,
		Month:       req.Month,
		Year:        req.Year,
	}

	if err := qtx.Create(ctx, sal); err != nil {
		s.logger.Error("create salary persist failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeCreated, *sal); err != nil {
		s.logger.Error("create salary outbox persist failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	s.logger.Info("create salary success",
		zap.String("request_id", rid),
		zap.String("salary_id", sal.ID.String()),
		zap.String("user_id", req.UserID),
	)

	return mapToResponse(*sal), nil
}

func (s *service) Update(ctx context.Context, actorID string, canManageAll bool, id string, req UpdateSalaryRequest) (SalaryResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update salary requested",
		zap.String("request_id", rid),
		zap.String("salary_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sal, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if !canManageAll && sal.UserID.String() != actorID {
		return SalaryResponse{}, salaryerrors.ErrNotOwner
	}

	if req.BaseSalary != nil {
		sal.BaseSalary = *req.BaseSalary
	}
	if req.OvertimePay != nil {
		sal.OvertimePay = *req.OvertimePay
	}
	if req.Bonus != nil {
		sal.Bonus = *req.Bonus
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			return SalaryResponse{}, salaryerrors.ErrInvalidPaymentDate
		}
		sal.PaymentDate = paymentDate
	}
	if req.Month != nil {
		sal.Month = *req.Month
	}
	if req.Year != nil {
		sal.Year = *req.Year
	}

	if req.Month != nil || req.Year != nil {
		taken, err := qtx.PeriodExists(ctx, sal.UserID.String(), sal.Month, sal.Year, &id)
		if err != nil {
			return SalaryResponse{}, mapRepositoryError(err)
		}
		if taken {
			return SalaryResponse{}, salaryerrors.ErrPeriodTaken
		}
	}

	if err := qtx.Update(ctx, sal); err != nil {
		s.logger.Error("update salary persist failed", zap.String("salary_id", id), zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeUpdated, *sal); err != nil {
		s.logger.Error("update salary outbox persist failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update salary commit failed", zap.String("salary_id", id), zap.Error(err))
		return SalaryResponse{}, err
	}
	s.logger.Info("update salary success", zap.String("salary_id", id))

	return mapToResponse(*sal), nil
}

func (s *service) Delete(ctx context.Context, actorID string, canManageAll bool, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return salaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sal, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !canManageAll && sal.UserID.String() != actorID {
		return salaryerrors.ErrNotOwner
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeDeleted, *sal); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) enqueueChange(ctx context.Context, tx *sql.Tx, rid, change string, sal Salary) error {
	if s.outbox == nil {
		return nil
	}

	resp := mapToResponse(sal)
	payload, err := marshalPayload(resp, change)
	if err != nil {
		return err
	}

	return events.Enqueue(ctx, s.outbox.WithTx(tx), events.EntityChangedEvent{
		EventType:  "salary_" + change,
		RequestID:  rid,
		Entity:     "salary",
		EntityID:   sal.ID.String(),
		UserID:     sal.UserID.String(),
		Change:     change,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

// Deletes carry no snapshot; consumers only need the id.
func marshalPayload(resp SalaryResponse, change string) (json.RawMessage, error) {
	if change == events.ChangeDeleted {
		return nil, nil
	}
	return json.Marshal(resp)
}

func mapToResponse(s Salary) SalaryResponse {
	return SalaryResponse{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		BaseSalary:  s.BaseSalary,
		OvertimePay: s.OvertimePay,
		Bonus:       s.Bonus,
		GrossSalary: s.GrossSalary(),
		NetSalary:   s.NetSalary(),
		PaymentDate: s.PaymentDate.Format("2006-01-02"),
		Month:       s.Month,
		Year:        s.Year,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(salaries []Salary) []SalaryResponse {
	resp := make([]SalaryResponse, len(salaries))
	for i, s := range salaries {
		resp[i] = mapToResponse(s)
	}
	return resp
}

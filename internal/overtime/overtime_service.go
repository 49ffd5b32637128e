package overtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"paytrack/internal/events"
	"paytrack/internal/messaging/kafka"
	overtimeerrors "paytrack/internal/overtime/errors"
	"paytrack/internal/shared/apperror"
	"paytrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

//go:generate mockgen -source=overtime_service.go -destination=mock/overtime_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]OvertimeResponse, error)
	GetByUserID(ctx context.Context, actorID string, canReadAll bool, userID string) ([]OvertimeResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OvertimeResponse, error)
	Create(ctx context.Context, actorID string, canManageAll bool, req CreateOvertimeRequest) (OvertimeResponse, error)
	Update(ctx context.Context, actorID string, canManageAll bool, id string, req UpdateOvertimeRequest) (OvertimeResponse, error)
	Approve(ctx context.Context, actorID, id string) (OvertimeResponse, error)
	Reject(ctx context.Context, actorID, id string) (OvertimeResponse, error)
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
	l := zap.L().Named("overtime.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

// Requests move forward only; a decided request stays decided.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus != StatusPending {
		return false
	}
	return targetStatus == StatusApproved || targetStatus == StatusRejected
}

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]OvertimeResponse, error) {
	var (
		overtimes []Overtime
		err       error
	)
	if canReadAll {
		overtimes, err = s.repo.FindAll(ctx)
	} else {
		overtimes, err = s.repo.FindAllByUser(ctx, actorID)
	}
	if err != nil {
		s.logger.Error("get all overtimes failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(overtimes), nil
}

func (s *service) GetByUserID(ctx context.Context, actorID string, canReadAll bool, userID string) ([]OvertimeResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, overtimeerrors.ErrInvalidUserID
	}
	if !canReadAll && userID != actorID {
		return nil, overtimeerrors.ErrNotOwner
	}

	overtimes, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(overtimes), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (OvertimeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidOvertimeID
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return OvertimeResponse{}, mapRepositoryError(err)
	}
	if !canReadAll && o.UserID.String() != actorID {
		return OvertimeResponse{}, overtimeerrors.ErrNotOwner
	}
	return mapToResponse(*o), nil
}

func (s *service) Create(ctx context.Context, actorID string, canManageAll bool, req CreateOvertimeRequest) (OvertimeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create overtime requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("user_id", req.UserID),
		zap.Float64("hours", req.Hours),
	)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidUserID
	}
	if !canManageAll && req.UserID != actorID {
		return OvertimeResponse{}, overtimeerrors.ErrNotOwner
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return OvertimeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create overtime begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	o := &Overtime{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,
		Hours:  req.Hours,
		Reason: req.Reason,
		Status: StatusPending,
	}

	if err := qtx.Create(ctx, o); err != nil {
		s.logger.Error("create overtime persist failed", zap.Error(err))
		return OvertimeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeCreated, *o); err != nil {
		s.logger.Error("create overtime outbox persist failed", zap.Error(err))
		return OvertimeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create overtime commit failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	s.logger.Info("create overtime success",
		zap.String("request_id", rid),
		zap.String("overtime_id", o.ID.String()),
		zap.String("user_id", req.UserID),
	)

	return mapToResponse(*o), nil
}

func (s *service) Update(ctx context.Context, actorID string, canManageAll bool, id string, req UpdateOvertimeRequest) (OvertimeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update overtime requested",
		zap.String("request_id", rid),
		zap.String("overtime_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidOvertimeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update overtime begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	o, err := qtx.FindByID(ctx, id)
	if err != nil {
		return OvertimeResponse{}, mapRepositoryError(err)
	}
	if !canManageAll && o.UserID.String() != actorID {
		return OvertimeResponse{}, overtimeerrors.ErrNotOwner
	}
	if o.Status != StatusPending {
		return OvertimeResponse{}, overtimeerrors.ErrDecidedImmutable
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return OvertimeResponse{}, err
		}
		o.Date = date
	}
	if req.Hours != nil {
		o.Hours = *req.Hours
	}
	if req.Reason != nil {
		o.Reason = *req.Reason
	}

	if err := qtx.Update(ctx, o); err != nil {
		s.logger.Error("update overtime persist failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeUpdated, *o); err != nil {
		s.logger.Error("update overtime outbox persist failed", zap.Error(err))
		return OvertimeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update overtime commit failed", zap.String("overtime_id", id), zap.Error(err))
		return OvertimeResponse{}, err
	}
	s.logger.Info("update overtime success", zap.String("overtime_id", id))

	return mapToResponse(*o), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (OvertimeResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, actorID, id string) (OvertimeResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusRejected)
}

func (s *service) transitionStatus(ctx context.Context, actorID, id, targetStatus string) (OvertimeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transition overtime status requested",
		zap.String("request_id", rid),
		zap.String("overtime_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidOvertimeID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return OvertimeResponse{}, overtimeerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition overtime status begin tx failed", zap.Error(err))
		return OvertimeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	o, err := qtx.FindByID(ctx, id)
	if err != nil {
		return OvertimeResponse{}, mapRepositoryError(err)
	}
	if !isAllowedStatusTransition(o.Status, targetStatus) {
		s.logger.Warn("transition overtime status invalid",
			zap.String("overtime_id", id),
			zap.String("from_status", o.Status),
			zap.String("to_status", targetStatus),
		)
		return OvertimeResponse{}, overtimeerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	o.Status = targetStatus
	o.DecidedBy = &actorUUID
	o.DecidedAt = &now

	if err := qtx.Update(ctx, o); err != nil {
		s.logger.Error("transition overtime status persist failed",
			zap.String("overtime_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return OvertimeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeUpdated, *o); err != nil {
		s.logger.Error("transition overtime status outbox persist failed", zap.Error(err))
		return OvertimeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition overtime status commit failed",
			zap.String("overtime_id", id),
			zap.Error(err),
		)
		return OvertimeResponse{}, err
	}
	s.logger.Info("transition overtime status success",
		zap.String("overtime_id", id),
		zap.String("status", targetStatus),
	)

	return mapToResponse(*o), nil
}

func (s *service) Delete(ctx context.Context, actorID string, canManageAll bool, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return overtimeerrors.ErrInvalidOvertimeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	o, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !canManageAll && o.UserID.String() != actorID {
		return overtimeerrors.ErrNotOwner
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeDeleted, *o); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) enqueueChange(ctx context.Context, tx *sql.Tx, rid, change string, o Overtime) error {
	if s.outbox == nil {
		return nil
	}

	var payload json.RawMessage
	if change != events.ChangeDeleted {
		var err error
		payload, err = json.Marshal(mapToResponse(o))
		if err != nil {
			return err
		}
	}

	return events.Enqueue(ctx, s.outbox.WithTx(tx), events.EntityChangedEvent{
		EventType:  "overtime_" + change,
		RequestID:  rid,
		Entity:     "overtime",
		EntityID:   o.ID.String(),
		UserID:     o.UserID.String(),
		Change:     change,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, overtimeerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return overtimeerrors.ErrOvertimeNotFound
	}
	return apperror.FromPostgres(err, "overtime storage error")
}

func mapToResponse(o Overtime) OvertimeResponse {
	resp := OvertimeResponse{
		ID:        o.ID.String(),
		UserID:    o.UserID.String(),
		Date:      o.Date.Format("2006-01-02"),
		Hours:     o.Hours,
		Reason:    o.Reason,
		Status:    o.Status,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
	if o.DecidedBy != nil {
		v := o.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if o.DecidedAt != nil {
		v := o.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(overtimes []Overtime) []OvertimeResponse {
	resp := make([]OvertimeResponse, len(overtimes))
	for i, o := range overtimes {
		resp[i] = mapToResponse(o)
	}
	return resp
}

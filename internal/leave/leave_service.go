package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"paytrack/internal/events"
	leaveerrors "paytrack/internal/leave/errors"
	"paytrack/internal/messaging/kafka"
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

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, actorID string, canReadAll bool) ([]LeaveResponse, error)
	GetByUserID(ctx context.Context, actorID string, canReadAll bool, userID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveResponse, error)
	Create(ctx context.Context, actorID string, canManageAll bool, req CreateLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, actorID string, canManageAll bool, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, reason string) (LeaveResponse, error)
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
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
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

func (s *service) GetAll(ctx context.Context, actorID string, canReadAll bool) ([]LeaveResponse, error) {
	var (
		leaves []Leave
		err    error
	)
	if canReadAll {
		leaves, err = s.repo.FindAll(ctx)
	} else {
		leaves, err = s.repo.FindAllByUser(ctx, actorID)
	}
	if err != nil {
		s.logger.Error("get all leaves failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByUserID(ctx context.Context, actorID string, canReadAll bool, userID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, leaveerrors.ErrInvalidUserID
	}
	if !canReadAll && userID != actorID {
		return nil, leaveerrors.ErrNotOwner
	}

	leaves, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actorID string, canReadAll bool, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !canReadAll && l.UserID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	return mapToResponse(*l), nil
}

func (s *service) Create(ctx context.Context, actorID string, canManageAll bool, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actorID),
		zap.String("user_id", req.UserID),
		zap.String("leave_type", req.LeaveType),
	)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}
	if !canManageAll && req.UserID != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}

	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlapping, err := qtx.HasOverlappingLeave(ctx, req.UserID, start, end, "")
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if overlapping {
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	l := &Leave{
		ID:        uuid.New(),
		UserID:    userID,
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		TotalDays: totalDays(start, end),
		Reason:    req.Reason,
		Status:    StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeCreated, *l); err != nil {
		s.logger.Error("create leave outbox persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", req.UserID),
	)

	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, actorID string, canManageAll bool, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !canManageAll && l.UserID.String() != actorID {
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrDecidedImmutable
	}

	if req.LeaveType != nil {
		l.LeaveType = *req.LeaveType
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return LeaveResponse{}, err
		}
		l.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return LeaveResponse{}, err
		}
		l.EndDate = end
	}
	if l.EndDate.Before(l.StartDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	l.TotalDays = totalDays(l.StartDate, l.EndDate)
	if req.Reason != nil {
		l.Reason = *req.Reason
	}

	if req.StartDate != nil || req.EndDate != nil {
		overlapping, err := qtx.HasOverlappingLeave(ctx, l.UserID.String(), l.StartDate, l.EndDate, id)
		if err != nil {
			return LeaveResponse{}, mapRepositoryError(err)
		}
		if overlapping {
			return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
		}
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeUpdated, *l); err != nil {
		s.logger.Error("update leave outbox persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, actorID, id, reason string) (LeaveResponse, error) {
	return s.transitionStatus(ctx, actorID, id, StatusRejected, reason)
}

func (s *service) transitionStatus(ctx context.Context, actorID, id, targetStatus, rejectionReason string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("transition leave status requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !isAllowedStatusTransition(l.Status, targetStatus) {
		s.logger.Warn("transition leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	l.Status = targetStatus
	l.DecidedBy = &actorUUID
	l.DecidedAt = &now
	if targetStatus == StatusRejected {
		l.RejectionReason = &rejectionReason
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeUpdated, *l); err != nil {
		s.logger.Error("transition leave status outbox persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("transition leave status success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)

	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actorID string, canManageAll bool, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !canManageAll && l.UserID.String() != actorID {
		return leaveerrors.ErrNotOwner
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeDeleted, *l); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) enqueueChange(ctx context.Context, tx *sql.Tx, rid, change string, l Leave) error {
	if s.outbox == nil {
		return nil
	}

	var payload json.RawMessage
	if change != events.ChangeDeleted {
		var err error
		payload, err = json.Marshal(mapToResponse(l))
		if err != nil {
			return err
		}
	}

	return events.Enqueue(ctx, s.outbox.WithTx(tx), events.EntityChangedEvent{
		EventType:  "leave_" + change,
		RequestID:  rid,
		Entity:     "leave",
		EntityID:   l.ID.String(),
		UserID:     l.UserID.String(),
		Change:     change,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parsePeriod(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := parseDate(startValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return start, end, nil
}

// totalDays counts calendar days in the period, both ends inclusive.
func totalDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return apperror.FromPostgres(err, "leave storage error")
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		UserID:          l.UserID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}

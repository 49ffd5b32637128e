package holiday

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paytrack/internal/events"
	holidayerrors "paytrack/internal/holiday/errors"
	"paytrack/internal/messaging/kafka"
	"paytrack/internal/shared/apperror"
	"paytrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const HolidayCacheKeyPrefix = "holidays:year:"

func GetHolidayCacheKey(year int) string {
	return fmt.Sprintf("%s%d", HolidayCacheKeyPrefix, year)
}

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]HolidayResponse, error)
	GetByYear(ctx context.Context, year int) ([]HolidayResponse, error)
	GetByID(ctx context.Context, id string) (HolidayResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all holidays failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(holidays), nil
}

// GetByYear serves the holiday calendar, read-heavy data that changes maybe
// a few times a year. Cache in Redis, collapse concurrent misses with
// singleflight.
func (s *service) GetByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	if year < 1900 || year > 2200 {
		return nil, holidayerrors.ErrInvalidYear
	}
	cacheKey := GetHolidayCacheKey(year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []HolidayResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		holidays, err := s.repo.FindByYear(ctx, year)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(holidays)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]HolidayResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (HolidayResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}

	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*h), nil
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create holiday requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
		zap.String("date", req.Date),
	)

	date, err := parseDate(req.Date)
	if err != nil {
		return HolidayResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create holiday begin tx failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	h := &Holiday{
		ID:   uuid.New(),
		Name: req.Name,
		Date: date,
	}

	if err := qtx.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeCreated, *h); err != nil {
		s.logger.Error("create holiday outbox persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create holiday commit failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.invalidateYear(ctx, date.Year())
	s.logger.Info("create holiday success",
		zap.String("request_id", rid),
		zap.String("holiday_id", h.ID.String()),
	)

	return mapToResponse(*h), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidHolidayID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update holiday begin tx failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	h, err := qtx.FindByID(ctx, id)
	if err != nil {
		return HolidayResponse{}, mapRepositoryError(err)
	}

	previousYear := h.Date.Year()
	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return HolidayResponse{}, err
		}
		h.Date = date
	}

	if err := qtx.Update(ctx, h); err != nil {
		s.logger.Error("update holiday persist failed", zap.String("holiday_id", id), zap.Error(err))
		return HolidayResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeUpdated, *h); err != nil {
		s.logger.Error("update holiday outbox persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update holiday commit failed", zap.String("holiday_id", id), zap.Error(err))
		return HolidayResponse{}, err
	}

	s.invalidateYear(ctx, previousYear)
	if h.Date.Year() != previousYear {
		s.invalidateYear(ctx, h.Date.Year())
	}
	s.logger.Info("update holiday success", zap.String("holiday_id", id))

	return mapToResponse(*h), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return holidayerrors.ErrInvalidHolidayID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	h, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.enqueueChange(ctx, tx, rid, events.ChangeDeleted, *h); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateYear(ctx, h.Date.Year())
	return nil
}

func (s *service) invalidateYear(ctx context.Context, year int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, GetHolidayCacheKey(year)).Err(); err != nil {
		s.logger.Warn("invalidate holiday cache failed", zap.Int("year", year), zap.Error(err))
	}
}

func (s *service) enqueueChange(ctx context.Context, tx *sql.Tx, rid, change string, h Holiday) error {
	if s.outbox == nil {
		return nil
	}

	var payload json.RawMessage
	if change != events.ChangeDeleted {
		var err error
		payload, err = json.Marshal(mapToResponse(h))
		if err != nil {
			return err
		}
	}

	return events.Enqueue(ctx, s.outbox.WithTx(tx), events.EntityChangedEvent{
		EventType:  "holiday_" + change,
		RequestID:  rid,
		Entity:     "holiday",
		EntityID:   h.ID.String(),
		Change:     change,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, holidayerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return holidayerrors.ErrHolidayNotFound
	}
	mapped := apperror.FromPostgres(err, "holiday storage error")
	var appErr *apperror.AppError
	if errors.As(mapped, &appErr) && appErr.Code == apperror.CodeConflict {
		return holidayerrors.ErrDateTaken
	}
	return mapped
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID.String(),
		Name:      h.Name,
		Date:      h.Date.Format("2006-01-02"),
		CreatedAt: h.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(holidays []Holiday) []HolidayResponse {
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp
}

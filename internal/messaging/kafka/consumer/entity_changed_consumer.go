package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"paytrack/internal/datastore"
	"paytrack/internal/events"
	"paytrack/internal/holiday"
	"paytrack/internal/leave"
	"paytrack/internal/localstore"
	"paytrack/internal/overtime"
	"paytrack/internal/salary"
	"paytrack/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Mirror bundles the two read models the consumer keeps in sync: the
// in-memory datastore and the Redis-backed localstore collections.
type Mirror struct {
	Data      *datastore.Store
	Users     *localstore.Store[user.UserResponse]
	Salaries  *localstore.Store[salary.SalaryResponse]
	Overtimes *localstore.Store[overtime.OvertimeResponse]
	Leaves    *localstore.Store[leave.LeaveResponse]
	Holidays  *localstore.Store[holiday.HolidayResponse]
}

// ConsumeEntityChanged replays entity change events onto the mirror.
// Events apply last-write-wins, so reprocessing after a commit failure is
// harmless.
func ConsumeEntityChanged(
	ctx context.Context,
	reader *kafkago.Reader,
	mirror Mirror,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.entity_changed")
	log.Info("entity changed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("entity changed consumer stopped")
				return
			}
			log.Error("fetch entity changed message failed", zap.Error(err))
			continue
		}

		var event events.EntityChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode entity changed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := applyEntityChanged(ctx, mirror, event); err != nil {
			log.Error("apply entity changed event failed",
				zap.String("entity", event.Entity),
				zap.String("entity_id", event.EntityID),
				zap.String("change", event.Change),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit entity changed message failed", zap.Error(err))
			continue
		}

		log.Info("entity change mirrored",
			zap.String("entity", event.Entity),
			zap.String("entity_id", event.EntityID),
			zap.String("change", event.Change),
		)
	}
}

func applyEntityChanged(ctx context.Context, m Mirror, ev events.EntityChangedEvent) error {
	switch ev.Entity {
	case "user":
		if ev.Change == events.ChangeDeleted {
			m.Data.Dispatch(datastore.Remove{Entity: datastore.EntityUsers, ID: ev.EntityID})
			return ignoreMissing(m.Users.Delete(ctx, ev.EntityID))
		}
		var item user.UserResponse
		if err := json.Unmarshal(ev.Payload, &item); err != nil {
			return err
		}
		m.Data.Dispatch(datastore.UpsertUser{Item: item})
		return m.Users.Upsert(ctx, item.ID, item)

	case "salary":
		if ev.Change == events.ChangeDeleted {
			m.Data.Dispatch(datastore.Remove{Entity: datastore.EntitySalaries, ID: ev.EntityID})
			return ignoreMissing(m.Salaries.Delete(ctx, ev.EntityID))
		}
		var item salary.SalaryResponse
		if err := json.Unmarshal(ev.Payload, &item); err != nil {
			return err
		}
		m.Data.Dispatch(datastore.UpsertSalary{Item: item})
		return m.Salaries.Upsert(ctx, item.ID, item)

	case "overtime":
		if ev.Change == events.ChangeDeleted {
			m.Data.Dispatch(datastore.Remove{Entity: datastore.EntityOvertimes, ID: ev.EntityID})
			return ignoreMissing(m.Overtimes.Delete(ctx, ev.EntityID))
		}
		var item overtime.OvertimeResponse
		if err := json.Unmarshal(ev.Payload, &item); err != nil {
			return err
		}
		m.Data.Dispatch(datastore.UpsertOvertime{Item: item})
		return m.Overtimes.Upsert(ctx, item.ID, item)

	case "leave":
		if ev.Change == events.ChangeDeleted {
			m.Data.Dispatch(datastore.Remove{Entity: datastore.EntityLeaves, ID: ev.EntityID})
			return ignoreMissing(m.Leaves.Delete(ctx, ev.EntityID))
		}
		var item leave.LeaveResponse
		if err := json.Unmarshal(ev.Payload, &item); err != nil {
			return err
		}
		m.Data.Dispatch(datastore.UpsertLeave{Item: item})
		return m.Leaves.Upsert(ctx, item.ID, item)

	case "holiday":
		// Holidays only live in the local mirror; the datastore tracks the
		// four user-scoped collections.
		if ev.Change == events.ChangeDeleted {
			return ignoreMissing(m.Holidays.Delete(ctx, ev.EntityID))
		}
		var item holiday.HolidayResponse
		if err := json.Unmarshal(ev.Payload, &item); err != nil {
			return err
		}
		return m.Holidays.Upsert(ctx, item.ID, item)

	default:
		return fmt.Errorf("unknown entity %q", ev.Entity)
	}
}

// A delete replayed after the record is already gone is not an error.
func ignoreMissing(err error) error {
	if errors.Is(err, localstore.ErrRecordNotFound) {
		return nil
	}
	return err
}

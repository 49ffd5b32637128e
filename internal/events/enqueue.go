package events

import (
	"context"
	"encoding/json"

	"paytrack/internal/messaging/kafka"

	"github.com/google/uuid"
)

// Enqueue writes an entity-changed event into the outbox. Call it with a
// tx-bound repository so the event commits atomically with the mutation.
func Enqueue(ctx context.Context, outbox kafka.OutboxRepository, ev EntityChangedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     ev.RequestID,
		AggregateType: ev.Entity,
		AggregateID:   ev.EntityID,
		EventType:     ev.EventType,
		Topic:         EntityChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

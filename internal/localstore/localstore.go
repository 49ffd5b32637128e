// Package localstore keeps a write-through copy of each entity collection in
// Redis hashes, one hash per collection, one field per record id. It backs
// the replicated read model so clients can be served without touching
// Postgres.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"paytrack/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "localstore:"

// Collection names mirror the entity tables.
const (
	CollectionUsers     = "users"
	CollectionSalaries  = "salaries"
	CollectionOvertimes = "overtimes"
	CollectionLeaves    = "leaves"
	CollectionHolidays  = "holidays"
)

var (
	ErrRecordExists = apperror.New(
		apperror.CodeConflict,
		"a record with this id already exists",
		http.StatusConflict,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"record not found",
		http.StatusNotFound,
	)
)

// Store is a typed adapter over one collection hash. T is the record shape
// stored as JSON; records are keyed by an id the caller chooses.
type Store[T any] struct {
	rdb        *redis.Client
	collection string
	logger     *zap.Logger
}

func New[T any](rdb *redis.Client, collection string, logger ...*zap.Logger) *Store[T] {
	l := zap.L().Named("localstore." + collection)
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("localstore." + collection)
	}
	return &Store[T]{rdb: rdb, collection: collection, logger: l}
}

func (s *Store[T]) key() string {
	return keyPrefix + s.collection
}

// Create stores a new record. It fails when the id is already taken so a
// replayed create cannot silently clobber newer data.
func (s *Store[T]) Create(ctx context.Context, id string, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	ok, err := s.rdb.HSetNX(ctx, s.key(), id, data).Result()
	if err != nil {
		return wrapStorageError(err)
	}
	if !ok {
		return ErrRecordExists
	}
	return nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var record T

	data, err := s.rdb.HGet(ctx, s.key(), id).Result()
	if errors.Is(err, redis.Nil) {
		return record, ErrRecordNotFound
	}
	if err != nil {
		return record, wrapStorageError(err)
	}

	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return record, err
	}
	return record, nil
}

// GetAll returns every record in the collection. Entries that fail to decode
// are skipped with a warning rather than poisoning the whole read.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	all, err := s.rdb.HGetAll(ctx, s.key()).Result()
	if err != nil {
		return nil, wrapStorageError(err)
	}

	records := make([]T, 0, len(all))
	for id, data := range all {
		var record T
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			s.logger.Warn("skipping undecodable record",
				zap.String("id", id),
				zap.Error(err),
			)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Update replaces an existing record. Missing ids are an error; use Upsert
// when replaying events that may arrive before the create.
func (s *Store[T]) Update(ctx context.Context, id string, record T) error {
	exists, err := s.rdb.HExists(ctx, s.key(), id).Result()
	if err != nil {
		return wrapStorageError(err)
	}
	if !exists {
		return ErrRecordNotFound
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.key(), id, data).Err(); err != nil {
		return wrapStorageError(err)
	}
	return nil
}

// Upsert writes the record regardless of whether the id exists. Event
// replay applies changes last-write-wins, so it never cares about priors.
func (s *Store[T]) Upsert(ctx context.Context, id string, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.key(), id, data).Err(); err != nil {
		return wrapStorageError(err)
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	removed, err := s.rdb.HDel(ctx, s.key(), id).Result()
	if err != nil {
		return wrapStorageError(err)
	}
	if removed == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Clear drops the whole collection hash.
func (s *Store[T]) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key()).Err(); err != nil {
		return wrapStorageError(err)
	}
	return nil
}

func wrapStorageError(err error) error {
	return apperror.Wrap(err, apperror.CodeNetwork, "local store unavailable", http.StatusServiceUnavailable)
}

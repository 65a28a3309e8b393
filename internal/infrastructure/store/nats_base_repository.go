// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/concurrent"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/linuxfoundation/lfx-v2-commeet-service/internal/infrastructure/store"

// INatsKeyValue is the subset of [jetstream.KeyValue] the repositories use.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	ListKeysFiltered(context.Context, ...string) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
	Update(context.Context, string, []byte, uint64) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}

// NatsBaseRepository provides the JSON-over-KV operations shared by the repositories.
type NatsBaseRepository[T any] struct {
	kvStore    INatsKeyValue
	entityName string
	// notFound is wrapped into not found errors so callers can match on it.
	notFound error
	pool     *concurrent.WorkerPool
}

// NewNatsBaseRepository creates a new base repository for NATS KV operations.
func NewNatsBaseRepository[T any](kvStore INatsKeyValue, entityName string, notFound error) *NatsBaseRepository[T] {
	return &NatsBaseRepository[T]{
		kvStore:    kvStore,
		entityName: entityName,
		notFound:   notFound,
		pool:       concurrent.NewWorkerPool(8),
	}
}

// IsReady checks if the repository is ready for use
func (r *NatsBaseRepository[T]) IsReady() bool {
	return r.kvStore != nil
}

func (r *NatsBaseRepository[T]) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		attribute.String("db.system", "nats"),
		attribute.String("db.operation", op),
		attribute.String("db.nats.entity", r.entityName),
	}, attrs...)
	return otel.Tracer(tracerName).Start(ctx, "nats.kv."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func failSpan(span trace.Span, err error, status string) error {
	span.RecordError(err)
	if status == "" {
		status = err.Error()
	}
	span.SetStatus(codes.Error, status)
	return err
}

func (r *NatsBaseRepository[T]) unavailable() error {
	return domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName), domain.ErrServiceUnavailable)
}

func (r *NatsBaseRepository[T]) notFoundError(err error) error {
	return domain.NewNotFoundError(fmt.Sprintf("%s not found", r.entityName), r.notFound, err)
}

func isWrongLastSequence(err error) bool {
	return errors.Is(err, jetstream.ErrKeyExists) || strings.Contains(err.Error(), "wrong last sequence")
}

// GetRaw retrieves a raw entry from the NATS KV store.
func (r *NatsBaseRepository[T]) GetRaw(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	ctx, span := r.startSpan(ctx, "get", attribute.String("db.nats.key", key))
	defer span.End()

	if !r.IsReady() {
		return nil, failSpan(span, r.unavailable(), "")
	}

	entry, err := r.kvStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
			return nil, failSpan(span, r.notFoundError(err), "not found")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error getting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return nil, failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to retrieve %s from store", r.entityName), domain.ErrInternal, err), "")
	}

	span.SetStatus(codes.Ok, "")
	return entry, nil
}

// Get retrieves and unmarshals an entity from the NATS KV store.
func (r *NatsBaseRepository[T]) Get(ctx context.Context, key string) (*T, error) {
	entity, _, err := r.GetWithRevision(ctx, key)
	return entity, err
}

// GetWithRevision retrieves an entity with its revision from the NATS KV store.
func (r *NatsBaseRepository[T]) GetWithRevision(ctx context.Context, key string) (*T, uint64, error) {
	entry, err := r.GetRaw(ctx, key)
	if err != nil {
		return nil, 0, err
	}

	var entity T
	if err := json.Unmarshal(entry.Value(), &entity); err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error unmarshaling %s", r.entityName), logging.ErrKey, err, "key", key)
		return nil, 0, domain.NewInternalError(
			fmt.Sprintf("failed to unmarshal %s data", r.entityName), domain.ErrUnmarshal, err)
	}

	return &entity, entry.Revision(), nil
}

// Exists checks if an entity exists in the store.
func (r *NatsBaseRepository[T]) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.GetRaw(ctx, key)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Put writes the whole entity under key, replacing any previous value, and returns
// the revision the store assigned to it.
func (r *NatsBaseRepository[T]) Put(ctx context.Context, key string, entity *T) (uint64, error) {
	ctx, span := r.startSpan(ctx, "put", attribute.String("db.nats.key", key))
	defer span.End()

	if !r.IsReady() {
		return 0, failSpan(span, r.unavailable(), "")
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return 0, failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to marshal %s", r.entityName), domain.ErrInternal, err), "")
	}

	revision, err := r.kvStore.Put(ctx, key, data)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error putting %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return 0, failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to store %s", r.entityName), domain.ErrInternal, err), "")
	}

	span.SetAttributes(attribute.Int64("db.nats.revision", int64(revision)))
	span.SetStatus(codes.Ok, "")
	return revision, nil
}

// Update replaces an existing entity if its revision still matches.
func (r *NatsBaseRepository[T]) Update(ctx context.Context, key string, entity *T, revision uint64) error {
	ctx, span := r.startSpan(ctx, "update",
		attribute.String("db.nats.key", key),
		attribute.Int64("db.nats.revision", int64(revision)),
	)
	defer span.End()

	if !r.IsReady() {
		return failSpan(span, r.unavailable(), "")
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to marshal %s", r.entityName), domain.ErrInternal, err), "")
	}

	if _, err := r.kvStore.Update(ctx, key, data, revision); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return failSpan(span, r.notFoundError(err), "not found")
		}
		if isWrongLastSequence(err) {
			return failSpan(span, domain.NewConflictError(
				fmt.Sprintf("%s has been modified", r.entityName), domain.ErrRevisionMismatch, err), "conflict")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error updating %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key, "revision", revision)
		return failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to update %s in store", r.entityName), domain.ErrInternal, err), "")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes an entity if its revision still matches.
func (r *NatsBaseRepository[T]) Delete(ctx context.Context, key string, revision uint64) error {
	ctx, span := r.startSpan(ctx, "delete",
		attribute.String("db.nats.key", key),
		attribute.Int64("db.nats.revision", int64(revision)),
	)
	defer span.End()

	if !r.IsReady() {
		return failSpan(span, r.unavailable(), "")
	}

	// Backends that ignore LastRevision still reject a stale revision here.
	entry, err := r.GetRaw(ctx, key)
	if err != nil {
		return failSpan(span, err, "")
	}
	if entry.Revision() != revision {
		return failSpan(span, domain.NewConflictError(
			fmt.Sprintf("%s has been modified", r.entityName), domain.ErrRevisionMismatch), "conflict")
	}

	if err := r.kvStore.Delete(ctx, key, jetstream.LastRevision(revision)); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return failSpan(span, r.notFoundError(err), "not found")
		}
		if isWrongLastSequence(err) {
			return failSpan(span, domain.NewConflictError(
				fmt.Sprintf("%s has been modified", r.entityName), domain.ErrRevisionMismatch, err), "conflict")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error deleting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key, "revision", revision)
		return failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to delete %s from store", r.entityName), domain.ErrInternal, err), "")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteWithoutRevision removes an entity regardless of its current revision.
func (r *NatsBaseRepository[T]) DeleteWithoutRevision(ctx context.Context, key string) error {
	ctx, span := r.startSpan(ctx, "delete", attribute.String("db.nats.key", key))
	defer span.End()

	if !r.IsReady() {
		return failSpan(span, r.unavailable(), "")
	}

	if err := r.kvStore.Delete(ctx, key); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return failSpan(span, r.notFoundError(err), "not found")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error deleting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to delete %s from store", r.entityName), domain.ErrInternal, err), "")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListKeys lists the keys in the bucket. With filters only keys matching one of the
// subject-style filters (e.g. "availability.abc.*") are returned.
func (r *NatsBaseRepository[T]) ListKeys(ctx context.Context, filters ...string) ([]string, error) {
	ctx, span := r.startSpan(ctx, "list_keys", attribute.StringSlice("db.nats.filters", filters))
	defer span.End()

	if !r.IsReady() {
		return nil, failSpan(span, r.unavailable(), "")
	}

	var (
		lister jetstream.KeyLister
		err    error
	)
	if len(filters) > 0 {
		lister, err = r.kvStore.ListKeysFiltered(ctx, filters...)
	} else {
		lister, err = r.kvStore.ListKeys(ctx)
	}
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			span.SetStatus(codes.Ok, "")
			return nil, nil
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error listing %s keys from NATS KV", r.entityName),
			logging.ErrKey, err)
		return nil, failSpan(span, domain.NewInternalError(
			fmt.Sprintf("failed to list %s keys from store", r.entityName), domain.ErrInternal, err), "")
	}

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}

	span.SetAttributes(attribute.Int("db.nats.keys_count", len(keys)))
	span.SetStatus(codes.Ok, "")
	return keys, nil
}

// ListEntities fetches the entities stored under the keys matching filters in
// parallel. Keys deleted between listing and fetching are skipped; any other
// failure aborts the listing.
func (r *NatsBaseRepository[T]) ListEntities(ctx context.Context, filters ...string) ([]*T, error) {
	keys, err := r.ListKeys(ctx, filters...)
	if err != nil {
		return nil, err
	}

	fetched, err := concurrent.Map(ctx, r.pool, keys, func(ctx context.Context, key string) (*T, error) {
		entity, err := r.Get(ctx, key)
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				return nil, nil
			}
			return nil, err
		}
		return entity, nil
	})
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(fetched))
	for _, entity := range fetched {
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
)

// NatsAvailabilityRepository is the NATS KV store repository for participant
// availability. Each (meeting, user) pair owns exactly one key and every write is a
// whole-value Put, so concurrent submissions of the same pair resolve to the last
// write and never interleave.
type NatsAvailabilityRepository struct {
	*NatsBaseRepository[models.Availability]
	keys *KeyBuilder
	now  func() time.Time
}

// NewNatsAvailabilityRepository creates a new NATS KV store repository for availability.
func NewNatsAvailabilityRepository(availability INatsKeyValue) *NatsAvailabilityRepository {
	return &NatsAvailabilityRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Availability](availability, "availability", domain.ErrAvailabilityNotFound),
		keys:               NewKeyBuilder(KeyPrefixAvailability),
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// UpsertAvailability replaces the stored record of the pair. The creation time of an
// existing record is kept.
func (s *NatsAvailabilityRepository) UpsertAvailability(ctx context.Context, availability *models.Availability) error {
	key := s.keys.AvailabilityKey(availability.MeetingUID, availability.UserID)

	now := s.now()
	created := now
	existing, err := s.Get(ctx, key)
	switch {
	case err == nil:
		if existing.CreatedAt != nil {
			created = *existing.CreatedAt
		}
	case domain.GetErrorType(err) != domain.ErrorTypeNotFound:
		return err
	}

	record := *availability
	if record.Slots == nil {
		record.Slots = models.StringList{}
	}
	record.CreatedAt = &created
	record.UpdatedAt = &now

	if _, err := s.Put(ctx, key, &record); err != nil {
		return err
	}

	availability.CreatedAt = record.CreatedAt
	availability.UpdatedAt = record.UpdatedAt
	return nil
}

// GetAvailability returns the record of the pair.
func (s *NatsAvailabilityRepository) GetAvailability(ctx context.Context, meetingUID, userID string) (*models.Availability, error) {
	return s.Get(ctx, s.keys.AvailabilityKey(meetingUID, userID))
}

// ListAvailabilityByMeeting returns every record of the meeting.
func (s *NatsAvailabilityRepository) ListAvailabilityByMeeting(ctx context.Context, meetingUID string) ([]*models.Availability, error) {
	return s.ListEntities(ctx, s.keys.MeetingAvailabilityFilter(meetingUID))
}

// DeleteAvailabilityByMeeting removes every record of the meeting. Listed keys that do
// not decode to a record of the meeting are left in place.
func (s *NatsAvailabilityRepository) DeleteAvailabilityByMeeting(ctx context.Context, meetingUID string) (int, error) {
	keys, err := s.ListKeys(ctx, s.keys.MeetingAvailabilityFilter(meetingUID))
	if err != nil {
		return 0, err
	}

	removed := make([]bool, len(keys))
	tasks := make([]func() error, 0, len(keys))
	for i, key := range keys {
		keyMeeting, userID, err := s.keys.ParseAvailabilityKey(key)
		if err != nil || keyMeeting != meetingUID {
			slog.WarnContext(ctx, "skipping foreign availability key", "key", key, logging.ErrKey, err)
			continue
		}
		tasks = append(tasks, func() error {
			if err := s.DeleteWithoutRevision(ctx, key); err != nil {
				if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
					return nil
				}
				slog.ErrorContext(ctx, "failed to delete availability record", logging.ErrKey, err, "user_id", userID)
				return err
			}
			removed[i] = true
			return nil
		})
	}

	err = s.pool.RunAll(ctx, tasks...)

	count := 0
	for _, ok := range removed {
		if ok {
			count++
		}
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete some availability records",
			logging.ErrKey, err, "removed", count, "total", len(keys))
		return count, err
	}
	return count, nil
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

// MeetingRepository defines the interface for meeting storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type MeetingRepository interface {
	// CreateMeeting stores a new meeting and returns its first revision.
	CreateMeeting(ctx context.Context, meeting *models.Meeting) (uint64, error)
	MeetingExists(ctx context.Context, meetingUID string) (bool, error)
	DeleteMeeting(ctx context.Context, meetingUID string, revision uint64) error

	GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetMeetingWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)
	UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error

	ListAllMeetings(ctx context.Context) ([]*models.Meeting, error)
}

// AvailabilityRepository defines the interface for availability storage operations.
//
// Implementations must keep at most one record per (meeting, user) pair and must
// replace the whole record atomically on upsert.
type AvailabilityRepository interface {
	// UpsertAvailability stores the record, replacing any previous record of the same pair.
	UpsertAvailability(ctx context.Context, availability *models.Availability) error
	// GetAvailability returns ErrAvailabilityNotFound wrapped in a not found DomainError
	// when the user never submitted.
	GetAvailability(ctx context.Context, meetingUID, userID string) (*models.Availability, error)
	ListAvailabilityByMeeting(ctx context.Context, meetingUID string) ([]*models.Availability, error)
	// DeleteAvailabilityByMeeting removes every record of the meeting and returns how many
	// were removed.
	DeleteAvailabilityByMeeting(ctx context.Context, meetingUID string) (int, error)
}

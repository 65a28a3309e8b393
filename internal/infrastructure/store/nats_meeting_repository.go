// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

// NatsMeetingRepository is the NATS KV store repository for meetings. Meetings are
// stored under their uid.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(meetings INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](meetings, "meeting", domain.ErrMeetingNotFound),
	}
}

func (s *NatsMeetingRepository) meetingKey(meetingUID string) string {
	// Meeting uids are generated UUIDs; path supplied values are encoded so that they
	// can never form an invalid key or a wildcard.
	return EncodeKeyPart(meetingUID)
}

// CreateMeeting stores a new meeting and returns the revision the bucket assigned to it.
func (s *NatsMeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) (uint64, error) {
	return s.Put(ctx, s.meetingKey(meeting.UID), meeting)
}

// MeetingExists reports whether a meeting with the uid is stored.
func (s *NatsMeetingRepository) MeetingExists(ctx context.Context, meetingUID string) (bool, error) {
	return s.Exists(ctx, s.meetingKey(meetingUID))
}

// GetMeeting returns the meeting or a not found error wrapping ErrMeetingNotFound.
func (s *NatsMeetingRepository) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	return s.Get(ctx, s.meetingKey(meetingUID))
}

// GetMeetingWithRevision returns the meeting together with its store revision.
func (s *NatsMeetingRepository) GetMeetingWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	return s.GetWithRevision(ctx, s.meetingKey(meetingUID))
}

// UpdateMeeting replaces the meeting if revision is still current.
func (s *NatsMeetingRepository) UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	return s.Update(ctx, s.meetingKey(meeting.UID), meeting, revision)
}

// DeleteMeeting removes the meeting if revision is still current.
func (s *NatsMeetingRepository) DeleteMeeting(ctx context.Context, meetingUID string, revision uint64) error {
	return s.Delete(ctx, s.meetingKey(meetingUID), revision)
}

// ListAllMeetings returns every stored meeting in no particular order.
func (s *NatsMeetingRepository) ListAllMeetings(ctx context.Context) ([]*models.Meeting, error) {
	return s.ListEntities(ctx)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

const instrumentationName = "github.com/linuxfoundation/lfx-v2-commeet-service/internal/service"

// AvailabilityService validates, stores and aggregates participant availability.
type AvailabilityService struct {
	MeetingRepository      domain.MeetingRepository
	AvailabilityRepository domain.AvailabilityRepository
	MessageBuilder         domain.MessageBuilder
	Config                 ServiceConfig

	submissions   metric.Int64Counter
	rejectedSlots metric.Int64Counter
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(
	meetingRepository domain.MeetingRepository,
	availabilityRepository domain.AvailabilityRepository,
	messageBuilder domain.MessageBuilder,
	config ServiceConfig,
) *AvailabilityService {
	meter := otel.Meter(instrumentationName)
	// Instrument creation only fails on invalid names; a noop counter is returned then.
	submissions, _ := meter.Int64Counter("commeet.availability.submissions",
		metric.WithDescription("Number of availability submissions stored"))
	rejected, _ := meter.Int64Counter("commeet.availability.rejected_slots",
		metric.WithDescription("Number of submitted slots dropped by validation"))

	return &AvailabilityService{
		MeetingRepository:      meetingRepository,
		AvailabilityRepository: availabilityRepository,
		MessageBuilder:         messageBuilder,
		Config:                 config,
		submissions:            submissions,
		rejectedSlots:          rejected,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AvailabilityService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.AvailabilityRepository != nil &&
		s.MessageBuilder != nil
}

// GetAvailabilityForMeeting lists every participant's stored slots for a meeting.
func (s *AvailabilityService) GetAvailabilityForMeeting(ctx context.Context, meetingUID string) ([]models.ParticipantAvailability, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	if err := s.requireMeeting(ctx, meetingUID); err != nil {
		return nil, err
	}

	records, err := s.AvailabilityRepository.ListAvailabilityByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing availability", logging.ErrKey, err)
		return nil, storageError(err)
	}

	out := make([]models.ParticipantAvailability, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		slots := []string{}
		slots = append(slots, r.Slots...)
		out = append(out, models.ParticipantAvailability{UserID: r.UserID, Slots: slots})
	}
	slices.SortFunc(out, func(a, b models.ParticipantAvailability) int {
		return strings.Compare(a.UserID, b.UserID)
	})

	slog.DebugContext(ctx, "returning availability", "participants", len(out))
	return out, nil
}

// GetMyAvailability returns the caller's stored slots, or an empty list when the caller
// has not submitted yet.
func (s *AvailabilityService) GetMyAvailability(ctx context.Context, identity *models.Identity, meetingUID string) ([]string, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required", domain.ErrAuthenticationRequired)
	}

	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("user_id", identity.ID))

	if err := s.requireMeeting(ctx, meetingUID); err != nil {
		return nil, err
	}

	record, err := s.AvailabilityRepository.GetAvailability(ctx, meetingUID, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAvailabilityNotFound) {
			slog.DebugContext(ctx, "no availability submitted yet")
			return []string{}, nil
		}
		slog.ErrorContext(ctx, "error getting availability", logging.ErrKey, err)
		return nil, storageError(err)
	}

	slots := []string{}
	return append(slots, record.Slots...), nil
}

// SetMyAvailability validates the candidate slots against the meeting and replaces the
// caller's stored slots with the accepted ones. Invalid slots are dropped without
// error. The stored list is returned.
func (s *AvailabilityService) SetMyAvailability(ctx context.Context, identity *models.Identity, meetingUID string, slots []string) ([]string, error) {
	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required", domain.ErrAuthenticationRequired)
	}

	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	if len(slots) > constants.MaxSlotsPerSubmission {
		return nil, domain.NewValidationError(
			fmt.Sprintf("at most %d slots can be submitted at once", constants.MaxSlotsPerSubmission),
			domain.ErrValidationFailed,
		)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("user_id", identity.ID))

	meeting, err := s.getMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	result := NewAvailabilityValidator(meeting.Constraints()).Validate(slots)
	accepted := DedupeSlots(result.Accepted())

	if rejected := result.RejectedCount(); rejected > 0 {
		slog.DebugContext(ctx, "dropped invalid slots",
			"rejected", rejected,
			"reasons", result.RejectedByReason(),
		)
		s.rejectedSlots.Add(ctx, int64(rejected))
	}
	if dups := len(result.Accepted()) - len(accepted); dups > 0 {
		slog.DebugContext(ctx, "dropped duplicate slots", "duplicates", dups)
	}

	record := &models.Availability{
		MeetingUID: meetingUID,
		UserID:     identity.ID,
		Slots:      accepted,
	}

	if err := s.AvailabilityRepository.UpsertAvailability(ctx, record); err != nil {
		slog.ErrorContext(ctx, "error storing availability", logging.ErrKey, err)
		return nil, storageError(err)
	}

	s.submissions.Add(ctx, 1, metric.WithAttributes(attribute.Bool("empty", len(accepted) == 0)))

	if err := s.MessageBuilder.SendIndexAvailability(ctx, models.ActionUpdated, *record); err != nil {
		slog.ErrorContext(ctx, "failed to send availability index message", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "stored availability", "slots", len(accepted))
	return append([]string{}, accepted...), nil
}

// GetAvailabilitySummary counts, per slot, how many participants are free. The result
// is recomputed from the stored records on every call.
func (s *AvailabilityService) GetAvailabilitySummary(ctx context.Context, meetingUID string) (*models.AvailabilitySummary, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, err := s.getMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	records, err := s.AvailabilityRepository.ListAvailabilityByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing availability", logging.ErrKey, err)
		return nil, storageError(err)
	}

	summary := BuildSummary(meeting, records)
	slog.DebugContext(ctx, "returning availability summary",
		"responded", summary.RespondedCount,
		"distinct_slots", len(summary.Counts),
	)
	return summary, nil
}

// DeleteMeetingAvailability removes every availability record of a deleted meeting.
func (s *AvailabilityService) DeleteMeetingAvailability(ctx context.Context, meetingUID string) (int, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return 0, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	removed, err := s.AvailabilityRepository.DeleteAvailabilityByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error deleting availability for meeting", logging.ErrKey, err, logging.PriorityCritical())
		return removed, storageError(err)
	}

	slog.InfoContext(ctx, "deleted availability for meeting", "removed", removed)
	return removed, nil
}

func (s *AvailabilityService) getMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	meeting, err := s.MeetingRepository.GetMeeting(ctx, meetingUID)
	if err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			slog.WarnContext(ctx, "meeting not found", logging.ErrKey, err)
			return nil, domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
		}
		slog.ErrorContext(ctx, "error getting meeting from store", logging.ErrKey, err)
		return nil, storageError(err)
	}
	return meeting, nil
}

// requireMeeting fails with a not found error when the meeting does not exist.
func (s *AvailabilityService) requireMeeting(ctx context.Context, meetingUID string) error {
	exists, err := s.MeetingRepository.MeetingExists(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error checking meeting in store", logging.ErrKey, err)
		return storageError(err)
	}
	if !exists {
		slog.WarnContext(ctx, "meeting not found")
		return domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
	}
	return nil
}

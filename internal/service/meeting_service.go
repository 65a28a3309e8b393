// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

// MeetingService manages the meetings participants report availability for.
type MeetingService struct {
	MeetingRepository domain.MeetingRepository
	MessageBuilder    domain.MessageBuilder
	Config            ServiceConfig

	now func() time.Time
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepository domain.MeetingRepository,
	messageBuilder domain.MessageBuilder,
	config ServiceConfig,
) *MeetingService {
	return &MeetingService{
		MeetingRepository: meetingRepository,
		MessageBuilder:    messageBuilder,
		Config:            config,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.MessageBuilder != nil
}

// ListMeetings returns every meeting, newest first.
func (s *MeetingService) ListMeetings(ctx context.Context) ([]*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	meetings, err := s.MeetingRepository.ListAllMeetings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing meetings", logging.ErrKey, err)
		return nil, storageError(err)
	}

	slices.SortStableFunc(meetings, func(a, b *models.Meeting) int {
		return compareCreatedDesc(a.CreatedAt, b.CreatedAt)
	})

	slog.DebugContext(ctx, "returning meetings", "count", len(meetings))
	return meetings, nil
}

func compareCreatedDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return b.Compare(*a)
	}
}

// CreateMeeting creates a meeting owned by the caller. Only officers, faculty and
// admins may create meetings. The returned string is the revision as an ETag value.
func (s *MeetingService) CreateMeeting(ctx context.Context, identity *models.Identity, input *models.MeetingInput) (*models.Meeting, string, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, "", domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	if !identity.IsAuthenticated() {
		return nil, "", domain.NewUnauthorizedError("authentication required", domain.ErrAuthenticationRequired)
	}

	if !identity.HasAnyRole(constants.MeetingCreatorRoles...) {
		slog.WarnContext(ctx, "caller role cannot create meetings", "role", identity.Role)
		return nil, "", domain.NewForbiddenError("only officers, faculty or admins can create meetings", domain.ErrForbidden)
	}

	meeting, err := buildMeeting(input)
	if err != nil {
		slog.WarnContext(ctx, "invalid meeting payload", logging.ErrKey, err)
		return nil, "", err
	}

	now := s.now()
	meeting.UID = uuid.New().String()
	meeting.CreatedBy = identity.ID
	meeting.CreatedAt = &now
	meeting.UpdatedAt = &now

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meeting.UID))

	revision, err := s.MeetingRepository.CreateMeeting(ctx, meeting)
	if err != nil {
		slog.ErrorContext(ctx, "error creating meeting in store", logging.ErrKey, err)
		return nil, "", storageError(err)
	}

	s.publish(ctx, func() error {
		return s.MessageBuilder.SendIndexMeeting(ctx, models.ActionCreated, *meeting)
	})

	slog.InfoContext(ctx, "created meeting", "selected_dates", len(meeting.SelectedDates), "revision", revision)
	return meeting, strconv.FormatUint(revision, 10), nil
}

// GetMeeting returns the meeting and its revision as an ETag value.
func (s *MeetingService) GetMeeting(ctx context.Context, uid string) (*models.Meeting, string, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, "", domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", uid))

	meeting, revision, err := s.MeetingRepository.GetMeetingWithRevision(ctx, uid)
	if err != nil {
		return nil, "", s.lookupError(ctx, err)
	}

	revisionStr := strconv.FormatUint(revision, 10)
	slog.DebugContext(ctx, "returning meeting", "revision", revision)

	return meeting, revisionStr, nil
}

// UpdateMeeting replaces the editable fields of a meeting. Only the creator may update it.
// Stored availability is left untouched even when it no longer fits the new constraints.
func (s *MeetingService) UpdateMeeting(ctx context.Context, identity *models.Identity, uid string, input *models.MeetingInput, revision uint64) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	if !identity.IsAuthenticated() {
		return nil, domain.NewUnauthorizedError("authentication required", domain.ErrAuthenticationRequired)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", uid))

	existing, currentRevision, err := s.MeetingRepository.GetMeetingWithRevision(ctx, uid)
	if err != nil {
		return nil, s.lookupError(ctx, err)
	}
	if s.Config.SkipEtagValidation {
		revision = currentRevision
	}
	ctx = logging.AppendCtx(ctx, slog.String("etag", strconv.FormatUint(revision, 10)))

	if !existing.IsCreator(identity.ID) {
		slog.WarnContext(ctx, "caller is not the meeting creator", "caller", identity.ID)
		return nil, domain.NewForbiddenError("only the meeting creator can update it", domain.ErrForbidden)
	}

	updated, err := buildMeeting(input)
	if err != nil {
		slog.WarnContext(ctx, "invalid meeting payload", logging.ErrKey, err)
		return nil, err
	}

	now := s.now()
	updated.UID = existing.UID
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = &now

	if err := s.MeetingRepository.UpdateMeeting(ctx, updated, revision); err != nil {
		if errors.Is(err, domain.ErrRevisionMismatch) {
			slog.WarnContext(ctx, "If-Match header is invalid", logging.ErrKey, err)
			return nil, domain.NewConflictError("meeting was modified, reload and retry", domain.ErrRevisionMismatch)
		}
		slog.ErrorContext(ctx, "error updating meeting in store", logging.ErrKey, err)
		return nil, storageError(err)
	}

	s.publish(ctx, func() error {
		return s.MessageBuilder.SendIndexMeeting(ctx, models.ActionUpdated, *updated)
	})

	slog.InfoContext(ctx, "updated meeting")
	return updated, nil
}

// DeleteMeeting removes a meeting. Only the creator may delete it. The meeting deleted
// event triggers removal of the meeting's availability records.
func (s *MeetingService) DeleteMeeting(ctx context.Context, identity *models.Identity, uid string, revision uint64) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable)
	}

	if !identity.IsAuthenticated() {
		return domain.NewUnauthorizedError("authentication required", domain.ErrAuthenticationRequired)
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", uid))

	existing, currentRevision, err := s.MeetingRepository.GetMeetingWithRevision(ctx, uid)
	if err != nil {
		return s.lookupError(ctx, err)
	}
	if s.Config.SkipEtagValidation {
		revision = currentRevision
	}

	if !existing.IsCreator(identity.ID) {
		slog.WarnContext(ctx, "caller is not the meeting creator", "caller", identity.ID)
		return domain.NewForbiddenError("only the meeting creator can delete it", domain.ErrForbidden)
	}

	if err := s.MeetingRepository.DeleteMeeting(ctx, uid, revision); err != nil {
		if errors.Is(err, domain.ErrRevisionMismatch) {
			slog.WarnContext(ctx, "If-Match header is invalid", logging.ErrKey, err)
			return domain.NewConflictError("meeting was modified, reload and retry", domain.ErrRevisionMismatch)
		}
		if errors.Is(err, domain.ErrMeetingNotFound) {
			return domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
		}
		slog.ErrorContext(ctx, "error deleting meeting from store", logging.ErrKey, err)
		return storageError(err)
	}

	s.publish(ctx,
		func() error {
			return s.MessageBuilder.SendDeleteIndexMeeting(ctx, uid)
		},
		func() error {
			return s.MessageBuilder.SendMeetingDeleted(ctx, models.MeetingDeletedMessage{MeetingUID: uid})
		},
	)

	slog.InfoContext(ctx, "deleted meeting")
	return nil
}

// publish sends messages concurrently. Failures are logged and never fail the caller
// because the store is the source of truth.
func (s *MeetingService) publish(ctx context.Context, messages ...func() error) {
	pool := concurrent.NewWorkerPool(s.Config.workers())
	if err := pool.RunAll(ctx, messages...); err != nil {
		slog.ErrorContext(ctx, "failed to send NATS messages for meeting", logging.ErrKey, err)
	}
}

func (s *MeetingService) lookupError(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrMeetingNotFound) {
		slog.WarnContext(ctx, "meeting not found", logging.ErrKey, err)
		return domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
	}
	slog.ErrorContext(ctx, "error getting meeting from store", logging.ErrKey, err)
	return storageError(err)
}

// storageError hides backend details behind a generic failure, keeping the
// unavailable category so callers can retry.
func storageError(err error) error {
	if domain.GetErrorType(err) == domain.ErrorTypeUnavailable {
		return domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable, err)
	}
	return domain.NewInternalError("operation failed", domain.ErrInternal, err)
}

// buildMeeting validates and normalizes a meeting payload.
func buildMeeting(input *models.MeetingInput) (*models.Meeting, error) {
	if input == nil {
		return nil, domain.NewValidationError("payload is required", domain.ErrValidationFailed)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title is required", domain.ErrValidationFailed)
	}
	if len(title) > constants.MaxTitleLength {
		return nil, domain.NewValidationError(fmt.Sprintf("title must be at most %d characters", constants.MaxTitleLength), domain.ErrValidationFailed)
	}
	agenda := strings.TrimSpace(input.Agenda)
	if len(agenda) > constants.MaxAgendaLength {
		return nil, domain.NewValidationError(fmt.Sprintf("agenda must be at most %d characters", constants.MaxAgendaLength), domain.ErrValidationFailed)
	}

	start, ok := ParseClockTime(input.StartTime)
	if !ok || !IsStrictClockTime(input.StartTime) {
		return nil, domain.NewValidationError("start_time must look like 09:00 AM", domain.ErrValidationFailed)
	}
	end, ok := ParseClockTime(input.EndTime)
	if !ok || !IsStrictClockTime(input.EndTime) {
		return nil, domain.NewValidationError("end_time must look like 05:00 PM", domain.ErrValidationFailed)
	}
	if start >= end {
		return nil, domain.NewValidationError("start_time must be before end_time", domain.ErrValidationFailed)
	}

	dates, err := selectedDates(input)
	if err != nil {
		return nil, err
	}

	meeting := &models.Meeting{
		Title:         title,
		Agenda:        agenda,
		SelectedDates: dates,
		StartTime:     FormatClockTime(start),
		EndTime:       FormatClockTime(end),
		DateRule:      strings.TrimSpace(input.DateRule),
	}
	if meeting.DateRule != "" {
		meeting.DateRuleStart = NormalizeDateKey(strings.TrimSpace(input.DateRuleStart))
	}
	return meeting, nil
}

// selectedDates normalizes the explicit dates, merges in the date rule expansion and
// returns a sorted list without duplicates.
func selectedDates(input *models.MeetingInput) (models.StringList, error) {
	set := make(map[string]struct{}, len(input.SelectedDates))
	for _, d := range input.SelectedDates {
		key := NormalizeDateKey(strings.TrimSpace(d))
		if !IsCalendarDate(key) {
			return nil, domain.NewValidationError(fmt.Sprintf("selected date %q is not a valid YYYY-MM-DD date", d), domain.ErrValidationFailed)
		}
		set[key] = struct{}{}
	}

	if rule := strings.TrimSpace(input.DateRule); rule != "" {
		if strings.TrimSpace(input.DateRuleStart) == "" {
			return nil, domain.NewValidationError("date_rule_start is required with date_rule", domain.ErrValidationFailed)
		}
		expanded, err := ExpandDateRule(rule, input.DateRuleStart, constants.MaxSelectedDates)
		if err != nil {
			return nil, domain.NewValidationError(err.Error(), domain.ErrValidationFailed)
		}
		for _, d := range expanded {
			set[d] = struct{}{}
		}
	}

	if len(set) > constants.MaxSelectedDates {
		return nil, domain.NewValidationError(fmt.Sprintf("a meeting can have at most %d selected dates", constants.MaxSelectedDates), domain.ErrValidationFailed)
	}

	dates := make(models.StringList, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates, nil
}

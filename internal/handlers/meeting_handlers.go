// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package handlers routes NATS messages to the services.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/service"
)

// MeetingHandler handles meeting-related messages and events.
type MeetingHandler struct {
	meetingService      *service.MeetingService
	availabilityService *service.AvailabilityService
}

func NewMeetingHandler(
	meetingService *service.MeetingService,
	availabilityService *service.AvailabilityService,
) *MeetingHandler {
	return &MeetingHandler{
		meetingService:      meetingService,
		availabilityService: availabilityService,
	}
}

func (s *MeetingHandler) HandlerReady() bool {
	return s.meetingService != nil && s.meetingService.ServiceReady() &&
		s.availabilityService != nil && s.availabilityService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (s *MeetingHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.MeetingGetTitleSubject:   s.HandleMeetingGetTitle,
		models.MeetingGetSummarySubject: s.HandleGetSummary,
		models.MeetingDeletedSubject:    s.HandleMeetingDeleted,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		s.respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		s.respond(ctx, msg, nil)
		return
	}

	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "responded to NATS message", "response_bytes", len(response))
}

// respond answers requests only; events published without a reply subject are left alone.
func (s *MeetingHandler) respond(ctx context.Context, msg domain.Message, data []byte) {
	if !msg.HasReply() {
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
	}
}

// meetingUIDFromRequest accepts either a raw meeting uid or a JSON SummaryRequestMessage.
func meetingUIDFromRequest(data []byte) (string, error) {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, "{") {
		var req models.SummaryRequestMessage
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return "", err
		}
		raw = req.MeetingUID
	}

	if _, err := uuid.Parse(raw); err != nil {
		return "", fmt.Errorf("invalid meeting UID %q: %w", raw, err)
	}
	return raw, nil
}

// HandleMeetingGetTitle is the message handler for the meeting-get-title subject.
func (s *MeetingHandler) HandleMeetingGetTitle(ctx context.Context, msg domain.Message) ([]byte, error) {
	if s.meetingService == nil || !s.meetingService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	meetingUID, err := meetingUIDFromRequest(msg.Data())
	if err != nil {
		slog.ErrorContext(ctx, "error parsing meeting ID", logging.ErrKey, err)
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	meeting, _, err := s.meetingService.GetMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error getting meeting", logging.ErrKey, err)
		return nil, err
	}

	return []byte(meeting.Title), nil
}

// HandleGetSummary is the message handler for the get-summary subject. It replies with
// the JSON encoded availability summary of the requested meeting.
func (s *MeetingHandler) HandleGetSummary(ctx context.Context, msg domain.Message) ([]byte, error) {
	if s.availabilityService == nil || !s.availabilityService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	meetingUID, err := meetingUIDFromRequest(msg.Data())
	if err != nil {
		slog.ErrorContext(ctx, "error parsing summary request", logging.ErrKey, err)
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	summary, err := s.availabilityService.GetAvailabilitySummary(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return json.Marshal(summary)
}

// HandleMeetingDeleted is the message handler for the meeting-deleted subject.
// It removes every availability record of the deleted meeting.
func (s *MeetingHandler) HandleMeetingDeleted(ctx context.Context, msg domain.Message) ([]byte, error) {
	if s.availabilityService == nil || !s.availabilityService.ServiceReady() {
		slog.ErrorContext(ctx, "service not ready")
		return nil, fmt.Errorf("service not ready")
	}

	var meetingDeletedMsg models.MeetingDeletedMessage
	if err := json.Unmarshal(msg.Data(), &meetingDeletedMsg); err != nil {
		slog.ErrorContext(ctx, "error unmarshaling meeting deleted message", logging.ErrKey, err)
		return nil, err
	}

	meetingUID := meetingDeletedMsg.MeetingUID
	if meetingUID == "" {
		slog.WarnContext(ctx, "meeting UID is empty in deletion message")
		return nil, fmt.Errorf("meeting UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	slog.InfoContext(ctx, "processing meeting deletion, cleaning up availability")

	removed, err := s.availabilityService.DeleteMeetingAvailability(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "some availability cleanup operations failed",
			"removed", removed,
			logging.ErrKey, err,
			logging.PriorityCritical())
		return nil, fmt.Errorf("failed to clean up availability: %w", err)
	}

	return []byte("success"), nil
}

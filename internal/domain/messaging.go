// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// MeetingIndexSender handles indexing operations for meetings.
type MeetingIndexSender interface {
	SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error
	SendDeleteIndexMeeting(ctx context.Context, meetingUID string) error
}

// AvailabilityIndexSender handles indexing operations for availability records.
type AvailabilityIndexSender interface {
	SendIndexAvailability(ctx context.Context, action models.MessageAction, data models.Availability) error
}

// MeetingEventSender handles meeting lifecycle events.
type MeetingEventSender interface {
	SendMeetingDeleted(ctx context.Context, data models.MeetingDeletedMessage) error
}

// MessageBuilder composes every outbound messaging operation of the service.
type MessageBuilder interface {
	MeetingIndexSender
	AvailabilityIndexSender
	MeetingEventSender
}

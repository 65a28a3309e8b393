// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

// MockNATSConn implements INatsConn for testing
type MockNATSConn struct {
	mock.Mock
}

func (m *MockNATSConn) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNATSConn) Publish(subj string, data []byte) error {
	args := m.Called(subj, data)
	return args.Error(0)
}

// The builder satisfies the domain interface used by the services.
var _ domain.MessageBuilder = (*MessageBuilder)(nil)

// And the adapter satisfies the domain message.
var _ domain.Message = (*NatsMessage)(nil)

func decodeIndexerMessage(t *testing.T, data []byte) models.IndexerMessage {
	t.Helper()
	var msg models.IndexerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	return msg
}

func TestMessageBuilder_IsReady(t *testing.T) {
	connected := new(MockNATSConn)
	connected.On("IsConnected").Return(true)
	assert.True(t, NewMessageBuilder(connected).IsReady())

	disconnected := new(MockNATSConn)
	disconnected.On("IsConnected").Return(false)
	assert.False(t, NewMessageBuilder(disconnected).IsReady())

	assert.False(t, NewMessageBuilder(nil).IsReady())
}

func TestMessageBuilder_publish(t *testing.T) {
	tests := []struct {
		name         string
		publishError error
		subject      string
		data         []byte
		expectError  bool
	}{
		{
			name:         "successful send",
			publishError: nil,
			subject:      "test.subject",
			data:         []byte("test data"),
			expectError:  false,
		},
		{
			name:         "publish error",
			publishError: errors.New("publish failed"),
			subject:      "test.subject",
			data:         []byte("test data"),
			expectError:  true,
		},
		{
			name:         "disconnected",
			publishError: nats.ErrConnectionClosed,
			subject:      "test.subject",
			data:         []byte("test data"),
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockConn := new(MockNATSConn)
			mockConn.On("Publish", tt.subject, tt.data).Return(tt.publishError)

			builder := NewMessageBuilder(mockConn)

			err := builder.publish(context.Background(), tt.subject, tt.data)

			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}

			mockConn.AssertExpectations(t)
		})
	}
}

func TestMessageBuilder_sendIndexerMessage(t *testing.T) {
	t.Run("send created action with authorization", func(t *testing.T) {
		mockConn := new(MockNATSConn)
		mockConn.On("Publish", "test.subject", mock.MatchedBy(func(data []byte) bool {
			msg := decodeIndexerMessage(t, data)
			if msg.Action != models.ActionCreated {
				t.Errorf("expected action %v, got %v", models.ActionCreated, msg.Action)
				return false
			}
			if msg.Headers[constants.AuthorizationHeader] != "Bearer test-token" {
				t.Errorf("expected authorization header %q, got %q", "Bearer test-token", msg.Headers[constants.AuthorizationHeader])
				return false
			}
			if msg.Headers[constants.XOnBehalfOfHeader] != "test-user" {
				t.Errorf("expected on-behalf-of header %q, got %q", "test-user", msg.Headers[constants.XOnBehalfOfHeader])
				return false
			}
			payload, ok := msg.Data.(map[string]any)
			if !ok || payload["uid"] != "test-123" {
				t.Errorf("expected object payload with uid, got %v", msg.Data)
				return false
			}
			return len(msg.Tags) == 2
		})).Return(nil)

		builder := NewMessageBuilder(mockConn)

		ctx := context.WithValue(context.Background(), constants.AuthorizationContextID, "Bearer test-token")
		ctx = context.WithValue(ctx, constants.PrincipalContextID, "test-user")

		dataBytes, _ := json.Marshal(map[string]string{"uid": "test-123", "title": "Test Meeting"})

		if err := builder.sendIndexerMessage(ctx, "test.subject", models.ActionCreated, dataBytes, []string{"tag1", "tag2"}); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}

		mockConn.AssertExpectations(t)
	})

	t.Run("send deleted action without authorization", func(t *testing.T) {
		mockConn := new(MockNATSConn)
		uid := "meeting-123"

		mockConn.On("Publish", "test.subject", mock.MatchedBy(func(data []byte) bool {
			msg := decodeIndexerMessage(t, data)
			if msg.Headers[constants.AuthorizationHeader] != systemAuthorization {
				t.Errorf("expected fallback authorization header %q, got %q", systemAuthorization, msg.Headers[constants.AuthorizationHeader])
				return false
			}
			if _, ok := msg.Headers[constants.XOnBehalfOfHeader]; ok {
				t.Error("unexpected on-behalf-of header")
				return false
			}
			if dataStr, ok := msg.Data.(string); !ok || dataStr != uid {
				t.Errorf("expected data %q, got %v", uid, msg.Data)
				return false
			}
			return msg.Action == models.ActionDeleted
		})).Return(nil)

		builder := NewMessageBuilder(mockConn)

		if err := builder.sendIndexerMessage(context.Background(), "test.subject", models.ActionDeleted, []byte(uid), nil); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}

		mockConn.AssertExpectations(t)
	})

	t.Run("send with invalid JSON data", func(t *testing.T) {
		mockConn := new(MockNATSConn)
		builder := NewMessageBuilder(mockConn)

		err := builder.sendIndexerMessage(context.Background(), "test.subject", models.ActionCreated, []byte("{invalid json"), nil)
		if err == nil {
			t.Error("expected error for invalid JSON, got nil")
		}

		mockConn.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestMessageBuilder_SendIndexMeeting(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	meeting := models.Meeting{
		UID:           "meeting-1",
		Title:         "Officer sync",
		SelectedDates: models.StringList{"2025-06-10"},
		StartTime:     "09:00 AM",
		EndTime:       "05:00 PM",
		CreatedBy:     "officer-1",
		CreatedAt:     &created,
	}

	mockConn := new(MockNATSConn)
	mockConn.On("Publish", models.IndexMeetingSubject, mock.MatchedBy(func(data []byte) bool {
		msg := decodeIndexerMessage(t, data)
		payload, ok := msg.Data.(map[string]any)
		if !ok {
			return false
		}
		dates, ok := payload["selected_dates"].([]any)
		return msg.Action == models.ActionUpdated &&
			payload["title"] == "Officer sync" &&
			ok && len(dates) == 1 &&
			len(msg.Tags) == len(meeting.Tags())
	})).Return(nil)

	builder := NewMessageBuilder(mockConn)
	if err := builder.SendIndexMeeting(context.Background(), models.ActionUpdated, meeting); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	mockConn.AssertExpectations(t)
}

func TestMessageBuilder_SendDeleteIndexMeeting(t *testing.T) {
	mockConn := new(MockNATSConn)
	mockConn.On("Publish", models.IndexMeetingSubject, mock.MatchedBy(func(data []byte) bool {
		msg := decodeIndexerMessage(t, data)
		return msg.Action == models.ActionDeleted && msg.Data == "meeting-1"
	})).Return(nil)

	if err := NewMessageBuilder(mockConn).SendDeleteIndexMeeting(context.Background(), "meeting-1"); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	mockConn.AssertExpectations(t)
}

func TestMessageBuilder_SendIndexAvailability(t *testing.T) {
	record := models.Availability{
		MeetingUID: "meeting-1",
		UserID:     "jane",
		Slots:      models.StringList{"2025-06-10|09:00"},
	}

	mockConn := new(MockNATSConn)
	mockConn.On("Publish", models.IndexAvailabilitySubject, mock.MatchedBy(func(data []byte) bool {
		msg := decodeIndexerMessage(t, data)
		payload, ok := msg.Data.(map[string]any)
		if !ok {
			return false
		}
		slots, ok := payload["slots"].([]any)
		return ok && len(slots) == 1 &&
			payload["user_id"] == "jane" &&
			msg.Action == models.ActionUpdated
	})).Return(nil)

	if err := NewMessageBuilder(mockConn).SendIndexAvailability(context.Background(), models.ActionUpdated, record); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	mockConn.AssertExpectations(t)
}

func TestMessageBuilder_SendMeetingDeleted(t *testing.T) {
	mockConn := new(MockNATSConn)
	mockConn.On("Publish", models.MeetingDeletedSubject, []byte(`{"meeting_uid":"meeting-1"}`)).Return(nil)

	err := NewMessageBuilder(mockConn).SendMeetingDeleted(context.Background(), models.MeetingDeletedMessage{MeetingUID: "meeting-1"})
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	mockConn.AssertExpectations(t)
}

func TestNatsMessage(t *testing.T) {
	msg := NewNatsMessage(&nats.Msg{Subject: models.MeetingGetSummarySubject, Data: []byte("x")})

	if msg.Subject() != models.MeetingGetSummarySubject {
		t.Errorf("unexpected subject %q", msg.Subject())
	}
	if string(msg.Data()) != "x" {
		t.Errorf("unexpected data %q", msg.Data())
	}
	if msg.HasReply() {
		t.Error("expected no reply subject")
	}

	withReply := NewNatsMessage(&nats.Msg{Subject: "s", Reply: "_INBOX.1"})
	if !withReply.HasReply() {
		t.Error("expected reply subject")
	}
}

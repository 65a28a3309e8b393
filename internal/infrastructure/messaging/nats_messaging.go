// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

// systemAuthorization is sent to the indexer when no caller token is in the context,
// for instance when the message is triggered by an event rather than a request.
const systemAuthorization = "Bearer commeet-service"

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// IsReady reports whether the NATS connection can currently publish.
func (m *MessageBuilder) IsReady() bool {
	return m.NatsConn != nil && m.NatsConn.IsConnected()
}

// publish sends the message to the NATS server.
func (m *MessageBuilder) publish(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// toIndexPayload turns a JSON document into the generic map the indexer expects.
func toIndexPayload(data []byte) (any, error) {
	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, err
	}

	var payload any
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &payload,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(jsonData); err != nil {
		return nil, err
	}
	return payload, nil
}

// sendIndexerMessage wraps data in the indexer envelope and publishes it.
func (m *MessageBuilder) sendIndexerMessage(ctx context.Context, subject string, action models.MessageAction, data []byte, tags []string) error {
	headers := make(map[string]string)
	if authorization, ok := ctx.Value(constants.AuthorizationContextID).(string); ok && authorization != "" {
		headers[constants.AuthorizationHeader] = authorization
	} else {
		headers[constants.AuthorizationHeader] = systemAuthorization
	}
	if principal, ok := ctx.Value(constants.PrincipalContextID).(string); ok && principal != "" {
		headers[constants.XOnBehalfOfHeader] = principal
	}

	var payload any
	switch action {
	case models.ActionCreated, models.ActionUpdated:
		var err error
		payload, err = toIndexPayload(data)
		if err != nil {
			slog.ErrorContext(ctx, "error decoding data for the indexer", logging.ErrKey, err, "subject", subject)
			return err
		}
	case models.ActionDeleted:
		// The data is the uid being deleted.
		payload = string(data)
	}

	message := models.IndexerMessage{
		Action:  action,
		Headers: headers,
		Data:    payload,
		Tags:    tags,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed indexer message",
		"subject", subject,
		"action", action,
		"tags_count", len(tags),
	)

	return m.publish(ctx, subject, messageBytes)
}

// SendIndexMeeting sends the message to the NATS server for the meeting indexing.
func (m *MessageBuilder) SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexMeetingSubject, action, dataBytes, data.Tags())
}

// SendDeleteIndexMeeting sends the message to the NATS server for the meeting indexing.
func (m *MessageBuilder) SendDeleteIndexMeeting(ctx context.Context, meetingUID string) error {
	return m.sendIndexerMessage(ctx, models.IndexMeetingSubject, models.ActionDeleted, []byte(meetingUID), nil)
}

// SendIndexAvailability sends the stored availability record to the indexer.
func (m *MessageBuilder) SendIndexAvailability(ctx context.Context, action models.MessageAction, data models.Availability) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendIndexerMessage(ctx, models.IndexAvailabilitySubject, action, dataBytes, data.Tags())
}

// SendMeetingDeleted announces a meeting deletion so that its availability is removed.
func (m *MessageBuilder) SendMeetingDeleted(ctx context.Context, data models.MeetingDeletedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.publish(ctx, models.MeetingDeletedSubject, dataBytes)
}

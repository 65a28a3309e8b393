// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"github.com/nats-io/nats.go"
)

// NatsMessage adapts a [nats.Msg] to domain.Message.
type NatsMessage struct {
	msg *nats.Msg
}

// NewNatsMessage wraps msg.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{msg: msg}
}

// Subject returns the subject the message was received on.
func (m *NatsMessage) Subject() string {
	return m.msg.Subject
}

// Data returns the message payload.
func (m *NatsMessage) Data() []byte {
	return m.msg.Data
}

// HasReply reports whether the sender waits for a response.
func (m *NatsMessage) HasReply() bool {
	return m.msg.Reply != ""
}

// Respond sends data to the reply subject.
func (m *NatsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"strings"

	"github.com/nats-io/nats.go"
)

// Key prefixes
const (
	KeyPrefixAvailability = "availability"
)

// KeyBuilder builds NATS KV keys from arbitrary strings. Every part except the prefix is
// base64url encoded so that user supplied ids never produce an invalid key or a
// wildcard, and parts are joined with "." so that filtered listing can match on them.
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// AvailabilityKey builds the key of one participant's availability for a meeting.
// The pair maps to exactly one key, which keeps records unique per (meeting, user).
func (kb *KeyBuilder) AvailabilityKey(meetingUID, userID string) string {
	return kb.join(EncodeKeyPart(meetingUID), EncodeKeyPart(userID))
}

// MeetingAvailabilityFilter builds the filter matching every availability key of a meeting.
func (kb *KeyBuilder) MeetingAvailabilityFilter(meetingUID string) string {
	return kb.join(EncodeKeyPart(meetingUID), "*")
}

// ParseAvailabilityKey returns the meeting uid and user id encoded in an availability key.
func (kb *KeyBuilder) ParseAvailabilityKey(key string) (string, string, error) {
	if kb.prefix != "" {
		var ok bool
		key, ok = strings.CutPrefix(key, kb.prefix+".")
		if !ok {
			return "", "", nats.ErrInvalidKey
		}
	}

	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", nats.ErrInvalidKey
	}

	meetingUID, err := DecodeKeyPart(parts[0])
	if err != nil {
		return "", "", err
	}
	userID, err := DecodeKeyPart(parts[1])
	if err != nil {
		return "", "", err
	}
	return meetingUID, userID, nil
}

func (kb *KeyBuilder) join(parts ...string) string {
	if kb.prefix != "" {
		parts = append([]string{kb.prefix}, parts...)
	}
	return strings.Join(parts, ".")
}

// EncodeKeyPart encodes one key token. Based on https://github.com/ripienaar/encodedkv,
// with the URL alphabet since "+" is not a valid key character.
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func EncodeKeyPart(part string) string {
	if part == "" {
		// An empty token would produce ".." which NATS rejects.
		return "_"
	}
	return base64.RawURLEncoding.EncodeToString([]byte(part))
}

// DecodeKeyPart reverses EncodeKeyPart.
func DecodeKeyPart(part string) (string, error) {
	if part == "_" {
		return "", nil
	}
	b, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validKey mirrors the key rule enforced by the NATS client.
var validKey = regexp.MustCompile(`^[-/_=\.a-zA-Z0-9]+$`)

func TestKeyBuilder_AvailabilityKey(t *testing.T) {
	kb := NewKeyBuilder(KeyPrefixAvailability)

	tests := []struct {
		name       string
		meetingUID string
		userID     string
	}{
		{name: "uuid and email", meetingUID: "7cad5a8d-19d0-41a4-81a6-043453daf9ee", userID: "jane@example.edu"},
		{name: "auth0 style subject", meetingUID: "m1", userID: "auth0|123456"},
		{name: "wildcard characters", meetingUID: "*", userID: ">"},
		{name: "dots and spaces", meetingUID: "a.b", userID: "John Smith"},
		{name: "bytes that encode to + and /", meetingUID: "\xfb\xff", userID: "??>"},
		{name: "empty user", meetingUID: "m1", userID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := kb.AvailabilityKey(tt.meetingUID, tt.userID)
			assert.Regexp(t, validKey, key)

			meetingUID, userID, err := kb.ParseAvailabilityKey(key)
			require.NoError(t, err)
			assert.Equal(t, tt.meetingUID, meetingUID)
			assert.Equal(t, tt.userID, userID)

			assert.True(t, subjectMatches(kb.MeetingAvailabilityFilter(tt.meetingUID), key))
		})
	}
}

func TestKeyBuilder_PairsAreDistinct(t *testing.T) {
	kb := NewKeyBuilder(KeyPrefixAvailability)

	assert.NotEqual(t, kb.AvailabilityKey("m1", "u1"), kb.AvailabilityKey("m1", "u2"))
	assert.NotEqual(t, kb.AvailabilityKey("m1", "u1"), kb.AvailabilityKey("m2", "u1"))
	assert.Equal(t, kb.AvailabilityKey("m1", "u1"), kb.AvailabilityKey("m1", "u1"))
	assert.False(t, subjectMatches(kb.MeetingAvailabilityFilter("m2"), kb.AvailabilityKey("m1", "u1")))
}

func TestKeyBuilder_ParseAvailabilityKey_Invalid(t *testing.T) {
	kb := NewKeyBuilder(KeyPrefixAvailability)

	for _, key := range []string{"", "other.bTE.dTE", "availability.bTE", "availability.!!.dTE"} {
		_, _, err := kb.ParseAvailabilityKey(key)
		assert.Error(t, err, key)
	}
}

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		filter, key string
		want        bool
	}{
		{">", "a", true},
		{">", "a.b.c", true},
		{"a.*", "a.b", true},
		{"a.*", "a.b.c", false},
		{"a.>", "a", false},
		{"a.>", "a.b.c", true},
		{"a.b", "a.b", true},
		{"a.b", "a.c", false},
		{"*.b", "x.b", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, subjectMatches(tt.filter, tt.key), "%s ~ %s", tt.filter, tt.key)
	}
}

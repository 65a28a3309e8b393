// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagingSubjects(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		expected string
	}{
		{"IndexMeetingSubject", IndexMeetingSubject, "commeet.index.meeting"},
		{"IndexAvailabilitySubject", IndexAvailabilitySubject, "commeet.index.availability"},
		{"MeetingsAPIQueue", MeetingsAPIQueue, "commeet.meetings-api.queue"},
		{"MeetingDeletedSubject", MeetingDeletedSubject, "commeet.meetings-api.meeting_deleted"},
		{"MeetingGetTitleSubject", MeetingGetTitleSubject, "commeet.meetings-api.get_title"},
		{"MeetingGetSummarySubject", MeetingGetSummarySubject, "commeet.meetings-api.get_summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.subject)
		})
	}
}

func TestIndexerMessage_JSON(t *testing.T) {
	msg := IndexerMessage{
		Action:  ActionUpdated,
		Headers: map[string]string{"authorization": "Bearer x"},
		Data:    Availability{MeetingUID: "m-1", UserID: "u-1", Slots: StringList{"2025-06-01|09:00"}},
		Tags:    []string{"meeting_uid:m-1"},
	}

	b, err := json.Marshal(msg)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "updated", raw["action"])
	assert.Equal(t, []any{"meeting_uid:m-1"}, raw["tags"])
	data := raw["data"].(map[string]any)
	assert.Equal(t, "m-1", data["meeting_uid"])
	assert.Equal(t, []any{"2025-06-01|09:00"}, data["slots"])
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDateRule(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		start    string
		expected []string
	}{
		{
			name:     "weekly on tuesdays",
			rule:     "FREQ=WEEKLY;BYDAY=TU;COUNT=3",
			start:    "2025-06-03",
			expected: []string{"2025-06-03", "2025-06-10", "2025-06-17"},
		},
		{
			name:     "daily with RRULE prefix and unpadded start",
			rule:     "RRULE:FREQ=DAILY;COUNT=2",
			start:    "2025-6-1",
			expected: []string{"2025-06-01", "2025-06-02"},
		},
		{
			name:     "until bound",
			rule:     "FREQ=DAILY;UNTIL=20250603T000000Z",
			start:    "2025-06-01",
			expected: []string{"2025-06-01", "2025-06-02", "2025-06-03"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandDateRule(tt.rule, tt.start, 62)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandDateRule_Empty(t *testing.T) {
	got, err := ExpandDateRule("  ", "2025-06-01", 62)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpandDateRule_Errors(t *testing.T) {
	_, err := ExpandDateRule("FREQ=DAILY;COUNT=2", "June 1st", 62)
	assert.Error(t, err)

	_, err = ExpandDateRule("FREQ=SOMETIMES", "2025-06-01", 62)
	assert.Error(t, err)

	_, err = ExpandDateRule("FREQ=DAILY", "2025-06-01", 62)
	assert.ErrorContains(t, err, "more than 62 dates")

	_, err = ExpandDateRule("FREQ=DAILY;COUNT=5", "2025-06-01", 4)
	assert.Error(t, err)
}

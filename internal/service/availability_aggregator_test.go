// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

func TestCountSlots(t *testing.T) {
	records := []*models.Availability{
		{UserID: "a", Slots: models.StringList{"D|09:00"}},
		{UserID: "b", Slots: models.StringList{"D|09:00", "D|09:30"}},
	}

	assert.Equal(t, map[string]int{"D|09:00": 2, "D|09:30": 1}, CountSlots(records))
}

func TestCountSlots_EmptyAndNil(t *testing.T) {
	assert.Equal(t, map[string]int{}, CountSlots(nil))
	assert.Equal(t, map[string]int{}, CountSlots([]*models.Availability{nil, {UserID: "a"}}))
}

func TestCountSlots_ExactStringKeys(t *testing.T) {
	records := []*models.Availability{
		{UserID: "a", Slots: models.StringList{"2025-3-5|09:00"}},
		{UserID: "b", Slots: models.StringList{"2025-03-05|09:00"}},
	}
	assert.Equal(t, map[string]int{"2025-3-5|09:00": 1, "2025-03-05|09:00": 1}, CountSlots(records))
}

func TestBuildSummary(t *testing.T) {
	meeting := &models.Meeting{
		UID:           "m-1",
		SelectedDates: models.StringList{"2025-06-01", "2025-06-02"},
		StartTime:     "09:00 AM",
		EndTime:       "10:00 AM",
	}
	records := []*models.Availability{
		{UserID: "a", Slots: models.StringList{"2025-06-01|09:00"}},
		{UserID: "b", Slots: models.StringList{}},
	}

	summary := BuildSummary(meeting, records)

	assert.Equal(t, "m-1", summary.MeetingUID)
	assert.Equal(t, []string{"2025-06-01", "2025-06-02"}, summary.SelectedDates)
	assert.Equal(t, "09:00 AM", summary.StartTime)
	assert.Equal(t, "10:00 AM", summary.EndTime)
	assert.Equal(t, map[string]int{"2025-06-01|09:00": 1}, summary.Counts)
	assert.Equal(t, 2, summary.RespondedCount)
}

func TestBuildSummary_NoRecords(t *testing.T) {
	summary := BuildSummary(&models.Meeting{UID: "m-1"}, nil)
	assert.Equal(t, []string{}, summary.SelectedDates)
	assert.Empty(t, summary.Counts)
	assert.NotNil(t, summary.Counts)
	assert.Zero(t, summary.RespondedCount)
}

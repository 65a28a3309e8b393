// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

// CountSlots counts, for every exact slot string, how many stored slot lists contain it.
func CountSlots(records []*models.Availability) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if r == nil {
			continue
		}
		for _, s := range r.Slots {
			counts[s]++
		}
	}
	return counts
}

// BuildSummary combines the meeting constraints with the head count of every slot.
// It is recomputed from the records on every call.
func BuildSummary(meeting *models.Meeting, records []*models.Availability) *models.AvailabilitySummary {
	selected := []string{}
	if meeting.SelectedDates != nil {
		selected = append(selected, meeting.SelectedDates...)
	}

	responded := 0
	for _, r := range records {
		if r != nil {
			responded++
		}
	}

	return &models.AvailabilitySummary{
		MeetingUID:     meeting.UID,
		SelectedDates:  selected,
		StartTime:      meeting.StartTime,
		EndTime:        meeting.EndTime,
		Counts:         CountSlots(records),
		RespondedCount: responded,
	}
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// Meeting is the key-value store representation of a meeting that participants
// report availability for.
type Meeting struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
	// Agenda is free text shown to participants.
	Agenda string `json:"agenda,omitempty"`
	// SelectedDates are the candidate dates in YYYY-MM-DD form.
	SelectedDates StringList `json:"selected_dates"`
	// StartTime and EndTime are 12-hour clock strings such as "09:00 AM" describing one
	// daily window shared by every selected date.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	// DateRule is an optional RRULE whose expansion was merged into SelectedDates.
	DateRule      string     `json:"date_rule,omitempty"`
	DateRuleStart string     `json:"date_rule_start,omitempty"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// MeetingConstraints is the read-only view of a meeting the availability core needs.
type MeetingConstraints struct {
	SelectedDates []string
	StartTime     string
	EndTime       string
}

// Constraints returns the scheduling constraints of the meeting.
func (m *Meeting) Constraints() MeetingConstraints {
	if m == nil {
		return MeetingConstraints{}
	}
	return MeetingConstraints{
		SelectedDates: m.SelectedDates,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
	}
}

// IsCreator reports whether userID owns the meeting.
func (m *Meeting) IsCreator(userID string) bool {
	return m != nil && userID != "" && m.CreatedBy == userID
}

// Tags generates a consistent set of tags for the meeting for searching/indexing.
func (m *Meeting) Tags() []string {
	if m == nil {
		return nil
	}

	tags := []string{}
	if m.UID != "" {
		tags = append(tags, m.UID)
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", m.UID))
	}
	if m.Title != "" {
		tags = append(tags, fmt.Sprintf("title:%s", m.Title))
	}
	if m.CreatedBy != "" {
		tags = append(tags, fmt.Sprintf("created_by:%s", m.CreatedBy))
	}
	for _, d := range m.SelectedDates {
		tags = append(tags, fmt.Sprintf("date:%s", d))
	}
	return tags
}

// MeetingInput carries the caller supplied fields used to create or update a meeting.
type MeetingInput struct {
	Title         string
	Agenda        string
	SelectedDates []string
	StartTime     string
	EndTime       string
	DateRule      string
	DateRuleStart string
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SlotSeparator splits the date and time parts of a slot string.
const SlotSeparator = "|"

// Availability is one participant's current set of free slots for one meeting.
// There is exactly one record per (MeetingUID, UserID).
type Availability struct {
	MeetingUID string     `json:"meeting_uid"`
	UserID     string     `json:"user_id"`
	Slots      StringList `json:"slots"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// Tags generates a consistent set of tags for the availability record for searching/indexing.
func (a *Availability) Tags() []string {
	if a == nil {
		return nil
	}

	tags := []string{}
	if a.MeetingUID != "" {
		tags = append(tags, fmt.Sprintf("meeting_uid:%s", a.MeetingUID))
	}
	if a.UserID != "" {
		tags = append(tags, fmt.Sprintf("user_id:%s", a.UserID))
	}
	return tags
}

// ParticipantAvailability is one entry of the public availability listing.
type ParticipantAvailability struct {
	UserID string   `json:"user"`
	Slots  []string `json:"slots"`
}

// AvailabilitySummary is the per-slot head count for a meeting, computed on demand.
type AvailabilitySummary struct {
	MeetingUID     string         `json:"meeting_uid"`
	SelectedDates  []string       `json:"selected_dates"`
	StartTime      string         `json:"start_time"`
	EndTime        string         `json:"end_time"`
	Counts         map[string]int `json:"counts"`
	RespondedCount int            `json:"responded_count"`
}

// StringList is a list of strings stored as a JSON array in SQL backends.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.New("unsupported type for string list")
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

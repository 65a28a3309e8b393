// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

// RejectReason explains why a submitted slot was dropped.
type RejectReason string

const (
	RejectMalformed       RejectReason = "malformed"
	RejectDateNotSelected RejectReason = "date_not_selected"
	RejectInvalidTime     RejectReason = "invalid_time"
	RejectOutsideWindow   RejectReason = "outside_window"
)

// SlotOutcome is the verdict for one submitted slot. Reason is empty for accepted slots.
type SlotOutcome struct {
	Slot     string
	Accepted bool
	Reason   RejectReason
}

// ValidationResult holds one outcome per submitted slot, in submission order.
type ValidationResult struct {
	Outcomes []SlotOutcome
}

// Accepted returns the accepted slots in their original string form.
func (r ValidationResult) Accepted() []string {
	out := make([]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Accepted {
			out = append(out, o.Slot)
		}
	}
	return out
}

// RejectedCount returns how many slots were dropped.
func (r ValidationResult) RejectedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Accepted {
			n++
		}
	}
	return n
}

// RejectedByReason groups the rejected slots by reason.
func (r ValidationResult) RejectedByReason() map[RejectReason]int {
	out := make(map[RejectReason]int)
	for _, o := range r.Outcomes {
		if !o.Accepted {
			out[o.Reason]++
		}
	}
	return out
}

// AvailabilityValidator filters slot submissions against one meeting's constraints:
// the slot date must be a selected date and the slot time must fall inside the
// half-open daily window [start, end).
type AvailabilityValidator struct {
	allowedDates map[string]struct{}
	startMinutes int
	endMinutes   int
	windowValid  bool
}

// NewAvailabilityValidator prepares a validator for the given meeting constraints.
// A window whose bounds do not parse accepts nothing.
func NewAvailabilityValidator(c models.MeetingConstraints) *AvailabilityValidator {
	allowed := make(map[string]struct{}, len(c.SelectedDates))
	for _, d := range c.SelectedDates {
		allowed[NormalizeDateKey(d)] = struct{}{}
	}

	start, okStart := ParseClockTime(c.StartTime)
	end, okEnd := ParseClockTime(c.EndTime)

	return &AvailabilityValidator{
		allowedDates: allowed,
		startMinutes: start,
		endMinutes:   end,
		windowValid:  okStart && okEnd,
	}
}

// Evaluate returns the verdict for a single slot string.
func (v *AvailabilityValidator) Evaluate(slot string) SlotOutcome {
	date, clock, ok := SplitSlot(slot)
	if !ok {
		return SlotOutcome{Slot: slot, Reason: RejectMalformed}
	}

	if _, allowed := v.allowedDates[NormalizeDateKey(date)]; !allowed {
		return SlotOutcome{Slot: slot, Reason: RejectDateNotSelected}
	}

	minutes, ok := ParseSlotTime(clock)
	if !ok || !v.windowValid {
		return SlotOutcome{Slot: slot, Reason: RejectInvalidTime}
	}

	if minutes < v.startMinutes || minutes >= v.endMinutes {
		return SlotOutcome{Slot: slot, Reason: RejectOutsideWindow}
	}

	return SlotOutcome{Slot: slot, Accepted: true}
}

// Validate evaluates every submitted slot. Duplicates are kept; callers that store
// the result de-duplicate with DedupeSlots.
func (v *AvailabilityValidator) Validate(slots []string) ValidationResult {
	outcomes := make([]SlotOutcome, 0, len(slots))
	for _, s := range slots {
		outcomes = append(outcomes, v.Evaluate(s))
	}
	return ValidationResult{Outcomes: outcomes}
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

const (
	dateKeyLayout  = "2006-01-02"
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// NormalizeDateKey rewrites a YYYY-M-D date to YYYY-MM-DD. Input that does not have
// exactly three dash separated parts is returned unchanged, so it simply never matches
// an allowed date.
func NormalizeDateKey(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[0] + "-" + padTwo(parts[1]) + "-" + padTwo(parts[2])
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

// IsCalendarDate reports whether a normalized date key names a real calendar day.
func IsCalendarDate(key string) bool {
	_, err := time.Parse(dateKeyLayout, key)
	return err == nil
}

// ParseClockTime converts a 12-hour clock string such as "9:30 AM" into minutes since
// midnight. The hour is taken modulo 12 and PM adds 12 hours, so "12:00 AM" is 0 and
// "12:00 PM" is 720. Only input that does not parse is rejected: "13:00 PM" is 780 and
// "9:75 AM" is 615.
func ParseClockTime(clock string) (int, bool) {
	fields := strings.Fields(clock)
	if len(fields) != 2 {
		return 0, false
	}

	hour, minute, ok := splitHourMinute(fields[0])
	if !ok {
		return 0, false
	}

	hour %= 12
	switch strings.ToUpper(fields[1]) {
	case "AM":
	case "PM":
		hour += 12
	default:
		return 0, false
	}

	return hour*minutesPerHour + minute, true
}

// ParseSlotTime converts a 24-hour "HH:MM" slot time into minutes since midnight. Out
// of range parts are not rejected here; the meeting window check drops them.
func ParseSlotTime(clock string) (int, bool) {
	hour, minute, ok := splitHourMinute(clock)
	if !ok {
		return 0, false
	}
	return hour*minutesPerHour + minute, true
}

// IsStrictClockTime reports whether clock is a 12-hour time with an hour in 1-12 and
// a minute in 0-59.
func IsStrictClockTime(clock string) bool {
	fields := strings.Fields(clock)
	if len(fields) != 2 {
		return false
	}
	hour, minute, ok := splitHourMinute(fields[0])
	if !ok || hour < 1 || hour > 12 || minute > 59 {
		return false
	}
	_, ok = ParseClockTime(clock)
	return ok
}

func splitHourMinute(s string) (int, int, bool) {
	h, m, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 {
		return 0, 0, false
	}
	return hour, minute, true
}

// SplitSlot splits a "date|time" slot string. Both parts must be present and non-empty
// and the separator must appear exactly once.
func SplitSlot(slot string) (date, clock string, ok bool) {
	date, clock, found := strings.Cut(slot, models.SlotSeparator)
	if !found || date == "" || clock == "" || strings.Contains(clock, models.SlotSeparator) {
		return "", "", false
	}
	return date, clock, true
}

// CanonicalSlotKey is the formatting independent identity of a slot: a padded date key
// and a zero padded 24-hour time.
func CanonicalSlotKey(dateKey string, minutes int) string {
	return fmt.Sprintf("%s%s%02d:%02d", dateKey, models.SlotSeparator, minutes/minutesPerHour, minutes%minutesPerHour)
}

// FormatClockTime renders minutes since midnight as a 12-hour clock string.
func FormatClockTime(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hour := minutes / minutesPerHour
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minutes%minutesPerHour, suffix)
}

// DedupeSlots drops slots that denote the same date and time as an earlier slot in the
// list, keeping the first occurrence in its original form. Slots that cannot be parsed
// are compared by their raw string.
func DedupeSlots(slots []string) []string {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		key := s
		if date, clock, ok := SplitSlot(s); ok {
			if minutes, ok := ParseSlotTime(clock); ok {
				key = CanonicalSlotKey(NormalizeDateKey(date), minutes)
			}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// ExpandDateRule expands an RFC 5545 recurrence rule (for example
// "FREQ=WEEKLY;BYDAY=TU;COUNT=4") that starts on the given YYYY-MM-DD date into
// date keys. More than limit dates is an error, which also stops open ended rules.
func ExpandDateRule(rule, start string, limit int) ([]string, error) {
	rule = strings.TrimPrefix(strings.TrimSpace(rule), "RRULE:")
	if rule == "" {
		return nil, nil
	}

	startKey := NormalizeDateKey(start)
	dtstart, err := time.Parse(dateKeyLayout, startKey)
	if err != nil {
		return nil, fmt.Errorf("invalid date rule start %q: %w", start, err)
	}

	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid date rule: %w", err)
	}
	opt.Dtstart = dtstart

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid date rule: %w", err)
	}

	var dates []string
	next := r.Iterator()
	for {
		t, ok := next()
		if !ok {
			break
		}
		if len(dates) == limit {
			return nil, fmt.Errorf("date rule expands to more than %d dates", limit)
		}
		dates = append(dates, t.Format(dateKeyLayout))
	}
	return dates, nil
}

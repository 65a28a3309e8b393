// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package design

import . "goa.design/goa/v3/dsl" //nolint:staticcheck // ST1001: the recommended way of using the goa DSL package is with the . import

// MeetingInputAttributes are the caller supplied fields of a meeting.
func MeetingInputAttributes() {
	Attribute("title", String, "The title of the meeting", func() {
		MaxLength(200)
		Example("Officer sync")
	})
	Attribute("agenda", String, "Free text agenda", func() {
		MaxLength(5000)
	})
	Attribute("selected_dates", ArrayOf(String, func() {
		Format(FormatDate)
	}), "Candidate dates in YYYY-MM-DD form", func() {
		MaxLength(62)
		Example([]string{"2025-06-10", "2025-06-11"})
	})
	Attribute("start_time", String, "Start of the daily window, 12-hour clock", func() {
		Pattern(`^(0?[1-9]|1[0-2]):[0-5][0-9] ?([AaPp][Mm])$`)
		Example("09:00 AM")
	})
	Attribute("end_time", String, "End of the daily window, 12-hour clock", func() {
		Pattern(`^(0?[1-9]|1[0-2]):[0-5][0-9] ?([AaPp][Mm])$`)
		Example("05:00 PM")
	})
	Attribute("date_rule", String, "Optional RRULE expanded into additional candidate dates", func() {
		Example("FREQ=WEEKLY;COUNT=4;BYDAY=TU")
	})
	Attribute("date_rule_start", String, "First date of the recurrence rule", func() {
		Format(FormatDate)
		Example("2025-06-10")
	})
}

// MeetingInput is the request body to create or update a meeting.
var MeetingInput = Type("MeetingInput", func() {
	Description("The fields of a meeting participants report availability for.")
	MeetingInputAttributes()
	Required("title", "start_time", "end_time")
})

// Meeting is the stored meeting.
var Meeting = Type("Meeting", func() {
	Description("A meeting participants report availability for.")
	MeetingUIDAttribute()
	MeetingInputAttributes()
	Attribute("created_by", String, "The principal who created the meeting")
	CreatedAtAttribute()
	UpdatedAtAttribute()
	Required("uid", "title", "selected_dates", "start_time", "end_time", "created_by")
})

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package design

import . "goa.design/goa/v3/dsl" //nolint:staticcheck // ST1001: the recommended way of using the goa DSL package is with the . import

// SlotsAttribute is the list of "YYYY-MM-DD|HH:MM" slot strings.
func SlotsAttribute() {
	Attribute("slots", ArrayOf(String), "Free 30 minute slots as date|time strings", func() {
		MaxLength(2000)
		Example([]string{"2025-06-10|09:00", "2025-06-10|09:30"})
	})
}

// ParticipantAvailability is one participant's slots in the public listing.
var ParticipantAvailability = Type("ParticipantAvailability", func() {
	Attribute("user", String, "The participant")
	SlotsAttribute()
	Required("user", "slots")
})

// AvailabilitySummary is the per-slot head count of a meeting.
var AvailabilitySummary = Type("AvailabilitySummary", func() {
	Attribute("meeting_uid", String, "The UID of the meeting")
	Attribute("selected_dates", ArrayOf(String), "Candidate dates of the meeting")
	Attribute("start_time", String, "Start of the daily window")
	Attribute("end_time", String, "End of the daily window")
	Attribute("counts", MapOf(String, Int), "Number of participants free per slot")
	Attribute("responded_count", Int, "Number of participants who submitted availability")
	Required("meeting_uid", "selected_dates", "start_time", "end_time", "counts", "responded_count")
})

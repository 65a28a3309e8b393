// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Meeting scheduling constraints
const (
	// MaxSelectedDates caps how many candidate dates a meeting may carry, including dates
	// produced by expanding a recurrence rule.
	MaxSelectedDates = 62

	// MaxTitleLength is the maximum length of a meeting title
	MaxTitleLength = 200

	// MaxAgendaLength is the maximum length of a meeting agenda
	MaxAgendaLength = 5000

	// MaxSlotsPerSubmission bounds the number of slot strings accepted in one availability write.
	MaxSlotsPerSubmission = 2000

	// MaxRequestBodyBytes bounds every JSON request body. A full availability write of
	// MaxSlotsPerSubmission slots is about 40 KiB.
	MaxRequestBodyBytes = 64 << 10
)

// Roles carried in the identity token that are allowed to create meetings.
const (
	RoleOfficer = "officer"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
	RoleMember  = "member"
)

// MeetingCreatorRoles lists the roles that may create meetings.
var MeetingCreatorRoles = []string{RoleOfficer, RoleFaculty, RoleAdmin}

// KV bucket names
const (
	// KVBucketNameMeetings is the JetStream KV bucket holding meeting records
	KVBucketNameMeetings = "commeet-meetings"

	// KVBucketNameAvailability is the JetStream KV bucket holding availability records
	KVBucketNameAvailability = "commeet-availability"
)

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the commeet service sends messages about.
const (
	// IndexMeetingSubject is the subject for the meeting indexing.
	// The subject is of the form: commeet.index.meeting
	IndexMeetingSubject = "commeet.index.meeting"

	// IndexAvailabilitySubject is the subject for the availability indexing.
	// The subject is of the form: commeet.index.availability
	IndexAvailabilitySubject = "commeet.index.availability"
)

// NATS wildcard subjects that the commeet service handles messages about.
const (
	// MeetingsAPIQueue is the queue group shared by every replica of the service.
	// The subject is of the form: commeet.meetings-api.queue
	MeetingsAPIQueue = "commeet.meetings-api.queue"
)

// NATS specific subjects that the commeet service handles messages about.
const (
	// MeetingDeletedSubject is the subject for meeting deletion events.
	// The subject is of the form: commeet.meetings-api.meeting_deleted
	MeetingDeletedSubject = "commeet.meetings-api.meeting_deleted"

	// MeetingGetTitleSubject answers meeting title lookups.
	// The subject is of the form: commeet.meetings-api.get_title
	MeetingGetTitleSubject = "commeet.meetings-api.get_title"

	// MeetingGetSummarySubject answers availability summary requests.
	// The subject is of the form: commeet.meetings-api.get_summary
	MeetingGetSummarySubject = "commeet.meetings-api.get_summary"
)

// MessageAction is a type for the action of an indexer message.
type MessageAction string

// MessageAction constants for the action of an indexer message.
const (
	// ActionCreated is the action for a resource creation message.
	ActionCreated MessageAction = "created"
	// ActionUpdated is the action for a resource update message.
	ActionUpdated MessageAction = "updated"
	// ActionDeleted is the action for a resource deletion message.
	ActionDeleted MessageAction = "deleted"
)

// IndexerMessage is a NATS message schema for sending messages related to CRUD operations.
type IndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	// Tags is a list of tags to be set on the indexed resource for search.
	Tags []string `json:"tags"`
}

// MeetingDeletedMessage is the schema for the message sent when a meeting is deleted.
// It triggers removal of every availability record of the meeting.
type MeetingDeletedMessage struct {
	MeetingUID string `json:"meeting_uid"`
}

// SummaryRequestMessage asks for the availability summary of a meeting.
type SummaryRequestMessage struct {
	MeetingUID string `json:"meeting_uid"`
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-commeet-service/pkg/constants"
)

// MeetingRequest is the JSON body to create or update a meeting.
type MeetingRequest struct {
	Title         string   `json:"title"`
	Agenda        string   `json:"agenda,omitempty"`
	SelectedDates []string `json:"selected_dates"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	DateRule      string   `json:"date_rule,omitempty"`
	DateRuleStart string   `json:"date_rule_start,omitempty"`
}

func (m *MeetingRequest) input() *models.MeetingInput {
	return &models.MeetingInput{
		Title:         m.Title,
		Agenda:        m.Agenda,
		SelectedDates: m.SelectedDates,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		DateRule:      m.DateRule,
		DateRuleStart: m.DateRuleStart,
	}
}

// MeetingsResult is the body of the meeting listing.
type MeetingsResult struct {
	Meetings []*models.Meeting `json:"meetings"`
}

// ListMeetings lists every meeting, newest first.
func (s *CommeetAPI) ListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meetings, err := s.meetingService.ListMeetings(ctx)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}
	if meetings == nil {
		meetings = []*models.Meeting{}
	}

	s.encode(ctx, w, http.StatusOK, &MeetingsResult{Meetings: meetings})
}

// CreateMeeting creates a new meeting owned by the caller.
func (s *CommeetAPI) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx, identity, err := s.authenticate(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	var payload MeetingRequest
	if err := s.decode(w, r, &payload); err != nil {
		s.handleError(ctx, w, err)
		return
	}

	meeting, etag, err := s.meetingService.CreateMeeting(ctx, identity, payload.input())
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	w.Header().Set(constants.EtagHeader, strconv.Quote(etag))
	s.encode(ctx, w, http.StatusCreated, meeting)
}

// GetMeeting returns one meeting with its revision in the ETag header.
func (s *CommeetAPI) GetMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid, err := s.pathUID(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	meeting, etag, err := s.meetingService.GetMeeting(ctx, uid)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	w.Header().Set(constants.EtagHeader, strconv.Quote(etag))
	s.encode(ctx, w, http.StatusOK, meeting)
}

// UpdateMeeting replaces the editable fields of a meeting.
func (s *CommeetAPI) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx, identity, err := s.authenticate(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	uid, err := s.pathUID(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	revision, err := s.revisionFromRequest(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	var payload MeetingRequest
	if err := s.decode(w, r, &payload); err != nil {
		s.handleError(ctx, w, err)
		return
	}

	meeting, err := s.meetingService.UpdateMeeting(ctx, identity, uid, payload.input(), revision)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.encode(ctx, w, http.StatusOK, meeting)
}

// DeleteMeeting deletes a meeting. Its availability is removed asynchronously.
func (s *CommeetAPI) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	ctx, identity, err := s.authenticate(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	uid, err := s.pathUID(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	revision, err := s.revisionFromRequest(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	if err := s.meetingService.DeleteMeeting(ctx, identity, uid, revision); err != nil {
		s.handleError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
)

// SlotsBody is the request and response body of the caller's availability.
type SlotsBody struct {
	Slots []string `json:"slots"`
}

// GetAvailability lists every participant's stored slots for a meeting.
func (s *CommeetAPI) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid, err := s.pathUID(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	participants, err := s.availabilityService.GetAvailabilityForMeeting(ctx, uid)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.encode(ctx, w, http.StatusOK, participants)
}

// GetMyAvailability returns the caller's stored slots.
func (s *CommeetAPI) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
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

	slots, err := s.availabilityService.GetMyAvailability(ctx, identity, uid)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.encode(ctx, w, http.StatusOK, &SlotsBody{Slots: slots})
}

// SetMyAvailability replaces the caller's slots and returns the ones that were kept.
func (s *CommeetAPI) SetMyAvailability(w http.ResponseWriter, r *http.Request) {
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

	var payload SlotsBody
	if err := s.decode(w, r, &payload); err != nil {
		s.handleError(ctx, w, err)
		return
	}
	if payload.Slots == nil {
		s.handleError(ctx, w, domain.NewValidationError("slots is required", domain.ErrValidationFailed))
		return
	}

	stored, err := s.availabilityService.SetMyAvailability(ctx, identity, uid, payload.Slots)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.encode(ctx, w, http.StatusOK, &SlotsBody{Slots: stored})
}

// GetAvailabilitySummary returns the per-slot head count of a meeting.
func (s *CommeetAPI) GetAvailabilitySummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uid, err := s.pathUID(r)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	summary, err := s.availabilityService.GetAvailabilitySummary(ctx, uid)
	if err != nil {
		s.handleError(ctx, w, err)
		return
	}

	s.encode(ctx, w, http.StatusOK, summary)
}

// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

func setupMeetingServiceForTesting() (*MeetingService, *mocks.MockMeetingRepository, *mocks.MockMessageBuilder) {
	repo := &mocks.MockMeetingRepository{}
	builder := &mocks.MockMessageBuilder{}
	svc := NewMeetingService(repo, builder, ServiceConfig{})
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, repo, builder
}

func officer() *models.Identity {
	return &models.Identity{ID: "officer-1", Role: "officer"}
}

func validInput() *models.MeetingInput {
	return &models.MeetingInput{
		Title:         "  Budget review  ",
		Agenda:        "Q3 numbers",
		SelectedDates: []string{"2025-6-11", "2025-06-10", "2025-06-11"},
		StartTime:     "9:00 am",
		EndTime:       "5:30 PM",
	}
}

func TestMeetingService_ServiceReady(t *testing.T) {
	svc, _, _ := setupMeetingServiceForTesting()
	assert.True(t, svc.ServiceReady())

	assert.False(t, NewMeetingService(nil, &mocks.MockMessageBuilder{}, ServiceConfig{}).ServiceReady())
	assert.False(t, NewMeetingService(&mocks.MockMeetingRepository{}, nil, ServiceConfig{}).ServiceReady())
}

func TestMeetingService_CreateMeeting(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and stores", func(t *testing.T) {
		svc, repo, builder := setupMeetingServiceForTesting()
		repo.On("CreateMeeting", mock.Anything, mock.AnythingOfType("*models.Meeting")).Return(uint64(12), nil)
		builder.On("SendIndexMeeting", mock.Anything, models.ActionCreated, mock.AnythingOfType("models.Meeting")).Return(nil)

		m, etag, err := svc.CreateMeeting(ctx, officer(), validInput())

		require.NoError(t, err)
		assert.Equal(t, "12", etag)
		assert.NotEmpty(t, m.UID)
		assert.Equal(t, "Budget review", m.Title)
		assert.Equal(t, models.StringList{"2025-06-10", "2025-06-11"}, m.SelectedDates)
		assert.Equal(t, "09:00 AM", m.StartTime)
		assert.Equal(t, "05:30 PM", m.EndTime)
		assert.Equal(t, "officer-1", m.CreatedBy)
		require.NotNil(t, m.CreatedAt)
		repo.AssertExpectations(t)
		builder.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the create", func(t *testing.T) {
		svc, repo, builder := setupMeetingServiceForTesting()
		repo.On("CreateMeeting", mock.Anything, mock.Anything).Return(uint64(1), nil)
		builder.On("SendIndexMeeting", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("nats down"))

		_, _, err := svc.CreateMeeting(ctx, officer(), validInput())

		assert.NoError(t, err)
	})

	t.Run("date rule is merged", func(t *testing.T) {
		svc, repo, builder := setupMeetingServiceForTesting()
		repo.On("CreateMeeting", mock.Anything, mock.Anything).Return(uint64(1), nil)
		builder.On("SendIndexMeeting", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		in := validInput()
		in.SelectedDates = []string{"2025-06-02"}
		in.DateRule = "FREQ=WEEKLY;COUNT=3"
		in.DateRuleStart = "2025-6-3"

		m, _, err := svc.CreateMeeting(ctx, officer(), in)

		require.NoError(t, err)
		assert.Equal(t, models.StringList{"2025-06-02", "2025-06-03", "2025-06-10", "2025-06-17"}, m.SelectedDates)
		assert.Equal(t, "2025-06-03", m.DateRuleStart)
	})

	t.Run("empty date list is allowed", func(t *testing.T) {
		svc, repo, builder := setupMeetingServiceForTesting()
		repo.On("CreateMeeting", mock.Anything, mock.Anything).Return(uint64(1), nil)
		builder.On("SendIndexMeeting", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		in := validInput()
		in.SelectedDates = nil

		m, _, err := svc.CreateMeeting(ctx, officer(), in)

		require.NoError(t, err)
		assert.Empty(t, m.SelectedDates)
	})

	tests := []struct {
		name     string
		identity *models.Identity
		mutate   func(*models.MeetingInput)
		wantType domain.ErrorType
	}{
		{name: "anonymous", identity: nil, wantType: domain.ErrorTypeUnauthorized},
		{name: "member cannot create", identity: &models.Identity{ID: "m", Role: "member"}, wantType: domain.ErrorTypeForbidden},
		{name: "missing title", identity: officer(), mutate: func(in *models.MeetingInput) { in.Title = " " }, wantType: domain.ErrorTypeValidation},
		{name: "title too long", identity: officer(), mutate: func(in *models.MeetingInput) { in.Title = strings.Repeat("x", 201) }, wantType: domain.ErrorTypeValidation},
		{name: "agenda too long", identity: officer(), mutate: func(in *models.MeetingInput) { in.Agenda = strings.Repeat("x", 5001) }, wantType: domain.ErrorTypeValidation},
		{name: "bad start time", identity: officer(), mutate: func(in *models.MeetingInput) { in.StartTime = "09:00" }, wantType: domain.ErrorTypeValidation},
		{name: "bad end time", identity: officer(), mutate: func(in *models.MeetingInput) { in.EndTime = "25:00 PM" }, wantType: domain.ErrorTypeValidation},
		{name: "start hour out of range", identity: officer(), mutate: func(in *models.MeetingInput) { in.StartTime = "0:30 AM" }, wantType: domain.ErrorTypeValidation},
		{name: "start not before end", identity: officer(), mutate: func(in *models.MeetingInput) { in.StartTime = "05:30 PM" }, wantType: domain.ErrorTypeValidation},
		{name: "invalid date", identity: officer(), mutate: func(in *models.MeetingInput) { in.SelectedDates = []string{"2025-02-30"} }, wantType: domain.ErrorTypeValidation},
		{name: "rule without start", identity: officer(), mutate: func(in *models.MeetingInput) { in.DateRule = "FREQ=DAILY;COUNT=2" }, wantType: domain.ErrorTypeValidation},
		{name: "unbounded rule", identity: officer(), mutate: func(in *models.MeetingInput) {
			in.DateRule = "FREQ=DAILY"
			in.DateRuleStart = "2025-06-01"
		}, wantType: domain.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := setupMeetingServiceForTesting()
			in := validInput()
			if tt.mutate != nil {
				tt.mutate(in)
			}

			_, _, err := svc.CreateMeeting(ctx, tt.identity, in)

			require.Error(t, err)
			assert.Equal(t, tt.wantType, domain.GetErrorType(err))
			repo.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
		})
	}

	t.Run("too many dates", func(t *testing.T) {
		svc, _, _ := setupMeetingServiceForTesting()
		in := validInput()
		in.SelectedDates = nil
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range 63 {
			in.SelectedDates = append(in.SelectedDates, start.AddDate(0, 0, i).Format(time.DateOnly))
		}

		_, _, err := svc.CreateMeeting(ctx, officer(), in)

		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("store failure is generic", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("CreateMeeting", mock.Anything, mock.Anything).Return(uint64(0), errors.New("disk full"))

		_, _, err := svc.CreateMeeting(ctx, officer(), validInput())

		assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
		assert.Equal(t, "operation failed", domain.GetErrorMessage(err))
	})
}

func TestMeetingService_GetMeeting(t *testing.T) {
	ctx := context.Background()

	t.Run("returns revision", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(&models.Meeting{UID: "m1"}, uint64(7), nil)

		m, etag, err := svc.GetMeeting(ctx, "m1")

		require.NoError(t, err)
		assert.Equal(t, "m1", m.UID)
		assert.Equal(t, "7", etag)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").
			Return(nil, uint64(0), domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound))

		_, _, err := svc.GetMeeting(ctx, "m1")

		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
		assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
	})
}

func TestMeetingService_ListMeetings(t *testing.T) {
	svc, repo, _ := setupMeetingServiceForTesting()
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	repo.On("ListAllMeetings", mock.Anything).Return([]*models.Meeting{
		{UID: "old", CreatedAt: &older},
		{UID: "none"},
		{UID: "new", CreatedAt: &newer},
	}, nil)

	meetings, err := svc.ListMeetings(context.Background())

	require.NoError(t, err)
	uids := []string{}
	for _, m := range meetings {
		uids = append(uids, m.UID)
	}
	assert.Equal(t, []string{"new", "old", "none"}, uids)
}

func TestMeetingService_UpdateMeeting(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.Meeting{UID: "m1", Title: "Old", CreatedBy: "officer-1", CreatedAt: &created}

	t.Run("creator updates", func(t *testing.T) {
		svc, repo, builder := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(existing, uint64(3), nil)
		repo.On("UpdateMeeting", mock.Anything, mock.MatchedBy(func(m *models.Meeting) bool {
			return m.UID == "m1" && m.CreatedBy == "officer-1" && m.Title == "Budget review" && m.CreatedAt.Equal(created)
		}), uint64(3)).Return(nil)
		builder.On("SendIndexMeeting", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

		m, err := svc.UpdateMeeting(ctx, officer(), "m1", validInput(), 3)

		require.NoError(t, err)
		assert.Equal(t, "Budget review", m.Title)
		repo.AssertExpectations(t)
	})

	t.Run("skip etag validation uses current revision", func(t *testing.T) {
		svc, repo, builder := setupMeetingServiceForTesting()
		svc.Config.SkipEtagValidation = true
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(existing, uint64(9), nil)
		repo.On("UpdateMeeting", mock.Anything, mock.Anything, uint64(9)).Return(nil)
		builder.On("SendIndexMeeting", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.UpdateMeeting(ctx, officer(), "m1", validInput(), 0)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("non creator is forbidden", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(existing, uint64(3), nil)

		_, err := svc.UpdateMeeting(ctx, &models.Identity{ID: "officer-2", Role: "officer"}, "m1", validInput(), 3)

		assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
		repo.AssertNotCalled(t, "UpdateMeeting", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stale revision is a conflict", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(existing, uint64(4), nil)
		repo.On("UpdateMeeting", mock.Anything, mock.Anything, uint64(3)).
			Return(domain.NewConflictError("meeting has been modified", domain.ErrRevisionMismatch))

		_, err := svc.UpdateMeeting(ctx, officer(), "m1", validInput(), 3)

		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	})

	t.Run("anonymous", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()

		_, err := svc.UpdateMeeting(ctx, nil, "m1", validInput(), 3)

		assert.Equal(t, domain.ErrorTypeUnauthorized, domain.GetErrorType(err))
		repo.AssertNotCalled(t, "GetMeetingWithRevision", mock.Anything, mock.Anything)
	})
}

func TestMeetingService_DeleteMeeting(t *testing.T) {
	ctx := context.Background()
	existing := &models.Meeting{UID: "m1", CreatedBy: "officer-1"}

	t.Run("creator deletes and announces", func(t *testing.T) {
		svc, repo, builder := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(existing, uint64(2), nil)
		repo.On("DeleteMeeting", mock.Anything, "m1", uint64(2)).Return(nil)
		builder.On("SendDeleteIndexMeeting", mock.Anything, "m1").Return(nil)
		builder.On("SendMeetingDeleted", mock.Anything, models.MeetingDeletedMessage{MeetingUID: "m1"}).Return(nil)

		require.NoError(t, svc.DeleteMeeting(ctx, officer(), "m1", 2))

		repo.AssertExpectations(t)
		builder.AssertExpectations(t)
	})

	t.Run("non creator is forbidden", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(existing, uint64(2), nil)

		err := svc.DeleteMeeting(ctx, &models.Identity{ID: "someone"}, "m1", 2)

		assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	})

	t.Run("missing meeting", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").
			Return(nil, uint64(0), domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound))

		err := svc.DeleteMeeting(ctx, officer(), "m1", 2)

		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("stale revision", func(t *testing.T) {
		svc, repo, _ := setupMeetingServiceForTesting()
		repo.On("GetMeetingWithRevision", mock.Anything, "m1").Return(existing, uint64(5), nil)
		repo.On("DeleteMeeting", mock.Anything, "m1", uint64(2)).
			Return(domain.NewConflictError("meeting has been modified", domain.ErrRevisionMismatch))

		err := svc.DeleteMeeting(ctx, officer(), "m1", 2)

		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	})
}

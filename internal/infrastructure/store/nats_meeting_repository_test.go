// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

func testMeeting(uid string) *models.Meeting {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.Meeting{
		UID:           uid,
		Title:         "Officer sync",
		SelectedDates: models.StringList{"2025-06-10", "2025-06-11"},
		StartTime:     "09:00 AM",
		EndTime:       "05:00 PM",
		CreatedBy:     "officer-1",
		CreatedAt:     &now,
		UpdatedAt:     &now,
	}
}

func TestNewNatsMeetingRepository(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMemoryKeyValue("meetings"))
	assert.True(t, repo.IsReady())

	assert.False(t, NewNatsMeetingRepository(nil).IsReady())
}

func TestNatsMeetingRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMemoryKeyValue("meetings"))

	m := testMeeting("meeting-1")
	created, err := repo.CreateMeeting(ctx, m)
	require.NoError(t, err)

	got, rev, err := repo.GetMeetingWithRevision(ctx, "meeting-1")
	require.NoError(t, err)
	assert.Equal(t, rev, created)
	assert.Equal(t, m.Title, got.Title)
	assert.Equal(t, m.SelectedDates, got.SelectedDates)
	assert.True(t, m.CreatedAt.Equal(*got.CreatedAt))

	exists, err := repo.MeetingExists(ctx, "meeting-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNatsMeetingRepository_CreateReturnsBucketRevision(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMemoryKeyValue("meetings"))

	first, err := repo.CreateMeeting(ctx, testMeeting("meeting-1"))
	require.NoError(t, err)
	second, err := repo.CreateMeeting(ctx, testMeeting("meeting-2"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)

	m, err := repo.GetMeeting(ctx, "meeting-2")
	require.NoError(t, err)
	m.Title = "Renamed"
	assert.NoError(t, repo.UpdateMeeting(ctx, m, second))
}

func TestNatsMeetingRepository_GetNotFound(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMemoryKeyValue("meetings"))

	_, err := repo.GetMeeting(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))

	exists, err := repo.MeetingExists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNatsMeetingRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMemoryKeyValue("meetings"))
	_, err := repo.CreateMeeting(ctx, testMeeting("meeting-1"))
	require.NoError(t, err)

	m, rev, err := repo.GetMeetingWithRevision(ctx, "meeting-1")
	require.NoError(t, err)

	m.Title = "Renamed"
	require.NoError(t, repo.UpdateMeeting(ctx, m, rev))

	got, err := repo.GetMeeting(ctx, "meeting-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	t.Run("stale revision", func(t *testing.T) {
		err := repo.UpdateMeeting(ctx, m, rev)
		assert.ErrorIs(t, err, domain.ErrRevisionMismatch)
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
	})
}

func TestNatsMeetingRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMemoryKeyValue("meetings"))
	_, err := repo.CreateMeeting(ctx, testMeeting("meeting-1"))
	require.NoError(t, err)

	m, stale, err := repo.GetMeetingWithRevision(ctx, "meeting-1")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateMeeting(ctx, m, stale))
	_, rev, err := repo.GetMeetingWithRevision(ctx, "meeting-1")
	require.NoError(t, err)

	err = repo.DeleteMeeting(ctx, "meeting-1", stale)
	assert.ErrorIs(t, err, domain.ErrRevisionMismatch)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))

	require.NoError(t, repo.DeleteMeeting(ctx, "meeting-1", rev))

	_, err = repo.GetMeeting(ctx, "meeting-1")
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)

	err = repo.DeleteMeeting(ctx, "meeting-1", rev)
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
}

func TestNatsMeetingRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	repo := NewNatsMeetingRepository(NewMemoryKeyValue("meetings"))

	empty, err := repo.ListAllMeetings(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, uid := range []string{"a", "b", "c"} {
		_, err := repo.CreateMeeting(ctx, testMeeting(uid))
		require.NoError(t, err)
	}

	all, err := repo.ListAllMeetings(ctx)
	require.NoError(t, err)
	uids := []string{}
	for _, m := range all {
		uids = append(uids, m.UID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, uids)
}

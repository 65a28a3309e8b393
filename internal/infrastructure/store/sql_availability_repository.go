// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-commeet-service/internal/domain/models"
)

type availabilityRow struct {
	MeetingUID string            `db:"meeting_uid"`
	UserID     string            `db:"user_id"`
	Slots      models.StringList `db:"slots"`
	CreatedAt  int64             `db:"created_at"`
	UpdatedAt  int64             `db:"updated_at"`
}

func (r availabilityRow) availability() *models.Availability {
	slots := r.Slots
	if slots == nil {
		slots = models.StringList{}
	}
	return &models.Availability{
		MeetingUID: r.MeetingUID,
		UserID:     r.UserID,
		Slots:      slots,
		CreatedAt:  fromMillis(r.CreatedAt),
		UpdatedAt:  fromMillis(r.UpdatedAt),
	}
}

// SQLAvailabilityRepository stores availability with a composite primary key on
// (meeting_uid, user_id). Upserts are a single INSERT ... ON CONFLICT statement.
type SQLAvailabilityRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLAvailabilityRepository creates a new SQL availability repository.
func NewSQLAvailabilityRepository(db *sqlx.DB) *SQLAvailabilityRepository {
	return &SQLAvailabilityRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLAvailabilityRepository) ready() error {
	if s.db == nil {
		return domain.NewUnavailableError("availability repository is not available", domain.ErrServiceUnavailable)
	}
	return nil
}

// UpsertAvailability replaces the slot list of the pair, keeping its creation time. The
// stored timestamps are written back to availability.
func (s *SQLAvailabilityRepository) UpsertAvailability(ctx context.Context, availability *models.Availability) error {
	if err := s.ready(); err != nil {
		return err
	}
	now := s.now().UnixMilli()
	slots := availability.Slots
	if slots == nil {
		slots = models.StringList{}
	}
	var stored struct {
		CreatedAt int64 `db:"created_at"`
		UpdatedAt int64 `db:"updated_at"`
	}
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`INSERT INTO meeting_availability
			(meeting_uid, user_id, slots, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (meeting_uid, user_id)
		DO UPDATE SET slots = excluded.slots, updated_at = excluded.updated_at
		RETURNING created_at, updated_at`),
		availability.MeetingUID, availability.UserID, slots, now, now).StructScan(&stored)
	if err != nil {
		return sqlError(ctx, err, "availability", domain.ErrAvailabilityNotFound)
	}
	availability.CreatedAt = fromMillis(stored.CreatedAt)
	availability.UpdatedAt = fromMillis(stored.UpdatedAt)
	return nil
}

// GetAvailability returns the record of the pair.
func (s *SQLAvailabilityRepository) GetAvailability(ctx context.Context, meetingUID, userID string) (*models.Availability, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var row availabilityRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT meeting_uid, user_id, slots, created_at, updated_at
		FROM meeting_availability WHERE meeting_uid = ? AND user_id = ?`), meetingUID, userID)
	if err != nil {
		return nil, sqlError(ctx, err, "availability", domain.ErrAvailabilityNotFound)
	}
	return row.availability(), nil
}

// ListAvailabilityByMeeting returns every record of the meeting ordered by user.
func (s *SQLAvailabilityRepository) ListAvailabilityByMeeting(ctx context.Context, meetingUID string) ([]*models.Availability, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var rows []availabilityRow
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`SELECT meeting_uid, user_id, slots, created_at, updated_at
		FROM meeting_availability WHERE meeting_uid = ? ORDER BY user_id`), meetingUID)
	if err != nil {
		return nil, sqlError(ctx, err, "availability", domain.ErrAvailabilityNotFound)
	}
	out := make([]*models.Availability, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.availability())
	}
	return out, nil
}

// DeleteAvailabilityByMeeting removes every record of the meeting.
func (s *SQLAvailabilityRepository) DeleteAvailabilityByMeeting(ctx context.Context, meetingUID string) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM meeting_availability WHERE meeting_uid = ?`), meetingUID)
	if err != nil {
		return 0, sqlError(ctx, err, "availability", domain.ErrAvailabilityNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, sqlError(ctx, err, "availability", domain.ErrAvailabilityNotFound)
	}
	return int(n), nil
}

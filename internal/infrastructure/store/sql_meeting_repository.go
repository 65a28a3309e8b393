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

type meetingRow struct {
	UID           string            `db:"uid"`
	Title         string            `db:"title"`
	Agenda        string            `db:"agenda"`
	SelectedDates models.StringList `db:"selected_dates"`
	StartTime     string            `db:"start_time"`
	EndTime       string            `db:"end_time"`
	DateRule      string            `db:"date_rule"`
	DateRuleStart string            `db:"date_rule_start"`
	CreatedBy     string            `db:"created_by"`
	CreatedAt     int64             `db:"created_at"`
	UpdatedAt     int64             `db:"updated_at"`
	Revision      int64             `db:"revision"`
}

func newMeetingRow(m *models.Meeting) meetingRow {
	return meetingRow{
		UID:           m.UID,
		Title:         m.Title,
		Agenda:        m.Agenda,
		SelectedDates: m.SelectedDates,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		DateRule:      m.DateRule,
		DateRuleStart: m.DateRuleStart,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     toMillis(m.CreatedAt),
		UpdatedAt:     toMillis(m.UpdatedAt),
	}
}

func (r meetingRow) meeting() *models.Meeting {
	dates := r.SelectedDates
	if dates == nil {
		dates = models.StringList{}
	}
	return &models.Meeting{
		UID:           r.UID,
		Title:         r.Title,
		Agenda:        r.Agenda,
		SelectedDates: dates,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		DateRule:      r.DateRule,
		DateRuleStart: r.DateRuleStart,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     fromMillis(r.CreatedAt),
		UpdatedAt:     fromMillis(r.UpdatedAt),
	}
}

func toMillis(t *time.Time) int64 {
	if t == nil {
		return time.Now().UTC().UnixMilli()
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) *time.Time {
	t := time.UnixMilli(ms).UTC()
	return &t
}

const meetingColumns = `uid, title, agenda, selected_dates, start_time, end_time,
	date_rule, date_rule_start, created_by, created_at, updated_at, revision`

// SQLMeetingRepository stores meetings in PostgreSQL (or SQLite in tests). The revision
// column provides the same optimistic concurrency as the KV revision.
type SQLMeetingRepository struct {
	db *sqlx.DB
}

// NewSQLMeetingRepository creates a new SQL meeting repository.
func NewSQLMeetingRepository(db *sqlx.DB) *SQLMeetingRepository {
	return &SQLMeetingRepository{db: db}
}

func (s *SQLMeetingRepository) ready() error {
	if s.db == nil {
		return domain.NewUnavailableError("meeting repository is not available", domain.ErrServiceUnavailable)
	}
	return nil
}

// CreateMeeting inserts a new meeting at revision 1.
func (s *SQLMeetingRepository) CreateMeeting(ctx context.Context, meeting *models.Meeting) (uint64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	row := newMeetingRow(meeting)
	row.Revision = 1
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO meetings (`+meetingColumns+`)
		VALUES (:uid, :title, :agenda, :selected_dates, :start_time, :end_time,
			:date_rule, :date_rule_start, :created_by, :created_at, :updated_at, :revision)`, row)
	if err != nil {
		return 0, sqlError(ctx, err, "meeting", domain.ErrMeetingNotFound)
	}
	return uint64(row.Revision), nil
}

// MeetingExists reports whether a meeting with the uid is stored.
func (s *SQLMeetingRepository) MeetingExists(ctx context.Context, meetingUID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	var n int
	err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM meetings WHERE uid = ?`), meetingUID)
	if err != nil {
		return false, sqlError(ctx, err, "meeting", domain.ErrMeetingNotFound)
	}
	return n > 0, nil
}

// GetMeeting returns the meeting or a not found error wrapping ErrMeetingNotFound.
func (s *SQLMeetingRepository) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	meeting, _, err := s.GetMeetingWithRevision(ctx, meetingUID)
	return meeting, err
}

// GetMeetingWithRevision returns the meeting together with its revision.
func (s *SQLMeetingRepository) GetMeetingWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	if err := s.ready(); err != nil {
		return nil, 0, err
	}
	var row meetingRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT `+meetingColumns+` FROM meetings WHERE uid = ?`), meetingUID)
	if err != nil {
		return nil, 0, sqlError(ctx, err, "meeting", domain.ErrMeetingNotFound)
	}
	return row.meeting(), uint64(row.Revision), nil
}

// UpdateMeeting replaces the meeting if revision is still current.
func (s *SQLMeetingRepository) UpdateMeeting(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	if err := s.ready(); err != nil {
		return err
	}
	row := newMeetingRow(meeting)
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE meetings SET
			title = ?, agenda = ?, selected_dates = ?, start_time = ?, end_time = ?,
			date_rule = ?, date_rule_start = ?, updated_at = ?, revision = revision + 1
		WHERE uid = ? AND revision = ?`),
		row.Title, row.Agenda, row.SelectedDates, row.StartTime, row.EndTime,
		row.DateRule, row.DateRuleStart, row.UpdatedAt, row.UID, int64(revision))
	if err != nil {
		return sqlError(ctx, err, "meeting", domain.ErrMeetingNotFound)
	}
	return s.checkRevisioned(ctx, res, meeting.UID)
}

// DeleteMeeting removes the meeting if revision is still current.
func (s *SQLMeetingRepository) DeleteMeeting(ctx context.Context, meetingUID string, revision uint64) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM meetings WHERE uid = ? AND revision = ?`),
		meetingUID, int64(revision))
	if err != nil {
		return sqlError(ctx, err, "meeting", domain.ErrMeetingNotFound)
	}
	return s.checkRevisioned(ctx, res, meetingUID)
}

// checkRevisioned tells a missing meeting apart from a stale revision when a
// revisioned statement touched no row.
func (s *SQLMeetingRepository) checkRevisioned(ctx context.Context, res interface{ RowsAffected() (int64, error) }, meetingUID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return sqlError(ctx, err, "meeting", domain.ErrMeetingNotFound)
	}
	if n > 0 {
		return nil
	}
	exists, err := s.MeetingExists(ctx, meetingUID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
	}
	return domain.NewConflictError("meeting has been modified", domain.ErrRevisionMismatch)
}

// ListAllMeetings returns every stored meeting, newest first.
func (s *SQLMeetingRepository) ListAllMeetings(ctx context.Context) ([]*models.Meeting, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var rows []meetingRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+meetingColumns+` FROM meetings ORDER BY created_at DESC`); err != nil {
		return nil, sqlError(ctx, err, "meeting", domain.ErrMeetingNotFound)
	}
	meetings := make([]*models.Meeting, 0, len(rows))
	for _, r := range rows {
		meetings = append(meetings, r.meeting())
	}
	return meetings, nil
}

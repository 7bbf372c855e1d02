package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyloop/cadence/internal/errs"
	"github.com/studyloop/cadence/internal/models"
)

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

const eventColumns = "id, user_id, title, start_at, end_at, type, movable, work_item_id, chunk_index, chunk_total, transition_buffer"

func scanEvent(row interface{ Scan(dest ...any) error }) (models.CalendarEvent, error) {
	var ev models.CalendarEvent
	var workItemID sql.NullString
	err := row.Scan(&ev.ID, &ev.UserID, &ev.Title, &ev.StartAt, &ev.EndAt, &ev.Type,
		&ev.Movable, &workItemID, &ev.ChunkIndex, &ev.ChunkTotal, &ev.TransitionBuffer)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	ev.StartAt = ev.StartAt.UTC()
	ev.EndAt = ev.EndAt.UTC()
	ev.WorkItemID = strPtr(workItemID)
	return ev, nil
}

func getEvent(q dbtx, id string) (models.CalendarEvent, error) {
	ev, err := scanEvent(q.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CalendarEvent{}, fmt.Errorf("event %s: %w", id, errs.ErrNotFound)
	}
	return ev, err
}

func listEventsInRange(q dbtx, userID string, from, to time.Time) ([]models.CalendarEvent, error) {
	rows, err := q.Query(
		"SELECT "+eventColumns+" FROM events WHERE user_id = $1 AND start_at < $2 AND end_at > $3 ORDER BY start_at",
		userID, to.UTC(), from.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func insertEvent(q dbtx, ev models.CalendarEvent) error {
	_, err := q.Exec(
		"INSERT INTO events ("+eventColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		ev.ID, ev.UserID, ev.Title, ev.StartAt.UTC(), ev.EndAt.UTC(), ev.Type,
		ev.Movable, nullStr(ev.WorkItemID), ev.ChunkIndex, ev.ChunkTotal, ev.TransitionBuffer)
	if err != nil {
		return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
	}
	return nil
}

func (s *Store) GetEvent(id string) (models.CalendarEvent, error) {
	return getEvent(s.db, id)
}

func (s *Store) ListEventsInRange(userID string, from, to time.Time) ([]models.CalendarEvent, error) {
	return listEventsInRange(s.db, userID, from, to)
}

func (s *Store) AddEvent(ev models.CalendarEvent) error {
	return insertEvent(s.db, ev)
}

func (t *Tx) GetEvent(id string) (models.CalendarEvent, error) {
	return getEvent(t.tx, id)
}

func (t *Tx) ListEventsInRange(userID string, from, to time.Time) ([]models.CalendarEvent, error) {
	return listEventsInRange(t.tx, userID, from, to)
}

func (t *Tx) InsertEvent(ev models.CalendarEvent) error {
	return insertEvent(t.tx, ev)
}

func (t *Tx) UpdateEvent(ev models.CalendarEvent) error {
	res, err := t.tx.Exec(
		"UPDATE events SET title = $1, start_at = $2, end_at = $3, type = $4, movable = $5, work_item_id = $6, chunk_index = $7, chunk_total = $8, transition_buffer = $9 WHERE id = $10",
		ev.Title, ev.StartAt.UTC(), ev.EndAt.UTC(), ev.Type, ev.Movable,
		nullStr(ev.WorkItemID), ev.ChunkIndex, ev.ChunkTotal, ev.TransitionBuffer, ev.ID)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", ev.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", ev.ID, errs.ErrNotFound)
	}
	return nil
}

func (t *Tx) DeleteEvent(id string) error {
	res, err := t.tx.Exec("DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

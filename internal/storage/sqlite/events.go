package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studyloop/cadence/internal/errs"
	"github.com/studyloop/cadence/internal/models"
)

const timeLayout = time.RFC3339Nano

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func encodeTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeTime(*t), Valid: true}
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func decodeTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := decodeTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

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

const eventColumns = "id, user_id, title, start_at, end_at, type, movable, work_item_id, chunk_index, chunk_total, transition_buffer"

func scanEvent(row interface{ Scan(dest ...any) error }) (models.CalendarEvent, error) {
	var ev models.CalendarEvent
	var start, end string
	var workItemID sql.NullString
	var movable, buffer int
	err := row.Scan(&ev.ID, &ev.UserID, &ev.Title, &start, &end, &ev.Type, &movable, &workItemID, &ev.ChunkIndex, &ev.ChunkTotal, &buffer)
	if err != nil {
		return models.CalendarEvent{}, err
	}
	if ev.StartAt, err = decodeTime(start); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("bad start_at for event %s: %w", ev.ID, err)
	}
	if ev.EndAt, err = decodeTime(end); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("bad end_at for event %s: %w", ev.ID, err)
	}
	ev.Movable = movable != 0
	ev.TransitionBuffer = buffer != 0
	ev.WorkItemID = strPtr(workItemID)
	return ev, nil
}

func getEvent(q dbtx, id string) (models.CalendarEvent, error) {
	ev, err := scanEvent(q.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CalendarEvent{}, fmt.Errorf("event %s: %w", id, errs.ErrNotFound)
	}
	return ev, err
}

func listEventsInRange(q dbtx, userID string, from, to time.Time) ([]models.CalendarEvent, error) {
	rows, err := q.Query(
		"SELECT "+eventColumns+" FROM events WHERE user_id = ? AND start_at < ? AND end_at > ? ORDER BY start_at",
		userID, encodeTime(to), encodeTime(from))
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
		"INSERT INTO events ("+eventColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		ev.ID, ev.UserID, ev.Title, encodeTime(ev.StartAt), encodeTime(ev.EndAt), ev.Type,
		boolInt(ev.Movable), nullStr(ev.WorkItemID), ev.ChunkIndex, ev.ChunkTotal, boolInt(ev.TransitionBuffer))
	if err != nil {
		return fmt.Errorf("failed to insert event %s: %w", ev.ID, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
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
		"UPDATE events SET title = ?, start_at = ?, end_at = ?, type = ?, movable = ?, work_item_id = ?, chunk_index = ?, chunk_total = ?, transition_buffer = ? WHERE id = ?",
		ev.Title, encodeTime(ev.StartAt), encodeTime(ev.EndAt), ev.Type, boolInt(ev.Movable),
		nullStr(ev.WorkItemID), ev.ChunkIndex, ev.ChunkTotal, boolInt(ev.TransitionBuffer), ev.ID)
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
	res, err := t.tx.Exec("DELETE FROM events WHERE id = ?", id)
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

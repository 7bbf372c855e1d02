package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studyloop/cadence/internal/errs"
	"github.com/studyloop/cadence/internal/models"
)

func encodeReasonCodes(codes []models.ReasonCode) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func decodeReasonCodes(s string) []models.ReasonCode {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	codes := make([]models.ReasonCode, len(parts))
	for i, p := range parts {
		codes[i] = models.ReasonCode(p)
	}
	return codes
}

const proposalColumns = "id, user_id, trigger_reason, energy_level, status, total_churn, created_at, applied_at, undone_at"

func scanProposal(row interface{ Scan(dest ...any) error }) (models.Proposal, error) {
	var p models.Proposal
	var created string
	var applied, undone sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.Trigger, &p.EnergyLevel, &p.Status, &p.TotalChurn, &created, &applied, &undone)
	if err != nil {
		return models.Proposal{}, err
	}
	if p.CreatedAt, err = decodeTime(created); err != nil {
		return models.Proposal{}, fmt.Errorf("bad created_at for proposal %s: %w", p.ID, err)
	}
	if p.AppliedAt, err = decodeTimePtr(applied); err != nil {
		return models.Proposal{}, fmt.Errorf("bad applied_at for proposal %s: %w", p.ID, err)
	}
	if p.UndoneAt, err = decodeTimePtr(undone); err != nil {
		return models.Proposal{}, fmt.Errorf("bad undone_at for proposal %s: %w", p.ID, err)
	}
	return p, nil
}

const moveColumns = "id, type, event_id, title, event_type, work_item_id, original_start, original_end, new_start, new_end, delta_min, churn_cost, reason_codes, conflict, over_limit, chunk_index, chunk_total"

func loadMoves(q dbtx, proposalID string) ([]models.Move, error) {
	rows, err := q.Query("SELECT "+moveColumns+" FROM moves WHERE proposal_id = ? ORDER BY seq", proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load moves for proposal %s: %w", proposalID, err)
	}
	defer rows.Close()

	var moves []models.Move
	for rows.Next() {
		var m models.Move
		var eventID, workItemID sql.NullString
		var origStart, origEnd, newStart, newEnd sql.NullString
		var reasonCodes string
		var conflict, overLimit int
		err := rows.Scan(&m.ID, &m.Type, &eventID, &m.Title, &m.EventType, &workItemID,
			&origStart, &origEnd, &newStart, &newEnd, &m.DeltaMin, &m.ChurnCost,
			&reasonCodes, &conflict, &overLimit, &m.ChunkIndex, &m.ChunkTotal)
		if err != nil {
			return nil, err
		}
		m.EventID = strPtr(eventID)
		m.WorkItemID = strPtr(workItemID)
		if m.OriginalStart, err = decodeTimePtr(origStart); err != nil {
			return nil, err
		}
		if m.OriginalEnd, err = decodeTimePtr(origEnd); err != nil {
			return nil, err
		}
		if m.NewStart, err = decodeTimePtr(newStart); err != nil {
			return nil, err
		}
		if m.NewEnd, err = decodeTimePtr(newEnd); err != nil {
			return nil, err
		}
		m.ReasonCodes = decodeReasonCodes(reasonCodes)
		m.Conflict = conflict != 0
		m.OverLimit = overLimit != 0
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func getProposal(q dbtx, id string) (models.Proposal, error) {
	p, err := scanProposal(q.QueryRow("SELECT "+proposalColumns+" FROM proposals WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Proposal{}, fmt.Errorf("proposal %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return models.Proposal{}, err
	}
	if p.Moves, err = loadMoves(q, id); err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

func getSnapshot(q dbtx, proposalID string) (models.RollbackSnapshot, error) {
	var snap models.RollbackSnapshot
	var created, expires string
	err := q.QueryRow("SELECT id, proposal_id, created_at, expires_at FROM snapshots WHERE proposal_id = ?", proposalID).
		Scan(&snap.ID, &snap.ProposalID, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RollbackSnapshot{}, fmt.Errorf("snapshot for proposal %s: %w", proposalID, errs.ErrNotFound)
	}
	if err != nil {
		return models.RollbackSnapshot{}, err
	}
	if snap.CreatedAt, err = decodeTime(created); err != nil {
		return models.RollbackSnapshot{}, err
	}
	if snap.ExpiresAt, err = decodeTime(expires); err != nil {
		return models.RollbackSnapshot{}, err
	}

	rows, err := q.Query(
		"SELECT event_id, existed, user_id, title, start_at, end_at, type, movable, work_item_id, chunk_index, chunk_total, transition_buffer FROM snapshot_events WHERE snapshot_id = ? ORDER BY event_id",
		snap.ID)
	if err != nil {
		return models.RollbackSnapshot{}, fmt.Errorf("failed to load snapshot entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.SnapshotEntry
		var existed int
		var userID, title, start, end, evType, workItemID sql.NullString
		var movable, chunkIndex, chunkTotal, buffer sql.NullInt64
		err := rows.Scan(&entry.EventID, &existed, &userID, &title, &start, &end, &evType,
			&movable, &workItemID, &chunkIndex, &chunkTotal, &buffer)
		if err != nil {
			return models.RollbackSnapshot{}, err
		}
		entry.Existed = existed != 0
		if entry.Existed {
			ev := models.CalendarEvent{
				ID:               entry.EventID,
				UserID:           userID.String,
				Title:            title.String,
				Type:             models.EventType(evType.String),
				Movable:          movable.Int64 != 0,
				WorkItemID:       strPtr(workItemID),
				ChunkIndex:       int(chunkIndex.Int64),
				ChunkTotal:       int(chunkTotal.Int64),
				TransitionBuffer: buffer.Int64 != 0,
			}
			if ev.StartAt, err = decodeTime(start.String); err != nil {
				return models.RollbackSnapshot{}, err
			}
			if ev.EndAt, err = decodeTime(end.String); err != nil {
				return models.RollbackSnapshot{}, err
			}
			entry.Prior = &ev
		}
		snap.Entries = append(snap.Entries, entry)
	}
	return snap, rows.Err()
}

func (s *Store) GetProposal(id string) (models.Proposal, error) {
	return getProposal(s.db, id)
}

func (s *Store) ListProposalsByUser(userID string, status models.ProposalStatus) ([]models.Proposal, error) {
	query := "SELECT " + proposalColumns + " FROM proposals WHERE user_id = ?"
	args := []any{userID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range proposals {
		if proposals[i].Moves, err = loadMoves(s.db, proposals[i].ID); err != nil {
			return nil, err
		}
	}
	return proposals, nil
}

func (s *Store) GetSnapshot(proposalID string) (models.RollbackSnapshot, error) {
	return getSnapshot(s.db, proposalID)
}

func (s *Store) ListApplyAttempts(proposalID string) ([]models.ApplyAttempt, error) {
	rows, err := s.db.Query(
		"SELECT id, proposal_id, move_id, outcome, detail, created_at FROM apply_attempts WHERE proposal_id = ? ORDER BY created_at",
		proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list apply attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.ApplyAttempt
	for rows.Next() {
		var a models.ApplyAttempt
		var created string
		if err := rows.Scan(&a.ID, &a.ProposalID, &a.MoveID, &a.Outcome, &a.Detail, &created); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = decodeTime(created); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

func (t *Tx) GetProposal(id string) (models.Proposal, error) {
	return getProposal(t.tx, id)
}

func (t *Tx) SaveProposal(p models.Proposal) error {
	_, err := t.tx.Exec(
		"INSERT INTO proposals ("+proposalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.UserID, p.Trigger, p.EnergyLevel, string(p.Status), p.TotalChurn,
		encodeTime(p.CreatedAt), encodeTimePtr(p.AppliedAt), encodeTimePtr(p.UndoneAt))
	if err != nil {
		return fmt.Errorf("failed to save proposal %s: %w", p.ID, err)
	}
	for i, m := range p.Moves {
		_, err := t.tx.Exec(
			"INSERT INTO moves (proposal_id, seq, "+moveColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			p.ID, i, m.ID, string(m.Type), nullStr(m.EventID), m.Title, string(m.EventType),
			nullStr(m.WorkItemID), encodeTimePtr(m.OriginalStart), encodeTimePtr(m.OriginalEnd),
			encodeTimePtr(m.NewStart), encodeTimePtr(m.NewEnd), m.DeltaMin, m.ChurnCost,
			encodeReasonCodes(m.ReasonCodes), boolInt(m.Conflict), boolInt(m.OverLimit),
			m.ChunkIndex, m.ChunkTotal)
		if err != nil {
			return fmt.Errorf("failed to save move %s: %w", m.ID, err)
		}
	}
	return nil
}

func (t *Tx) UpdateProposalStatus(id string, status models.ProposalStatus, appliedAt, undoneAt *time.Time) error {
	res, err := t.tx.Exec(
		"UPDATE proposals SET status = ?, applied_at = ?, undone_at = ? WHERE id = ?",
		string(status), encodeTimePtr(appliedAt), encodeTimePtr(undoneAt), id)
	if err != nil {
		return fmt.Errorf("failed to update proposal %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("proposal %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

func (t *Tx) ExpireProposals(userID, exceptID string) (int, error) {
	res, err := t.tx.Exec(
		"UPDATE proposals SET status = ? WHERE user_id = ? AND status = ? AND id != ?",
		string(models.ProposalExpired), userID, string(models.ProposalProposed), exceptID)
	if err != nil {
		return 0, fmt.Errorf("failed to expire proposals: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (t *Tx) SaveSnapshot(snap models.RollbackSnapshot) error {
	_, err := t.tx.Exec(
		"INSERT INTO snapshots (id, proposal_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		snap.ID, snap.ProposalID, encodeTime(snap.CreatedAt), encodeTime(snap.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.ID, err)
	}
	for _, entry := range snap.Entries {
		if entry.Prior == nil {
			_, err = t.tx.Exec(
				"INSERT INTO snapshot_events (snapshot_id, event_id, existed) VALUES (?, ?, 0)",
				snap.ID, entry.EventID)
		} else {
			ev := entry.Prior
			_, err = t.tx.Exec(
				"INSERT INTO snapshot_events (snapshot_id, event_id, existed, user_id, title, start_at, end_at, type, movable, work_item_id, chunk_index, chunk_total, transition_buffer) VALUES (?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				snap.ID, entry.EventID, ev.UserID, ev.Title, encodeTime(ev.StartAt), encodeTime(ev.EndAt),
				string(ev.Type), boolInt(ev.Movable), nullStr(ev.WorkItemID), ev.ChunkIndex, ev.ChunkTotal,
				boolInt(ev.TransitionBuffer))
		}
		if err != nil {
			return fmt.Errorf("failed to save snapshot entry %s: %w", entry.EventID, err)
		}
	}
	return nil
}

func (t *Tx) GetSnapshot(proposalID string) (models.RollbackSnapshot, error) {
	return getSnapshot(t.tx, proposalID)
}

func (t *Tx) AppendApplyAttempt(a models.ApplyAttempt) error {
	_, err := t.tx.Exec(
		"INSERT INTO apply_attempts (id, proposal_id, move_id, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		a.ID, a.ProposalID, a.MoveID, string(a.Outcome), a.Detail, encodeTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to append apply attempt: %w", err)
	}
	return nil
}

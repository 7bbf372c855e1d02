// Package proposal owns the rebalancing proposal lifecycle: generation
// from balancer output, atomic apply with rollback snapshots, time-boxed
// undo, and the terminal reject/cancel transitions.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/cadence/internal/analyzer"
	"github.com/studyloop/cadence/internal/balancer"
	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/errs"
	"github.com/studyloop/cadence/internal/logger"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/storage"
	"github.com/studyloop/cadence/internal/utils"
)

// Service drives proposals through their lifecycle. All mutations run
// inside a single storage transaction.
type Service struct {
	store storage.Provider
	cfg   config.HeuristicConfig
	loc   *time.Location

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func NewService(store storage.Provider, cfg config.HeuristicConfig, loc *time.Location) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
		loc:   loc,
		Now:   time.Now,
	}
}

// Generate runs the balancer over the lookahead window and persists the
// resulting moves as a new proposal. Any older still-open proposal for
// the same user is expired in the same transaction.
func (s *Service) Generate(ctx context.Context, userID, trigger string, energyLevel, lookaheadDays int) (models.Proposal, error) {
	now := s.Now()
	if lookaheadDays <= 0 {
		lookaheadDays = s.cfg.LookaheadDays
	}

	events, err := s.store.ListEventsInRange(userID, now, now.AddDate(0, 0, lookaheadDays))
	if err != nil {
		return models.Proposal{}, err
	}
	items, err := s.store.ListWorkItems(userID)
	if err != nil {
		return models.Proposal{}, err
	}

	report := balancer.Balance(events, items, userID, now, lookaheadDays, energyLevel, s.cfg, s.loc)
	if len(report.Actions) == 0 {
		return models.Proposal{}, fmt.Errorf("schedule already balanced, nothing to propose: %w", errs.ErrInfeasible)
	}
	balancer.SortActions(report.Actions)

	p := models.Proposal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Trigger:     trigger,
		EnergyLevel: energyLevel,
		Status:      models.ProposalProposed,
		Moves:       s.movesFromActions(report.Actions),
		CreatedAt:   now,
	}
	for _, m := range p.Moves {
		p.TotalChurn += m.ChurnCost
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return models.Proposal{}, err
	}
	defer tx.Rollback()

	expired, err := tx.ExpireProposals(userID, p.ID)
	if err != nil {
		return models.Proposal{}, err
	}
	if expired > 0 {
		logger.Debug("expired superseded proposals", "count", expired, "user", userID)
	}
	if err := tx.SaveProposal(p); err != nil {
		return models.Proposal{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Proposal{}, err
	}
	return p, nil
}

// movesFromActions converts balancer actions into proposal moves and
// flags the ones that blow past the daily churn caps. Caps count only
// disruptive moves; fresh insertions are free.
func (s *Service) movesFromActions(actions []balancer.Action) []models.Move {
	type dayChurn struct {
		moves   int
		minutes int
	}
	churnByDay := make(map[string]*dayChurn)

	moves := make([]models.Move, 0, len(actions))
	for _, a := range actions {
		m := models.Move{
			ID:          uuid.New().String(),
			Title:       a.Title,
			EventType:   models.EventFocus,
			WorkItemID:  a.WorkItemID,
			EventID:     a.EventID,
			ChurnCost:   a.ChurnCost,
			ReasonCodes: a.ReasonCodes,
			ChunkIndex:  a.ChunkIndex,
			ChunkTotal:  a.ChunkTotal,
		}
		switch a.Type {
		case balancer.ActionAddBlock:
			m.Type = models.MoveInsert
			start, end := a.Start, a.End
			m.NewStart, m.NewEnd = &start, &end
			m.DeltaMin = a.DurationMin
		case balancer.ActionMoveBlock:
			m.Type = models.MoveMove
			start, end := a.Start, a.End
			m.NewStart, m.NewEnd = &start, &end
			m.OriginalStart, m.OriginalEnd = a.OriginalStart, a.OriginalEnd
			if a.OriginalStart != nil {
				m.DeltaMin = int(a.Start.Sub(*a.OriginalStart).Minutes())
			}
		case balancer.ActionRemoveBlock:
			m.Type = models.MoveDelete
			m.OriginalStart, m.OriginalEnd = a.OriginalStart, a.OriginalEnd
			m.DeltaMin = -a.DurationMin
		}

		if m.Type != models.MoveInsert {
			day := utils.DayKey(a.Start, s.loc)
			if m.OriginalStart != nil {
				day = utils.DayKey(*m.OriginalStart, s.loc)
			}
			c := churnByDay[day]
			if c == nil {
				c = &dayChurn{}
				churnByDay[day] = c
			}
			c.moves++
			c.minutes += a.DurationMin
			if c.moves > s.cfg.MaxDailyChurnMoves || c.minutes > s.cfg.MaxDailyChurnMinutes {
				m.OverLimit = true
			}
		}
		moves = append(moves, m)
	}
	return moves
}

// ApplyResult reports an apply outcome: the updated proposal and how
// many of its moves were applied versus skipped.
type ApplyResult struct {
	Proposal models.Proposal
	Applied  int
	Skipped  int
}

// Apply executes the selected moves of a proposed proposal in one
// transaction; an empty selection means every move. Each selected move
// is re-validated against the live calendar first; infeasible moves are
// skipped with an audit row rather than failing the batch, and
// unselected moves are audited as skipped. The pre-apply state of every
// touched event is captured in a rollback snapshot before any mutation.
func (s *Service) Apply(ctx context.Context, proposalID string, selectedMoveIDs []string) (ApplyResult, error) {
	now := s.Now()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return ApplyResult{}, err
	}
	defer tx.Rollback()

	p, err := tx.GetProposal(proposalID)
	if err != nil {
		return ApplyResult{}, err
	}
	switch p.Status {
	case models.ProposalProposed:
	case models.ProposalExpired:
		return ApplyResult{}, fmt.Errorf("proposal %s was superseded: %w", proposalID, errs.ErrStaleProposal)
	default:
		return ApplyResult{}, fmt.Errorf("proposal %s is %s, not proposed: %w", proposalID, p.Status, errs.ErrInvalidState)
	}

	moveIDs := make(map[string]bool, len(p.Moves))
	for _, m := range p.Moves {
		moveIDs[m.ID] = true
	}
	selected := make(map[string]bool, len(selectedMoveIDs))
	for _, id := range selectedMoveIDs {
		if !moveIDs[id] {
			return ApplyResult{}, fmt.Errorf("move %s is not part of proposal %s: %w", id, proposalID, errs.ErrNotFound)
		}
		selected[id] = true
	}

	snap := models.RollbackSnapshot{
		ID:         uuid.New().String(),
		ProposalID: p.ID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(s.cfg.UndoRetentionMinutes) * time.Minute),
	}

	applied, skipped := 0, 0
	for _, m := range p.Moves {
		var (
			outcome models.AttemptOutcome
			detail  string
			entry   *models.SnapshotEntry
		)
		if len(selected) > 0 && !selected[m.ID] {
			outcome, detail = models.AttemptSkipped, "not selected"
		} else {
			outcome, detail, entry = s.applyMove(tx, p.UserID, m)
		}
		if entry != nil {
			snap.Entries = append(snap.Entries, *entry)
		}
		if outcome == models.AttemptApplied {
			applied++
		} else {
			skipped++
		}
		attempt := models.ApplyAttempt{
			ID:         uuid.New().String(),
			ProposalID: p.ID,
			MoveID:     m.ID,
			Outcome:    outcome,
			Detail:     detail,
			CreatedAt:  now,
		}
		if err := tx.AppendApplyAttempt(attempt); err != nil {
			return ApplyResult{}, err
		}
	}

	if applied == 0 {
		// Nothing touched the calendar, so the proposal stays proposed,
		// but the per-move audit rows still have to land.
		if err := tx.Commit(); err != nil {
			return ApplyResult{}, err
		}
		return ApplyResult{}, fmt.Errorf("no selected move in proposal %s is still feasible: %w", proposalID, errs.ErrInfeasible)
	}

	if err := tx.SaveSnapshot(snap); err != nil {
		return ApplyResult{}, err
	}
	if err := tx.UpdateProposalStatus(p.ID, models.ProposalApplied, &now, nil); err != nil {
		return ApplyResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return ApplyResult{}, err
	}

	logger.Info("applied proposal", "proposal", p.ID, "applied", applied, "skipped", skipped)
	p.Status = models.ProposalApplied
	p.AppliedAt = &now
	return ApplyResult{Proposal: p, Applied: applied, Skipped: skipped}, nil
}

// applyMove validates and executes a single move inside the apply
// transaction. It returns the audit outcome and, when the calendar was
// touched, the snapshot entry capturing the prior state.
func (s *Service) applyMove(tx storage.Tx, userID string, m models.Move) (models.AttemptOutcome, string, *models.SnapshotEntry) {
	switch m.Type {
	case models.MoveInsert:
		ev := models.CalendarEvent{
			ID:         uuid.New().String(),
			UserID:     userID,
			Title:      m.Title,
			StartAt:    *m.NewStart,
			EndAt:      *m.NewEnd,
			Type:       m.EventType,
			Movable:    true,
			WorkItemID: m.WorkItemID,
			ChunkIndex: m.ChunkIndex,
			ChunkTotal: m.ChunkTotal,
		}
		if analyzer.OverlapsSleep(ev.StartAt, ev.EndAt, s.cfg, s.loc) {
			return models.AttemptConflict, "slot now falls in the sleep window", nil
		}
		live, err := tx.ListEventsInRange(userID, ev.StartAt, ev.EndAt)
		if err != nil {
			return models.AttemptSkipped, err.Error(), nil
		}
		for _, other := range live {
			if ev.Overlaps(other) {
				return models.AttemptConflict, fmt.Sprintf("slot now overlaps %q", other.Title), nil
			}
		}
		if err := tx.InsertEvent(ev); err != nil {
			return models.AttemptSkipped, err.Error(), nil
		}
		return models.AttemptApplied, "", &models.SnapshotEntry{EventID: ev.ID, Existed: false}

	case models.MoveMove, models.MoveResize:
		ev, err := tx.GetEvent(*m.EventID)
		if errors.Is(err, errs.ErrNotFound) {
			return models.AttemptSkipped, "event no longer exists", nil
		}
		if err != nil {
			return models.AttemptSkipped, err.Error(), nil
		}
		if !ev.Movable {
			return models.AttemptConflict, "event is no longer movable", nil
		}
		prior := ev
		entry := &models.SnapshotEntry{EventID: ev.ID, Existed: true, Prior: &prior}
		ev.StartAt = *m.NewStart
		ev.EndAt = *m.NewEnd
		if err := tx.UpdateEvent(ev); err != nil {
			return models.AttemptSkipped, err.Error(), nil
		}
		return models.AttemptApplied, "", entry

	case models.MoveDelete:
		ev, err := tx.GetEvent(*m.EventID)
		if errors.Is(err, errs.ErrNotFound) {
			return models.AttemptSkipped, "event no longer exists", nil
		}
		if err != nil {
			return models.AttemptSkipped, err.Error(), nil
		}
		prior := ev
		entry := &models.SnapshotEntry{EventID: ev.ID, Existed: true, Prior: &prior}
		if err := tx.DeleteEvent(ev.ID); err != nil {
			return models.AttemptSkipped, err.Error(), nil
		}
		return models.AttemptApplied, "", entry
	}
	return models.AttemptSkipped, fmt.Sprintf("unknown move type %q", m.Type), nil
}

// Undo restores the calendar from the rollback snapshot of an applied
// proposal and reports how many snapshot entries were restored. Inserted
// events are deleted; every other touched event is restored to its
// captured prior state exactly. The proposal keeps its applied status
// with undone_at set, so apply remains a one-shot transition.
func (s *Service) Undo(ctx context.Context, proposalID string) (models.Proposal, int, error) {
	now := s.Now()

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return models.Proposal{}, 0, err
	}
	defer tx.Rollback()

	p, err := tx.GetProposal(proposalID)
	if err != nil {
		return models.Proposal{}, 0, err
	}
	if p.Status != models.ProposalApplied {
		return models.Proposal{}, 0, fmt.Errorf("proposal %s is %s, not applied: %w", proposalID, p.Status, errs.ErrInvalidState)
	}
	if p.UndoneAt != nil {
		return models.Proposal{}, 0, fmt.Errorf("proposal %s was already undone: %w", proposalID, errs.ErrInvalidState)
	}

	snap, err := tx.GetSnapshot(p.ID)
	if err != nil {
		return models.Proposal{}, 0, err
	}
	if now.After(snap.ExpiresAt) {
		return models.Proposal{}, 0, fmt.Errorf("undo window for proposal %s closed at %s: %w",
			proposalID, snap.ExpiresAt.Format(time.RFC3339), errs.ErrInvalidState)
	}

	for _, entry := range snap.Entries {
		var detail string
		if entry.Existed {
			detail = "restored prior state"
			if err := tx.UpdateEvent(*entry.Prior); errors.Is(err, errs.ErrNotFound) {
				detail = "re-created deleted event"
				if err := tx.InsertEvent(*entry.Prior); err != nil {
					return models.Proposal{}, 0, err
				}
			} else if err != nil {
				return models.Proposal{}, 0, err
			}
		} else {
			detail = "removed inserted event"
			if err := tx.DeleteEvent(entry.EventID); err != nil && !errors.Is(err, errs.ErrNotFound) {
				return models.Proposal{}, 0, err
			}
		}
		attempt := models.ApplyAttempt{
			ID:         uuid.New().String(),
			ProposalID: p.ID,
			Outcome:    models.AttemptApplied,
			Detail:     "undo: " + detail,
			CreatedAt:  now,
		}
		if err := tx.AppendApplyAttempt(attempt); err != nil {
			return models.Proposal{}, 0, err
		}
	}

	if err := tx.UpdateProposalStatus(p.ID, models.ProposalApplied, p.AppliedAt, &now); err != nil {
		return models.Proposal{}, 0, err
	}
	if err := tx.Commit(); err != nil {
		return models.Proposal{}, 0, err
	}

	logger.Info("undid proposal", "proposal", p.ID, "events", len(snap.Entries))
	p.UndoneAt = &now
	return p, len(snap.Entries), nil
}

// Reject marks a proposed proposal rejected. Rejecting an already
// rejected proposal is a no-op.
func (s *Service) Reject(ctx context.Context, proposalID string) error {
	return s.finalize(ctx, proposalID, models.ProposalRejected)
}

// Cancel marks a proposed proposal cancelled. Like Reject, it is
// idempotent.
func (s *Service) Cancel(ctx context.Context, proposalID string) error {
	return s.finalize(ctx, proposalID, models.ProposalCancelled)
}

func (s *Service) finalize(ctx context.Context, proposalID string, status models.ProposalStatus) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p, err := tx.GetProposal(proposalID)
	if err != nil {
		return err
	}
	if p.Status == status {
		return nil
	}
	if p.Status != models.ProposalProposed {
		return fmt.Errorf("proposal %s is %s, not proposed: %w", proposalID, p.Status, errs.ErrInvalidState)
	}
	if err := tx.UpdateProposalStatus(p.ID, status, nil, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// Package engine is the facade over the scoring, analysis, matching,
// balancing and proposal packages. It resolves the user's timezone once
// at construction and passes the location explicitly to every heuristic
// that works in local civil time.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/studyloop/cadence/internal/analyzer"
	"github.com/studyloop/cadence/internal/balancer"
	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/errs"
	"github.com/studyloop/cadence/internal/matcher"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/proposal"
	"github.com/studyloop/cadence/internal/scoring"
	"github.com/studyloop/cadence/internal/storage"
	"github.com/studyloop/cadence/internal/utils"
)

type Engine struct {
	store     storage.Provider
	cfg       config.HeuristicConfig
	loc       *time.Location
	proposals *proposal.Service

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func New(store storage.Provider, cfg config.HeuristicConfig, timezone string) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrConfiguration, err)
	}
	return &Engine{
		store:     store,
		cfg:       cfg,
		loc:       loc,
		proposals: proposal.NewService(store, cfg, loc),
		Now:       time.Now,
	}, nil
}

// Location returns the resolved timezone, shared with the proposal
// service.
func (e *Engine) Location() *time.Location { return e.loc }

// ScoreWorkItem computes the priority score for one work item at the
// given energy level. prevID optionally names the item worked on
// immediately before, for the friction term.
func (e *Engine) ScoreWorkItem(itemID string, energyLevel int, prevID string) (scoring.PriorityScore, error) {
	item, err := e.store.GetWorkItem(itemID)
	if err != nil {
		return scoring.PriorityScore{}, err
	}
	var prev *scoring.Context
	if prevID != "" {
		prevItem, err := e.store.GetWorkItem(prevID)
		if err != nil {
			return scoring.PriorityScore{}, err
		}
		prev = &scoring.Context{
			TaskType: scoring.InferTaskType(prevItem),
			CourseID: prevItem.CourseID,
		}
	}
	return scoring.Score(item, energyLevel, prev, e.Now(), e.cfg), nil
}

// FindFreeSlots returns the classified free slots for the user over the
// lookahead window.
func (e *Engine) FindFreeSlots(userID string, lookaheadDays, minDurationMin, energyLevel int, prefs models.SlotPreferences) ([]models.FreeSlot, error) {
	now := e.Now()
	if lookaheadDays <= 0 {
		lookaheadDays = e.cfg.LookaheadDays
	}
	to := now.AddDate(0, 0, lookaheadDays)
	events, err := e.store.ListEventsInRange(userID, now, to)
	if err != nil {
		return nil, err
	}
	q := analyzer.SlotQuery{
		From:        now,
		To:          to,
		Now:         now,
		MinDuration: minDurationMin,
		EnergyLevel: energyLevel,
		Prefs:       prefs,
	}
	return analyzer.FindFreeSlots(events, q, e.cfg, e.loc), nil
}

// DetectConflicts scans the user's calendar over the lookahead window.
func (e *Engine) DetectConflicts(userID string, lookaheadDays int) ([]models.Conflict, error) {
	now := e.Now()
	if lookaheadDays <= 0 {
		lookaheadDays = e.cfg.LookaheadDays
	}
	events, err := e.store.ListEventsInRange(userID, now, now.AddDate(0, 0, lookaheadDays))
	if err != nil {
		return nil, err
	}
	return analyzer.DetectConflicts(events, e.cfg, e.loc), nil
}

// AnalyzeWorkload summarizes scheduled focus load and cramming risk.
func (e *Engine) AnalyzeWorkload(userID string, lookaheadDays int) (models.WorkloadAnalysis, error) {
	now := e.Now()
	if lookaheadDays <= 0 {
		lookaheadDays = e.cfg.LookaheadDays
	}
	events, err := e.store.ListEventsInRange(userID, now, now.AddDate(0, 0, lookaheadDays))
	if err != nil {
		return models.WorkloadAnalysis{}, err
	}
	items, err := e.store.ListWorkItems(userID)
	if err != nil {
		return models.WorkloadAnalysis{}, err
	}
	return analyzer.AnalyzeWorkload(events, items, now, lookaheadDays, e.cfg, e.loc), nil
}

// FindOptimalSlot scores candidate slots for a block request and returns
// the ranked match, or nil when no viable slot exists.
func (e *Engine) FindOptimalSlot(userID string, req models.BlockRequest, energyLevel int, opts matcher.Options) (*models.SlotMatch, error) {
	now := e.Now()
	lookahead := opts.LookaheadDays
	if lookahead <= 0 {
		lookahead = e.cfg.LookaheadDays
	}
	events, err := e.store.ListEventsInRange(userID, now, now.AddDate(0, 0, lookahead))
	if err != nil {
		return nil, err
	}
	var item *models.WorkItem
	if req.WorkItemID != nil {
		it, err := e.store.GetWorkItem(*req.WorkItemID)
		if err != nil {
			return nil, err
		}
		item = &it
	}
	return matcher.FindOptimalSlot(req, events, item, energyLevel, now, e.cfg, e.loc, opts), nil
}

// BalanceWorkload runs the three-phase balancer without persisting
// anything; generate a proposal to make the actions durable.
func (e *Engine) BalanceWorkload(userID string, lookaheadDays, energyLevel int) (balancer.Report, error) {
	now := e.Now()
	if lookaheadDays <= 0 {
		lookaheadDays = e.cfg.LookaheadDays
	}
	events, err := e.store.ListEventsInRange(userID, now, now.AddDate(0, 0, lookaheadDays))
	if err != nil {
		return balancer.Report{}, err
	}
	items, err := e.store.ListWorkItems(userID)
	if err != nil {
		return balancer.Report{}, err
	}
	return balancer.Balance(events, items, userID, now, lookaheadDays, energyLevel, e.cfg, e.loc), nil
}

// GenerateProposal persists the balancer's actions as a reviewable
// proposal, expiring any older open proposal for the user.
func (e *Engine) GenerateProposal(ctx context.Context, userID, trigger string, energyLevel, lookaheadDays int) (models.Proposal, error) {
	return e.proposals.Generate(ctx, userID, trigger, energyLevel, lookaheadDays)
}

// ApplyProposal atomically applies the selected still-feasible moves of
// a proposal; an empty selection means every move. The result carries
// the applied and skipped counts.
func (e *Engine) ApplyProposal(ctx context.Context, proposalID string, selectedMoveIDs []string) (proposal.ApplyResult, error) {
	return e.proposals.Apply(ctx, proposalID, selectedMoveIDs)
}

// UndoProposal restores the calendar from the proposal's snapshot and
// reports how many events were restored.
func (e *Engine) UndoProposal(ctx context.Context, proposalID string) (models.Proposal, int, error) {
	return e.proposals.Undo(ctx, proposalID)
}

// RejectProposal declines a proposed proposal. Idempotent.
func (e *Engine) RejectProposal(ctx context.Context, proposalID string) error {
	return e.proposals.Reject(ctx, proposalID)
}

// CancelProposal withdraws a proposed proposal. Idempotent.
func (e *Engine) CancelProposal(ctx context.Context, proposalID string) error {
	return e.proposals.Cancel(ctx, proposalID)
}

// GetProposal fetches a proposal with its moves.
func (e *Engine) GetProposal(id string) (models.Proposal, error) {
	return e.store.GetProposal(id)
}

// ListApplyAttempts returns the audit trail for a proposal.
func (e *Engine) ListApplyAttempts(proposalID string) ([]models.ApplyAttempt, error) {
	return e.store.ListApplyAttempts(proposalID)
}

package models

import "time"

type ProposalStatus string

const (
	ProposalProposed  ProposalStatus = "proposed"
	ProposalApplied   ProposalStatus = "applied"
	ProposalRejected  ProposalStatus = "rejected"
	ProposalCancelled ProposalStatus = "cancelled"
	ProposalExpired   ProposalStatus = "expired"
)

type MoveType string

const (
	MoveInsert MoveType = "insert"
	MoveMove   MoveType = "move"
	MoveResize MoveType = "resize"
	MoveDelete MoveType = "delete"
)

// Move is one calendar mutation inside a proposal. EventID is nil for
// inserts; NewStart/NewEnd are nil for deletes.
type Move struct {
	ID            string       `json:"id"`
	Type          MoveType     `json:"type"`
	EventID       *string      `json:"event_id,omitempty"`
	Title         string       `json:"title"`
	EventType     EventType    `json:"event_type"`
	WorkItemID    *string      `json:"work_item_id,omitempty"`
	OriginalStart *time.Time   `json:"original_start,omitempty"`
	OriginalEnd   *time.Time   `json:"original_end,omitempty"`
	NewStart      *time.Time   `json:"new_start,omitempty"`
	NewEnd        *time.Time   `json:"new_end,omitempty"`
	DeltaMin      int          `json:"delta_min"`
	ChurnCost     float64      `json:"churn_cost"`
	ReasonCodes   []ReasonCode `json:"reason_codes"`
	Conflict      bool         `json:"conflict,omitempty"`
	OverLimit     bool         `json:"over_limit,omitempty"`
	ChunkIndex    int          `json:"chunk_index,omitempty"`
	ChunkTotal    int          `json:"chunk_total,omitempty"`
}

// Proposal is a reviewable, atomically applicable batch of moves.
// Immutable once created except for its status and the applied/undone
// timestamps the lifecycle sets.
type Proposal struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Trigger     string         `json:"trigger"`
	EnergyLevel int            `json:"energy_level"`
	Status      ProposalStatus `json:"status"`
	Moves       []Move         `json:"moves"`
	TotalChurn  float64        `json:"total_churn"`
	CreatedAt   time.Time      `json:"created_at"`
	AppliedAt   *time.Time     `json:"applied_at,omitempty"`
	UndoneAt    *time.Time     `json:"undone_at,omitempty"`
}

// SnapshotEntry captures the pre-apply state of one touched event.
// Existed=false marks an event the apply step inserted, which undo must
// delete; Existed=true restores Prior exactly, re-creating it if the
// apply deleted it.
type SnapshotEntry struct {
	EventID string         `json:"event_id"`
	Existed bool           `json:"existed"`
	Prior   *CalendarEvent `json:"prior,omitempty"`
}

// RollbackSnapshot is captured at apply time, 1:1 with an applied
// proposal, and consumed at undo time.
type RollbackSnapshot struct {
	ID         string          `json:"id"`
	ProposalID string          `json:"proposal_id"`
	Entries    []SnapshotEntry `json:"entries"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

type AttemptOutcome string

const (
	AttemptApplied  AttemptOutcome = "applied"
	AttemptSkipped  AttemptOutcome = "skipped"
	AttemptConflict AttemptOutcome = "conflict"
)

// ApplyAttempt is one append-only audit row per move per apply/undo call.
type ApplyAttempt struct {
	ID         string         `json:"id"`
	ProposalID string         `json:"proposal_id"`
	MoveID     string         `json:"move_id,omitempty"`
	Outcome    AttemptOutcome `json:"outcome"`
	Detail     string         `json:"detail,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

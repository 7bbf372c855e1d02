package storage

import (
	"context"
	"time"

	"github.com/studyloop/cadence/internal/models"
)

// Provider is the persistence surface the engine consumes. Reads are safe
// from any goroutine; every mutation flows through a Tx so the proposal
// apply/undo step is one atomic unit.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Calendar events (read side)
	ListEventsInRange(userID string, from, to time.Time) ([]models.CalendarEvent, error)
	GetEvent(id string) (models.CalendarEvent, error)

	// Work items (read-only to the engine)
	ListWorkItems(userID string) ([]models.WorkItem, error)
	GetWorkItem(id string) (models.WorkItem, error)

	// Proposals (read side)
	GetProposal(id string) (models.Proposal, error)
	ListProposalsByUser(userID string, status models.ProposalStatus) ([]models.Proposal, error)
	GetSnapshot(proposalID string) (models.RollbackSnapshot, error)
	ListApplyAttempts(proposalID string) ([]models.ApplyAttempt, error)

	// Seeding; used by the CLI, not the engine.
	AddEvent(models.CalendarEvent) error
	AddWorkItem(models.WorkItem) error

	// Begin opens a transaction for the write-and-mutate boundary.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a single transaction. Implementations must leave the database
// unchanged when Rollback is called before Commit.
type Tx interface {
	GetEvent(id string) (models.CalendarEvent, error)
	ListEventsInRange(userID string, from, to time.Time) ([]models.CalendarEvent, error)
	InsertEvent(models.CalendarEvent) error
	UpdateEvent(models.CalendarEvent) error
	DeleteEvent(id string) error

	GetProposal(id string) (models.Proposal, error)
	SaveProposal(models.Proposal) error
	UpdateProposalStatus(id string, status models.ProposalStatus, appliedAt, undoneAt *time.Time) error
	// ExpireProposals marks every still-proposed proposal for the user,
	// except the given one, as expired. Returns the count expired.
	ExpireProposals(userID, exceptID string) (int, error)

	SaveSnapshot(models.RollbackSnapshot) error
	GetSnapshot(proposalID string) (models.RollbackSnapshot, error)
	AppendApplyAttempt(models.ApplyAttempt) error

	Commit() error
	Rollback() error
}

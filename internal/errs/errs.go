// Package errs defines the engine's error taxonomy. Callers classify
// failures with errors.Is against these sentinels; sites that fail wrap
// the sentinel with context via fmt.Errorf and %w.
package errs

import "errors"

var (
	// ErrNotFound marks a missing work item, event or proposal.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an apply or undo attempted against the wrong
	// proposal status, including an expired undo window.
	ErrInvalidState = errors.New("invalid state")

	// ErrInfeasible marks a single move that cannot be applied against
	// the live calendar. Recorded per move; never fatal to the batch.
	ErrInfeasible = errors.New("move infeasible")

	// ErrStaleProposal marks a proposal superseded by a newer one. The
	// remedy is a fresh scoring pass, not a retry.
	ErrStaleProposal = errors.New("proposal is stale, regenerate")

	// ErrConfiguration marks a malformed heuristic config, such as
	// inverted thresholds.
	ErrConfiguration = errors.New("invalid heuristic configuration")
)

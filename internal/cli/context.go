// Package cli holds the kong command implementations behind the cadence
// binary.
package cli

import (
	"fmt"
	"time"

	"github.com/studyloop/cadence/internal/engine"
	"github.com/studyloop/cadence/internal/storage"
)

// Context is passed to every command's Run method by kong.
type Context struct {
	Store storage.Provider
	// StoragePath is the sqlite file path or postgres connection string
	// the store was opened with.
	StoragePath string
	Engine      *engine.Engine
	UserID      string
}

// FormatSlot renders a time range in the engine's timezone.
func (c *Context) FormatSlot(start, end time.Time) string {
	loc := c.Engine.Location()
	s, e := start.In(loc), end.In(loc)
	if s.Format("2006-01-02") == e.Format("2006-01-02") {
		return fmt.Sprintf("%s %s–%s", s.Format("Mon Jan 2"), s.Format("15:04"), e.Format("15:04"))
	}
	return fmt.Sprintf("%s – %s", s.Format("Mon Jan 2 15:04"), e.Format("Mon Jan 2 15:04"))
}

// FormatTime renders a single instant in the engine's timezone.
func (c *Context) FormatTime(t time.Time) string {
	return t.In(c.Engine.Location()).Format("Mon Jan 2 15:04")
}

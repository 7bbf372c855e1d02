package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
)

// ChurnCost quantifies the disruption of moving an event: duration times a
// type multiplier. Immovable events carry a prohibitive multiplier so they
// rank last in any cost ordering; they should never actually be proposed
// for movement.
func ChurnCost(ev models.CalendarEvent) float64 {
	mult := 1.0
	switch ev.Type {
	case models.EventFocus:
		mult = 2.0
	case models.EventChill:
		mult = 0.5
	}
	if !ev.Movable {
		mult = 10.0
	}
	return float64(ev.DurationMin()) * mult
}

// DetectConflicts flags overlapping events, rest violations between
// consecutive focus blocks, and events intruding on the sleep window.
// Candidate resolutions that would themselves land in the sleep window are
// discarded rather than surfaced.
func DetectConflicts(events []models.CalendarEvent, cfg config.HeuristicConfig, loc *time.Location) []models.Conflict {
	sorted := make([]models.CalendarEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartAt.Before(sorted[j].StartAt) })

	var conflicts []models.Conflict

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if !a.Overlaps(b) {
				continue
			}
			conflicts = append(conflicts, overlapConflict(a, b, cfg, loc))
		}
	}

	var focus []models.CalendarEvent
	for _, ev := range sorted {
		if ev.Type == models.EventFocus {
			focus = append(focus, ev)
		}
	}
	minRest := time.Duration(cfg.DeepWorkMinRestHours * float64(time.Hour))
	for i := 1; i < len(focus); i++ {
		prev, cur := focus[i-1], focus[i]
		gap := cur.StartAt.Sub(prev.EndAt)
		if gap >= 0 && gap < minRest {
			conflicts = append(conflicts, restConflict(prev, cur, minRest, cfg, loc))
		}
	}

	for _, ev := range sorted {
		if OverlapsSleep(ev.StartAt, ev.EndAt, cfg, loc) {
			conflicts = append(conflicts, models.Conflict{
				Type:     models.ConflictViolatesSleep,
				Severity: models.SeverityCritical,
				EventIDs: []string{ev.ID},
				Description: fmt.Sprintf("%q (%s - %s) intrudes on the sleep protection window",
					ev.Title, ev.StartAt.In(loc).Format("Mon 15:04"), ev.EndAt.In(loc).Format("15:04")),
			})
		}
	}

	return conflicts
}

func overlapConflict(a, b models.CalendarEvent, cfg config.HeuristicConfig, loc *time.Location) models.Conflict {
	severity := models.SeverityLow
	focusCount := 0
	if a.Type == models.EventFocus {
		focusCount++
	}
	if b.Type == models.EventFocus {
		focusCount++
	}
	switch {
	case !a.Movable && !b.Movable:
		severity = models.SeverityCritical
	case !a.Movable || !b.Movable || focusCount == 2:
		severity = models.SeverityHigh
	case focusCount == 1:
		severity = models.SeverityMedium
	}

	c := models.Conflict{
		Type:     models.ConflictOverlap,
		Severity: severity,
		EventIDs: []string{a.ID, b.ID},
		Description: fmt.Sprintf("%q overlaps %q (%s - %s)",
			a.Title, b.Title, b.StartAt.In(loc).Format("Mon 15:04"), b.EndAt.In(loc).Format("15:04")),
	}

	buffer := time.Duration(cfg.TransitionBufferMin) * time.Minute
	if b.Movable {
		c.Resolutions = appendValid(c.Resolutions,
			shiftedTo(b, a.EndAt.Add(buffer), fmt.Sprintf("move %q past %q", b.Title, a.Title)), cfg, loc)
	}
	if a.Movable {
		c.Resolutions = appendValid(c.Resolutions,
			shiftedTo(a, b.EndAt.Add(buffer), fmt.Sprintf("move %q past %q", a.Title, b.Title)), cfg, loc)
	}
	return c
}

// restConflict always proposes shifting the later block forward to
// prev.EndAt + the minimum rest; the earlier block is never moved back.
func restConflict(prev, cur models.CalendarEvent, minRest time.Duration, cfg config.HeuristicConfig, loc *time.Location) models.Conflict {
	c := models.Conflict{
		Type:     models.ConflictViolatesRest,
		Severity: models.SeverityHigh,
		EventIDs: []string{prev.ID, cur.ID},
		Description: fmt.Sprintf("only %.1fh of rest between %q and %q (minimum %.1fh)",
			cur.StartAt.Sub(prev.EndAt).Hours(), prev.Title, cur.Title, minRest.Hours()),
	}
	if cur.Movable {
		c.Resolutions = appendValid(c.Resolutions,
			shiftedTo(cur, prev.EndAt.Add(minRest), fmt.Sprintf("delay %q to restore rest after %q", cur.Title, prev.Title)), cfg, loc)
	}
	return c
}

func shiftedTo(ev models.CalendarEvent, newStart time.Time, desc string) models.Resolution {
	dur := ev.EndAt.Sub(ev.StartAt)
	return models.Resolution{
		EventID:     ev.ID,
		NewStart:    newStart,
		NewEnd:      newStart.Add(dur),
		ChurnCost:   ChurnCost(ev),
		Description: desc,
	}
}

// appendValid re-checks a candidate resolution against the sleep window
// and drops it silently when it lands inside.
func appendValid(rs []models.Resolution, r models.Resolution, cfg config.HeuristicConfig, loc *time.Location) []models.Resolution {
	if OverlapsSleep(r.NewStart, r.NewEnd, cfg, loc) {
		return rs
	}
	return append(rs, r)
}

// OverlapsSleep reports whether the interval intersects any materialized
// sleep window.
func OverlapsSleep(start, end time.Time, cfg config.HeuristicConfig, loc *time.Location) bool {
	for _, w := range sleepWindows(start.AddDate(0, 0, -1), end.AddDate(0, 0, 1), cfg, loc) {
		if start.Before(w.end) && end.After(w.start) {
			return true
		}
	}
	return false
}

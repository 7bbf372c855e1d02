// Package analyzer inspects a user's calendar: free-slot discovery,
// conflict detection and workload analysis. Everything here is a pure,
// single-pass scan over the caller's event window.
package analyzer

import (
	"sort"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
	"github.com/studyloop/cadence/internal/scoring"
	"github.com/studyloop/cadence/internal/utils"
)

// SlotQuery bounds a free-slot search.
type SlotQuery struct {
	From        time.Time
	To          time.Time
	Now         time.Time
	MinDuration int // minutes; 0 means cfg.MinSlotMinutes
	EnergyLevel int
	Prefs       models.SlotPreferences
}

type interval struct {
	start, end time.Time
}

// FindFreeSlots walks the sorted event timeline and returns the gap
// complement within [From, To), starting no earlier than Now. Gaps inside
// the sleep-protection window are discarded; gaps overlapping one edge are
// truncated; gaps spanning a whole window are split around it.
func FindFreeSlots(events []models.CalendarEvent, q SlotQuery, cfg config.HeuristicConfig, loc *time.Location) []models.FreeSlot {
	minDur := q.MinDuration
	if minDur <= 0 {
		minDur = cfg.MinSlotMinutes
	}

	sorted := make([]models.CalendarEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartAt.Before(sorted[j].StartAt) })

	cursor := utils.MaxTime(q.Now, q.From)
	var gaps []interval
	for _, ev := range sorted {
		if !ev.EndAt.After(cursor) {
			continue
		}
		if ev.StartAt.After(q.To) {
			break
		}
		if ev.StartAt.After(cursor) {
			gaps = append(gaps, interval{cursor, utils.MinTime(ev.StartAt, q.To)})
		}
		cursor = utils.MaxTime(cursor, ev.EndAt)
	}
	if cursor.Before(q.To) {
		gaps = append(gaps, interval{cursor, q.To})
	}

	sleep := sleepWindows(q.From, q.To, cfg, loc)

	var slots []models.FreeSlot
	for _, gap := range gaps {
		for _, seg := range subtract(gap, sleep) {
			durMin := int(seg.end.Sub(seg.start).Minutes())
			if durMin < minDur {
				continue
			}
			slot := classify(seg.start, seg.end, durMin, q.EnergyLevel, cfg, loc)
			if q.Prefs.AvoidWeekends && slot.Weekend {
				continue
			}
			slots = append(slots, slot)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if q.Prefs.PreferredTime != "" {
			im := slots[i].TimeOfDay == q.Prefs.PreferredTime
			jm := slots[j].TimeOfDay == q.Prefs.PreferredTime
			if im != jm {
				return im
			}
		}
		if slots[i].QualityScore != slots[j].QualityScore {
			return slots[i].QualityScore > slots[j].QualityScore
		}
		return slots[i].EnergyFit > slots[j].EnergyFit
	})

	return slots
}

// sleepWindows materializes the configured sleep-protection window as
// concrete intervals covering [from, to]. A window whose start hour is
// after its end hour crosses midnight.
func sleepWindows(from, to time.Time, cfg config.HeuristicConfig, loc *time.Location) []interval {
	var windows []interval
	day := utils.StartOfDay(from, loc).AddDate(0, 0, -1)
	for !day.After(to) {
		start := day.Add(time.Duration(cfg.SleepStartHour) * time.Hour)
		end := day.Add(time.Duration(cfg.SleepEndHour) * time.Hour)
		if cfg.SleepStartHour >= cfg.SleepEndHour {
			end = end.AddDate(0, 0, 1)
		}
		if end.After(from) && start.Before(to) {
			windows = append(windows, interval{start, end})
		}
		day = day.AddDate(0, 0, 1)
	}
	return windows
}

// subtract removes every blocked interval from gap, returning the
// surviving segments in order.
func subtract(gap interval, blocked []interval) []interval {
	segments := []interval{gap}
	for _, b := range blocked {
		var next []interval
		for _, seg := range segments {
			if !b.start.Before(seg.end) || !b.end.After(seg.start) {
				next = append(next, seg)
				continue
			}
			if b.start.After(seg.start) {
				next = append(next, interval{seg.start, b.start})
			}
			if b.end.Before(seg.end) {
				next = append(next, interval{b.end, seg.end})
			}
		}
		segments = next
	}
	return segments
}

// timeOfDayEnergy is deliberately asymmetric: high energy favors mornings,
// low energy favors evenings, and night work is penalized to 0.1 across
// the board.
var timeOfDayEnergy = map[string]map[models.TimeOfDay]float64{
	"high": {
		models.Morning:   1.0,
		models.Afternoon: 0.7,
		models.Evening:   0.4,
		models.Night:     0.1,
	},
	"medium": {
		models.Morning:   0.8,
		models.Afternoon: 1.0,
		models.Evening:   0.6,
		models.Night:     0.1,
	},
	"low": {
		models.Morning:   0.3,
		models.Afternoon: 0.6,
		models.Evening:   1.0,
		models.Night:     0.1,
	},
}

var timeOfDayWeight = map[models.TimeOfDay]int{
	models.Morning:   3,
	models.Afternoon: 3,
	models.Evening:   2,
	models.Night:     0,
}

// TimeOfDayEnergyFit scores how well a time-of-day bucket suits the
// reported energy level.
func TimeOfDayEnergyFit(tod models.TimeOfDay, energyLevel int, cfg config.HeuristicConfig) float64 {
	return timeOfDayEnergy[scoring.EnergyBand(energyLevel, cfg)][tod]
}

// TimeOfDayBucket buckets a timestamp by the configured boundary hours.
func TimeOfDayBucket(t time.Time, cfg config.HeuristicConfig, loc *time.Location) models.TimeOfDay {
	h := t.In(loc).Hour()
	switch {
	case h >= cfg.MorningStartHour && h < cfg.AfternoonStartHour:
		return models.Morning
	case h >= cfg.AfternoonStartHour && h < cfg.EveningStartHour:
		return models.Afternoon
	case h >= cfg.EveningStartHour && h < cfg.NightStartHour:
		return models.Evening
	default:
		return models.Night
	}
}

func classify(start, end time.Time, durMin, energyLevel int, cfg config.HeuristicConfig, loc *time.Location) models.FreeSlot {
	tod := TimeOfDayBucket(start, cfg, loc)
	weekend := utils.IsWeekend(start, loc)
	fit := TimeOfDayEnergyFit(tod, energyLevel, cfg)

	score := timeOfDayWeight[tod]
	switch {
	case durMin >= 120:
		score += 2
	case durMin >= 60:
		score++
	}
	if weekend {
		score -= cfg.WeekendPenalty
	}
	switch {
	case fit >= 0.8:
		score += 2
	case fit >= 0.5:
		score++
	}

	quality := models.QualityPoor
	switch {
	case score >= 6:
		quality = models.QualityOptimal
	case score >= 4:
		quality = models.QualityGood
	case score >= 2:
		quality = models.QualityAcceptable
	}

	return models.FreeSlot{
		StartAt:      start,
		EndAt:        end,
		DurationMin:  durMin,
		TimeOfDay:    tod,
		Weekend:      weekend,
		EnergyFit:    fit,
		Quality:      quality,
		QualityScore: score,
	}
}

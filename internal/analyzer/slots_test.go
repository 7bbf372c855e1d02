package analyzer

import (
	"testing"
	"time"

	"github.com/studyloop/cadence/internal/config"
	"github.com/studyloop/cadence/internal/models"
)

// Monday March 2 2026, 09:00 UTC.
var slotNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func event(id string, start, end time.Time) models.CalendarEvent {
	return models.CalendarEvent{ID: id, UserID: "u1", Title: id, StartAt: start, EndAt: end, Type: models.EventClass}
}

func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func TestFindFreeSlots_GapBetweenEvents(t *testing.T) {
	cfg := config.Default()
	events := []models.CalendarEvent{
		event("a", at(2, 10, 0), at(2, 11, 0)),
		event("b", at(2, 14, 0), at(2, 15, 0)),
	}
	q := SlotQuery{From: slotNow, To: at(2, 17, 0), Now: slotNow, EnergyLevel: 5}
	slots := FindFreeSlots(events, q, cfg, time.UTC)

	want := map[string]bool{
		"09:00-10:00": false,
		"11:00-14:00": false,
		"15:00-17:00": false,
	}
	for _, s := range slots {
		key := s.StartAt.Format("15:04") + "-" + s.EndAt.Format("15:04")
		if _, ok := want[key]; !ok {
			t.Errorf("unexpected slot %s", key)
			continue
		}
		want[key] = true
	}
	for key, found := range want {
		if !found {
			t.Errorf("missing slot %s", key)
		}
	}
}

func TestFindFreeSlots_StartsAtNowNotFrom(t *testing.T) {
	cfg := config.Default()
	q := SlotQuery{From: at(2, 8, 0), To: at(2, 12, 0), Now: slotNow, EnergyLevel: 5}
	slots := FindFreeSlots(nil, q, cfg, time.UTC)
	if len(slots) != 1 {
		t.Fatalf("expected one slot, got %d", len(slots))
	}
	if !slots[0].StartAt.Equal(slotNow) {
		t.Errorf("slot should start at now (%v), got %v", slotNow, slots[0].StartAt)
	}
}

func TestFindFreeSlots_SleepWindowTruncatesGap(t *testing.T) {
	cfg := config.Default() // sleep 23:00-07:00
	q := SlotQuery{From: at(2, 20, 0), To: at(3, 2, 0), Now: at(2, 20, 0), EnergyLevel: 5}
	slots := FindFreeSlots(nil, q, cfg, time.UTC)
	if len(slots) != 1 {
		t.Fatalf("expected one truncated slot, got %d", len(slots))
	}
	if !slots[0].EndAt.Equal(at(2, 23, 0)) {
		t.Errorf("slot should be truncated at sleep start 23:00, got end %v", slots[0].EndAt)
	}
}

func TestFindFreeSlots_GapContainingSleepWindowSplits(t *testing.T) {
	cfg := config.Default()
	q := SlotQuery{From: at(2, 20, 0), To: at(3, 12, 0), Now: at(2, 20, 0), EnergyLevel: 5}
	slots := FindFreeSlots(nil, q, cfg, time.UTC)
	if len(slots) != 2 {
		t.Fatalf("expected the gap to split around the sleep window, got %d slots", len(slots))
	}
	var seen []string
	for _, s := range slots {
		seen = append(seen, s.StartAt.Format("2 15:04")+"-"+s.EndAt.Format("2 15:04"))
	}
	wantFirst, wantSecond := false, false
	for _, key := range seen {
		if key == "2 20:00-2 23:00" {
			wantFirst = true
		}
		if key == "3 07:00-3 12:00" {
			wantSecond = true
		}
	}
	if !wantFirst || !wantSecond {
		t.Errorf("expected segments 20:00-23:00 and 07:00-12:00, got %v", seen)
	}
}

func TestFindFreeSlots_MinDurationFilters(t *testing.T) {
	cfg := config.Default()
	events := []models.CalendarEvent{
		event("a", at(2, 9, 20), at(2, 12, 0)), // leaves a 20-minute lead gap
	}
	q := SlotQuery{From: slotNow, To: at(2, 12, 0), Now: slotNow, EnergyLevel: 5}
	slots := FindFreeSlots(events, q, cfg, time.UTC)
	for _, s := range slots {
		if s.DurationMin < cfg.MinSlotMinutes {
			t.Errorf("slot of %dm should have been filtered (min %dm)", s.DurationMin, cfg.MinSlotMinutes)
		}
	}
}

func TestFindFreeSlots_AvoidWeekends(t *testing.T) {
	cfg := config.Default()
	// Friday March 6 evening through the weekend.
	from := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	q := SlotQuery{
		From: from, To: to, Now: from, EnergyLevel: 5,
		Prefs: models.SlotPreferences{AvoidWeekends: true},
	}
	slots := FindFreeSlots(nil, q, cfg, time.UTC)
	if len(slots) == 0 {
		t.Fatal("expected weekday slots to survive the weekend filter")
	}
	for _, s := range slots {
		if s.Weekend {
			t.Errorf("weekend slot %v should have been filtered", s.StartAt)
		}
	}
}

func TestFindFreeSlots_PreferredTimeSortsFirst(t *testing.T) {
	cfg := config.Default()
	q := SlotQuery{
		From: slotNow, To: at(2, 23, 0), Now: slotNow, EnergyLevel: 5,
		Prefs: models.SlotPreferences{PreferredTime: models.Evening},
	}
	events := []models.CalendarEvent{
		event("a", at(2, 12, 0), at(2, 17, 0)),
	}
	slots := FindFreeSlots(events, q, cfg, time.UTC)
	if len(slots) < 2 {
		t.Fatalf("expected at least two slots, got %d", len(slots))
	}
	if slots[0].TimeOfDay != models.Evening {
		t.Errorf("preferred evening slot should sort first, got %s", slots[0].TimeOfDay)
	}
}

func TestTimeOfDayBucket(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		hour int
		want models.TimeOfDay
	}{
		{6, models.Morning},
		{11, models.Morning},
		{12, models.Afternoon},
		{17, models.Evening},
		{21, models.Night},
		{2, models.Night},
	}
	for _, tt := range tests {
		got := TimeOfDayBucket(at(2, tt.hour, 0), cfg, time.UTC)
		if got != tt.want {
			t.Errorf("TimeOfDayBucket(%02d:00) = %s, want %s", tt.hour, got, tt.want)
		}
	}
}

func TestClassify_NightSlotsArePoor(t *testing.T) {
	cfg := config.Default()
	slot := classify(at(2, 21, 0), at(2, 22, 0), 60, 8, cfg, time.UTC)
	if slot.Quality != models.QualityPoor && slot.Quality != models.QualityAcceptable {
		t.Errorf("a night slot should not rank well, got %s (score %d)", slot.Quality, slot.QualityScore)
	}
	morning := classify(at(2, 9, 0), at(2, 11, 0), 120, 8, cfg, time.UTC)
	if morning.Quality != models.QualityOptimal {
		t.Errorf("long high-energy morning slot should be optimal, got %s (score %d)", morning.Quality, morning.QualityScore)
	}
}

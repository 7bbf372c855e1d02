package models

// ReasonCode is a closed set of machine-readable explanations attached to
// slot matches and proposal moves. Human descriptions live in
// DescribeReason, not scattered through scoring code.
type ReasonCode string

const (
	ReasonOptimalTimeOfDay   ReasonCode = "OPTIMAL_TIME_OF_DAY"
	ReasonPoorTimeOfDay      ReasonCode = "POOR_TIME_OF_DAY"
	ReasonGoodEnergyFit      ReasonCode = "GOOD_ENERGY_FIT"
	ReasonLowEnergyFit       ReasonCode = "LOW_ENERGY_FIT"
	ReasonUrgentDeadline     ReasonCode = "URGENT_DEADLINE"
	ReasonComfortableLead    ReasonCode = "COMFORTABLE_LEAD_TIME"
	ReasonBalancedWorkload   ReasonCode = "BALANCED_WORKLOAD"
	ReasonOverloadedDay      ReasonCode = "OVERLOADED_DAY"
	ReasonViolatesChunkGaps  ReasonCode = "VIOLATES_CHUNKING_GAPS"
	ReasonWellSpacedChunks   ReasonCode = "WELL_SPACED_CHUNKS"
	ReasonWeekendSlot        ReasonCode = "WEEKEND_SLOT"
	ReasonCrammingRisk       ReasonCode = "CRAMMING_RISK"
	ReasonRedistributeLoad   ReasonCode = "REDISTRIBUTE_LOAD"
	ReasonFillUnderusedDay   ReasonCode = "FILL_UNDERUSED_DAY"
	ReasonResolvesConflict   ReasonCode = "RESOLVES_CONFLICT"
	ReasonNoViableSlot       ReasonCode = "NO_VIABLE_SLOT"
)

var reasonDescriptions = map[ReasonCode]string{
	ReasonOptimalTimeOfDay:  "slot falls in the preferred time of day for this work",
	ReasonPoorTimeOfDay:     "slot falls outside the preferred time of day for this work",
	ReasonGoodEnergyFit:     "slot suits the reported energy level",
	ReasonLowEnergyFit:      "slot poorly suits the reported energy level",
	ReasonUrgentDeadline:    "deadline is close; earlier completion favored",
	ReasonComfortableLead:   "slot leaves a comfortable lead before the deadline",
	ReasonBalancedWorkload:  "slot lands on a lightly loaded day",
	ReasonOverloadedDay:     "slot lands on an already heavy day",
	ReasonViolatesChunkGaps: "slot is too close to another chunk of the same assignment",
	ReasonWellSpacedChunks:  "slot is well separated from other chunks of the same assignment",
	ReasonWeekendSlot:       "slot falls on a weekend",
	ReasonCrammingRisk:      "assignment is at risk of last-minute cramming",
	ReasonRedistributeLoad:  "moves work off an overloaded day",
	ReasonFillUnderusedDay:  "uses spare capacity on a light day",
	ReasonResolvesConflict:  "resolves a detected scheduling conflict",
	ReasonNoViableSlot:      "no free slot satisfied the constraints",
}

// DescribeReason returns the human-readable description for a reason code,
// or the code itself when unknown.
func DescribeReason(c ReasonCode) string {
	if d, ok := reasonDescriptions[c]; ok {
		return d
	}
	return string(c)
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// BlockRequest describes the block of work a slot is being sought for.
type BlockRequest struct {
	DurationMin int
	Category    TaskType
	WorkItemID  *string
	ChunkIndex  int
}

// ScoredSlot is a free slot with its per-axis and total match scores.
// Axis maxima: time of day 25, energy 25, deadline 20, workload 20,
// chunk spacing 10.
type ScoredSlot struct {
	Slot      FreeSlot `json:"slot"`
	Total     float64  `json:"total"`
	TimeOfDay float64  `json:"time_of_day"`
	Energy    float64  `json:"energy"`
	Deadline  float64  `json:"deadline"`
	Workload  float64  `json:"workload"`
	ChunkGap  float64  `json:"chunk_gap"`
}

type SlotMatch struct {
	Best         ScoredSlot   `json:"best"`
	Alternatives []ScoredSlot `json:"alternatives,omitempty"`
	Confidence   Confidence   `json:"confidence"`
	Explanations []string     `json:"explanations"`
	ReasonCodes  []ReasonCode `json:"reason_codes"`
}

package types

import "time"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities for max-severity computation: error > warning > info.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

type ViolationLayer string

const (
	LayerTemporal   ViolationLayer = "temporal"
	LayerFragility  ViolationLayer = "fragility"
	LayerCrossDay   ViolationLayer = "cross_day"
	LayerClustering ViolationLayer = "clustering"
	LayerDuplicate  ViolationLayer = "duplicate"
	LayerPacing     ViolationLayer = "pacing"
	LayerTransfer   ViolationLayer = "transfer"
)

// ConstraintViolation is a first-class value, never an error: the engine
// reports it alongside the itinerary instead of throwing.
type ConstraintViolation struct {
	Layer      ViolationLayer `json:"layer"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	SlotID     string         `json:"slot_id,omitempty"`
	DayNumber  int            `json:"day_number,omitempty"`
	Resolution string         `json:"resolution,omitempty"`
}

// ValidationState is the result of one full validation pass over an
// itinerary snapshot. It is owned and explicitly invalidated by the
// validation service whenever the underlying itinerary changes; consumers
// re-fetch rather than assume freshness.
type ValidationState struct {
	Valid       bool                             `json:"valid"`
	Violations  []ConstraintViolation            `json:"violations"`
	ByDay       map[int][]ConstraintViolation    `json:"by_day"`
	BySlot      map[string][]ConstraintViolation `json:"by_slot"`
	HealthScore int                              `json:"health_score"` // 0-100
	CheckedAt   time.Time                        `json:"checked_at"`
}

type HealthSummary struct {
	Score     int      `json:"score"`
	Status    string   `json:"status"`
	TopIssues []string `json:"top_issues"`
}

// SuggestionCandidate is one replacement activity proposed for a slot.
type SuggestionCandidate struct {
	Activity Activity `json:"activity"`
	Score    float64  `json:"score"`
}

// RankedCandidate is a candidate that survived filtering, carrying its
// adjusted score and any non-fatal warnings.
type RankedCandidate struct {
	Activity Activity `json:"activity"`
	Score    float64  `json:"score"`
	Warnings []string `json:"warnings,omitempty"`
}

// SuggestionTarget names the day/slot a candidate batch is proposed for.
type SuggestionTarget struct {
	DayNumber int        `json:"day_number"`
	SlotType  SlotType   `json:"slot_type,omitempty"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
}

type UserActionType string

const (
	ActionMove   UserActionType = "move"
	ActionSwap   UserActionType = "swap"
	ActionAdd    UserActionType = "add"
	ActionRemove UserActionType = "remove"
	ActionRetime UserActionType = "retime"
)

// UserAction is a user-initiated edit to be annotated. Fields beyond Type
// are interpreted per action: Move uses SlotID+ToDay, Retime uses
// SlotID+NewTimeRange, Add/Swap use Activity.
type UserAction struct {
	Type         UserActionType `json:"type"`
	SlotID       string         `json:"slot_id,omitempty"`
	ToDay        int            `json:"to_day,omitempty"`
	NewTimeRange *TimeRange     `json:"new_time_range,omitempty"`
	Activity     *Activity      `json:"activity,omitempty"`
}

// UserActionResult always carries Allowed=true: user edits are annotated,
// never refused. Only suggestions can be rejected.
type UserActionResult struct {
	Allowed     bool                  `json:"allowed"`
	Violations  []ConstraintViolation `json:"violations"`
	Warnings    []ConstraintViolation `json:"warnings"`
	MaxSeverity Severity              `json:"max_severity,omitempty"`
}

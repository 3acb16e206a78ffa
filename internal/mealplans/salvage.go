package mealplans

import (
	"encoding/json"
	"strings"
)

// DayPlan is one day of a generated plan. Meal names are whatever the model
// returned; they are not checked against the catalog.
type DayPlan struct {
	Day       int    `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snack     string `json:"snack"`
}

// UnmarshalJSON accepts "snacks" as an alias of "snack".
func (d *DayPlan) UnmarshalJSON(data []byte) error {
	type plain DayPlan
	var raw struct {
		plain
		Snacks *string `json:"snacks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = DayPlan(raw.plain)
	if d.Snack == "" && raw.Snacks != nil {
		d.Snack = *raw.Snacks
	}
	return nil
}

type ResultKind string

const (
	KindSuccess          ResultKind = "success"
	KindParseFailed      ResultKind = "parse-failed"
	KindNoStructureFound ResultKind = "no-structure-found"
)

// PlanResult holds exactly one outcome: Days for KindSuccess, RawText otherwise.
type PlanResult struct {
	Kind ResultKind
	Days []DayPlan
	// RawText is the model answer verbatim; set for failures only.
	RawText string
	// Extracted is true when the days came from the bracketed span rather than the whole text.
	Extracted bool
}

func (r PlanResult) OK() bool {
	return r.Kind == KindSuccess
}

// Message is the client-facing description of a failed result.
func (r PlanResult) Message() string {
	switch r.Kind {
	case KindParseFailed:
		return "JSON extraction failed"
	case KindNoStructureFound:
		return "No JSON found in AI response"
	default:
		return ""
	}
}

// Salvage turns a model answer into a plan. It tries the whole trimmed text
// first, then the span from the first '[' to the last ']'. A span holding
// several arrays is taken as one and will usually fail to parse.
func Salvage(raw string) PlanResult {
	if days, ok := parseDays(strings.TrimSpace(raw)); ok {
		return PlanResult{Kind: KindSuccess, Days: days}
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end < start {
		return PlanResult{Kind: KindNoStructureFound, RawText: raw}
	}

	if days, ok := parseDays(raw[start : end+1]); ok {
		return PlanResult{Kind: KindSuccess, Days: days, Extracted: true}
	}
	return PlanResult{Kind: KindParseFailed, RawText: raw}
}

func parseDays(s string) ([]DayPlan, bool) {
	var days []DayPlan
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, false
	}
	// "null" decodes without error but is not a plan
	if days == nil {
		return nil, false
	}
	return days, true
}

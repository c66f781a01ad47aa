package predict

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mwalimu/edusight/core/student"
)

// Recommendation priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var priorityRank = map[string]int{
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Recommendation is a suggested intervention derived from a prediction and
// the originating student record.
type Recommendation struct {
	StudentID uuid.UUID `json:"student_id"`
	Text      string    `json:"text"`
	Priority  string    `json:"priority"`
}

type rule struct {
	matches  func(p Prediction, st student.Student) bool
	text     string
	priority string
	terminal bool // when matched, its recommendation is the only one emitted
}

// rules is evaluated top to bottom; declaration order breaks priority ties,
// so reordering entries changes observable output.
var rules = []rule{
	{
		matches: func(p Prediction, st student.Student) bool {
			return p.Label == LabelHigh && st.AttendanceRate < 75
		},
		text:     "attendance intervention",
		priority: PriorityHigh,
	},
	{
		matches: func(p Prediction, st student.Student) bool {
			return p.Label == LabelHigh && st.StudyHoursPerWeek < 5
		},
		text:     "study-habit counseling",
		priority: PriorityHigh,
	},
	{
		matches: func(p Prediction, st student.Student) bool {
			return p.Label == LabelHigh && st.PriorScore < 50
		},
		text:     "academic support program",
		priority: PriorityHigh,
	},
	{
		matches: func(p Prediction, st student.Student) bool {
			return p.Label == LabelMedium && p.Confidence < 0.6
		},
		text:     "monitor, re-evaluate next period",
		priority: PriorityMedium,
	},
	{
		matches: func(p Prediction, st student.Student) bool {
			return p.Label == LabelMedium && st.AttendanceRate < 85
		},
		text:     "parent-teacher attendance meeting",
		priority: PriorityMedium,
	},
	{
		matches: func(p Prediction, st student.Student) bool {
			return p.Label == LabelLow
		},
		text:     "no action required",
		priority: PriorityLow,
		terminal: true,
	},
}

// Derive evaluates the rule table against one (prediction, record) pair.
// All matching rules fire, sorted by priority high to low with declaration
// order preserved within a priority. A Low-risk prediction yields exactly one
// recommendation; no match yields an empty slice, not an error.
func Derive(p Prediction, st student.Student) []Recommendation {
	var recs []Recommendation
	for _, r := range rules {
		if !r.matches(p, st) {
			continue
		}
		rec := Recommendation{StudentID: p.StudentID, Text: r.text, Priority: r.priority}
		if r.terminal {
			return []Recommendation{rec}
		}
		recs = append(recs, rec)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return priorityRank[recs[i].Priority] > priorityRank[recs[j].Priority]
	})
	return recs
}

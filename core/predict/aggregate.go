package predict

import (
	"github.com/volatiletech/null/v8"

	"github.com/mwalimu/edusight/core/student"
)

type (
	// AttendanceTally is an optional day-level attendance breakdown supplied
	// by the caller when day counts are available.
	AttendanceTally struct {
		PresentDays int `json:"present_days"`
		AbsentDays  int `json:"absent_days"`
	}

	// Summary holds the dashboard aggregates for a set of student records.
	// Means are null (not zero) when computed over no records.
	Summary struct {
		TotalStudents      int              `json:"total_students"`
		RiskCounts         map[string]int   `json:"risk_counts"`
		MeanAttendanceRate null.Float64     `json:"mean_attendance_rate"`
		MeanPriorScore     null.Float64     `json:"mean_prior_score"`
		MeanStudyHours     null.Float64     `json:"mean_study_hours"`
		Attendance         *AttendanceTally `json:"attendance,omitempty"`
	}
)

// Aggregate computes dashboard statistics over its inputs. It is a pure
// function: no side effects, and an empty input yields zero counts with null
// means rather than a division by zero.
func Aggregate(students []student.Student, preds []Prediction, tally ...AttendanceTally) Summary {
	sum := Summary{
		TotalStudents: len(students),
		RiskCounts:    make(map[string]int, len(Labels)),
	}
	for _, l := range Labels {
		sum.RiskCounts[l] = 0
	}
	for _, p := range preds {
		sum.RiskCounts[p.Label]++
	}

	if len(students) > 0 {
		var att, prior, study float64
		for _, st := range students {
			att += st.AttendanceRate
			prior += st.PriorScore
			study += st.StudyHoursPerWeek
		}
		n := float64(len(students))
		sum.MeanAttendanceRate = null.Float64From(att / n)
		sum.MeanPriorScore = null.Float64From(prior / n)
		sum.MeanStudyHours = null.Float64From(study / n)
	}

	if len(tally) > 0 {
		t := tally[0]
		sum.Attendance = &t
	}
	return sum
}

package student

import (
	"time"

	"github.com/google/uuid"

	"github.com/mwalimu/edusight/core"
)

// Genders
const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

// Parental involvement levels
const (
	InvolvementLow    = "low"
	InvolvementMedium = "medium"
	InvolvementHigh   = "high"
)

var (
	Genders           = []string{GenderFemale, GenderMale, GenderOther}
	InvolvementLevels = []string{InvolvementLow, InvolvementMedium, InvolvementHigh}
)

// Student is an immutable snapshot of one learner's record. Rates and scores
// are percentages in [0, 100].
type Student struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Age                  int       `json:"age" db:"age"`
	Gender               string    `json:"gender" db:"gender"`
	AttendanceRate       float64   `json:"attendance_rate" db:"attendance_rate"`
	PriorScore           float64   `json:"prior_score" db:"prior_score"`
	StudyHoursPerWeek    float64   `json:"study_hours_per_week" db:"study_hours_per_week"`
	ParentalInvolvement  string    `json:"parental_involvement" db:"parental_involvement"`
	ExtracurricularCount int       `json:"extracurricular_count" db:"extracurricular_count"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
// Numeric fields are pointers so that an absent field is distinguishable
// from a legitimate zero and can be rejected as missing.
type NewStudent struct {
	Name                 string   `json:"name" validate:"required,notblank"`
	Age                  *int     `json:"age" validate:"required,gte=5,lte=25"`
	Gender               string   `json:"gender" validate:"required,gender"`
	AttendanceRate       *float64 `json:"attendance_rate" validate:"required,gte=0,lte=100"`
	PriorScore           *float64 `json:"prior_score" validate:"required,gte=0,lte=100"`
	StudyHoursPerWeek    *float64 `json:"study_hours_per_week" validate:"required,gte=0,lte=100"`
	ParentalInvolvement  string   `json:"parental_involvement" validate:"required,involvement"`
	ExtracurricularCount *int     `json:"extracurricular_count" validate:"required,gte=0,lte=20"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Gender = core.CleanString(ns.Gender, true /* lower */)
	ns.ParentalInvolvement = core.CleanString(ns.ParentalInvolvement, true /* lower */)
	return core.Validate.Struct(ns)
}

func (ns *NewStudent) Student() Student {
	now := time.Now().UTC()
	return Student{
		ID:                   uuid.New(),
		Name:                 ns.Name,
		Age:                  *ns.Age,
		Gender:               ns.Gender,
		AttendanceRate:       *ns.AttendanceRate,
		PriorScore:           *ns.PriorScore,
		StudyHoursPerWeek:    *ns.StudyHoursPerWeek,
		ParentalInvolvement:  ns.ParentalInvolvement,
		ExtracurricularCount: *ns.ExtracurricularCount,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Absent fields keep their current value.
type UpdateStudent struct {
	Name                 string   `json:"name"`
	Age                  *int     `json:"age" validate:"omitempty,gte=5,lte=25"`
	Gender               string   `json:"gender" validate:"omitempty,gender"`
	AttendanceRate       *float64 `json:"attendance_rate" validate:"omitempty,gte=0,lte=100"`
	PriorScore           *float64 `json:"prior_score" validate:"omitempty,gte=0,lte=100"`
	StudyHoursPerWeek    *float64 `json:"study_hours_per_week" validate:"omitempty,gte=0,lte=100"`
	ParentalInvolvement  string   `json:"parental_involvement" validate:"omitempty,involvement"`
	ExtracurricularCount *int     `json:"extracurricular_count" validate:"omitempty,gte=0,lte=20"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Gender = core.CleanString(us.Gender, true /* lower */)
	us.ParentalInvolvement = core.CleanString(us.ParentalInvolvement, true /* lower */)
	return core.Validate.Struct(us)
}

// Apply merges the provided changes into orig and stamps UpdatedAt.
func (us *UpdateStudent) Apply(orig Student) Student {
	st := orig
	if us.Name != "" {
		st.Name = us.Name
	}
	if us.Age != nil {
		st.Age = *us.Age
	}
	if us.Gender != "" {
		st.Gender = us.Gender
	}
	if us.AttendanceRate != nil {
		st.AttendanceRate = *us.AttendanceRate
	}
	if us.PriorScore != nil {
		st.PriorScore = *us.PriorScore
	}
	if us.StudyHoursPerWeek != nil {
		st.StudyHoursPerWeek = *us.StudyHoursPerWeek
	}
	if us.ParentalInvolvement != "" {
		st.ParentalInvolvement = us.ParentalInvolvement
	}
	if us.ExtracurricularCount != nil {
		st.ExtracurricularCount = *us.ExtracurricularCount
	}
	st.UpdatedAt = time.Now().UTC()
	return st
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Gender      string    `query:"gender"`
	Involvement string    `query:"parental_involvement"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Gender == "" && qf.Involvement == "" &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Gender = core.CleanString(qf.Gender, true /* lower */)
	qf.Involvement = core.CleanString(qf.Involvement, true /* lower */)
}

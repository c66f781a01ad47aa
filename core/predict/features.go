package predict

import (
	"fmt"

	"github.com/mwalimu/edusight/core"
	"github.com/mwalimu/edusight/core/student"
)

// featureColumns is the model input contract: the encoder emits values in
// exactly this order and artifacts are rejected at load time unless they
// declare the same columns. Changing this order without retraining the model
// silently corrupts every prediction.
var featureColumns = []string{
	"age",
	"attendance_rate",
	"prior_score",
	"study_hours_per_week",
	"extracurricular_count",
	"parental_involvement",
	"gender_female",
	"gender_male",
	"gender_other",
}

// parental_involvement is ordinally encoded; gender is one-hot encoded.
var involvementOrdinals = map[string]float64{
	student.InvolvementLow:    0,
	student.InvolvementMedium: 1,
	student.InvolvementHigh:   2,
}

// FeatureVector is a fixed-order numeric encoding of a Student record.
type FeatureVector []float64

// indexes into featureColumns
const (
	involvementIndex = 5
	genderOffset     = 6
)

// FeatureColumns returns a copy of the encoding order contract.
func FeatureColumns() []string {
	cols := make([]string, len(featureColumns))
	copy(cols, featureColumns)
	return cols
}

// Encode maps a Student into the model's feature space. It is deterministic
// and side-effect free; out-of-range or unknown field values yield a
// core.ValidationError.
func Encode(st student.Student) (FeatureVector, error) {
	var flds []core.FieldError
	if st.Age < 5 || st.Age > 25 {
		flds = append(flds, core.FieldError{Field: "age", Error: "must be between 5 and 25"})
	}
	if st.AttendanceRate < 0 || st.AttendanceRate > 100 {
		flds = append(flds, core.FieldError{Field: "attendance_rate", Error: "must be between 0 and 100"})
	}
	if st.PriorScore < 0 || st.PriorScore > 100 {
		flds = append(flds, core.FieldError{Field: "prior_score", Error: "must be between 0 and 100"})
	}
	if st.StudyHoursPerWeek < 0 {
		flds = append(flds, core.FieldError{Field: "study_hours_per_week", Error: "cannot be negative"})
	}
	if st.ExtracurricularCount < 0 {
		flds = append(flds, core.FieldError{Field: "extracurricular_count", Error: "cannot be negative"})
	}
	involvement, ok := involvementOrdinals[st.ParentalInvolvement]
	if !ok {
		flds = append(flds, core.FieldError{Field: "parental_involvement", Error: "must be one of: low, medium, high"})
	}
	if !isKnownGender(st.Gender) {
		flds = append(flds, core.FieldError{Field: "gender", Error: "must be one of: female, male, other"})
	}
	if flds != nil {
		return nil, core.NewValidationError(fmt.Errorf("student %s cannot be encoded", st.ID), flds...)
	}

	fv := make(FeatureVector, 0, len(featureColumns))
	fv = append(fv,
		float64(st.Age),
		st.AttendanceRate,
		st.PriorScore,
		st.StudyHoursPerWeek,
		float64(st.ExtracurricularCount),
		involvement,
	)
	for _, g := range student.Genders {
		if st.Gender == g {
			fv = append(fv, 1)
		} else {
			fv = append(fv, 0)
		}
	}
	return fv, nil
}

// DecodeCategoricals inverts the categorical part of the encoding, returning
// the gender and parental involvement values a vector was produced from.
func DecodeCategoricals(fv FeatureVector) (gender, involvement string, err error) {
	if len(fv) != len(featureColumns) {
		return "", "", fmt.Errorf("feature vector has %d values, want %d", len(fv), len(featureColumns))
	}
	for i, g := range student.Genders {
		if fv[genderOffset+i] == 1 {
			gender = g
			break
		}
	}
	if gender == "" {
		return "", "", fmt.Errorf("no gender indicator set")
	}
	for lvl, ord := range involvementOrdinals {
		if fv[involvementIndex] == ord {
			involvement = lvl
			break
		}
	}
	if involvement == "" {
		return "", "", fmt.Errorf("unknown parental involvement ordinal %v", fv[involvementIndex])
	}
	return gender, involvement, nil
}

func isKnownGender(g string) bool {
	for _, known := range student.Genders {
		if g == known {
			return true
		}
	}
	return false
}

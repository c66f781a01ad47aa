package predict

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mwalimu/edusight/core"
	"github.com/mwalimu/edusight/core/student"
)

func validStudent() student.Student {
	return student.Student{
		ID:                   uuid.New(),
		Name:                 "Amina Yusuf",
		Age:                  16,
		Gender:               student.GenderFemale,
		AttendanceRate:       88,
		PriorScore:           74,
		StudyHoursPerWeek:    9,
		ParentalInvolvement:  student.InvolvementMedium,
		ExtracurricularCount: 2,
	}
}

func Test_Encode(t *testing.T) {
	st := validStudent()

	fv, err := Encode(st)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(fv) != len(FeatureColumns()) {
		t.Errorf("len = %d; want %d", len(fv), len(FeatureColumns()))
	}

	want := FeatureVector{16, 88, 74, 9, 2, 1, 1, 0, 0}
	if !reflect.DeepEqual(fv, want) {
		t.Errorf("vector = %v; want %v", fv, want)
	}

	// deterministic: same record, same vector
	fv2, err := Encode(st)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if !reflect.DeepEqual(fv, fv2) {
		t.Errorf("encoding is not deterministic: %v != %v", fv, fv2)
	}
}

func Test_Encode_genderOneHot(t *testing.T) {
	wantHot := map[string]int{
		student.GenderFemale: genderOffset,
		student.GenderMale:   genderOffset + 1,
		student.GenderOther:  genderOffset + 2,
	}
	for gender, hot := range wantHot {
		st := validStudent()
		st.Gender = gender

		fv, err := Encode(st)
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", gender, err)
		}
		for i := genderOffset; i < genderOffset+3; i++ {
			want := 0.0
			if i == hot {
				want = 1.0
			}
			if fv[i] != want {
				t.Errorf("%s: fv[%d] = %v; want %v", gender, i, fv[i], want)
			}
		}
	}
}

func Test_Encode_invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*student.Student)
		wantField string
	}{
		{"age too low", func(st *student.Student) { st.Age = 3 }, "age"},
		{"age too high", func(st *student.Student) { st.Age = 40 }, "age"},
		{"attendance negative", func(st *student.Student) { st.AttendanceRate = -1 }, "attendance_rate"},
		{"attendance above 100", func(st *student.Student) { st.AttendanceRate = 101 }, "attendance_rate"},
		{"prior score above 100", func(st *student.Student) { st.PriorScore = 120 }, "prior_score"},
		{"study hours negative", func(st *student.Student) { st.StudyHoursPerWeek = -2 }, "study_hours_per_week"},
		{"extracurricular negative", func(st *student.Student) { st.ExtracurricularCount = -1 }, "extracurricular_count"},
		{"unknown involvement", func(st *student.Student) { st.ParentalInvolvement = "extreme" }, "parental_involvement"},
		{"unknown gender", func(st *student.Student) { st.Gender = "unknown" }, "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := validStudent()
			tt.mutate(&st)

			_, err := Encode(st)
			vErr, ok := err.(*core.ValidationError)
			if !ok {
				t.Fatalf("err = %v; want *core.ValidationError", err)
			}
			var fields []string
			for _, f := range vErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func Test_DecodeCategoricals_roundTrip(t *testing.T) {
	for _, gender := range student.Genders {
		for _, involvement := range student.InvolvementLevels {
			st := validStudent()
			st.Gender = gender
			st.ParentalInvolvement = involvement

			fv, err := Encode(st)
			if err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}
			gotGender, gotInvolvement, err := DecodeCategoricals(fv)
			if err != nil {
				t.Fatalf("DecodeCategoricals() failed: %v", err)
			}
			if gotGender != gender || gotInvolvement != involvement {
				t.Errorf("round trip = (%s, %s); want (%s, %s)", gotGender, gotInvolvement, gender, involvement)
			}
		}
	}
}

func Test_DecodeCategoricals_badVector(t *testing.T) {
	if _, _, err := DecodeCategoricals(FeatureVector{1, 2, 3}); err == nil {
		t.Error("expected an error for a short vector")
	}
}

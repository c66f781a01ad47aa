package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mwalimu/edusight/core/student"
)

func Test_studentApi_create(t *testing.T) {
	app, _ := initApp(t)

	body := marshallObj(t, map[string]interface{}{
		"name":                  "Amina Yusuf",
		"age":                   16,
		"gender":                "female",
		"attendance_rate":       88,
		"prior_score":           74,
		"study_hours_per_week":  9,
		"parental_involvement":  "medium",
		"extracurricular_count": 2,
	})
	req, rec := newRequest(http.MethodPost, "/v1/students", body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want 201; body = %s", rec.Code, rec.Body.String())
	}
	var st student.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.ID == uuid.Nil {
		t.Error("student ID was not assigned")
	}
	if st.Name != "Amina Yusuf" || st.AttendanceRate != 88 {
		t.Errorf("unexpected student: %+v", st)
	}
	if st.CreatedAt.IsZero() {
		t.Error("CreatedAt was not stamped")
	}
}

func Test_studentApi_create_invalid(t *testing.T) {
	app, _ := initApp(t)

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantField string
	}{
		{
			"missing fields",
			map[string]interface{}{"name": "Amina Yusuf"},
			"age",
		},
		{
			"age out of range",
			map[string]interface{}{
				"name": "Amina Yusuf", "age": 40, "gender": "female",
				"attendance_rate": 88, "prior_score": 74, "study_hours_per_week": 9,
				"parental_involvement": "medium", "extracurricular_count": 2,
			},
			"age",
		},
		{
			"unknown gender",
			map[string]interface{}{
				"name": "Amina Yusuf", "age": 16, "gender": "robot",
				"attendance_rate": 88, "prior_score": 74, "study_hours_per_week": 9,
				"parental_involvement": "medium", "extracurricular_count": 2,
			},
			"gender",
		},
		{
			"attendance above 100",
			map[string]interface{}{
				"name": "Amina Yusuf", "age": 16, "gender": "female",
				"attendance_rate": 150, "prior_score": 74, "study_hours_per_week": 9,
				"parental_involvement": "medium", "extracurricular_count": 2,
			},
			"attendance_rate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/students", marshallObj(t, tt.body))
			app.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("code = %v; want 400; body = %s", rec.Code, rec.Body.String())
			}
			var fldErrs map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &fldErrs); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if _, ok := fldErrs[tt.wantField]; !ok {
				t.Errorf("field errors = %v; want an error on %q", fldErrs, tt.wantField)
			}
		})
	}
}

func Test_studentApi_query(t *testing.T) {
	app, repo := initApp(t)

	// whole seconds so RFC3339 query params compare exactly
	now := time.Now().UTC().Truncate(time.Second)
	amina := seedStudent(t, repo, "Amina Yusuf", func(st *student.Student) {
		st.CreatedAt = now
	})
	baraka := seedStudent(t, repo, "Baraka Otieno", func(st *student.Student) {
		st.Gender = student.GenderMale
		st.ParentalInvolvement = student.InvolvementLow
		st.CreatedAt = now.Add(time.Second)
	})
	chiku := seedStudent(t, repo, "Chiku Amani", func(st *student.Student) {
		st.ParentalInvolvement = student.InvolvementHigh
		st.CreatedAt = now.Add(2 * time.Second)
	})

	path := func(params url.Values) string { return "/v1/students?" + params.Encode() }

	tests := []httpTest{
		{
			name: "get all", path: "/v1/students",
			wantCode: http.StatusOK, wantData: marshallList(t, amina, baraka, chiku),
		},
		{
			name: "search matches substring, case-insensitively", path: path(url.Values{"search": {"aMA"}}),
			wantCode: http.StatusOK, wantData: marshallList(t, chiku),
		},
		{
			name: "search (unknown)", path: path(url.Values{"search": {"zork"}}),
			wantCode: http.StatusOK, wantData: []byte("null"),
		},
		{
			name: "filter by gender", path: path(url.Values{"gender": {"male"}}),
			wantCode: http.StatusOK, wantData: marshallList(t, baraka),
		},
		{
			name: "filter by involvement", path: path(url.Values{"parental_involvement": {"high"}}),
			wantCode: http.StatusOK, wantData: marshallList(t, chiku),
		},
		{
			name: "filters are ANDed", path: path(url.Values{"gender": {"female"}, "parental_involvement": {"low"}}),
			wantCode: http.StatusOK, wantData: []byte("null"),
		},
		{
			name: "created_from", path: path(url.Values{"created_from": {now.Add(time.Second).Format(time.RFC3339)}}),
			wantCode: http.StatusOK, wantData: marshallList(t, baraka, chiku),
		},
		{
			name: "created_from - created_to", path: path(url.Values{
				"created_from": {now.Format(time.RFC3339)},
				"created_to":   {now.Add(time.Second).Format(time.RFC3339)},
			}),
			wantCode: http.StatusOK, wantData: marshallList(t, amina, baraka),
		},
		{
			name: "invalid created_from", path: path(url.Values{"created_from": {"yesterday"}}),
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "invalid created_from"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_retrieve(t *testing.T) {
	app, repo := initApp(t)
	amina := seedStudent(t, repo, "Amina Yusuf")

	tests := []httpTest{
		{
			name: "found", path: "/v1/students/" + amina.ID.String(),
			wantCode: http.StatusOK, wantData: marshallObj(t, amina),
		},
		{
			name: "unknown id", path: "/v1/students/" + uuid.NewString(),
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "malformed id", path: "/v1/students/not-a-uuid",
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	app, repo := initApp(t)
	amina := seedStudent(t, repo, "Amina Yusuf")

	body := marshallObj(t, map[string]interface{}{
		"attendance_rate":      64,
		"parental_involvement": "high",
	})
	req, rec := newRequest(http.MethodPut, "/v1/students/"+amina.ID.String(), body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want 200; body = %s", rec.Code, rec.Body.String())
	}
	var got student.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.AttendanceRate != 64 || got.ParentalInvolvement != student.InvolvementHigh {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Name != amina.Name || got.Age != amina.Age {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func Test_studentApi_update_invalid(t *testing.T) {
	app, repo := initApp(t)
	amina := seedStudent(t, repo, "Amina Yusuf")

	body := marshallObj(t, map[string]interface{}{"prior_score": 200})
	req, rec := newRequest(http.MethodPut, "/v1/students/"+amina.ID.String(), body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v; want 400; body = %s", rec.Code, rec.Body.String())
	}
}

func Test_studentApi_destroy(t *testing.T) {
	app, repo := initApp(t)
	amina := seedStudent(t, repo, "Amina Yusuf")

	req, rec := newRequest(http.MethodDelete, "/v1/students/"+amina.ID.String())
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %v; want 204; body = %s", rec.Code, rec.Body.String())
	}

	req, rec = newRequest(http.MethodGet, "/v1/students/"+amina.ID.String())
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %v; want 404 after delete", rec.Code)
	}
}

func Test_studentApi_destroyMultiple(t *testing.T) {
	app, repo := initApp(t)

	now := time.Now().UTC()
	amina := seedStudent(t, repo, "Amina Yusuf", func(st *student.Student) { st.CreatedAt = now })
	baraka := seedStudent(t, repo, "Baraka Otieno", func(st *student.Student) { st.CreatedAt = now.Add(time.Second) })
	chiku := seedStudent(t, repo, "Chiku Amani", func(st *student.Student) { st.CreatedAt = now.Add(2 * time.Second) })

	path := fmt.Sprintf("/v1/students?id=%s&id=%s", amina.ID, chiku.ID)
	req, rec := newRequest(http.MethodDelete, path)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %v; want 204; body = %s", rec.Code, rec.Body.String())
	}

	req, rec = newRequest(http.MethodGet, "/v1/students")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallList(t, baraka)}, rec)
}

func Test_studentApi_destroyMultiple_badID(t *testing.T) {
	app, _ := initApp(t)

	req, rec := newRequest(http.MethodDelete, "/v1/students?id=not-a-uuid")
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v; want 400; body = %s", rec.Code, rec.Body.String())
	}
}

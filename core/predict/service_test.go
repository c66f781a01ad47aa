package predict

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mwalimu/edusight/core"
	"github.com/mwalimu/edusight/core/student"
)

type testLogger struct{}

var _ core.Logger = (*testLogger)(nil)

func (testLogger) Enable(bool)                        {}
func (testLogger) Debug(string, ...interface{})       {}
func (testLogger) Info(string, ...interface{})        {}
func (testLogger) Warn(string, ...interface{})        {}
func (testLogger) Error(string, ...interface{})       {}
func (testLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

// memCache is an in-memory predict.Cache for tests.
type memCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.sets++
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	clf, err := NewClassifier(testArtifact())
	if err != nil {
		t.Fatalf("NewClassifier() failed: %v", err)
	}
	return NewService(clf, testLogger{})
}

func Test_Service_Assess(t *testing.T) {
	svc := newTestService(t)

	st := validStudent()
	st.AttendanceRate = 60
	st.StudyHoursPerWeek = 3
	st.PriorScore = 50

	a, err := svc.Assess(context.Background(), st)
	if err != nil {
		t.Fatalf("Assess() failed: %v", err)
	}
	if a.Prediction.StudentID != st.ID {
		t.Errorf("prediction StudentID = %s; want %s", a.Prediction.StudentID, st.ID)
	}
	if a.Prediction.Label != LabelHigh {
		t.Errorf("label = %s; want High", a.Prediction.Label)
	}
	if len(a.Recommendations) != 2 {
		t.Fatalf("got %d recommendations; want 2", len(a.Recommendations))
	}
	if a.Recommendations[0].Text != "attendance intervention" {
		t.Errorf("recs[0] = %s; want attendance intervention", a.Recommendations[0].Text)
	}
}

func Test_Service_Assess_invalidRecord(t *testing.T) {
	svc := newTestService(t)

	st := validStudent()
	st.AttendanceRate = 250

	if _, err := svc.Assess(context.Background(), st); err == nil {
		t.Error("expected a validation error")
	}
}

func Test_Service_AssessAll_abortsOnFirstError(t *testing.T) {
	svc := newTestService(t)

	good := validStudent()
	bad := validStudent()
	bad.ParentalInvolvement = "unknown"

	assessments, err := svc.AssessAll(context.Background(), []student.Student{good, bad, good})
	if err == nil {
		t.Fatal("expected an error")
	}
	if assessments != nil {
		t.Errorf("assessments = %+v; want nil on failure", assessments)
	}
}

func Test_Service_Dashboard(t *testing.T) {
	svc := newTestService(t)

	s1 := validStudent()
	s1.AttendanceRate = 95
	s1.PriorScore = 92
	s2 := validStudent()
	s2.AttendanceRate = 60
	s2.PriorScore = 50

	sum, err := svc.Dashboard(context.Background(), []student.Student{s1, s2})
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if sum.TotalStudents != 2 {
		t.Errorf("TotalStudents = %d; want 2", sum.TotalStudents)
	}
	if sum.RiskCounts[LabelLow] != 1 || sum.RiskCounts[LabelHigh] != 1 {
		t.Errorf("RiskCounts = %v; want one Low and one High", sum.RiskCounts)
	}
}

func Test_Service_Dashboard_cached(t *testing.T) {
	cache := newMemCache()
	svc := newTestService(t).WithCache(cache, time.Minute)

	st := validStudent()
	students := []student.Student{st}

	first, err := svc.Dashboard(context.Background(), students)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d; want 1", cache.sets)
	}

	// second call must be served from cache, even with different input
	second, err := svc.Dashboard(context.Background(), nil)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if second.TotalStudents != first.TotalStudents {
		t.Errorf("cached TotalStudents = %d; want %d", second.TotalStudents, first.TotalStudents)
	}

	// invalidation forces recomputation
	svc.InvalidateDashboard(context.Background())
	third, err := svc.Dashboard(context.Background(), nil)
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if third.TotalStudents != 0 {
		t.Errorf("TotalStudents after invalidation = %d; want 0", third.TotalStudents)
	}
}

func Test_Service_Dashboard_tallyBypassesCache(t *testing.T) {
	cache := newMemCache()
	svc := newTestService(t).WithCache(cache, time.Minute)

	_, err := svc.Dashboard(context.Background(), nil, AttendanceTally{PresentDays: 10, AbsentDays: 2})
	if err != nil {
		t.Fatalf("Dashboard() failed: %v", err)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Errorf("cache touched (%d gets, %d sets); tallied dashboards must not be cached", cache.gets, cache.sets)
	}
}

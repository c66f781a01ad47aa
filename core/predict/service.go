package predict

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mwalimu/edusight/core"
	"github.com/mwalimu/edusight/core/student"
)

var (
	assessmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edusight_assessments_total",
		Help: "Total number of student assessments computed.",
	})
	assessmentsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edusight_assessments_failed_total",
		Help: "Total number of assessment failures.",
	})
	inferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "edusight_inference_duration_seconds",
		Help:    "Duration of a single assessment (encode + predict + derive).",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})
)

const dashboardCacheKey = "edusight:dashboard:summary"

type (
	// Assessment bundles the prediction and derived recommendations for one record.
	Assessment struct {
		Prediction      Prediction       `json:"prediction"`
		Recommendations []Recommendation `json:"recommendations"`
	}

	// Cache is any store that can hold computed summaries for a while.
	// The Redis implementation lives in storage/cache.
	Cache interface {
		Get(ctx context.Context, key string, dest interface{}) (bool, error)
		Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
		Delete(ctx context.Context, key string) error
	}

	Service struct {
		clf      *Classifier
		cache    Cache // optional
		cacheTTL time.Duration
		log      core.Logger
	}
)

func NewService(clf *Classifier, log core.Logger) *Service {
	return &Service{clf: clf, log: log}
}

// WithCache enables dashboard summary caching.
func (svc *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	svc.cache = cache
	svc.cacheTTL = ttl
	return svc
}

// ModelVersion exposes the loaded artifact's version for health reporting.
func (svc *Service) ModelVersion() string { return svc.clf.Version() }

// ModelAlgorithm exposes the loaded artifact's algorithm for health reporting.
func (svc *Service) ModelAlgorithm() string { return svc.clf.Algorithm() }

// Assess runs the full pipeline for one record: encode, predict, derive.
// It either fully succeeds or fails at the first error; no default
// prediction is ever substituted.
func (svc *Service) Assess(ctx context.Context, st student.Student) (Assessment, error) {
	start := time.Now()
	defer func() { inferenceDuration.Observe(time.Since(start).Seconds()) }()

	pred, err := svc.predict(st)
	if err != nil {
		assessmentsFailed.Inc()
		return Assessment{}, err
	}

	assessmentsTotal.Inc()
	return Assessment{
		Prediction:      pred,
		Recommendations: Derive(pred, st),
	}, nil
}

// AssessAll assesses a batch of records, aborting on the first failure.
func (svc *Service) AssessAll(ctx context.Context, students []student.Student) ([]Assessment, error) {
	assessments := make([]Assessment, 0, len(students))
	for _, st := range students {
		a, err := svc.Assess(ctx, st)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, nil
}

// Dashboard predicts over the given records and aggregates the results into
// a summary, served from cache when one is configured and warm.
func (svc *Service) Dashboard(ctx context.Context, students []student.Student, tally ...AttendanceTally) (Summary, error) {
	if svc.cache != nil && len(tally) == 0 {
		var cached Summary
		hit, err := svc.cache.Get(ctx, dashboardCacheKey, &cached)
		if err != nil {
			svc.log.Warn("dashboard cache get failed", err)
		} else if hit {
			return cached, nil
		}
	}

	preds := make([]Prediction, 0, len(students))
	for _, st := range students {
		pred, err := svc.predict(st)
		if err != nil {
			assessmentsFailed.Inc()
			return Summary{}, err
		}
		preds = append(preds, pred)
	}

	sum := Aggregate(students, preds, tally...)
	if svc.cache != nil && len(tally) == 0 {
		if err := svc.cache.Set(ctx, dashboardCacheKey, sum, svc.cacheTTL); err != nil {
			svc.log.Warn("dashboard cache set failed", err)
		}
	}
	return sum, nil
}

// InvalidateDashboard drops the cached summary; called after student writes.
func (svc *Service) InvalidateDashboard(ctx context.Context) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Delete(ctx, dashboardCacheKey); err != nil {
		svc.log.Warn("dashboard cache invalidation failed", err)
	}
}

func (svc *Service) predict(st student.Student) (Prediction, error) {
	fv, err := Encode(st)
	if err != nil {
		return Prediction{}, err
	}
	pred, err := svc.clf.Predict(fv)
	if err != nil {
		return Prediction{}, err
	}
	pred.StudentID = st.ID
	return pred, nil
}

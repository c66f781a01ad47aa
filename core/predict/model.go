package predict

import (
	"encoding/json"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Risk labels
const (
	LabelLow    = "Low"
	LabelMedium = "Medium"
	LabelHigh   = "High"
)

var Labels = []string{LabelLow, LabelMedium, LabelHigh}

var (
	ErrModelUnavailable = errors.New("model artifact unavailable")
	ErrSchemaMismatch   = errors.New("feature schema does not match model")
)

const algMultinomialLogistic = "multinomial-logistic"

type (
	// Artifact is the on-disk serialization of a trained classifier:
	// per-class coefficient rows over the declared feature columns, plus an
	// optional standard scaler fitted at training time.
	Artifact struct {
		Version        string      `json:"version"`
		Algorithm      string      `json:"algorithm"`
		FeatureColumns []string    `json:"feature_columns"`
		Classes        []string    `json:"classes"`
		Scaler         *Scaler     `json:"scaler,omitempty"`
		Coefficients   [][]float64 `json:"coefficients"`
		Intercepts     []float64   `json:"intercepts"`
	}

	Scaler struct {
		Mean []float64 `json:"mean"`
		Std  []float64 `json:"std"`
	}

	// Prediction is the classifier output for one record. Confidence is the
	// softmax probability of the arg-max class.
	Prediction struct {
		StudentID  uuid.UUID `json:"student_id"`
		Label      string    `json:"label"`
		Confidence float64   `json:"confidence"`
	}

	// Classifier wraps a loaded artifact behind a stable inference contract.
	// It is read-only after construction and safe for concurrent use.
	Classifier struct {
		version   string
		algorithm string
		classes   []string
		weights   *mat.Dense // classes x features
		bias      *mat.VecDense
		scaler    *Scaler
		inputDim  int
	}
)

// LoadClassifier reads and validates a model artifact. The file handle is
// only held for the duration of the call.
func LoadClassifier(path string) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrModelUnavailable, "opening %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	var a Artifact
	if err := json.NewDecoder(f).Decode(&a); err != nil {
		return nil, errors.Wrapf(ErrModelUnavailable, "decoding %s: %v", path, err)
	}
	return NewClassifier(a)
}

// NewClassifier validates an artifact against the feature encoding contract
// and builds the inference matrices. A mismatched column order is refused
// here, never silently served.
func NewClassifier(a Artifact) (*Classifier, error) {
	if a.Algorithm != algMultinomialLogistic {
		return nil, errors.Wrapf(ErrModelUnavailable, "unsupported algorithm %q", a.Algorithm)
	}
	if len(a.Classes) == 0 {
		return nil, errors.Wrap(ErrModelUnavailable, "artifact declares no classes")
	}
	for _, c := range a.Classes {
		if !isKnownLabel(c) {
			return nil, errors.Wrapf(ErrModelUnavailable, "unknown class %q", c)
		}
	}

	want := FeatureColumns()
	if len(a.FeatureColumns) != len(want) {
		return nil, errors.Wrapf(ErrSchemaMismatch,
			"artifact declares %d feature columns, encoder emits %d", len(a.FeatureColumns), len(want))
	}
	for i, col := range a.FeatureColumns {
		if col != want[i] {
			return nil, errors.Wrapf(ErrSchemaMismatch,
				"feature column %d is %q, encoder emits %q", i, col, want[i])
		}
	}

	if len(a.Coefficients) != len(a.Classes) || len(a.Intercepts) != len(a.Classes) {
		return nil, errors.Wrap(ErrModelUnavailable, "coefficient/intercept rows do not match classes")
	}
	flat := make([]float64, 0, len(a.Classes)*len(want))
	for _, row := range a.Coefficients {
		if len(row) != len(want) {
			return nil, errors.Wrapf(ErrSchemaMismatch,
				"coefficient row has %d values, want %d", len(row), len(want))
		}
		flat = append(flat, row...)
	}
	if a.Scaler != nil {
		if len(a.Scaler.Mean) != len(want) || len(a.Scaler.Std) != len(want) {
			return nil, errors.Wrap(ErrSchemaMismatch, "scaler dimensions do not match feature columns")
		}
		for i, sd := range a.Scaler.Std {
			if sd <= 0 {
				return nil, errors.Wrapf(ErrModelUnavailable, "scaler std[%d] is not positive", i)
			}
		}
	}

	classes := make([]string, len(a.Classes))
	copy(classes, a.Classes)
	return &Classifier{
		version:   a.Version,
		algorithm: a.Algorithm,
		classes:   classes,
		weights:   mat.NewDense(len(classes), len(want), flat),
		bias:      mat.NewVecDense(len(classes), append([]float64(nil), a.Intercepts...)),
		scaler:    a.Scaler,
		inputDim:  len(want),
	}, nil
}

func (c *Classifier) Version() string   { return c.version }
func (c *Classifier) Algorithm() string { return c.algorithm }
func (c *Classifier) InputDim() int     { return c.inputDim }

// Predict runs one inference call: standardize (if the artifact carries a
// scaler), compute class logits and softmax them. The label is the arg-max
// class; ties resolve to the earliest declared class.
func (c *Classifier) Predict(fv FeatureVector) (Prediction, error) {
	if len(fv) != c.inputDim {
		return Prediction{}, errors.Wrapf(ErrSchemaMismatch,
			"feature vector has %d values, model expects %d", len(fv), c.inputDim)
	}

	x := mat.NewVecDense(c.inputDim, append([]float64(nil), fv...))
	if c.scaler != nil {
		for i := 0; i < c.inputDim; i++ {
			x.SetVec(i, (x.AtVec(i)-c.scaler.Mean[i])/c.scaler.Std[i])
		}
	}

	logits := mat.NewVecDense(len(c.classes), nil)
	logits.MulVec(c.weights, x)
	logits.AddVec(logits, c.bias)

	probs := softmax(logits.RawVector().Data)
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return Prediction{Label: c.classes[best], Confidence: probs[best]}, nil
}

// softmax with max-subtraction for numerical stability.
func softmax(logits []float64) []float64 {
	max := logits[0]
	for _, z := range logits[1:] {
		if z > max {
			max = z
		}
	}
	var sum float64
	out := make([]float64, len(logits))
	for i, z := range logits {
		out[i] = math.Exp(z - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func isKnownLabel(l string) bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

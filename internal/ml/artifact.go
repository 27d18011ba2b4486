package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// CategoryEncoder is a fitted category-to-integer mapping for one feature.
// Codes are the index of the label in the fitted class list.
type CategoryEncoder struct {
	classes []string
	index   map[string]int
}

// NewCategoryEncoder builds an encoder from an ordered class list.
func NewCategoryEncoder(classes []string) *CategoryEncoder {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return &CategoryEncoder{classes: classes, index: idx}
}

// Transform maps a label to its integer code. The second return value is
// false for labels not seen at training time.
func (e *CategoryEncoder) Transform(label string) (int, bool) {
	code, ok := e.index[label]
	return code, ok
}

// Classes returns the fitted class list in code order.
func (e *CategoryEncoder) Classes() []string {
	return e.classes
}

// EncoderTable maps feature names to their fitted categorical encoders.
// Loaded once at startup and shared read-only across requests.
type EncoderTable map[string]*CategoryEncoder

// LoadEncoderTable reads the per-feature category lists from a JSON artifact.
func LoadEncoderTable(path string) (EncoderTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoders artifact: %w", err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode encoders artifact: %w", err)
	}

	table := make(EncoderTable, len(raw))
	for feature, classes := range raw {
		table[feature] = NewCategoryEncoder(classes)
	}
	return table, nil
}

// LogisticModel is a pre-trained binary logistic-regression classifier.
type LogisticModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Classes      []int     `json:"classes"`
	FeatureOrder []string  `json:"feature_order"`
}

// LoadLogisticModel reads model weights from a JSON artifact and validates
// them against the expected feature order.
func LoadLogisticModel(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	if len(m.Coefficients) != len(FeatureOrder) {
		return nil, fmt.Errorf("model artifact has %d coefficients, expected %d", len(m.Coefficients), len(FeatureOrder))
	}
	for i, feature := range m.FeatureOrder {
		if feature != FeatureOrder[i] {
			return nil, fmt.Errorf("model artifact feature order mismatch at %d: %s != %s", i, feature, FeatureOrder[i])
		}
	}

	return &m, nil
}

// PredictProba returns per-class probabilities for a feature vector. For the
// usual binary model the result is [P(negative), P(positive)]; a model fitted
// on a single class returns a single-element vector.
func (m *LogisticModel) PredictProba(vec FeatureVector) ([]float64, error) {
	if len(vec) != len(m.Coefficients) {
		return nil, fmt.Errorf("feature vector has %d elements, model expects %d", len(vec), len(m.Coefficients))
	}

	if len(m.Classes) == 1 {
		return []float64{1.0}, nil
	}

	z := m.Intercept
	for i, w := range m.Coefficients {
		z += w * vec[i]
	}
	p := sigmoid(z)
	return []float64{1 - p, p}, nil
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

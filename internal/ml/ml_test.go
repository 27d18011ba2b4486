package ml

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func testEncoders() EncoderTable {
	table := make(EncoderTable)
	for _, feature := range FeatureOrder {
		if feature == "Energy" {
			continue
		}
		table[feature] = NewCategoryEncoder([]string{"No", "Sometimes", "Yes"})
	}
	return table
}

func fullRecord() QuestionnaireRecord {
	return QuestionnaireRecord{
		Mood:                 strPtr("Yes"),
		SleepHour:            strPtr("No"),
		Appetite:             strPtr("Sometimes"),
		Exercise:             strPtr("No"),
		ScreenTime:           strPtr("Yes"),
		AcademicWork:         strPtr("No"),
		Socialize:            strPtr("Sometimes"),
		EnergyLevel:          intPtr(7),
		TroubleConcentrating: strPtr("Yes"),
		NegativeThoughts:     strPtr("Yes"),
		DecisionMaking:       strPtr("No"),
		BotheredThings:       strPtr("Sometimes"),
		StressfulEvents:      strPtr("Yes"),
		SleepyTired:          strPtr("No"),
		FutureHope:           strPtr("Yes"),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  RiskLevel
	}{
		{"zero", 0.0, RiskLow},
		{"below medium boundary", 0.39, RiskLow},
		{"medium boundary is inclusive", 0.4, RiskMedium},
		{"mid range", 0.55, RiskMedium},
		{"below high boundary", 0.69, RiskMedium},
		{"high boundary is inclusive", 0.7, RiskHigh},
		{"one", 1.0, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.score))
		})
	}
}

func TestEncodeFullRecord(t *testing.T) {
	vec, warnings := Encode(fullRecord(), testEncoders())

	require.Len(t, vec, len(FeatureOrder))
	assert.Empty(t, warnings)

	// Mood is the first feature and "Yes" codes to 2
	assert.Equal(t, 2.0, vec[0])
	// Energy is the eighth feature and passes through numerically
	assert.Equal(t, 7.0, vec[7])
}

func TestEncodeMissingAnswersDefaultToZero(t *testing.T) {
	vec, warnings := Encode(QuestionnaireRecord{}, testEncoders())

	require.Len(t, vec, len(FeatureOrder))
	for i, v := range vec {
		assert.Zerof(t, v, "feature %s should default to 0", FeatureOrder[i])
	}
	// One warning per missing categorical answer; missing Energy is silent
	assert.Len(t, warnings, len(FeatureOrder)-1)
}

func TestEncodeUnseenCategoryDegrades(t *testing.T) {
	rec := fullRecord()
	rec.Mood = strPtr("Euphoric")

	vec, warnings := Encode(rec, testEncoders())

	require.Len(t, vec, len(FeatureOrder))
	assert.Zero(t, vec[0])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Euphoric")
}

func TestEncodeMissingEncoderDegrades(t *testing.T) {
	encoders := testEncoders()
	delete(encoders, "Mood")

	vec, warnings := Encode(fullRecord(), encoders)

	require.Len(t, vec, len(FeatureOrder))
	assert.Zero(t, vec[0])
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no encoder")
}

func TestCategoryEncoderTransform(t *testing.T) {
	enc := NewCategoryEncoder([]string{"Low", "Medium", "High"})

	code, ok := enc.Transform("Medium")
	assert.True(t, ok)
	assert.Equal(t, 1, code)

	_, ok = enc.Transform("Extreme")
	assert.False(t, ok)
}

func writeArtifacts(t *testing.T, intercept float64) (string, string) {
	t.Helper()
	dir := t.TempDir()

	coeffs := make([]float64, len(FeatureOrder))
	model := map[string]any{
		"intercept":     intercept,
		"coefficients":  coeffs,
		"classes":       []int{0, 1},
		"feature_order": FeatureOrder,
	}
	modelPath := filepath.Join(dir, "model.json")
	data, err := json.Marshal(model)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(modelPath, data, 0o644))

	classes := make(map[string][]string)
	for _, feature := range FeatureOrder {
		if feature == "Energy" {
			continue
		}
		classes[feature] = []string{"No", "Sometimes", "Yes"}
	}
	encodersPath := filepath.Join(dir, "encoders.json")
	data, err = json.Marshal(classes)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(encodersPath, data, 0o644))

	return modelPath, encodersPath
}

func TestLoadLogisticModelRejectsBadArtifacts(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLogisticModel(filepath.Join(dir, "absent.json"))
		assert.Error(t, err)
	})

	t.Run("wrong coefficient count", func(t *testing.T) {
		path := filepath.Join(dir, "short.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"intercept":0,"coefficients":[1,2],"classes":[0,1],"feature_order":["Mood","SleepHour"]}`), 0o644))
		_, err := LoadLogisticModel(path)
		assert.ErrorContains(t, err, "coefficients")
	})

	t.Run("feature order mismatch", func(t *testing.T) {
		coeffs, _ := json.Marshal(make([]float64, len(FeatureOrder)))
		order := make([]string, len(FeatureOrder))
		copy(order, FeatureOrder)
		order[0], order[1] = order[1], order[0]
		orderJSON, _ := json.Marshal(order)

		path := filepath.Join(dir, "reordered.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"intercept":0,"coefficients":`+string(coeffs)+`,"classes":[0,1],"feature_order":`+string(orderJSON)+`}`), 0o644))
		_, err := LoadLogisticModel(path)
		assert.ErrorContains(t, err, "feature order mismatch")
	})
}

func TestPredictProba(t *testing.T) {
	coeffs := make([]float64, len(FeatureOrder))
	coeffs[0] = 1.0
	m := &LogisticModel{Intercept: -0.5, Coefficients: coeffs, Classes: []int{0, 1}, FeatureOrder: FeatureOrder}

	vec := make(FeatureVector, len(FeatureOrder))
	vec[0] = 2.0

	probs, err := m.PredictProba(vec)
	require.NoError(t, err)
	require.Len(t, probs, 2)

	want := 1 / (1 + math.Exp(-1.5))
	assert.InDelta(t, want, probs[1], 1e-12)
	assert.InDelta(t, 1-want, probs[0], 1e-12)

	_, err = m.PredictProba(FeatureVector{1.0})
	assert.Error(t, err)
}

func TestPredictProbaSingleClassModel(t *testing.T) {
	m := &LogisticModel{
		Coefficients: make([]float64, len(FeatureOrder)),
		Classes:      []int{0},
		FeatureOrder: FeatureOrder,
	}

	probs, err := m.PredictProba(make(FeatureVector, len(FeatureOrder)))
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0}, probs)
}

func TestScoreRecordPipeline(t *testing.T) {
	// Zero weights with intercept 2 push every record to sigmoid(2) ~ 0.88
	modelPath, encodersPath := writeArtifacts(t, 2.0)
	scorer := NewScorer(NewModelService(modelPath, encodersPath))

	got, err := scorer.ScoreRecord(fullRecord())
	require.NoError(t, err)

	want := 1 / (1 + math.Exp(-2.0))
	assert.InDelta(t, want, got.Score, 1e-12)
	assert.Equal(t, RiskHigh, got.Level)
	assert.InDelta(t, want, got.Confidence, 1e-12)

	// Same record scores identically on repeat
	again, err := scorer.ScoreRecord(fullRecord())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestScoreRecordConfidenceIsMajorityProbability(t *testing.T) {
	// Intercept -1 keeps the score below 0.5; confidence flips to 1-score
	modelPath, encodersPath := writeArtifacts(t, -1.0)
	scorer := NewScorer(NewModelService(modelPath, encodersPath))

	got, err := scorer.ScoreRecord(QuestionnaireRecord{})
	require.NoError(t, err)
	assert.Less(t, got.Score, 0.5)
	assert.InDelta(t, 1-got.Score, got.Confidence, 1e-12)
	assert.Equal(t, RiskLow, got.Level)
}

func TestNeutralAssessment(t *testing.T) {
	got := NeutralAssessment()
	assert.Equal(t, RiskUnknown, got.Level)
	assert.Equal(t, 0.5, got.Score)
	assert.Zero(t, got.Confidence)
}

func TestModelServiceLifecycle(t *testing.T) {
	modelPath, encodersPath := writeArtifacts(t, 0)

	svc := NewModelService(modelPath, encodersPath)
	assert.False(t, svc.Ready())

	require.NoError(t, svc.Load())
	assert.True(t, svc.Ready())

	require.NoError(t, svc.Reload())
	assert.True(t, svc.Ready())

	score, err := svc.Score(make(FeatureVector, len(FeatureOrder)))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score, 1e-12)
}

func TestModelServiceLoadFailure(t *testing.T) {
	svc := NewModelService(filepath.Join(t.TempDir(), "missing.json"), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, svc.Load())
	assert.False(t, svc.Ready())
}

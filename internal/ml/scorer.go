package ml

import "log/slog"

// Assessment is the outcome of scoring one questionnaire record.
type Assessment struct {
	Level      RiskLevel `json:"risk_level"`
	Score      float64   `json:"risk_score"`
	Confidence float64   `json:"confidence"`
}

// NeutralAssessment is the fallback when inference fails: callers that can
// tolerate an indeterminate answer present it instead of an error.
func NeutralAssessment() Assessment {
	return Assessment{Level: RiskUnknown, Score: 0.5, Confidence: 0}
}

// Scorer runs the full encode -> infer -> classify pipeline.
type Scorer struct {
	models *ModelService
}

// NewScorer creates a scorer backed by the given model service.
func NewScorer(models *ModelService) *Scorer {
	return &Scorer{models: models}
}

// ScoreRecord scores a questionnaire record. Encoding degradations are logged
// and never fail the call; inference failures are returned as errors so the
// caller decides between propagating and the neutral fallback.
func (s *Scorer) ScoreRecord(rec QuestionnaireRecord) (Assessment, error) {
	encoders, err := s.models.Encoders()
	if err != nil {
		return Assessment{}, err
	}

	vec, warnings := Encode(rec, encoders)
	for _, w := range warnings {
		slog.Warn("encoding degradation", "detail", w)
	}

	score, err := s.models.Score(vec)
	if err != nil {
		return Assessment{}, err
	}

	confidence := score
	if 1-score > confidence {
		confidence = 1 - score
	}

	return Assessment{
		Level:      Classify(score),
		Score:      score,
		Confidence: confidence,
	}, nil
}

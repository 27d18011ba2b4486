package ml

import (
	"fmt"
	"log/slog"
	"sync"
)

// ModelService owns the loaded model and encoder artifacts. Artifacts are
// loaded lazily on first use and are immutable afterwards, so concurrent
// scoring requests share them without locking; only the load path itself is
// guarded. Constructed once in main and injected into every consumer.
type ModelService struct {
	modelPath    string
	encodersPath string

	mu       sync.Mutex
	model    *LogisticModel
	encoders EncoderTable
}

// NewModelService creates a model service for the given artifact paths.
// Artifacts are not touched until Load or the first Score call.
func NewModelService(modelPath, encodersPath string) *ModelService {
	return &ModelService{
		modelPath:    modelPath,
		encodersPath: encodersPath,
	}
}

// Load eagerly loads both artifacts. Missing or corrupt artifacts are a fatal
// configuration error: the process must not serve scoring requests without
// them.
func (s *ModelService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *ModelService) loadLocked() error {
	if s.model != nil && s.encoders != nil {
		return nil
	}

	model, err := LoadLogisticModel(s.modelPath)
	if err != nil {
		return fmt.Errorf("model load failed: %w", err)
	}
	encoders, err := LoadEncoderTable(s.encodersPath)
	if err != nil {
		return fmt.Errorf("encoders load failed: %w", err)
	}

	s.model = model
	s.encoders = encoders
	slog.Info("ML artifacts loaded",
		"model_path", s.modelPath,
		"encoders_path", s.encodersPath,
		"features", len(model.Coefficients),
		"encoded_features", len(encoders))
	return nil
}

// Reload clears the cached artifacts and loads both again.
func (s *ModelService) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = nil
	s.encoders = nil
	return s.loadLocked()
}

// Ready reports whether both artifacts are loaded.
func (s *ModelService) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model != nil && s.encoders != nil
}

// Encoders returns the loaded encoder table, loading artifacts if needed.
func (s *ModelService) Encoders() (EncoderTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s.encoders, nil
}

// Score runs the classifier and returns the positive-class probability. A
// degenerate single-probability output is used directly instead of indexing
// the positive class.
func (s *ModelService) Score(vec FeatureVector) (float64, error) {
	s.mu.Lock()
	if err := s.loadLocked(); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	model := s.model
	s.mu.Unlock()

	probs, err := model.PredictProba(vec)
	if err != nil {
		return 0, err
	}
	if len(probs) == 1 {
		return probs[0], nil
	}
	return probs[1], nil
}

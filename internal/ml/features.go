package ml

import "fmt"

// FeatureVector is an ordered numeric encoding of a questionnaire record.
// Element order matches FeatureOrder and must never change without retraining
// the model artifact.
type FeatureVector []float64

// FeatureOrder is the fixed training-time feature order.
var FeatureOrder = []string{
	"Mood", "SleepHour", "Appetite", "Exercise", "ScreenTime",
	"AcademicWork", "Social", "Energy", "TroubleConcentration",
	"NegativeThought", "DecisionMaking", "BotherStatus",
	"StressfulEvent", "SleepyTired", "FutureHope",
}

const featureEnergy = "Energy"

// QuestionnaireRecord is one submitted depression test. Every field is
// optional; nil means the question was left unanswered.
type QuestionnaireRecord struct {
	Mood                 *string
	SleepHour            *string
	Appetite             *string
	Exercise             *string
	ScreenTime           *string
	AcademicWork         *string
	Socialize            *string
	EnergyLevel          *int
	TroubleConcentrating *string
	NegativeThoughts     *string
	DecisionMaking       *string
	BotheredThings       *string
	StressfulEvents      *string
	SleepyTired          *string
	FutureHope           *string
}

// categoricalValue maps a model feature name back to the raw record field.
// Energy is the single numeric feature and is handled separately.
func (r QuestionnaireRecord) categoricalValue(feature string) (string, bool) {
	var v *string
	switch feature {
	case "Mood":
		v = r.Mood
	case "SleepHour":
		v = r.SleepHour
	case "Appetite":
		v = r.Appetite
	case "Exercise":
		v = r.Exercise
	case "ScreenTime":
		v = r.ScreenTime
	case "AcademicWork":
		v = r.AcademicWork
	case "Social":
		v = r.Socialize
	case "TroubleConcentration":
		v = r.TroubleConcentrating
	case "NegativeThought":
		v = r.NegativeThoughts
	case "DecisionMaking":
		v = r.DecisionMaking
	case "BotherStatus":
		v = r.BotheredThings
	case "StressfulEvent":
		v = r.StressfulEvents
	case "SleepyTired":
		v = r.SleepyTired
	case "FutureHope":
		v = r.FutureHope
	default:
		return "", false
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

// Encode converts a questionnaire record into the fixed-order feature vector.
// Unseen categories and missing answers degrade to 0 rather than failing; each
// degradation is reported back as a warning for the caller to log. The result
// always has len(FeatureOrder) numeric elements.
func Encode(rec QuestionnaireRecord, encoders EncoderTable) (FeatureVector, []string) {
	vec := make(FeatureVector, 0, len(FeatureOrder))
	var warnings []string

	for _, feature := range FeatureOrder {
		if feature == featureEnergy {
			if rec.EnergyLevel != nil {
				vec = append(vec, float64(*rec.EnergyLevel))
			} else {
				vec = append(vec, 0)
			}
			continue
		}

		enc, hasEncoder := encoders[feature]
		raw, present := rec.categoricalValue(feature)

		if !hasEncoder {
			// Categorical feature without a fitted encoder cannot be
			// represented numerically; fall back to the default code.
			vec = append(vec, 0)
			if present {
				warnings = append(warnings, fmt.Sprintf("no encoder for feature %s, using default=0", feature))
			}
			continue
		}

		if !present {
			vec = append(vec, 0)
			warnings = append(warnings, fmt.Sprintf("feature %s missing from record, using default=0", feature))
			continue
		}

		code, ok := enc.Transform(raw)
		if !ok {
			vec = append(vec, 0)
			warnings = append(warnings, fmt.Sprintf("could not encode %s=%q, using default=0", feature, raw))
			continue
		}
		vec = append(vec, float64(code))
	}

	return vec, warnings
}

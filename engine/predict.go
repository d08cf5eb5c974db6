package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"sahara-be/models"
)

// PredictorConfig holds the tunable constants of the resolution-time
// estimator.
type PredictorConfig struct {
	DefaultDays         float64
	PriorityMultipliers map[models.ProblemPriority]float64
	ConfidenceBase      float64
	ConfidencePerCase   float64
	ConfidenceCap       float64
}

// DefaultPredictorConfig returns the production estimator constants.
// Higher priorities shorten the estimate; confidence grows with evidence
// but caps below certainty so small samples are not over-trusted.
func DefaultPredictorConfig() PredictorConfig {
	return PredictorConfig{
		DefaultDays: 7,
		PriorityMultipliers: map[models.ProblemPriority]float64{
			models.Critical: 0.5,
			models.High:     0.7,
			models.Medium:   1.0,
			models.Low:      1.3,
		},
		ConfidenceBase:    0.3,
		ConfidencePerCase: 0.07,
		ConfidenceCap:     0.95,
	}
}

// Prediction is the estimated resolution time for a prospective problem.
type Prediction struct {
	PredictedDays int     `json:"predictedDays"`
	Confidence    float64 `json:"confidence"`
	SampleSize    int     `json:"sampleSize"`
}

// PredictResolution estimates resolution time from a pool of historical
// resolved problems of the same category and municipality. An empty pool
// degrades to the configured default instead of erroring.
func PredictResolution(pool []models.Problem, priority models.ProblemPriority, cfg PredictorConfig) Prediction {
	var days []float64
	for i := range pool {
		p := pool[i]
		if p.ResolutionDetails == nil {
			continue
		}
		days = append(days, p.ResolutionDetails.ResolvedAt.Sub(p.CreatedAt).Hours()/24)
	}

	averageDays := cfg.DefaultDays
	if len(days) > 0 {
		if mean, err := stats.Mean(days); err == nil {
			averageDays = math.Round(mean)
		}
	}

	multiplier, ok := cfg.PriorityMultipliers[priority]
	if !ok {
		multiplier = 1
	}

	confidence := cfg.ConfidenceBase + cfg.ConfidencePerCase*float64(len(pool))
	if confidence > cfg.ConfidenceCap {
		confidence = cfg.ConfidenceCap
	}

	return Prediction{
		PredictedDays: int(math.Round(averageDays * multiplier)),
		Confidence:    confidence,
		SampleSize:    len(pool),
	}
}

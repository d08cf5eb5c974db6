package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sahara-be/engine"
	"sahara-be/models"
)

func resolvedAfter(created time.Time, days float64) models.Problem {
	resolvedAt := created.Add(time.Duration(days * 24 * float64(time.Hour)))
	return models.Problem{
		Status:            models.Resolved,
		CreatedAt:         created,
		ResolutionDetails: &models.ResolutionDetails{ResolvedAt: resolvedAt},
	}
}

func TestPredictEmptyPoolDefaults(t *testing.T) {
	cfg := engine.DefaultPredictorConfig()

	p := engine.PredictResolution(nil, models.Medium, cfg)
	assert.Equal(t, 7, p.PredictedDays)
	assert.InDelta(t, 0.3, p.Confidence, 1e-9)
	assert.Zero(t, p.SampleSize)
}

func TestPredictPriorityMultipliers(t *testing.T) {
	cfg := engine.DefaultPredictorConfig()

	tests := []struct {
		priority models.ProblemPriority
		days     int
	}{
		{models.Critical, 4}, // round(7 * 0.5)
		{models.High, 5},     // round(7 * 0.7)
		{models.Medium, 7},
		{models.Low, 9}, // round(7 * 1.3)
	}
	for _, tt := range tests {
		p := engine.PredictResolution(nil, tt.priority, cfg)
		assert.Equal(t, tt.days, p.PredictedDays, "priority %s", tt.priority)
	}
}

func TestPredictAveragesHistoricalPool(t *testing.T) {
	cfg := engine.DefaultPredictorConfig()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	pool := []models.Problem{
		resolvedAfter(created, 4),
		resolvedAfter(created, 6),
	}

	p := engine.PredictResolution(pool, models.Medium, cfg)
	assert.Equal(t, 5, p.PredictedDays)
	assert.Equal(t, 2, p.SampleSize)
	assert.InDelta(t, 0.44, p.Confidence, 1e-9)

	high := engine.PredictResolution(pool, models.High, cfg)
	assert.Equal(t, 4, high.PredictedDays) // round(5 * 0.7)
}

func TestPredictSkipsPoolEntriesWithoutDetails(t *testing.T) {
	cfg := engine.DefaultPredictorConfig()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	pool := []models.Problem{
		resolvedAfter(created, 10),
		{Status: models.Resolved, CreatedAt: created}, // missing details
	}

	p := engine.PredictResolution(pool, models.Medium, cfg)
	assert.Equal(t, 10, p.PredictedDays)
	assert.Equal(t, 2, p.SampleSize, "sample size counts the whole pool")
}

func TestPredictConfidenceCaps(t *testing.T) {
	cfg := engine.DefaultPredictorConfig()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var pool []models.Problem
	for i := 0; i < 20; i++ {
		pool = append(pool, resolvedAfter(created, 3))
	}

	p := engine.PredictResolution(pool, models.Medium, cfg)
	assert.InDelta(t, 0.95, p.Confidence, 1e-9)
}

func TestPredictUnknownPriorityUsesUnitMultiplier(t *testing.T) {
	p := engine.PredictResolution(nil, "urgent", engine.DefaultPredictorConfig())
	assert.Equal(t, 7, p.PredictedDays)
}

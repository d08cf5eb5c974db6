package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sahara-be/engine"
)

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		sentiment string
		score     float64
	}{
		{"positive", "Thanks, the team was quick and efficient!", engine.SentimentPositive, 1},
		{"negative", "Terrible response, slow and useless.", engine.SentimentNegative, -1},
		{"mixed", "Great start but terrible follow-up", engine.SentimentNeutral, 0},
		{"no matches", "The pipe is located behind the school", engine.SentimentNeutral, 0},
		{"empty", "", engine.SentimentNeutral, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.AnalyzeSentiment(tt.text)
			assert.Equal(t, tt.sentiment, result.Sentiment)
			assert.InDelta(t, tt.score, result.Score, 1e-9)
		})
	}
}

func TestAnalyzeSentimentBands(t *testing.T) {
	positive := engine.AnalyzeSentiment("great great thanks")
	assert.True(t, positive.IsPositive)
	assert.False(t, positive.IsNeutral)

	// Two positives against three negatives: score -0.2, inside the neutral band.
	leaning := engine.AnalyzeSentiment("good quick response but slow cleanup, useless follow-up, never again")
	assert.Equal(t, engine.SentimentNegative, leaning.Sentiment)
	assert.False(t, leaning.IsNegative)
	assert.True(t, leaning.IsNeutral)
}

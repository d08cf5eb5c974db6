package engine

import (
	"math"
	"sort"
	"time"

	"sahara-be/models"
)

// PriorityConfig holds the tunable weight tables for priority scoring.
type PriorityConfig struct {
	UpvoteWeight    float64
	CategoryWeights map[models.ProblemCategory]float64
	AgeWeightPerDay float64
	AgeCap          float64
	CommentWeight   float64

	CriticalThreshold float64
	HighThreshold     float64
	MediumThreshold   float64
}

// DefaultPriorityConfig returns the production weight tables. Electrical
// hazards outrank everything; age decay is capped so stale reports cannot
// dominate on age alone.
func DefaultPriorityConfig() PriorityConfig {
	return PriorityConfig{
		UpvoteWeight: 2,
		CategoryWeights: map[models.ProblemCategory]float64{
			models.Electrical: 10,
			models.Water:      8,
			models.Waste:      6,
			models.Street:     5,
			models.Other:      3,
		},
		AgeWeightPerDay:   0.5,
		AgeCap:            10,
		CommentWeight:     0.5,
		CriticalThreshold: 20,
		HighThreshold:     15,
		MediumThreshold:   10,
	}
}

// PriorityScorer computes urgency scores from problem snapshots.
type PriorityScorer struct {
	cfg PriorityConfig
	now func() time.Time
}

// NewPriorityScorer builds a scorer with the given weights.
func NewPriorityScorer(cfg PriorityConfig) *PriorityScorer {
	return &PriorityScorer{cfg: cfg, now: time.Now}
}

// WithClock overrides the scorer's clock. Intended for tests.
func (s *PriorityScorer) WithClock(now func() time.Time) *PriorityScorer {
	s.now = now
	return s
}

// Score computes the urgency score of a problem snapshot, rounded to two
// decimal places.
func (s *PriorityScorer) Score(p *models.Problem) float64 {
	score := s.cfg.UpvoteWeight * float64(p.UpvoteCount)
	score += s.cfg.CategoryWeights[p.Category]

	ageDays := s.now().Sub(p.CreatedAt).Hours() / 24
	score += math.Min(ageDays*s.cfg.AgeWeightPerDay, s.cfg.AgeCap)

	score += s.cfg.CommentWeight * float64(len(p.Comments))

	return math.Round(score*100) / 100
}

// Level maps a score to a priority bucket.
func (s *PriorityScorer) Level(score float64) models.ProblemPriority {
	switch {
	case score >= s.cfg.CriticalThreshold:
		return models.Critical
	case score >= s.cfg.HighThreshold:
		return models.High
	case score >= s.cfg.MediumThreshold:
		return models.Medium
	default:
		return models.Low
	}
}

// RankedProblem is a problem snapshot with its computed score and level.
type RankedProblem struct {
	models.Problem
	PriorityScore float64                `json:"priorityScore"`
	PriorityLevel models.ProblemPriority `json:"priorityLevel"`
}

// Rank scores every problem and orders the batch by score descending.
// Equal scores order by earlier creation time, so the ranking is
// deterministic for a given snapshot.
func (s *PriorityScorer) Rank(problems []models.Problem) []RankedProblem {
	ranked := make([]RankedProblem, 0, len(problems))
	for i := range problems {
		p := problems[i]
		score := s.Score(&p)
		ranked = append(ranked, RankedProblem{
			Problem:       p,
			PriorityScore: score,
			PriorityLevel: s.Level(score),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PriorityScore != ranked[j].PriorityScore {
			return ranked[i].PriorityScore > ranked[j].PriorityScore
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})
	return ranked
}

package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/engine"
	"sahara-be/models"
)

func TestSimilarityIdentities(t *testing.T) {
	assert.Equal(t, 1.0, engine.Similarity("Garbage overflow near market", "Garbage overflow near market"))
	assert.Equal(t, 0.0, engine.Similarity("", ""))
	assert.Equal(t, 0.0, engine.Similarity("garbage", ""))
	assert.Equal(t, 0.0, engine.Similarity("garbage", "streetlight"))
}

func TestSimilarityIgnoresCaseAndPunctuation(t *testing.T) {
	assert.Equal(t, 1.0, engine.Similarity("Garbage, overflow!", "garbage overflow"))
}

func TestSimilarityJaccard(t *testing.T) {
	// {garbage, overflow, near, market} vs the same plus {the}: 4/5.
	sim := engine.Similarity("Garbage overflow near market", "garbage overflow near the market")
	assert.InDelta(t, 0.8, sim, 1e-9)
}

func poolProblem(title, desc string, category models.ProblemCategory, municipality string, status models.ProblemStatus) models.Problem {
	return models.Problem{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: desc,
		Category:    category,
		Location:    models.Location{Ward: 1, Municipality: municipality},
		Status:      status,
	}
}

func TestFindDuplicatesFlagsNearIdenticalTitle(t *testing.T) {
	existing := poolProblem("Garbage overflow near market", "Bins overflowing at the market entrance",
		models.Waste, "Butwal", models.Pending)

	result := engine.FindDuplicates("Garbage overflow near market", "Trash piling up",
		models.Waste, "Butwal", []models.Problem{existing})

	require.True(t, result.IsDuplicate)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, existing.ID, result.Matches[0].Problem.ID)
	assert.Greater(t, result.Matches[0].TitleSimilarity, 0.7)
}

func TestFindDuplicatesRestrictsPool(t *testing.T) {
	title := "Garbage overflow near market"
	desc := "Bins overflowing at the market entrance"

	otherCategory := poolProblem(title, desc, models.Street, "Butwal", models.Pending)
	otherMunicipality := poolProblem(title, desc, models.Waste, "Tilottama", models.Pending)
	alreadyResolved := poolProblem(title, desc, models.Waste, "Butwal", models.Resolved)
	rejected := poolProblem(title, desc, models.Waste, "Butwal", models.Rejected)

	result := engine.FindDuplicates(title, desc, models.Waste, "Butwal",
		[]models.Problem{otherCategory, otherMunicipality, alreadyResolved, rejected})

	assert.False(t, result.IsDuplicate)
	assert.Empty(t, result.Matches)
}

func TestFindDuplicatesDescriptionThreshold(t *testing.T) {
	existing := poolProblem("Completely different title wording here",
		"Streetlight pole number five broken since last Tuesday evening",
		models.Electrical, "Butwal", models.InProgress)

	result := engine.FindDuplicates("Another unrelated heading",
		"Streetlight pole number five broken since last Tuesday evening",
		models.Electrical, "Butwal", []models.Problem{existing})

	require.True(t, result.IsDuplicate)
	assert.Greater(t, result.Matches[0].DescriptionSimilarity, 0.6)
}

func TestFindDuplicatesCapsAndOrdersMatches(t *testing.T) {
	title := "Garbage overflow near market"
	desc := "Bins overflowing at the market entrance"

	exact := poolProblem(title, desc, models.Waste, "Butwal", models.Pending)
	var pool []models.Problem
	for i := 0; i < 4; i++ {
		pool = append(pool, poolProblem(title, "Trash everywhere around the stalls",
			models.Waste, "Butwal", models.Pending))
	}
	pool = append(pool, exact)

	result := engine.FindDuplicates(title, desc, models.Waste, "Butwal", pool)
	require.True(t, result.IsDuplicate)
	require.Len(t, result.Matches, 3)
	assert.Equal(t, exact.ID, result.Matches[0].Problem.ID, "highest combined similarity first")
}

package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sahara-be/engine"
	"sahara-be/models"
)

func TestGenerateProgressUpdate(t *testing.T) {
	base := models.Problem{
		Title:    "Garbage overflow near market",
		Location: models.Location{Ward: 4, Municipality: "Butwal"},
	}

	pending := base
	pending.Status = models.Pending
	update := engine.GenerateProgressUpdate(pending)
	assert.Contains(t, update.Message, "Garbage overflow near market")
	assert.Contains(t, update.Message, "Butwal")
	assert.Equal(t, []string{"Review problem details", "Assign to department", "Estimate timeline"}, update.SuggestedActions)
	assert.Equal(t, "Timeline being assessed", update.EstimatedTimeline)

	resolved := base
	resolved.Status = models.Resolved
	update = engine.GenerateProgressUpdate(resolved)
	assert.Contains(t, update.Message, "resolved")
	assert.Equal(t, []string{"Verify resolution", "Close case", "Request feedback"}, update.SuggestedActions)
}

func TestGenerateProgressUpdateTimeline(t *testing.T) {
	eta := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	problem := models.Problem{
		Title:                   "Broken streetlight",
		Status:                  models.InProgress,
		Location:                models.Location{Ward: 1, Municipality: "Butwal"},
		EstimatedResolutionTime: &eta,
	}

	update := engine.GenerateProgressUpdate(problem)
	assert.Contains(t, update.EstimatedTimeline, "Expected resolution:")
	assert.Contains(t, update.EstimatedTimeline, "2025")
	assert.Equal(t, []string{"Monitor progress", "Update reporter", "Allocate resources"}, update.SuggestedActions)
}

func TestSuggestedActionsUnknownStatus(t *testing.T) {
	assert.Equal(t, []string{"Review case"}, engine.SuggestedActions("archived"))
}

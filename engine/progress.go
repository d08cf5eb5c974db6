package engine

import (
	"fmt"

	"sahara-be/models"
)

// ProgressUpdate is a citizen-facing status message with staff guidance.
type ProgressUpdate struct {
	Message           string   `json:"progressUpdate"`
	SuggestedActions  []string `json:"suggestedActions"`
	EstimatedTimeline string   `json:"estimatedTimeline"`
}

// GenerateProgressUpdate builds the update shown to the reporter for the
// problem's current status.
func GenerateProgressUpdate(p models.Problem) ProgressUpdate {
	var message string
	switch p.Status {
	case models.Pending:
		message = fmt.Sprintf("We've received your report about %s in %s. Our team is currently reviewing the issue and will assign it to the appropriate department shortly.",
			p.Title, p.Location.Municipality)
	case models.InProgress:
		message = fmt.Sprintf("Good news! Your reported issue %q has been assigned and our team is actively working on a solution.", p.Title)
	case models.Resolved:
		message = fmt.Sprintf("We're pleased to inform you that the issue %q has been successfully resolved. Thank you for helping us improve %s.",
			p.Title, p.Location.Municipality)
	default:
		message = fmt.Sprintf("Update on your reported issue: %s. Current status: %s.", p.Title, p.Status)
	}

	timeline := "Timeline being assessed"
	if p.EstimatedResolutionTime != nil {
		timeline = "Expected resolution: " + p.EstimatedResolutionTime.Format("Mon Jan 2 2006")
	}

	return ProgressUpdate{
		Message:           message,
		SuggestedActions:  SuggestedActions(p.Status),
		EstimatedTimeline: timeline,
	}
}

// SuggestedActions lists the staff follow-ups appropriate for a status.
func SuggestedActions(status models.ProblemStatus) []string {
	switch status {
	case models.Pending:
		return []string{"Review problem details", "Assign to department", "Estimate timeline"}
	case models.InProgress:
		return []string{"Monitor progress", "Update reporter", "Allocate resources"}
	case models.Resolved:
		return []string{"Verify resolution", "Close case", "Request feedback"}
	default:
		return []string{"Review case"}
	}
}

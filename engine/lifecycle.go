package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/models"
)

// ResolvedReporterAward is the point bonus credited to the reporter when
// their problem is resolved. Awarded once per problem.
const ResolvedReporterAward = 10

// transitions is the lifecycle state machine. Absent keys are terminal.
var transitions = map[models.ProblemStatus][]models.ProblemStatus{
	models.Pending:    {models.InProgress, models.Resolved, models.Rejected},
	models.InProgress: {models.Resolved, models.Rejected},
}

// CanTransition reports whether the from→to edge is legal.
func CanTransition(from, to models.ProblemStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ProblemDraft is the reporter-supplied input for a new problem.
type ProblemDraft struct {
	Title       string
	Description string
	Category    models.ProblemCategory
	Location    models.Location
	Reporter    primitive.ObjectID
	IsAnonymous bool
	Tags        []string
}

// ResolutionInput is the mandatory payload for a transition to resolved.
type ResolutionInput struct {
	Description string
	Images      []string
	Cost        *float64
}

// VoteResult is the outcome of an upvote toggle.
type VoteResult struct {
	Upvoted bool `json:"upvoted"`
	Count   int  `json:"count"`
}

// Lifecycle is the only component with write authority over problem status
// and resolution details. All mutations go through it.
type Lifecycle struct {
	store ProblemStore
	users UserDirectory
	now   func() time.Time
}

// NewLifecycle wires a lifecycle controller over a store and directory.
func NewLifecycle(store ProblemStore, users UserDirectory) *Lifecycle {
	return &Lifecycle{store: store, users: users, now: time.Now}
}

// WithClock overrides the controller's clock. Intended for tests.
func (l *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	l.now = now
	return l
}

func (d *ProblemDraft) validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "is required"}
	}
	if !models.ValidCategory(d.Category) {
		return &ValidationError{Field: "category", Message: "must be one of waste, electrical, water, street, other"}
	}
	if strings.TrimSpace(d.Location.Municipality) == "" {
		return &ValidationError{Field: "location.municipality", Message: "is required"}
	}
	if d.Location.Ward <= 0 {
		return &ValidationError{Field: "location.ward", Message: "must be a positive ward number"}
	}
	if d.Reporter.IsZero() {
		return &ValidationError{Field: "reporter", Message: "is required"}
	}
	return nil
}

// Create validates the draft and persists a new pending problem.
func (l *Lifecycle) Create(ctx context.Context, draft ProblemDraft) (models.Problem, error) {
	if err := draft.validate(); err != nil {
		return models.Problem{}, err
	}

	now := l.now()
	problem := models.Problem{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Category:    draft.Category,
		Location:    draft.Location,
		Reporter:    draft.Reporter,
		IsAnonymous: draft.IsAnonymous,
		Status:      models.Pending,
		Priority:    models.Medium,
		Upvoters:    []primitive.ObjectID{},
		Comments:    []models.Comment{},
		Tags:        draft.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := l.store.Insert(ctx, &problem); err != nil {
		return models.Problem{}, err
	}
	return problem, nil
}

// ToggleUpvote adds the user's upvote if absent, removes it if present.
func (l *Lifecycle) ToggleUpvote(ctx context.Context, problemID, userID primitive.ObjectID) (VoteResult, error) {
	upvoted, count, err := l.store.ToggleUpvote(ctx, problemID, userID)
	if err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Upvoted: upvoted, Count: count}, nil
}

// AddComment appends a comment with a server-assigned timestamp.
func (l *Lifecycle) AddComment(ctx context.Context, problemID, author primitive.ObjectID, anonymous bool, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, &ValidationError{Field: "text", Message: "is required"}
	}

	comment := models.Comment{
		User:        author,
		Text:        text,
		IsAnonymous: anonymous,
		CreatedAt:   l.now(),
	}
	if err := l.store.AppendComment(ctx, problemID, comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// TransitionStatus moves the problem along a legal state-machine edge.
// A transition to resolved requires a resolution payload and credits the
// reporter's point balance exactly once per problem: only the winning
// pending/in_progress→resolved edge awards, a repeated resolve fails with
// InvalidTransitionError before any award.
func (l *Lifecycle) TransitionStatus(ctx context.Context, problemID primitive.ObjectID, target models.ProblemStatus, actor primitive.ObjectID, extra *ResolutionInput) (models.Problem, error) {
	if !models.ValidStatus(target) {
		return models.Problem{}, &ValidationError{Field: "status", Message: "must be one of pending, in_progress, resolved, rejected"}
	}

	problem, err := l.store.Get(ctx, problemID)
	if err != nil {
		return models.Problem{}, err
	}
	if !CanTransition(problem.Status, target) {
		return models.Problem{}, &InvalidTransitionError{From: problem.Status, To: target}
	}

	change := StatusChange{}
	if target == models.Resolved {
		if extra == nil || strings.TrimSpace(extra.Description) == "" {
			return models.Problem{}, &ValidationError{Field: "resolutionDetails", Message: "a resolution description is required to resolve a problem"}
		}
		change.Resolution = &models.ResolutionDetails{
			ResolvedAt:            l.now(),
			ResolvedBy:            actor,
			ResolutionDescription: strings.TrimSpace(extra.Description),
			ResolutionImages:      extra.Images,
			CostIncurred:          extra.Cost,
		}
	}

	updated, err := l.store.ChangeStatus(ctx, problemID, problem.Status, target, change)
	if errors.Is(err, ErrStaleStatus) {
		// Lost a race; report the edge from the current status.
		current, getErr := l.store.Get(ctx, problemID)
		if getErr != nil {
			return models.Problem{}, getErr
		}
		return models.Problem{}, &InvalidTransitionError{From: current.Status, To: target}
	}
	if err != nil {
		return models.Problem{}, err
	}

	if target == models.Resolved {
		if err := l.users.AddPoints(ctx, updated.Reporter, ResolvedReporterAward); err != nil {
			return models.Problem{}, err
		}
	}
	return updated, nil
}

// SetPriority overrides the triage priority without moving status.
func (l *Lifecycle) SetPriority(ctx context.Context, problemID primitive.ObjectID, priority models.ProblemPriority) (models.Problem, error) {
	if !models.ValidPriority(priority) {
		return models.Problem{}, &ValidationError{Field: "priority", Message: "must be one of low, medium, high, critical"}
	}

	problem, err := l.store.Get(ctx, problemID)
	if err != nil {
		return models.Problem{}, err
	}
	return l.store.ChangeStatus(ctx, problemID, problem.Status, problem.Status, StatusChange{Priority: priority})
}

// AssignDepartment sets assignedTo; status is untouched.
func (l *Lifecycle) AssignDepartment(ctx context.Context, problemID, departmentID primitive.ObjectID) (models.Problem, error) {
	if _, err := l.users.GetUser(ctx, departmentID); err != nil {
		return models.Problem{}, err
	}
	return l.store.Assign(ctx, problemID, departmentID)
}

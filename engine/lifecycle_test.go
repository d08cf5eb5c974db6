package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/engine"
	"sahara-be/models"
	"sahara-be/store"
)

func newTestLifecycle(t *testing.T) (*engine.Lifecycle, *store.MemoryStore, *store.MemoryDirectory) {
	t.Helper()
	problems := store.NewMemoryStore()
	users := store.NewMemoryDirectory()
	return engine.NewLifecycle(problems, users), problems, users
}

func validDraft(reporter primitive.ObjectID) engine.ProblemDraft {
	return engine.ProblemDraft{
		Title:       "Garbage overflow near market",
		Description: "The public bin at the market entrance has been overflowing for days",
		Category:    models.Waste,
		Location:    models.Location{Ward: 4, Municipality: "Butwal"},
		Reporter:    reporter,
	}
}

func TestCreateSetsDefaults(t *testing.T) {
	lc, _, _ := newTestLifecycle(t)
	reporter := primitive.NewObjectID()

	problem, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)

	assert.False(t, problem.ID.IsZero())
	assert.Equal(t, models.Pending, problem.Status)
	assert.Equal(t, models.Medium, problem.Priority)
	assert.Empty(t, problem.Upvoters)
	assert.Zero(t, problem.UpvoteCount)
	assert.Empty(t, problem.Comments)
	assert.Nil(t, problem.ResolutionDetails)
	assert.Equal(t, reporter, problem.Reporter)
}

func TestCreateValidation(t *testing.T) {
	lc, _, _ := newTestLifecycle(t)
	reporter := primitive.NewObjectID()

	tests := []struct {
		name   string
		mutate func(*engine.ProblemDraft)
	}{
		{"missing title", func(d *engine.ProblemDraft) { d.Title = "  " }},
		{"missing description", func(d *engine.ProblemDraft) { d.Description = "" }},
		{"unknown category", func(d *engine.ProblemDraft) { d.Category = "pothole" }},
		{"missing municipality", func(d *engine.ProblemDraft) { d.Location.Municipality = "" }},
		{"missing ward", func(d *engine.ProblemDraft) { d.Location.Ward = 0 }},
		{"missing reporter", func(d *engine.ProblemDraft) { d.Reporter = primitive.NilObjectID }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft(reporter)
			tt.mutate(&draft)

			_, err := lc.Create(context.Background(), draft)

			var validationErr *engine.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestToggleUpvote(t *testing.T) {
	lc, _, _ := newTestLifecycle(t)
	problem, err := lc.Create(context.Background(), validDraft(primitive.NewObjectID()))
	require.NoError(t, err)

	voter := primitive.NewObjectID()

	result, err := lc.ToggleUpvote(context.Background(), problem.ID, voter)
	require.NoError(t, err)
	assert.True(t, result.Upvoted)
	assert.Equal(t, 1, result.Count)

	// Toggling again returns to the original state.
	result, err = lc.ToggleUpvote(context.Background(), problem.ID, voter)
	require.NoError(t, err)
	assert.False(t, result.Upvoted)
	assert.Equal(t, 0, result.Count)
}

func TestToggleUpvoteUnknownProblem(t *testing.T) {
	lc, _, _ := newTestLifecycle(t)

	_, err := lc.ToggleUpvote(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	lc, problems, _ := newTestLifecycle(t)
	problem, err := lc.Create(context.Background(), validDraft(primitive.NewObjectID()))
	require.NoError(t, err)

	author := primitive.NewObjectID()
	comment, err := lc.AddComment(context.Background(), problem.ID, author, false, "  Still not fixed  ")
	require.NoError(t, err)
	assert.Equal(t, "Still not fixed", comment.Text)
	assert.False(t, comment.CreatedAt.IsZero())

	stored, err := problems.Get(context.Background(), problem.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, author, stored.Comments[0].User)
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	lc, _, _ := newTestLifecycle(t)
	problem, err := lc.Create(context.Background(), validDraft(primitive.NewObjectID()))
	require.NoError(t, err)

	_, err = lc.AddComment(context.Background(), problem.ID, primitive.NewObjectID(), false, "   ")

	var validationErr *engine.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.ProblemStatus
		ok       bool
	}{
		{models.Pending, models.InProgress, true},
		{models.Pending, models.Resolved, true},
		{models.Pending, models.Rejected, true},
		{models.InProgress, models.Resolved, true},
		{models.InProgress, models.Rejected, true},
		{models.Pending, models.Pending, false},
		{models.InProgress, models.Pending, false},
		{models.Resolved, models.Pending, false},
		{models.Resolved, models.InProgress, false},
		{models.Resolved, models.Resolved, false},
		{models.Rejected, models.Pending, false},
		{models.Rejected, models.Resolved, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, engine.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionStatus(t *testing.T) {
	lc, _, users := newTestLifecycle(t)
	reporter := primitive.NewObjectID()
	users.Put(models.User{ID: reporter, Name: "Reporter", Role: models.RoleUser})

	problem, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)

	actor := primitive.NewObjectID()
	updated, err := lc.TransitionStatus(context.Background(), problem.ID, models.InProgress, actor, nil)
	require.NoError(t, err)
	assert.Equal(t, models.InProgress, updated.Status)
	assert.Nil(t, updated.ResolutionDetails)
}

func TestResolveRequiresDetails(t *testing.T) {
	lc, _, users := newTestLifecycle(t)
	reporter := primitive.NewObjectID()
	users.Put(models.User{ID: reporter, Role: models.RoleUser})

	problem, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)

	_, err = lc.TransitionStatus(context.Background(), problem.ID, models.Resolved, primitive.NewObjectID(), nil)
	var validationErr *engine.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = lc.TransitionStatus(context.Background(), problem.ID, models.Resolved, primitive.NewObjectID(),
		&engine.ResolutionInput{Description: "   "})
	require.ErrorAs(t, err, &validationErr)
}

func TestResolveAwardsReporterOnce(t *testing.T) {
	lc, _, users := newTestLifecycle(t)
	reporter := primitive.NewObjectID()
	users.Put(models.User{ID: reporter, Role: models.RoleUser, Points: 5})

	problem, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)

	actor := primitive.NewObjectID()
	resolution := &engine.ResolutionInput{Description: "Bin emptied and schedule adjusted"}

	updated, err := lc.TransitionStatus(context.Background(), problem.ID, models.Resolved, actor, resolution)
	require.NoError(t, err)
	require.NotNil(t, updated.ResolutionDetails)
	assert.Equal(t, actor, updated.ResolutionDetails.ResolvedBy)
	assert.False(t, updated.ResolutionDetails.ResolvedAt.IsZero())

	user, err := users.GetUser(context.Background(), reporter)
	require.NoError(t, err)
	assert.Equal(t, 5+engine.ResolvedReporterAward, user.Points)

	// A second resolve must fail, not double-award.
	_, err = lc.TransitionStatus(context.Background(), problem.ID, models.Resolved, actor, resolution)
	var transitionErr *engine.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.Resolved, transitionErr.From)

	user, err = users.GetUser(context.Background(), reporter)
	require.NoError(t, err)
	assert.Equal(t, 5+engine.ResolvedReporterAward, user.Points)
}

func TestTransitionFromTerminalStates(t *testing.T) {
	lc, _, users := newTestLifecycle(t)
	reporter := primitive.NewObjectID()
	users.Put(models.User{ID: reporter, Role: models.RoleUser})

	resolved, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)
	_, err = lc.TransitionStatus(context.Background(), resolved.ID, models.Resolved, primitive.NewObjectID(),
		&engine.ResolutionInput{Description: "done"})
	require.NoError(t, err)

	rejected, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)
	_, err = lc.TransitionStatus(context.Background(), rejected.ID, models.Rejected, primitive.NewObjectID(), nil)
	require.NoError(t, err)

	var transitionErr *engine.InvalidTransitionError
	for _, target := range []models.ProblemStatus{models.Pending, models.InProgress, models.Resolved, models.Rejected} {
		_, err := lc.TransitionStatus(context.Background(), resolved.ID, target, primitive.NewObjectID(),
			&engine.ResolutionInput{Description: "again"})
		assert.ErrorAs(t, err, &transitionErr, "resolved -> %s", target)

		_, err = lc.TransitionStatus(context.Background(), rejected.ID, target, primitive.NewObjectID(),
			&engine.ResolutionInput{Description: "again"})
		assert.ErrorAs(t, err, &transitionErr, "rejected -> %s", target)
	}
}

func TestTransitionUnknownProblem(t *testing.T) {
	lc, _, _ := newTestLifecycle(t)

	_, err := lc.TransitionStatus(context.Background(), primitive.NewObjectID(), models.InProgress, primitive.NewObjectID(), nil)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestAssignDepartment(t *testing.T) {
	lc, _, users := newTestLifecycle(t)
	reporter := primitive.NewObjectID()
	users.Put(models.User{ID: reporter, Role: models.RoleUser})

	dept := models.User{
		ID:         primitive.NewObjectID(),
		Name:       "Waste Management Butwal",
		Role:       models.RoleDepartment,
		Department: models.Waste,
		Location:   models.UserLocation{Municipality: "Butwal"},
	}
	users.Put(dept)

	problem, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)

	updated, err := lc.AssignDepartment(context.Background(), problem.ID, dept.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, dept.ID, *updated.AssignedTo)
	assert.Equal(t, models.Pending, updated.Status, "assignment must not change status")

	_, err = lc.AssignDepartment(context.Background(), problem.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestSetPriority(t *testing.T) {
	lc, _, users := newTestLifecycle(t)
	reporter := primitive.NewObjectID()
	users.Put(models.User{ID: reporter, Role: models.RoleUser})

	problem, err := lc.Create(context.Background(), validDraft(reporter))
	require.NoError(t, err)

	updated, err := lc.SetPriority(context.Background(), problem.ID, models.Critical)
	require.NoError(t, err)
	assert.Equal(t, models.Critical, updated.Priority)
	assert.Equal(t, models.Pending, updated.Status)

	_, err = lc.SetPriority(context.Background(), problem.ID, "urgent")
	var validationErr *engine.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestClockInjection(t *testing.T) {
	problems := store.NewMemoryStore()
	users := store.NewMemoryDirectory()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lc := engine.NewLifecycle(problems, users).WithClock(func() time.Time { return fixed })

	problem, err := lc.Create(context.Background(), validDraft(primitive.NewObjectID()))
	require.NoError(t, err)
	assert.Equal(t, fixed, problem.CreatedAt)
}

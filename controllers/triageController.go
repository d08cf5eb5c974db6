package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/engine"
	"sahara-be/models"
)

// PrioritizeProblems ranks all pending problems by urgency score
func PrioritizeProblems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pending, err := problemStore.List(ctx, engine.ProblemFilter{
		Statuses: []models.ProblemStatus{models.Pending},
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	ranked := scorer.Rank(pending)
	top := ranked
	if len(top) > 10 {
		top = top[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"prioritizedProblems": top,
		"totalCount":          len(ranked),
	})
}

// CheckDuplicates compares a draft report against open problems of the
// same category and municipality
func CheckDuplicates(c *gin.Context) {
	var input struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Category    string `json:"category" binding:"required"`
		Location    struct {
			Municipality string `json:"municipality" binding:"required"`
		} `json:"location" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := problemStore.List(ctx, engine.ProblemFilter{
		Category:     models.ProblemCategory(input.Category),
		Municipality: input.Location.Municipality,
		Statuses:     []models.ProblemStatus{models.Pending, models.InProgress},
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	result := engine.FindDuplicates(input.Title, input.Description,
		models.ProblemCategory(input.Category), input.Location.Municipality, pool)

	c.JSON(http.StatusOK, result)
}

// PredictResolution estimates resolution time from historical resolved
// problems of the same category and municipality
func PredictResolution(c *gin.Context) {
	var input struct {
		Category string `json:"category" binding:"required"`
		Location struct {
			Municipality string `json:"municipality" binding:"required"`
		} `json:"location" binding:"required"`
		Priority string `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := problemStore.List(ctx, engine.ProblemFilter{
		Category:     models.ProblemCategory(input.Category),
		Municipality: input.Location.Municipality,
		Statuses:     []models.ProblemStatus{models.Resolved},
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	prediction := engine.PredictResolution(pool, models.ProblemPriority(input.Priority), predictorCfg)
	c.JSON(http.StatusOK, prediction)
}

// SuggestAssignment recommends the best-loaded department for a problem
func SuggestAssignment(c *gin.Context) {
	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	problem, err := problemStore.Get(ctx, problemID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	departments, err := userStore.Departments(ctx, problem.Category, problem.Location.Municipality)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	suggestion, err := engine.SelectDepartment(problem, departments)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestion)
}

// AnalyzeSentiment scores the tone of a comment
func AnalyzeSentiment(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, engine.AnalyzeSentiment(input.Text))
}

// GetProgressUpdate builds the citizen-facing update for a problem's
// current status
func GetProgressUpdate(c *gin.Context) {
	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	problem, err := problemStore.Get(ctx, problemID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, engine.GenerateProgressUpdate(problem))
}

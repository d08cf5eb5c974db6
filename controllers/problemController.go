package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/engine"
	"sahara-be/models"
)

// CreateProblem handles the creation of a new problem report
func CreateProblem(c *gin.Context) {
	reporterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required,max=2000"`
		Category    string   `json:"category" binding:"required"`
		Location    struct {
			Ward          int                 `json:"ward" binding:"required"`
			Municipality  string              `json:"municipality" binding:"required,max=100"`
			ExactLocation string              `json:"exactLocation,omitempty"`
			Coordinates   *models.Coordinates `json:"coordinates,omitempty"`
		} `json:"location" binding:"required"`
		IsAnonymous bool     `json:"isAnonymous"`
		Tags        []string `json:"tags,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	problem, err := lifecycle.Create(ctx, engine.ProblemDraft{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.ProblemCategory(input.Category),
		Location: models.Location{
			Ward:          input.Location.Ward,
			Municipality:  input.Location.Municipality,
			ExactLocation: input.Location.ExactLocation,
			Coordinates:   input.Location.Coordinates,
		},
		Reporter:    reporterID,
		IsAnonymous: input.IsAnonymous,
		Tags:        input.Tags,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, problem)
}

// GetProblems handles retrieving problems with filtering and pagination
func GetProblems(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category := c.Query("category")
	status := c.Query("status")
	municipality := c.Query("municipality")
	search := c.Query("search")
	sortOrder := c.DefaultQuery("sort", "newest")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := engine.ProblemFilter{
		Municipality: municipality,
		Search:       search,
		SortOldest:   sortOrder == "oldest",
		Skip:         int64((page - 1) * limit),
		Limit:        int64(limit),
	}
	if category != "" && category != "all" {
		filter.Category = models.ProblemCategory(category)
	}
	if status != "" && status != "all" {
		filter.Statuses = []models.ProblemStatus{models.ProblemStatus(status)}
	}
	if c.Query("mine") == "true" {
		reporterID, ok := currentUserID(c)
		if !ok {
			return
		}
		filter.Reporter = reporterID
	}

	totalCount, err := problemStore.Count(ctx, filter)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	problems, err := problemStore.List(ctx, filter)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"problems":      problems,
		"totalProblems": totalCount,
		"totalPages":    totalPages,
		"currentPage":   page,
	})
}

// GetProblem retrieves a problem by its ID
func GetProblem(c *gin.Context) {
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

	userHasVoted := false
	if userID, exists := c.Get("user_id"); exists {
		if objID, err := primitive.ObjectIDFromHex(userID.(string)); err == nil {
			userHasVoted = problem.HasUpvoted(objID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"problem":      problem,
		"userHasVoted": userHasVoted,
	})
}

// UpvoteProblem toggles the user's upvote on a problem
func UpvoteProblem(c *gin.Context) {
	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := lifecycle.ToggleUpvote(ctx, problemID, userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	message := "Upvote removed successfully"
	if result.Upvoted {
		message = "Upvote cast successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"upvoted": result.Upvoted,
		"count":   result.Count,
	})
}

// AddComment appends a comment to a problem
func AddComment(c *gin.Context) {
	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Text        string `json:"text" binding:"required,max=1000"`
		IsAnonymous bool   `json:"isAnonymous"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	comment, err := lifecycle.AddComment(ctx, problemID, userID, input.IsAnonymous, input.Text)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

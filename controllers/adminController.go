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

// GetAdminStats returns the aggregate problem overview for dashboards
func GetAdminStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := problemStore.Stats(ctx)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UpdateProblemStatus moves a problem along the lifecycle state machine,
// optionally overriding its priority and assignment
func UpdateProblemStatus(c *gin.Context) {
	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Status            string   `json:"status" binding:"required"`
		Priority          *string  `json:"priority,omitempty"`
		AssignedTo        *string  `json:"assignedTo,omitempty"`
		ResolutionDetails *struct {
			ResolutionDescription string   `json:"resolutionDescription"`
			ResolutionImages      []string `json:"resolutionImages,omitempty"`
			CostIncurred          *float64 `json:"costIncurred,omitempty"`
		} `json:"resolutionDetails,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var extra *engine.ResolutionInput
	if input.ResolutionDetails != nil {
		extra = &engine.ResolutionInput{
			Description: input.ResolutionDetails.ResolutionDescription,
			Images:      input.ResolutionDetails.ResolutionImages,
			Cost:        input.ResolutionDetails.CostIncurred,
		}
	}

	problem, err := lifecycle.TransitionStatus(ctx, problemID, models.ProblemStatus(input.Status), actorID, extra)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	if input.Priority != nil {
		problem, err = lifecycle.SetPriority(ctx, problemID, models.ProblemPriority(*input.Priority))
		if err != nil {
			respondEngineError(c, err)
			return
		}
	}
	if input.AssignedTo != nil {
		departmentID, err := primitive.ObjectIDFromHex(*input.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
			return
		}
		problem, err = lifecycle.AssignDepartment(ctx, problemID, departmentID)
		if err != nil {
			respondEngineError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"problem": problem})
}

// AssignProblem sets the assigned department without changing status
func AssignProblem(c *gin.Context) {
	problemID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	var input struct {
		DepartmentID string `json:"departmentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departmentID, err := primitive.ObjectIDFromHex(input.DepartmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	problem, err := lifecycle.AssignDepartment(ctx, problemID, departmentID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"problem": problem})
}

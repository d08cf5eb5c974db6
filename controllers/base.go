package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahara-be/engine"
)

var (
	problemStore engine.ProblemStore
	userStore    engine.UserDirectory
	lifecycle    *engine.Lifecycle
	scorer       *engine.PriorityScorer
	predictorCfg engine.PredictorConfig
)

// Init wires the controllers to a problem store and user directory. Must
// be called once before the routes are mounted.
func Init(store engine.ProblemStore, directory engine.UserDirectory) {
	problemStore = store
	userStore = directory
	lifecycle = engine.NewLifecycle(store, directory)
	scorer = engine.NewPriorityScorer(engine.DefaultPriorityConfig())
	predictorCfg = engine.DefaultPredictorConfig()
}

// currentUserID extracts the authenticated user's id set by the auth
// middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	objID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return objID, true
}

// respondEngineError maps the engine's error taxonomy onto HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	var validationErr *engine.ValidationError
	var transitionErr *engine.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, engine.ErrStaleStatus):
		c.JSON(http.StatusConflict, gin.H{"error": "Problem was modified concurrently, retry"})
	case errors.Is(err, engine.ErrNoCandidate):
		c.JSON(http.StatusNotFound, gin.H{"error": "No departments found for this category and location"})
	default:
		log.Println("Engine error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

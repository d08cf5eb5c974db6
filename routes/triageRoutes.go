package routes

import (
	"github.com/gin-gonic/gin"

	"sahara-be/controllers"
	"sahara-be/middlewares"
)

// TriageRoutes sets up the scoring and recommendation routes
func TriageRoutes(r *gin.Engine) {
	ai := r.Group("/api/ai")
	ai.Use(middlewares.AuthMiddleware())
	{
		ai.GET("/prioritize-problems", controllers.PrioritizeProblems)
		ai.POST("/check-duplicates", controllers.CheckDuplicates)
		ai.POST("/predict-resolution", controllers.PredictResolution)
		ai.GET("/suggest-assignment/:id", controllers.SuggestAssignment)
		ai.POST("/analyze-sentiment", controllers.AnalyzeSentiment)
		ai.GET("/progress-update/:id", controllers.GetProgressUpdate)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"sahara-be/controllers"
	"sahara-be/middlewares"
)

// ProblemRoutes sets up the problem reporting routes
func ProblemRoutes(r *gin.Engine) {
	problems := r.Group("/api/problems")
	problems.Use(middlewares.AuthMiddleware())
	{
		problems.POST("", middlewares.ReportRateLimiter(5), controllers.CreateProblem)
		problems.GET("", controllers.GetProblems)
		problems.GET("/:id", controllers.GetProblem)
		problems.POST("/:id/upvote", controllers.UpvoteProblem)
		problems.POST("/:id/comments", controllers.AddComment)
	}
}

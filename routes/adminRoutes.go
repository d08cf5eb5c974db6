package routes

import (
	"github.com/gin-gonic/gin"

	"sahara-be/controllers"
	"sahara-be/middlewares"
	"sahara-be/models"
)

// AdminRoutes sets up the triage and dashboard routes for staff
func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/api/admin")
	admin.Use(middlewares.AuthMiddleware())
	admin.Use(middlewares.RestrictTo(models.RoleAdmin, models.RoleDepartment))
	{
		admin.GET("/stats", controllers.GetAdminStats)
		admin.PATCH("/problems/:id/status", controllers.UpdateProblemStatus)
		admin.PATCH("/problems/:id/assign", controllers.AssignProblem)
	}
}

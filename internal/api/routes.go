package api

import (
	"net/http"

	"fitpact/fitness-backend/internal/domain"
	"fitpact/fitness-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	goalService service.GoalService,
	checkInService service.CheckInService,
	planService service.PlanService,
) {
	authHandler := NewAuthHandler(authService)
	goalHandler := NewGoalHandler(goalService, checkInService)
	planHandler := NewPlanHandler(planService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.GetMe)
		protected.PUT("/me/profile", authHandler.UpdateProfile)

		// --- Goal Routes ---
		goalGroup := protected.Group("/goals")
		{
			goalGroup.POST("", goalHandler.CreateGoal)
			goalGroup.GET("", goalHandler.GetGoals)
			goalGroup.GET("/:goalId", goalHandler.GetGoal)
			goalGroup.PUT("/:goalId", goalHandler.UpdateGoal)
			goalGroup.DELETE("/:goalId", goalHandler.DeleteGoal)

			// --- Check-ins ---
			goalGroup.POST("/:goalId/checkins", goalHandler.CheckIn)
			goalGroup.GET("/:goalId/checkins", goalHandler.GetCheckIns)
			goalGroup.GET("/:goalId/streak", goalHandler.GetStreak)

			// --- Workout Plans ---
			goalGroup.POST("/:goalId/plan", planHandler.GeneratePlan)
			goalGroup.GET("/:goalId/plan", planHandler.GetActivePlan)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.PUT("/users/:userId/tier", authHandler.UpdateTier)
		}
	}
}

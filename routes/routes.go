package routes

import (
	"review-management-api/controllers"
	"review-management-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Review Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Criteria templates
			protected.GET("/templates", controllers.GetTemplates)

			// Program-scoped criteria and scheduling
			programs := protected.Group("/programs")
			{
				programs.GET("/:id/criteria", controllers.GetCriteria)

				// Only organizers and admins manage criteria
				programs.POST("/:id/criteria", middleware.RequireRole(2, 3), controllers.CreateCriterion) // 2 = organizer
				programs.PUT("/:id/criteria/reorder", middleware.RequireRole(2, 3), controllers.ReorderCriteria)
				programs.POST("/:id/criteria/apply-template", middleware.RequireRole(2, 3), controllers.ApplyTemplate)

				programs.POST("/:id/assignments", middleware.RequireRole(2, 3), controllers.CreateAssignments)
				programs.POST("/:id/assignments/auto", middleware.RequireRole(2, 3), controllers.AutoAssignReviewers)

				programs.GET("/:id/stats", controllers.GetProgramStats)
				programs.GET("/:id/ranking", middleware.RequireRole(2, 3), controllers.GetApplicationRanking)
			}

			// Criteria by id
			criteria := protected.Group("/criteria")
			{
				criteria.PUT("/:id", middleware.RequireRole(2, 3), controllers.UpdateCriterion)
				criteria.DELETE("/:id", middleware.RequireRole(2, 3), controllers.DeleteCriterion)
			}

			// Assignments
			assignments := protected.Group("/assignments")
			{
				assignments.GET("", controllers.GetMyAssignments)
				assignments.GET("/:id/review", controllers.GetAssignmentReview)
				assignments.DELETE("/:id", middleware.RequireRole(2, 3), controllers.DeleteAssignment)
			}

			// Reviews and scoring
			reviews := protected.Group("/reviews")
			{
				reviews.GET("/:id", controllers.GetReview)
				reviews.PUT("/:id/scores", controllers.SaveScores)
				reviews.POST("/:id/submit", controllers.SubmitReview)
				reviews.POST("/:id/clear", middleware.RequireRole(2, 3), controllers.ClearScores)
			}

			// Applications
			applications := protected.Group("/applications")
			{
				applications.GET("/:id/consensus", middleware.RequireRole(2, 3), controllers.GetApplicationConsensus)
			}

			// Reviewer stats
			reviewers := protected.Group("/reviewers")
			{
				reviewers.GET("/:id/workload", controllers.GetReviewerWorkload)
				reviewers.GET("/:id/stats", controllers.GetReviewerStats)
			}
		}
	}
}

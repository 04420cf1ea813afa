package routes

import (
	"github.com/davidkorenblit/nutrition-tracker/controllers"
	"github.com/davidkorenblit/nutrition-tracker/middlewares"

	"github.com/gin-gonic/gin"
)

func SetupRouter(complianceCtl *controllers.ComplianceController, realtimeCtl *controllers.RealtimeController) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/verify", controllers.VerifyEmail)
		auth.POST("/login", controllers.Login)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
	}

	api := r.Group("/api/v1")
	api.Use(middlewares.AuthMiddleware())
	{
		water := api.Group("/water")
		{
			water.POST("", controllers.CreateWaterLog)
			water.GET("/logs", controllers.ListWaterLogs)
			water.GET("/total", controllers.GetWaterTotal)
			water.PUT("/:id", controllers.UpdateWaterLog)
			water.DELETE("/:id", controllers.DeleteWaterLog)
		}

		weekly := api.Group("/weekly")
		{
			weekly.POST("", controllers.CreateWeeklyNote)
			weekly.GET("", controllers.ListWeeklyNotes)
			weekly.GET("/:id", controllers.GetWeeklyNote)
			weekly.PUT("/:id", controllers.UpdateWeeklyNote)
			weekly.DELETE("/:id", controllers.DeleteWeeklyNote)
		}

		meals := api.Group("/meals")
		{
			meals.GET("", controllers.ListMeals)
			meals.GET("/:id", controllers.GetMeal)
			meals.POST("/complete", controllers.CompleteMeal)
			meals.DELETE("/:id", controllers.DeleteMeal)
		}

		snacks := api.Group("/snacks")
		{
			snacks.POST("", controllers.CreateSnack)
			snacks.GET("", controllers.ListSnacks)
			snacks.DELETE("/:id", controllers.DeleteSnack)
		}

		recs := api.Group("/recommendations")
		{
			recs.POST("", controllers.CreateRecommendationSet)
			recs.GET("", controllers.ListRecommendationSets)
			recs.GET("/:id", controllers.GetRecommendationSet)
			recs.PUT("/:id/tag", controllers.TagRecommendationItem)
			recs.DELETE("/:id", controllers.DeleteRecommendationSet)
		}

		compliance := api.Group("/compliance")
		{
			compliance.POST("/check", complianceCtl.RunCheck)
			compliance.GET("/latest", complianceCtl.GetLatest)
			compliance.GET("/history", complianceCtl.GetHistory)
			compliance.GET("/summary", complianceCtl.GetSummaries)
			compliance.GET("/due", complianceCtl.GetDueStatus)
			compliance.GET("/:id", complianceCtl.GetCheck)
			compliance.DELETE("/:id", complianceCtl.DeleteCheck)
		}

		api.GET("/ws", realtimeCtl.EventsWS)
	}

	return r
}

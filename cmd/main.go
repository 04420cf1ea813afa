package main

import (
	"github.com/davidkorenblit/nutrition-tracker/config"
	"github.com/davidkorenblit/nutrition-tracker/controllers"
	"github.com/davidkorenblit/nutrition-tracker/routes"
	"github.com/davidkorenblit/nutrition-tracker/services"
	"github.com/davidkorenblit/nutrition-tracker/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	utils.InitMailer()

	hub := services.NewRealtimeHub()
	complianceSvc := services.NewComplianceService(
		services.NewComplianceData(config.DB),
		services.NewComplianceStore(config.DB),
		services.NewMatcherService(),
		hub,
	)

	r := routes.SetupRouter(
		controllers.NewComplianceController(complianceSvc),
		controllers.NewRealtimeController(hub),
	)
	r.Run(":8080")
}

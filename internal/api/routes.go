package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/logger"
	"swimteam/swimlog/internal/service"
)

// Services are the dependencies of the HTTP layer.
type Services struct {
	Auth      service.AuthService
	Team      service.TeamService
	Log       service.LogService
	Dashboard service.DashboardService
	Notes     service.NotesService
	Plans     service.PlanService
	Exports   service.ExportService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services, log logger.Logger) {
	authHandler := NewAuthHandler(svc.Auth, svc.Team, log)
	logHandler := NewLogHandler(svc.Log, log)
	swimmerHandler := NewSwimmerHandler(svc.Team, svc.Dashboard, svc.Notes, svc.Plans, log)
	exportHandler := NewExportHandler(svc.Exports, log)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/magic-link", authHandler.RequestMagicLink)
			authGroup.GET("/callback", authHandler.Callback)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/me/settings", swimmerHandler.GetSettings)
		protected.PUT("/me/settings", swimmerHandler.PutSettings)

		// --- Self logging (swimmers create, owner or coach edits) ---
		protected.POST("/training", RoleMiddleware(domain.RoleSwimmer), logHandler.CreateTraining)
		protected.PUT("/training/:id", logHandler.UpdateTraining)
		protected.POST("/rhr", RoleMiddleware(domain.RoleSwimmer), logHandler.RecordRHR)
		protected.PUT("/rhr/:id", logHandler.UpdateRHR)
		protected.POST("/body", RoleMiddleware(domain.RoleSwimmer), logHandler.CreateBody)
		protected.PUT("/body/:id", logHandler.UpdateBody)

		protected.GET("/swimmers", RoleMiddleware(domain.RoleCoach), swimmerHandler.ListSwimmers)

		// Swimmers may only address themselves; the services enforce it.
		swimmer := protected.Group("/swimmers/:swimmerId")
		{
			swimmer.GET("/training", swimmerHandler.ListTraining)
			swimmer.GET("/rhr", swimmerHandler.ListRHR)
			swimmer.GET("/body", swimmerHandler.ListBody)

			swimmer.GET("/week", swimmerHandler.Week)
			swimmer.GET("/eight-weeks", swimmerHandler.EightWeeks)
			swimmer.GET("/trends", swimmerHandler.Trends)
			swimmer.GET("/rhr-history", swimmerHandler.RHRHistory)

			swimmer.GET("/comments", swimmerHandler.GetComment)
			swimmer.PUT("/comments", RoleMiddleware(domain.RoleCoach), swimmerHandler.PutComment)

			swimmer.GET("/plan", swimmerHandler.GetPlan)
			swimmer.PUT("/plan", RoleMiddleware(domain.RoleCoach), swimmerHandler.PutPlan)
			swimmer.GET("/plan/print", swimmerHandler.PrintPlan)

			swimmer.GET("/goals/:year", swimmerHandler.GetGoal)
			swimmer.PUT("/goals/:year", swimmerHandler.PutGoal)

			swimmer.GET("/export/:kind", exportHandler.DownloadCSV)
			swimmer.POST("/export/:kind", exportHandler.Archive)
			swimmer.GET("/exports", exportHandler.ListArchives)
		}
	}
}

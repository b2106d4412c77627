package router

import (
	"time"

	"github.com/beacondev/beacon/internal/handlers"
	"github.com/beacondev/beacon/internal/middleware"
	"github.com/beacondev/beacon/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", handlers.WebSocket)
		api.GET("/status", handlers.PublicStatus)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		users := api.Group("/users", middleware.AuthMiddleware())
		{
			users.GET("/me/notification-preferences", handlers.GetNotificationPreferences)
			users.PUT("/me/notification-preferences", handlers.UpdateNotificationPreferences)
		}

		organizations := api.Group("/organizations", middleware.AuthMiddleware())
		{
			organizations.POST("", handlers.CreateOrganization)
			organizations.GET("", handlers.ListOrganizations)
			organizations.POST("/switch", handlers.SwitchOrganization)
			organizations.POST("/:organization_id/members", handlers.AddOrganizationMember)
			organizations.POST("/:organization_id/api-keys", handlers.CreateAPIKey)
		}

		services := api.Group("/services", middleware.AuthMiddleware())
		{
			services.POST("", handlers.CreateService)
			services.GET("", handlers.ListServices)
			services.GET("/:service_id", handlers.GetService)
			services.PUT("/:service_id", handlers.UpdateService)
			services.DELETE("/:service_id", handlers.DeleteService)

			// Monitoring read API
			services.GET("/:service_id/uptime", handlers.GetServiceMetrics)
			services.GET("/:service_id/uptime/current", handlers.GetCurrentUptime)
			services.GET("/:service_id/checks", handlers.GetServiceChecks)
			services.POST("/:service_id/check", handlers.TriggerServiceCheck)
		}

		incidents := api.Group("/incidents", middleware.AuthMiddleware())
		{
			incidents.POST("", handlers.CreateIncident)
			incidents.GET("", handlers.ListIncidents)
			incidents.GET("/:incident_id", handlers.GetIncident)
			incidents.PUT("/:incident_id", handlers.UpdateIncident)
			incidents.DELETE("/:incident_id", handlers.DeleteIncident)

			incidents.POST("/:incident_id/updates", handlers.CreateIncidentUpdate)
			incidents.GET("/:incident_id/updates", handlers.ListIncidentUpdates)
		}
	}

	return r
}

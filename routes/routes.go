package routes

import (
	"net/http"
	"time"

	"bookline/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCallRoutes registers the call lifecycle endpoints.
func RegisterCallRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calls")
	{
		api.POST("", hb.StartCallHandler)
		api.GET("/:sessionID", hb.GetCallHandler)
		api.DELETE("/:sessionID", hb.EndCallHandler)
		api.POST("/:sessionID/tools", hb.ToolCallHandler)
		api.GET("/:sessionID/events", hb.CallEventsHandler)
		api.POST("/:sessionID/usage", hb.ReportUsageHandler)
		api.GET("/:sessionID/record", hb.GetCallRecordHandler)
	}
}

// RegisterAIRoutes registers speech endpoints.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/ai")
	{
		api.POST("/stt", hb.AISTTHandler)
	}
}

// RegisterAdminRoutes registers the slot catalog management endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.POST("/slots", hb.CreateSlotsHandler)
		api.GET("/conversations/:contactNumber", hb.CallHistoryHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Bookline"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCallRoutes(r, hb)
	RegisterAIRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}

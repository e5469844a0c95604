package routes

import (
	"net/http"
	"time"

	"bookline/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Bookline"})
	})
}

// RegisterAgentRoutes sets up the endpoints the voice/chat agent calls.
func RegisterAgentRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	agent := r.Group("/api/agent")
	{
		agent.POST("/appointment", bh.AgentAppointmentHandler)
		agent.POST("/test-drive", bh.TestDriveHandler)
	}
}

// RegisterRoutes wires CORS and all route groups.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	RegisterHealthRoute(r)
	RegisterAgentRoutes(r, bh)
}

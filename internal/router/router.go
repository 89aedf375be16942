package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/reteihq/attest-backend/internal/config"
	"github.com/reteihq/attest-backend/internal/handler"
	"github.com/reteihq/attest-backend/internal/response"
)

// Handlers groups all handler instances for route setup. Archive is
// nil when no database is configured.
type Handlers struct {
	Session *handler.SessionHandler
	Timer   *handler.TimerHandler
	Archive *handler.ArchiveHandler
}

// SetupRouter configures all Gin route groups.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Every response carries request metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Session (the attestation state machine) ───────────────────────
	session := router.Group("/api/v1/session")
	{
		session.POST("/login", handlers.Session.Login)
		session.POST("/start", handlers.Session.Start)
		session.POST("/answer", handlers.Session.SelectAnswer)
		session.POST("/navigate", handlers.Session.Navigate)
		session.POST("/finish", handlers.Session.Finish)
		session.POST("/reset", handlers.Session.Reset)

		session.GET("/state", handlers.Session.State)
		session.GET("/paper", handlers.Session.Paper)
		session.GET("/report", handlers.Session.Report)
		session.GET("/report/share-text", handlers.Session.ShareText)
	}

	// ─── Countdown stream ──────────────────────────────────────────────
	wsGroup := router.Group("/ws/v1")
	{
		wsGroup.GET("/session/timer", handlers.Timer.CountdownStream)
	}

	// ─── Attempt archive (only when a database is configured) ──────────
	if handlers.Archive != nil {
		archive := router.Group("/api/v1/archive")
		{
			archive.GET("/attempts", handlers.Archive.ListAttempts)
		}
	}

	return router
}

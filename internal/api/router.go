package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/lookout/internal/api/handlers"
	"github.com/your-org/lookout/internal/api/ws"
	"github.com/your-org/lookout/internal/auth"
	"github.com/your-org/lookout/internal/queue"
	"github.com/your-org/lookout/internal/records"
	"github.com/your-org/lookout/internal/scan"
	"github.com/your-org/lookout/internal/storage"
)

type RouterConfig struct {
	APIKey     string
	AuthHeader string
	DB         *records.PostgresStore
	MinIO      *storage.MinIOStore
	Producer   *queue.Producer
	Hub        *ws.Hub
	Scans      *scan.Manager
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.AuthHeader, cfg.APIKey))

	// WebSocket
	v1.GET("/ws", cfg.Hub.HandleWS)

	// Persons
	personH := handlers.NewPersonHandler(cfg.DB, cfg.MinIO)
	v1.POST("/persons", personH.Create)
	v1.GET("/persons", personH.List)
	v1.GET("/persons/:id", personH.Get)
	v1.GET("/persons/:id/photo", personH.Photo)
	v1.PATCH("/persons/:id/status", personH.UpdateStatus)

	// Scans
	scanH := handlers.NewScanHandler(cfg.Scans)
	v1.POST("/scans", scanH.Start)
	v1.GET("/scans/current", scanH.Current)
	v1.POST("/scans/current/cancel", scanH.Cancel)
	v1.POST("/scans/current/restart", scanH.Restart)
	v1.DELETE("/scans/current/result", scanH.DismissResult)

	return r
}

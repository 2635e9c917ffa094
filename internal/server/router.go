package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rhyrak/smart-timetable/internal/config"
	"github.com/rhyrak/smart-timetable/internal/logger"
	"github.com/rhyrak/smart-timetable/internal/metrics"
)

// maxUploadMemory bounds the multipart form kept in memory.
const maxUploadMemory = 8 << 20

// NewRouter wires middleware and routes onto a new gin engine.
func NewRouter(h *Handler, m *metrics.Metrics, corsCfg config.CORSConfig, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(gin.Recovery())

	c := cors.DefaultConfig()
	if len(corsCfg.AllowedOrigins) > 0 {
		c.AllowOrigins = corsCfg.AllowedOrigins
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	c.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	c.MaxAge = 12 * time.Hour
	router.Use(cors.New(c))

	router.Use(logger.RequestID())
	router.Use(logger.GinMiddleware(log))
	router.Use(m.Middleware())

	router.GET("/health", h.handleHealth)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	schedules := router.Group("/schedules")
	{
		schedules.POST("", h.handlePostSchedule)
		schedules.GET("", h.handleGetSchedule)
		schedules.GET("/:id", h.handleGetScheduleWithId)
		schedules.GET("/:id/csv", h.handleGetScheduleCSV)
		schedules.GET("/:id/pdf", h.handleGetSchedulePDF)
		schedules.DELETE("/:id", h.handleDeleteSchedule)
	}

	return router
}

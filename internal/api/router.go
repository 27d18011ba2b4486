package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apperrors "github.com/lumora-health/lumora-backend/internal/errors"
	"github.com/lumora-health/lumora-backend/internal/middleware"
	"github.com/lumora-health/lumora-backend/internal/monitoring"
	"github.com/lumora-health/lumora-backend/internal/ratelimit"
	"github.com/lumora-health/lumora-backend/internal/security"
)

var startTime = time.Now()

// NewRouter assembles the gin engine: middleware chain, public routes and the
// authenticated API group.
func NewRouter(
	h *Handlers,
	limiter *ratelimit.RateLimiter,
	secMiddleware *security.SecurityMiddleware,
) *gin.Engine {
	r := gin.New()

	if err := r.SetTrustedProxies(h.cfg.TrustedProxies); err != nil {
		panic(err)
	}

	r.Use(monitoring.RequestIDMiddleware())
	r.Use(monitoring.MonitoringMiddleware(h.metrics, h.logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     h.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))
	r.Use(secMiddleware.SecurityHeaders)
	r.Use(secMiddleware.RequestTimeout)
	r.Use(secMiddleware.ValidateContentType)
	r.Use(secMiddleware.LimitBodySize)
	r.Use(limiter.IPRateLimitMiddleware())

	r.GET("/health", h.Health)

	auth := r.Group("/auth")
	auth.Use(limiter.AuthRateLimitMiddleware())
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	api := r.Group("/api")
	api.Use(RequireAuth(h.users))
	api.Use(h.cache.Middleware(h.metrics, h.logger, "/api/risk/trend", "/api/risk/weekly", "/api/charts/"))
	{
		users := api.Group("/users")
		{
			users.GET("/me", h.GetMe)
			users.PUT("/me", h.UpdateMe)
			users.DELETE("/me", h.DeleteMe)
		}

		contact := api.Group("/emergency-contact")
		{
			contact.PUT("", h.PutEmergencyContact)
			contact.GET("", h.GetEmergencyContact)
			contact.DELETE("", h.DeleteEmergencyContact)
		}

		moods := api.Group("/moods")
		{
			moods.POST("", h.CreateMood)
			moods.GET("", h.ListMoods)
			moods.GET("/stats", h.MoodStats)
		}

		tests := api.Group("/depression-tests")
		{
			tests.POST("", h.CreateDepressionTest)
			tests.GET("", h.ListDepressionTests)
			tests.GET("/:test_id", h.GetDepressionTest)
		}

		risk := api.Group("/risk")
		{
			risk.POST("/predict/:test_id", limiter.ScoringRateLimitMiddleware(), h.PredictForTest)
			risk.GET("/history", h.RiskHistory)
			risk.GET("/latest", h.RiskLatest)
			risk.GET("/trend", h.RiskTrend)
			risk.GET("/weekly", h.RiskWeekly)
		}

		charts := api.Group("/charts")
		{
			charts.GET("/mood", h.MoodChart)
			charts.GET("/risk", h.RiskChart)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.PATCH("/read-all", h.MarkAllNotificationsRead)
			notifications.PATCH("/:notification_id/read", h.MarkNotificationRead)
		}

		alertRoutes := api.Group("/alerts")
		{
			alertRoutes.GET("", h.ListAlerts)
			alertRoutes.PATCH("/:alert_id/read", h.MarkAlertRead)
		}

		api.POST("/chatbot/message", limiter.ChatRateLimitMiddleware(), h.ChatMessage)

		api.GET("/metrics", func(c *gin.Context) {
			c.JSON(http.StatusOK, h.metrics.GetStats())
		})
	}

	return r
}

// Health reports service status: DB reachability and model readiness
func (h *Handlers) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK

	dbHealthy := true
	if err := h.db.HealthCheck(); err != nil {
		dbHealthy = false
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	modelReady := h.models.Ready()
	if !modelReady {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":         status,
		"version":        h.cfg.AppVersion,
		"uptime_seconds": time.Since(startTime).Seconds(),
		"database":       dbHealthy,
		"model_loaded":   modelReady,
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JKhoa/TieuLuanMTK/internal/config"
	"github.com/JKhoa/TieuLuanMTK/internal/handler"
	"github.com/JKhoa/TieuLuanMTK/internal/middleware"
	"github.com/JKhoa/TieuLuanMTK/internal/response"
	"github.com/JKhoa/TieuLuanMTK/internal/web"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student *handler.StudentHandler
	Page    *handler.PageHandler
	Health  *handler.HealthHandler
}

// SetupRouter configures the page, health and student API routes.
// limiter may be nil, in which case writes are not rate limited.
func SetupRouter(
	handlers *Handlers,
	limiter middleware.Limiter,
	cfg *config.Config,
	log zerolog.Logger,
) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// Request ID first so the logger and recovery output can reference it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Brotli())

	// ─── Landing Page ──────────────────────────────────────────────────
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(3600))
	{
		staticGroup.StaticFS("/", http.FS(web.Static()))
	}

	router.GET("/", handlers.Page.Index)
	router.GET("/health", handlers.Health.Health)

	// ─── Student API ───────────────────────────────────────────────────
	writeLimit := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if limiter != nil {
		writeLimit = middleware.RateLimit(limiter, log)
	}

	students := router.Group("/api/students")
	{
		students.GET("", handlers.Student.ListStudents)
		students.GET("/search", handlers.Student.SearchStudents)
		students.GET("/:id", handlers.Student.GetStudent)
		students.POST("", writeLimit, handlers.Student.CreateStudent)
		students.PUT("/:id", writeLimit, handlers.Student.UpdateStudent)
		students.DELETE("/:id", writeLimit, handlers.Student.DeleteStudent)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrRouteNotFound)
	})

	return router, nil
}

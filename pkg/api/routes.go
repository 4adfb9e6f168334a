package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gss/competition-registration/pkg/middleware"
	"github.com/gss/competition-registration/pkg/session"
)

// RouterConfig carries what NewRouter needs to wire the page
type RouterConfig struct {
	Sessions          *session.Store
	PublicURL         string
	SecureCookies     bool
	AllowedOrigins    []string
	MaxRequestsPerMin int
	Logger            *zap.Logger
}

// NewRouter builds the gin engine serving the registration page
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.SetHTMLTemplate(Templates())

	handlers := NewHandlers(cfg.PublicURL, logger)
	limiter := middleware.NewRateLimiter(cfg.MaxRequestsPerMin, logger)

	router.GET("/health", handlers.HealthCheck)

	page := router.Group("/")
	page.Use(middleware.Session(cfg.Sessions, cfg.SecureCookies))
	{
		page.GET("/", handlers.ShowPage)

		actions := page.Group("/", limiter.Middleware())
		actions.POST("/register", handlers.Register)
		actions.POST("/finish", handlers.FinishCompetition)
		actions.POST("/reset", handlers.Reset)
		actions.POST("/copy", handlers.CopyLink)
	}

	return router
}

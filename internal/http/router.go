package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/freelance-backoffice/internal/http/middleware"
)

type RouterDeps struct {
	Handler     *Handler
	Profile     gin.HandlerFunc
	RateLimit   gin.HandlerFunc
	Environment string
	CORSOrigins []string
	Log         zerolog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(deps.Log),
		middleware.Recovery(deps.Log),
		middleware.RequestLogger(deps.Log),
	)
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	deps.Handler.Register(router, deps.Profile, deps.RateLimit)
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.ProfileHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

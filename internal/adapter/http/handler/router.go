package handler

import (
	"atm-server/internal/adapter/http/middleware"
	"atm-server/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Engine         ports.BankingEngine
	Metrics        ports.MetricsSource
	HealthCheckers []ports.HealthChecker
	Limiter        ports.ConnectionLimiter // nil = rate limiting disabled
	MinIDLength    int
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine for the ops endpoint.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimiter(deps.Limiter, deps.Logger))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	ops := NewOpsHandler(deps.Engine, deps.Metrics, deps.MinIDLength)
	r.GET("/metrics", ops.Metrics)
	r.GET("/reserve", ops.Reserve)
	r.GET("/accounts/:id/balance", ops.AccountBalance)

	return r
}

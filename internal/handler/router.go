package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mock_backend/internal/middleware"
	"mock_backend/internal/utils"
)

// RouterConfig holds the settings the HTTP surface depends on
type RouterConfig struct {
	APIPrefix          string
	ReadOnly           bool
	CORSAllowedOrigins []string
	Logger             *zap.Logger
	TokenUtil          *utils.TokenUtil
}

// NewRouter assembles the gin engine and wraps it with the prefix rewrite
// and CORS. The login route is registered under the prefix and exempt from
// the rewrite; every other prefixed path is served by the resource routes.
func NewRouter(cfg RouterConfig, authHandler *AuthHandler, resourceHandler *ResourceHandler, healthHandler *HealthHandler) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Logger, cfg.TokenUtil))

	router.GET("/health", healthHandler.Health)

	apiGroup := router.Group(cfg.APIPrefix)
	authHandler.RegisterAuthRoutes(apiGroup)
	resourceHandler.RegisterResourceRoutes(router, cfg.ReadOnly)

	var h http.Handler = router
	h = middleware.RewritePrefix(cfg.APIPrefix, LoginPath(cfg.APIPrefix))(h)
	h = middleware.CORS(cfg.CORSAllowedOrigins)(h)
	return h
}

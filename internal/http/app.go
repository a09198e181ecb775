package http

import (
	"fixfurn_backend/platform/config"
	"fixfurn_backend/platform/httpkit"
	"fixfurn_backend/platform/logger"
)

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP server and CORS settings.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// ChatRateLimiter throttles the chat endpoint per client IP.
	ChatRateLimiter *httpkit.IPRateLimiter
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}

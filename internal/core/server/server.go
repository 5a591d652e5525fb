// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/aquaflow/copilot/internal/core/config"
)

// HTTPServer manages the fiber application lifecycle.
type HTTPServer struct {
	app    *fiber.App
	config *config.ServerConfig
}

// NewHTTPServer creates the HTTP server with middleware and route registration.
func NewHTTPServer(cfg *config.ServerConfig, handler *Handler) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	app := fiber.New(fiber.Config{
		AppName:               "Aquaflow Copilot",
		DisableStartupMessage: true,
		ReadTimeout:           60 * time.Second,
	})

	// RequestID for audit trails
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))

	handler.Register(app)

	return &HTTPServer{
		app:    app,
		config: cfg,
	}, nil
}

// Start binds the listener and serves requests.
// Blocks until Shutdown is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server, forcing a stop after the
// configured timeout.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	stopped := make(chan error, 1)
	go func() {
		stopped <- s.app.ShutdownWithContext(ctx)
	}()

	select {
	case err := <-stopped:
		if err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case <-time.After(s.config.ShutdownTimeout):
		return fmt.Errorf("graceful shutdown timeout, forced stop")
	}
}

// App exposes the fiber application for tests.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

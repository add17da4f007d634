// Package stub serves a local stand-in for the chat backend, for development
// and demos without the real service.
package stub

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"missionchat/internal/endpoint"
	"missionchat/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const (
	name    = "Mission Control Stub API"
	version = "1.0.0"
)

// Options configures the stub behaviour.
type Options struct {
	Script       *Script
	FailStatus   int    // Non-zero: every /chat answers with this status
	Empty        bool   // /chat answers {} with no response field
	AllowOrigins string // CORS origins, "*" when empty
	Latency      time.Duration
}

// Server is the stub chat backend.
type Server struct {
	app     *fiber.App
	opts    Options
	started time.Time
	served  atomic.Int64
}

// New builds the stub app and registers its routes.
func New(opts Options) *Server {
	if opts.Script == nil {
		opts.Script = DefaultScript()
	}
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               name,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	s := &Server{app: app, opts: opts, started: time.Now()}
	s.registerRoutes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Served returns how many /chat requests were answered.
func (s *Server) Served() int64 {
	return s.served.Load()
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	logging.Get(logging.CategoryStub).Info("stub listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Post("/chat", s.handleChat)
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/system-info", s.handleSystemInfo)
	s.app.Get("/", s.handleIndex)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	log := logging.Get(logging.CategoryStub)

	var req endpoint.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "Query parameter is required"})
	}
	s.served.Add(1)

	if s.opts.Latency > 0 {
		time.Sleep(s.opts.Latency)
	}

	log.Info("chat from %s: %q", defaultUser(req.UserID), req.Query)

	if s.opts.FailStatus != 0 {
		return c.Status(s.opts.FailStatus).JSON(errorResponse{
			Error:   "An error occurred while processing your request",
			Details: "stub configured to fail",
		})
	}
	if s.opts.Empty {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(fiber.Map{"response": s.opts.Script.Reply(req.Query)})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	if s.opts.FailStatus != 0 {
		return c.Status(s.opts.FailStatus).JSON(fiber.Map{"status": endpoint.HealthError})
	}
	return c.JSON(fiber.Map{
		"status": endpoint.HealthOK,
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleSystemInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    name,
		"version": version,
		"rules":   len(s.opts.Script.Replies),
		"served":  s.Served(),
	})
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":    name,
		"version": version,
		"endpoints": []fiber.Map{
			{"path": "/chat", "method": "POST", "description": "Chat with Mission Control", "parameters": []string{"query", "user_id (optional)"}},
			{"path": "/health", "method": "GET", "description": "Liveness probe"},
			{"path": "/system-info", "method": "GET", "description": "Get system information"},
		},
	})
}

func defaultUser(id string) string {
	if id == "" {
		return "api_user"
	}
	return id
}

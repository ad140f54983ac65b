package api

import (
	"context"
	"cool-chat/observability"
	"cool-chat/services"
	"cool-chat/ws"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server exposes the HTTP API and the WebSocket endpoints on one listener.
type Server struct {
	router  *gin.Engine
	server  *http.Server
	auth    services.IAuthService
	chat    services.IChatService
	ws      *ws.Handler
	metrics *observability.Metrics
	health  *observability.HealthMonitor
	// connections reports the number of connected participants
	connections func() int
	log         *slog.Logger
}

type Config struct {
	Addr        string
	Auth        services.IAuthService
	Chat        services.IChatService
	WS          *ws.Handler
	Metrics     *observability.Metrics
	Health      *observability.HealthMonitor
	Connections func() int
	Logger      *slog.Logger
}

func NewServer(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))

	s := &Server{
		router:      router,
		auth:        cfg.Auth,
		chat:        cfg.Chat,
		ws:          cfg.WS,
		metrics:     cfg.Metrics,
		health:      cfg.Health,
		connections: cfg.Connections,
		log:         cfg.Logger,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", gin.WrapF(s.ws.Echo))
	s.router.GET("/ws", gin.WrapF(s.ws.Chat))

	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	authGroup := s.router.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
	}

	rooms := s.router.Group("/rooms", authMiddleware(s.auth))
	{
		rooms.GET("", s.handleRooms)
		rooms.GET("/:id/messages", s.handleMessages)
		rooms.GET("/:id/search", s.handleSearch)
	}
}

func (s *Server) Handler() http.Handler { return s.router }

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, then closes the hijacked WebSocket connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.ws.Close()
	s.log.Info("HTTP server shut down complete")
	return nil
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP())
	}
}

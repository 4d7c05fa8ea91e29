// Package server exposes the engine over a local HTTP API for the launcher
// UI.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackwell-systems/appdex/internal/apps"
	"github.com/blackwell-systems/appdex/internal/engine"
	"github.com/blackwell-systems/appdex/internal/merge"
	"github.com/blackwell-systems/appdex/internal/metrics"
	"github.com/blackwell-systems/appdex/internal/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// Engine is the command surface served over HTTP.
type Engine interface {
	SearchApps(q string) []apps.Record
	GetRecentApps() []apps.Record
	GetIndexStatus() engine.Status
	OpenApp(id string) error
	RefreshAppIndex(force bool) bool
	AddManualApplication(name, path string) (apps.Record, error)
}

// History lists journaled launches.
type History interface {
	RecentLaunches(limit int) ([]*store.LaunchEvent, error)
}

// Config holds server settings.
type Config struct {
	Addr        string
	Development bool
}

// Server wraps the router and the HTTP listener.
type Server struct {
	router  *gin.Engine
	http    *http.Server
	engine  Engine
	history History
	logger  *zap.Logger
}

// New builds the router. history and m may be nil.
func New(cfg Config, eng Engine, history History, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOriginFunc: localOrigin,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Accept", "Origin"},
		MaxAge:          12 * time.Hour,
	}))

	s := &Server{
		router:  router,
		engine:  eng,
		history: history,
		logger:  logger,
	}

	router.GET("/health", s.health)

	api := router.Group("/api")
	api.GET("/apps/search", s.search)
	api.GET("/apps/recent", s.recent)
	api.POST("/apps", s.addManual)
	api.POST("/apps/:id/open", s.open)
	api.GET("/index/status", s.status)
	api.POST("/index/refresh", s.refresh)
	api.GET("/history", s.listHistory)

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) search(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.SearchApps(c.Query("q")))
}

func (s *Server) recent(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.GetRecentApps())
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.GetIndexStatus())
}

func (s *Server) open(c *gin.Context) {
	id := c.Param("id")
	if err := s.engine.OpenApp(id); err != nil {
		if errors.Is(err, engine.ErrAppNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "launched": true})
}

func (s *Server) refresh(c *gin.Context) {
	force := false
	if v := c.Query("force"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "force must be a boolean"})
			return
		}
		force = b
	}
	c.JSON(http.StatusAccepted, gin.H{"scheduled": s.engine.RefreshAppIndex(force)})
}

type addRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (s *Server) addManual(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rec, err := s.engine.AddManualApplication(req.Name, req.Path)
	if err != nil {
		if errors.Is(err, merge.ErrInvalidManualEntry) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

type launchView struct {
	AppID     string    `json:"app_id"`
	AppName   string    `json:"app_name"`
	Path      string    `json:"path"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) listHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	out := []launchView{}
	if s.history == nil {
		c.JSON(http.StatusOK, out)
		return
	}
	events, err := s.history.RecentLaunches(limit)
	if err != nil {
		s.logger.Error("failed to read launch history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, ev := range events {
		out = append(out, launchView{
			AppID:     ev.AppID,
			AppName:   ev.AppName,
			Path:      ev.Path,
			Success:   ev.Success,
			Error:     ev.Error,
			Timestamp: ev.Timestamp,
		})
	}
	c.JSON(http.StatusOK, out)
}

// localOrigin admits the launcher's webview and local development servers.
func localOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "tauri.localhost":
		return true
	}
	return false
}

// requestLogger logs each request at debug level, and failures at warn.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			logger.Warn("request failed", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}

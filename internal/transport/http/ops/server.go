// Package opshttp serves the health and inspection endpoints used by
// deployments: liveness, panel readiness and the server list.
package opshttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"craftybot/internal/gateway/crafty"
	"craftybot/internal/logger"
	"craftybot/internal/pkg/health"

	"github.com/gin-gonic/gin"
)

const (
	defaultAddr    = ":9992"
	checkTimeout   = 5 * time.Second
	shutdownPeriod = 5 * time.Second
)

// Lister is the panel call the health checks need.
type Lister interface {
	ListServers(ctx context.Context) ([]crafty.ServerSummary, error)
}

type Server struct {
	addr   string
	router *gin.Engine
}

type ServerConfig struct {
	Addr   string
	Panel  Lister
	Health func() health.Snapshot // optional
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Panel == nil {
		return nil, errors.New("ops http server requires a panel")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h := &handler{panel: cfg.Panel, health: cfg.Health}
	router.GET("/readyz", h.ready)
	api := router.Group("/api")
	api.GET("/servers", h.servers)
	api.GET("/panel/health", h.panelHealth)

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("ops http listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", c.Request.Method, path, c.Writer.Status(), c.ClientIP(), time.Since(start))
	}
}

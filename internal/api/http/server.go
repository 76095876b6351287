// Package http 提供 CCIP-Read 网关的 HTTP 传输层
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/weisyn/ccip-gateway/internal/api/http/handlers"
	"github.com/weisyn/ccip-gateway/internal/api/http/middleware"
	apitypes "github.com/weisyn/ccip-gateway/internal/api/http/types"
	apiconfig "github.com/weisyn/ccip-gateway/internal/config/api"
	"github.com/weisyn/ccip-gateway/pkg/interfaces/ccip"
)

// idleTimeout 空闲连接超时
const idleTimeout = 60 * time.Second

// ServerDeps HTTP 服务器依赖
type ServerDeps struct {
	HTTP        apiconfig.HTTPConfig
	RoutePrefix string // 已规范化的网关路由前缀
	Gateway     ccip.Gateway
	Logger      *zap.Logger
	Registerer  prometheus.Registerer // nil 时不采集 HTTP 指标
	Gatherer    prometheus.Gatherer   // nil 时不暴露 /metrics
}

// Server HTTP服务器
// 负责网关路由、附加端点以及服务的启动和停止
type Server struct {
	router *gin.Engine
	cfg    apiconfig.HTTPConfig
	logger *zap.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewServer 创建HTTP服务器并注册全部路由
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.NewRequestID().Middleware(),
		middleware.NewLogger(logger).Middleware(),
	)
	if deps.Registerer != nil {
		router.Use(middleware.NewMetrics(deps.Registerer).Middleware())
	}
	router.Use(middleware.Recovery(logger))
	if deps.HTTP.CORSEnabled {
		router.Use(middleware.NewCORS(deps.HTTP.CORSOrigins).Middleware())
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, apitypes.NewErrorResponse("not found"))
	})

	s := &Server{router: router, cfg: deps.HTTP, logger: logger}

	handlers.NewCCIPHandler(deps.Gateway, deps.HTTP.Timeout, deps.HTTP.MaxBodyBytes).
		RegisterRoutes(router, deps.RoutePrefix)

	if deps.HTTP.EnableHealth {
		handlers.NewHealthHandler(deps.Gateway).RegisterRoutes(router)
	}
	if deps.HTTP.EnableMetrics && deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	logger.Debug("HTTP routes registered",
		zap.String("prefix", deps.RoutePrefix),
		zap.Bool("health", deps.HTTP.EnableHealth),
		zap.Bool("metrics", deps.HTTP.EnableMetrics && deps.Gatherer != nil),
		zap.Bool("cors", deps.HTTP.CORSEnabled),
	)
	return s
}

// Router 返回 gin 引擎，嵌入方可在 Start 之前合并自定义路由
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start 监听配置的地址并在后台提供服务
//
// 端口被占用等监听错误会直接返回。
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return errors.New("http server already started")
	}

	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}
	s.httpServer = srv
	s.listener = ln

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP server started", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr 返回实际监听地址，未启动时为空
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 优雅关闭，最长等待 ShutdownTimeout
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown failed", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

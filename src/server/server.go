package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"candle-chart/src/analysis"
	"candle-chart/src/interfaces"
	"candle-chart/src/logger"
	"candle-chart/src/models"
	"candle-chart/src/utils"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

var (
	_ interfaces.IDataExchanger = (*ChartServer)(nil)
	_ interfaces.ISeriesService = (*ChartServer)(nil)
)

type seriesUpdate struct {
	symbol   string
	interval string
	version  uint64
}

// -----------------------------------------------------------------------------
// ChartServer
// -----------------------------------------------------------------------------

type ChartServer struct {
	Config     *models.MConfig
	Store      *utils.SeriesStore
	DB         interfaces.IDatabase
	Timeframes *analysis.Timeframes
	Logger     *logger.Logger
	engine     *gin.Engine
	httpServer *http.Server

	// WebSocket clients, owned by the hub goroutine
	clients    map[*Client]struct{}
	clientsMu  sync.RWMutex
	updates    chan seriesUpdate
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

// NewChartServer builds the HTTP/WebSocket server and subscribes it to store
// changes. db may be nil, in which case imports only reach the store.
func NewChartServer(cfg *models.MConfig, store *utils.SeriesStore, db interfaces.IDatabase, log *logger.Logger) *ChartServer {
	if log == nil {
		log = logger.NewLogger(nil, "ChartServer")
	}
	if strings.ToUpper(cfg.LogLevel) != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &ChartServer{
		Config:     cfg,
		Store:      store,
		DB:         db,
		Timeframes: analysis.NewTimeframes(cfg.Timeframes, logger.NewLogger(nil, "Timeframes")),
		Logger:     log,
		engine:     gin.New(),
		clients:    make(map[*Client]struct{}),
		updates:    make(chan seriesUpdate, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
	s.engine.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		s.engine.Use(gin.Logger())
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	store.OnChange(s.SeriesUpdated)
	go s.runHub()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *ChartServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/config", s.getConfig)
	api.GET("/series", s.listSeries)
	api.GET("/series/:symbol/frame", s.getFrame)
	api.GET("/series/:symbol/export", s.exportSeries)
	api.POST("/series/:symbol/import", s.importSeries)
	api.DELETE("/series/:symbol", s.deleteSeries)
	api.POST("/render", s.renderDocument)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the gin engine, mainly for tests.
func (s *ChartServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start serves HTTP until Stop is called.
func (s *ChartServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop shuts down the HTTP listener and the hub.
func (s *ChartServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			err = s.httpServer.Shutdown(ctx)
		}
	})
	return err
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// SeriesUpdated queues a re-render of every session watching the series.
func (s *ChartServer) SeriesUpdated(symbol, interval string, version uint64) {
	select {
	case s.updates <- seriesUpdate{symbol: symbol, interval: interval, version: version}:
	case <-s.quit:
	}
}

// SessionCount returns the number of connected WebSocket clients.
func (s *ChartServer) SessionCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

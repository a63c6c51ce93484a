package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/video-recap/internal/config"
	"github.com/nguyentantai21042004/video-recap/internal/logger"
	"github.com/nguyentantai21042004/video-recap/internal/media"
	"github.com/nguyentantai21042004/video-recap/internal/processor"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
	logger logger.Logger
}

func NewServer(cfg *config.Config, proc processor.Processor, m media.Media, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(MaxBodySize(cfg.Server.MaxUploadMB << 20))
	engine.Use(CORS())

	api := NewAPI(cfg, proc, m, log)
	registerRoutes(engine, api)

	return &Server{engine: engine, cfg: cfg, logger: log}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info(ctx, "Shutting down HTTP server...")
	return srv.Shutdown(shutdownCtx)
}

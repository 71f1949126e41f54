package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Engine *gin.Engine

	mu  sync.Mutex
	srv *http.Server
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

// Run blocks until the listener fails or Shutdown is called.
func (s *Server) Run(address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		// voice transcription and AI calls hold the response open
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  90 * time.Second,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

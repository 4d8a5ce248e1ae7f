package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// Hit is one request received by a Server.
type Hit struct {
	Method string
	Path   string
	Query  string
}

// Server is a gin engine in test mode behind an httptest server. It records
// every request it receives.
type Server struct {
	engine *gin.Engine
	srv    *httptest.Server

	mu   sync.Mutex
	hits []Hit
}

// NewServer creates a server; routes registers its handlers. The server
// listens once started.
func NewServer(routes func(r *gin.Engine)) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.record)
	if routes != nil {
		routes(s.engine)
	}
	return s
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.hits = append(s.hits, Hit{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
	})
	s.mu.Unlock()
	c.Next()
}

// Engine returns the underlying gin engine.
func (s *Server) Engine() *gin.Engine { return s.engine }

// URL returns the base URL, empty until the server is started.
func (s *Server) URL() string {
	if s.srv == nil {
		return ""
	}
	return s.srv.URL
}

// Hits returns the recorded requests.
func (s *Server) Hits() []Hit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Hit, len(s.hits))
	copy(out, s.hits)
	return out
}

func (s *Server) Name() string { return "gin-server" }

// Start begins listening on a loopback port.
func (s *Server) Start(ctx context.Context) error {
	if s.srv != nil {
		return fmt.Errorf("testutil: server already started")
	}
	s.srv = httptest.NewServer(s.engine)
	return nil
}

// Stop closes the listener and blocks until outstanding requests finish.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	s.srv.Close()
	s.srv = nil
	return nil
}

// Reset clears the recorded requests.
func (s *Server) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.hits = nil
	s.mu.Unlock()
	return nil
}

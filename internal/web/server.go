package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mihirvv/jobassist/internal/agent"
	"github.com/mihirvv/jobassist/internal/llm"
	"github.com/mihirvv/jobassist/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Engine provides a working model handle plus status snapshots. The resolver
// implements this through resolverEngine; tests substitute fakes.
type Engine interface {
	Completer(ctx context.Context) (agent.Completer, error)
	Status() llm.Status
	HealthCheck(ctx context.Context) llm.HealthSummary
}

// resolverEngine adapts *llm.Resolver to the Engine interface.
type resolverEngine struct {
	resolver *llm.Resolver
}

// NewResolverEngine wraps a resolver for use by the web server.
func NewResolverEngine(r *llm.Resolver) Engine {
	return resolverEngine{resolver: r}
}

func (e resolverEngine) Completer(ctx context.Context) (agent.Completer, error) {
	// Initialize is a no-op once the resolver is ready, so a server that
	// started while Ollama was down keeps retrying on demand.
	if err := e.resolver.Initialize(ctx); err != nil {
		return nil, err
	}
	handle, err := e.resolver.Handle()
	if err != nil {
		return nil, err
	}
	return handle, nil
}

func (e resolverEngine) Status() llm.Status { return e.resolver.Status() }

func (e resolverEngine) HealthCheck(ctx context.Context) llm.HealthSummary {
	return e.resolver.HealthCheck(ctx)
}

// Server exposes the assistant over HTTP: a form UI plus a JSON API.
type Server struct {
	engine  Engine
	fetcher model.PostingFetcher
	store   model.SessionStore
	logger  *slog.Logger
	router  *gin.Engine
}

// NewServer builds the HTTP server. fetcher may be nil to disable URL
// scraping (text-only intake); store may be nil to disable persistence.
func NewServer(engine Engine, fetcher model.PostingFetcher, store model.SessionStore, logger *slog.Logger) *Server {
	s := &Server{
		engine:  engine,
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(s.requestLogger(), gin.Recovery())

	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.index)

	api := router.Group("/api")
	{
		api.GET("/status", s.status)
		api.POST("/health", s.health)
		api.POST("/apply", s.apply)
		api.POST("/interview", s.interview)
		api.GET("/sessions", s.sessions)
	}

	s.router = router
	return s
}

// Handler exposes the router for tests and custom server setups.
func (s *Server) Handler() http.Handler { return s.router }

// Run starts the HTTP server and blocks until it fails or ctx is cancelled.
// In-flight requests get a short grace period on shutdown.
func (s *Server) Run(ctx context.Context, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{Addr: addr, Handler: s.router}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("web server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger records one slog line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"estatehub/internal/cache"
	"estatehub/internal/domain/favorite"
	"estatehub/internal/domain/property"
	"estatehub/internal/middleware"
	"estatehub/internal/pkg/response"
)

// Deps - всё, что нужно для сборки HTTP слоя
type Deps struct {
	DB         *gorm.DB
	Catalog    *cache.Namespace
	Log        *slog.Logger
	CORSOrigin string
	Release    bool
}

// Migrate creates or updates both tables. Properties go first because
// favorites reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&property.Property{}, &favorite.Favorite{})
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(deps.Log),
		middleware.RequestLogger(deps.Log),
		middleware.CORS(deps.CORSOrigin),
	)

	propertyService := property.NewService(property.NewRepository(deps.DB), deps.Catalog, deps.Log)
	propertyHandler := property.NewHandler(propertyService, deps.Log)

	favoriteService := favorite.NewService(favorite.NewRepository(deps.DB), deps.Log)
	favoriteHandler := favorite.NewHandler(favoriteService)

	r.GET("/health", health)

	api := r.Group("/api")
	{
		propertyHandler.RegisterRoutes(api)
		favoriteHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Route not found")
	})

	return r
}

// HealthResponse is served as-is, without the envelope.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "OK", Timestamp: time.Now().UTC()})
}

// Server is an http.Server that stops when its context is cancelled.
type Server struct {
	srv             *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
}

func New(addr string, handler http.Handler, log *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log:             log,
		shutdownTimeout: 10 * time.Second,
	}
}

// Run blocks until the listener fails or ctx is done, then drains
// in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

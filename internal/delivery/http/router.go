package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/elis-elis/bestbuy/internal/config"
	"github.com/elis-elis/bestbuy/internal/delivery/http/handler"
	"github.com/elis-elis/bestbuy/internal/delivery/http/middleware"
	"github.com/elis-elis/bestbuy/internal/delivery/http/response"
	"github.com/elis-elis/bestbuy/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	catalogHandler *handler.CatalogHandler
	orderHandler   *handler.OrderHandler
	logger         *logger.Logger
	cfg            *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	catalogHandler *handler.CatalogHandler,
	orderHandler *handler.OrderHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		catalogHandler: catalogHandler,
		orderHandler:   orderHandler,
		logger:         log,
		cfg:            cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", rt.catalogHandler.List)
			r.Post("/", rt.catalogHandler.Create)
			r.Get("/total-quantity", rt.catalogHandler.TotalQuantity)
			r.Get("/{id}", rt.catalogHandler.GetByID)
			r.Delete("/{id}", rt.catalogHandler.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", rt.orderHandler.Create)
			r.Post("/preview", rt.orderHandler.Preview)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

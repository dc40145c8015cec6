package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atlasvoyages/quotation-api/internal/config"
	"github.com/atlasvoyages/quotation-api/internal/database"
	"github.com/atlasvoyages/quotation-api/internal/http/handler"
	"github.com/atlasvoyages/quotation-api/internal/http/middleware"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	rateLimiter      *middleware.RateLimiter
	inquiryHandler   *handler.InquiryHandler
	quotationHandler *handler.QuotationHandler
	itineraryHandler *handler.ItineraryHandler
	catalogHandler   *handler.CatalogHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	inquiryHandler *handler.InquiryHandler,
	quotationHandler *handler.QuotationHandler,
	itineraryHandler *handler.ItineraryHandler,
	catalogHandler *handler.CatalogHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		rateLimiter:      rateLimiter,
		inquiryHandler:   inquiryHandler,
		quotationHandler: quotationHandler,
		itineraryHandler: itineraryHandler,
		catalogHandler:   catalogHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Inquiries
		r.Route("/inquiries", func(r chi.Router) {
			r.Get("/", rt.inquiryHandler.List)
			r.Post("/", rt.inquiryHandler.Create)
			r.Get("/{id}", rt.inquiryHandler.GetByID)
			r.Put("/{id}", rt.inquiryHandler.Update)

			// Quotation versions of an inquiry
			r.Get("/{id}/quotations", rt.quotationHandler.ListByInquiry)
			r.Post("/{id}/quotations", rt.quotationHandler.CreateVersion)
		})

		// Quotations
		r.Route("/quotations", func(r chi.Router) {
			r.Get("/{id}", rt.quotationHandler.GetByID)
			r.Put("/{id}/configuration", rt.quotationHandler.UpdateConfiguration)
			r.Get("/{id}/breakdown", rt.quotationHandler.GetBreakdown)

			// Lifecycle endpoints
			r.Post("/{id}/send", rt.quotationHandler.Send)
			r.Post("/{id}/accept", rt.quotationHandler.Accept)
			r.Post("/{id}/reject", rt.quotationHandler.Reject)
			r.Post("/{id}/expire", rt.quotationHandler.Expire)
			r.Post("/{id}/clone", rt.quotationHandler.Clone)

			// Itinerary structure
			r.Post("/{id}/days", rt.itineraryHandler.AddDay)
			r.Post("/{id}/days/regenerate", rt.itineraryHandler.RegenerateDays)
			r.Put("/{id}/days/{dayNumber}", rt.itineraryHandler.UpdateDay)
			r.Delete("/{id}/days/{dayNumber}", rt.itineraryHandler.RemoveDay)
			r.Post("/{id}/days/{dayNumber}/items", rt.itineraryHandler.AddLineItem)
			r.Delete("/{id}/items/{itemId}", rt.itineraryHandler.RemoveLineItem)
		})

		// Rate catalog
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", rt.catalogHandler.List)
			r.Post("/", rt.catalogHandler.Create)
			r.Get("/search", rt.catalogHandler.Search)
		})
	})

	return r
}

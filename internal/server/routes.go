package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blockrank/internal/db"
	"blockrank/internal/handlers/api"
	"blockrank/internal/jobs"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, runner api.Runner, scheduler *jobs.Scheduler) {
	// Initialize handlers
	keywordHandler := api.NewKeywordHandler(database)
	measurementHandler := api.NewMeasurementHandler(database, runner)
	schedulerHandler := api.NewSchedulerHandler(scheduler)
	healthHandler := api.NewHealthHandler(database)

	// Health and metrics
	s.App.Get("/api/healthz", healthHandler.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Keyword management
	s.App.Post("/api/keywords", keywordHandler.Create)
	s.App.Get("/api/keywords", keywordHandler.List)
	s.App.Get("/api/keywords/:id", keywordHandler.Get)
	s.App.Patch("/api/keywords/:id/active", keywordHandler.SetActive)
	s.App.Delete("/api/keywords/:id", keywordHandler.Delete)

	// Measurements
	s.App.Post("/api/keywords/:id/measure", measurementHandler.MeasureNow)
	s.App.Get("/api/keywords/:id/measurements", measurementHandler.History)
	s.App.Get("/api/keywords/:id/rank-change", measurementHandler.RankChange)

	// Scheduler
	s.App.Get("/api/scheduler/status", schedulerHandler.Status)
	s.App.Post("/api/scheduler/trigger/:cadence", schedulerHandler.Trigger)
}

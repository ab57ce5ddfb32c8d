// Package server exposes the fuel stop planner over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/rubiojr/fuelstops/internal/fuelstops"
	"github.com/rubiojr/fuelstops/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Planner computes a plan for one request.
type Planner interface {
	Plan(ctx context.Context, req fuelstops.PlanRequest) (*fuelstops.PlanningResult, error)
}

// PriceIndex is the read-only price table view served by /prices and /health.
type PriceIndex interface {
	fuelstops.PriceLookup
	Matches(token string) int
	Len() int
}

type Options struct {
	DefaultMaxRange float64
	// RateLimit is requests per minute per client IP on the planning API;
	// 0 disables it.
	RateLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	planner  Planner
	prices   PriceIndex
	opts     Options
	logger   *httplog.Logger
	log      *slog.Logger
	validate *validator.Validate
}

func New(planner Planner, prices PriceIndex, logger *httplog.Logger, opts Options) *Server {
	return &Server{
		planner:  planner,
		prices:   prices,
		opts:     opts,
		logger:   logger,
		log:      logger.Logger,
		validate: newValidator(),
	}
}

// Routes returns the HTTP handler with all middleware installed.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
		}
		r.Post("/fuel-stops", s.handleFuelStops)
		r.Get("/prices", s.handlePrices)
	})

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("error shutting down server: %w", err)
		}
		return nil
	}
}

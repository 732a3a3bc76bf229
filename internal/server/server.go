// Package server exposes the calculators and exporters as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/config"
	"goContractorPay/internal/taxyear"
)

const shutdownTimeout = 5 * time.Second

// Server routes API requests to calculators. It holds no mutable state, so
// requests are served concurrently without locking.
type Server struct {
	cfg    config.Config
	year   *taxyear.Config
	calc   *calculator.Calculator
	logger *slog.Logger
	router chi.Router
}

// New builds a server using year when a request does not name a tax year.
// A nil year selects the default preset and a nil logger discards logs.
func New(cfg config.Config, year *taxyear.Config, logger *slog.Logger) *Server {
	if year == nil {
		year = taxyear.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:    cfg,
		year:   year,
		calc:   calculator.New(year),
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(RequestID)
	router.Use(Logger(s.logger))
	router.Use(chimw.Recoverer)
	router.Use(BodyLimit(s.cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/tax-years", s.handleTaxYears)
		r.Post("/umbrella", s.handleUmbrella)
		r.Post("/ltd", s.handleLtd)
		r.Post("/compare", s.handleCompare)
		r.Post("/sweep", s.handleSweep)
		r.Post("/export/{format}", s.handleExport)
	})

	return router
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// calculatorFor returns the calculator for a requested tax year, or the
// server's own when name is empty.
func (s *Server) calculatorFor(name string) (*calculator.Calculator, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, s.year.Name) {
		return s.calc, nil
	}
	year, err := taxyear.Lookup(name)
	if err != nil {
		return nil, err
	}
	return calculator.New(year), nil
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled, then shuts down
// gracefully, waiting up to five seconds for requests in flight.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	s.logger.Info("server listening", "addr", listener.Addr().String(), "tax_year", s.year.Label())

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
	s.logger.Info("server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

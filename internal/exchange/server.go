// Package exchange wires the HTTP front door of the exchange service.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"

	"ton-exchange/internal/exchange/handlers"
	"ton-exchange/internal/exchange/middleware"
	"ton-exchange/pkg/logging"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func New(
	cfg Config,
	rate decimal.Decimal,
	paymentCreationService handlers.PaymentCreationService,
	reconciliationService handlers.ReconciliationService,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: createMux(
			rate,
			paymentCreationService,
			reconciliationService,
			logger,
		),
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	rate decimal.Decimal,
	paymentCreationService handlers.PaymentCreationService,
	reconciliationService handlers.ReconciliationService,
	logger *logging.ZapLogger,
) *chi.Mux {

	healthHandler := handlers.NewHealthHandler(rate, logger)
	priceHandler := handlers.NewPriceGettingHandler(rate, logger)
	paymentCreationHandler := handlers.NewPaymentCreationHandler(paymentCreationService, logger)
	paymentCheckHandler := handlers.NewPaymentCheckHandler(reconciliationService, logger)
	paymentRefreshHandler := handlers.NewPaymentRefreshHandler(reconciliationService, logger)

	router := chi.NewRouter()

	router.Use(middleware.NewLoggerContext().CreateHandler)
	router.Use(middleware.NewPanicRecover(logger).CreateHandler)
	router.Use(cors.Handler(cors.Options{
		AllowOriginFunc: allowFrontEndOrigin,
		AllowedMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:  []string{"Content-Type"},
	}))

	router.Get("/", healthHandler.ServeHTTP)
	router.Get("/ton-price", priceHandler.ServeHTTP)
	router.Post("/create-payment", paymentCreationHandler.ServeHTTP)
	router.Get("/check-payment", paymentCheckHandler.ServeHTTP)
	router.Post("/refresh-payment", paymentRefreshHandler.ServeHTTP)

	return router
}

// The front end is a static page, so any localhost port and the common
// static hosting domains are allowed.
func allowFrontEndOrigin(r *http.Request, origin string) bool {
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:") {
		return true
	}
	if !strings.HasPrefix(origin, "https://") {
		return false
	}
	for _, suffix := range []string{".github.io", ".pages.dev", ".vercel.app", ".netlify.app"} {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/auth"
	"github.com/heartmarshall/creditdispute-backend/internal/calendar"
	"github.com/heartmarshall/creditdispute-backend/internal/config"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
	"github.com/heartmarshall/creditdispute-backend/internal/service/planner"
	"github.com/heartmarshall/creditdispute-backend/internal/service/portfolio"
	"github.com/heartmarshall/creditdispute-backend/internal/service/report"
	"github.com/heartmarshall/creditdispute-backend/internal/transport/loader"
	"github.com/heartmarshall/creditdispute-backend/internal/transport/middleware"
	"github.com/heartmarshall/creditdispute-backend/internal/transport/rest"
)

// Run is the server entry point. It loads configuration, opens storage,
// wires services and serves HTTP until ctx is cancelled, then shuts down
// gracefully within cfg.Server.ShutdownTimeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	clock := clockwork.NewRealClock()

	store, err := OpenStorage(ctx, cfg, clock)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	engine, err := NewEngine(cfg, store, clock, logger)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(store.Pinger, store.Driver, BuildVersion()),
		Disputes:  rest.NewDisputeHandler(engine.Disputes, engine.Planner, logger),
		Portfolio: rest.NewPortfolioHandler(engine.Reports, engine.Portfolio, logger),
	}, middleware.Chain(
		middleware.Auth(auth.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer), logger),
		limiter.Limit(cfg.Server.RateLimit),
		loader.Middleware(store.Items),
	))

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// Engine holds the wired domain services.
type Engine struct {
	Disputes  *dispute.Service
	Planner   *planner.Service
	Portfolio *portfolio.Service
	Reports   *report.Service
	Policy    lifecycle.Policy
}

// NewEngine builds the services from configuration over store.
func NewEngine(cfg *config.Config, store *Storage, clock clockwork.Clock, logger *slog.Logger) (*Engine, error) {
	windows, err := lifecycle.NewWindows(
		cfg.Lifecycle.DefaultWindowDays,
		calendar.Unit(cfg.Lifecycle.WindowUnit),
		cfg.Lifecycle.WindowOverrides,
	)
	if err != nil {
		return nil, fmt.Errorf("response windows: %w", err)
	}
	policy := lifecycle.NewPolicy(cfg.Lifecycle.UpcomingDays, cfg.Lifecycle.EscalationResponses).
		WithEscalationLetters(cfg.Lifecycle.BureauEscalation, cfg.Lifecycle.FurnisherEscalation)
	letters := NewLetterGenerator(cfg.Letters, logger)

	return &Engine{
		Disputes: dispute.NewService(logger, store.Disputes, store.Items, letters, windows, policy, clock),
		Planner: planner.NewService(logger, store.Items, store.Disputes, letters, store.Tx, policy, clock, planner.Config{
			MaxItems:        cfg.Planner.MaxItems,
			AccountLetters:  cfg.Planner.AccountLetters,
			CollectionTypes: cfg.Planner.CollectionTypes,
		}),
		Portfolio: portfolio.NewService(logger, store.Items, store.Disputes, store.Reports, store.Users, policy, clock, portfolio.Config{
			AttentionLimit: cfg.Portfolio.AttentionLimit,
			TrendMonths:    cfg.Portfolio.TrendMonths,
		}),
		Reports: report.NewService(logger, store.Reports, store.Items, store.Tx, clock),
		Policy:  policy,
	}, nil
}

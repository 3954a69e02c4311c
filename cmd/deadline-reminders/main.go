// Command deadline-reminders notifies users about mailed disputes whose
// response deadline has passed or falls within the lookahead window. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine.
//
// Exit codes: 0 = success, 1 = error (including failed deliveries).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/app"
	"github.com/heartmarshall/creditdispute-backend/internal/config"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
	"github.com/heartmarshall/creditdispute-backend/internal/service/reminder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	clock := clockwork.NewRealClock()

	store, err := app.OpenStorage(ctx, cfg, clock)
	if err != nil {
		logger.Error("open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	policy := lifecycle.NewPolicy(cfg.Lifecycle.UpcomingDays, cfg.Lifecycle.EscalationResponses).
		WithEscalationLetters(cfg.Lifecycle.BureauEscalation, cfg.Lifecycle.FurnisherEscalation)
	svc := reminder.NewService(logger, store.Disputes, reminder.NewLogNotifier(logger), policy, clock, cfg.Reminder.LookaheadDays)

	res, err := svc.Run(ctx)
	if err != nil {
		logger.Error("reminder run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("reminder run completed",
		slog.Int("scanned", res.Scanned),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
	if res.Failed > 0 {
		os.Exit(1)
	}
}

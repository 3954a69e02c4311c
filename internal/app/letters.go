package app

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/creditdispute-backend/internal/adapter/provider/lettergen"
	"github.com/heartmarshall/creditdispute-backend/internal/config"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// LetterGenerator produces dispute letter content.
type LetterGenerator interface {
	Generate(ctx context.Context, item *domain.NegativeItem, letterType domain.LetterType, target domain.Target) (string, error)
}

// NewLetterGenerator returns the HTTP client when cfg.BaseURL is set and the
// built-in template generator otherwise.
func NewLetterGenerator(cfg config.LettersConfig, logger *slog.Logger) LetterGenerator {
	if cfg.BaseURL == "" {
		logger.Info("letter generator: built-in templates")
		return lettergen.NewTemplate()
	}
	logger.Info("letter generator: remote", slog.String("base_url", cfg.BaseURL))
	return lettergen.NewClient(lettergen.ClientConfig{
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
	}, logger)
}

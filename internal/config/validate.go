package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0 (got %d)", c.Server.RateLimit)
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be postgres or memory (got %q)", c.Storage.Driver)
	}

	if err := c.Lifecycle.validate(); err != nil {
		return fmt.Errorf("lifecycle: %w", err)
	}
	if err := c.Planner.validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	if c.Portfolio.AttentionLimit <= 0 {
		return fmt.Errorf("portfolio.attention_limit must be > 0 (got %d)", c.Portfolio.AttentionLimit)
	}
	if c.Portfolio.TrendMonths <= 0 || c.Portfolio.TrendMonths > 24 {
		return fmt.Errorf("portfolio.trend_months must be between 1 and 24 (got %d)", c.Portfolio.TrendMonths)
	}
	if c.Reminder.LookaheadDays < 0 {
		return fmt.Errorf("reminder.lookahead_days must be >= 0 (got %d)", c.Reminder.LookaheadDays)
	}

	return nil
}

func (l *LifecycleConfig) validate() error {
	if l.DefaultWindowDays <= 0 {
		return fmt.Errorf("default_window_days must be > 0 (got %d)", l.DefaultWindowDays)
	}
	if l.WindowUnit != "calendar" && l.WindowUnit != "business" {
		return fmt.Errorf("window_unit must be calendar or business (got %q)", l.WindowUnit)
	}
	if l.UpcomingDays <= 0 {
		return fmt.Errorf("upcoming_days must be > 0 (got %d)", l.UpcomingDays)
	}

	overrides, err := ParseWindowOverrides(l.WindowOverridesRaw)
	if err != nil {
		return fmt.Errorf("window_overrides: %w", err)
	}
	l.WindowOverrides = overrides

	responses, err := ParseResponseTypes(l.EscalationResponsesRaw)
	if err != nil {
		return fmt.Errorf("escalation_responses: %w", err)
	}
	l.EscalationResponses = responses

	if l.BureauEscalation, err = parseLetterType(l.BureauEscalationRaw); err != nil {
		return fmt.Errorf("bureau_escalation_letter: %w", err)
	}
	if l.FurnisherEscalation, err = parseLetterType(l.FurnisherEscalationRaw); err != nil {
		return fmt.Errorf("furnisher_escalation_letter: %w", err)
	}

	return nil
}

func (p *PlannerConfig) validate() error {
	if p.MaxItems <= 0 {
		return fmt.Errorf("max_items must be > 0 (got %d)", p.MaxItems)
	}

	letters, err := ParseAccountLetters(p.AccountLettersRaw)
	if err != nil {
		return fmt.Errorf("account_letters: %w", err)
	}
	p.AccountLetters = letters

	types, err := ParseAccountTypes(p.CollectionTypesRaw)
	if err != nil {
		return fmt.Errorf("collection_types: %w", err)
	}
	p.CollectionTypes = types

	return nil
}

// ParseWindowOverrides parses "KEY=DAYS" pairs separated by commas, e.g.
// "DEBT_VALIDATION=30,GOODWILL/FURNISHER=45". A key is a letter type, a
// target, or "LETTER_TYPE/TARGET". An empty string returns an empty map.
func ParseWindowOverrides(raw string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range splitList(raw) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: want KEY=DAYS", pair)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if !validWindowKey(key) {
			return nil, fmt.Errorf("invalid key %q", key)
		}
		days, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid days for %q: %w", key, err)
		}
		if days <= 0 {
			return nil, fmt.Errorf("days for %q must be > 0 (got %d)", key, days)
		}
		out[key] = days
	}
	return out, nil
}

func validWindowKey(key string) bool {
	if letter, target, scoped := strings.Cut(key, "/"); scoped {
		return domain.LetterType(letter).IsValid() && domain.Target(target).IsValid()
	}
	return domain.LetterType(key).IsValid() || domain.Target(key).IsValid()
}

// ParseResponseTypes parses a comma-separated list of response types.
func ParseResponseTypes(raw string) ([]domain.ResponseType, error) {
	var out []domain.ResponseType
	for _, p := range splitList(raw) {
		rt := domain.ResponseType(strings.ToUpper(p))
		if !rt.IsValid() {
			return nil, fmt.Errorf("unknown response type %q", p)
		}
		out = append(out, rt)
	}
	return out, nil
}

// ParseAccountTypes parses a comma-separated list of account types.
func ParseAccountTypes(raw string) ([]domain.AccountType, error) {
	var out []domain.AccountType
	for _, p := range splitList(raw) {
		at := domain.AccountType(strings.ToUpper(p))
		if !at.IsValid() {
			return nil, fmt.Errorf("unknown account type %q", p)
		}
		out = append(out, at)
	}
	return out, nil
}

// ParseAccountLetters parses "ACCOUNT_TYPE=LETTER_TYPE" pairs separated by commas.
func ParseAccountLetters(raw string) (map[domain.AccountType]domain.LetterType, error) {
	out := make(map[domain.AccountType]domain.LetterType)
	for _, pair := range splitList(raw) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q: want ACCOUNT_TYPE=LETTER_TYPE", pair)
		}
		at := domain.AccountType(strings.ToUpper(strings.TrimSpace(key)))
		if !at.IsValid() {
			return nil, fmt.Errorf("unknown account type %q", key)
		}
		lt, err := parseLetterType(value)
		if err != nil {
			return nil, err
		}
		out[at] = lt
	}
	return out, nil
}

func parseLetterType(raw string) (domain.LetterType, error) {
	lt := domain.LetterType(strings.ToUpper(strings.TrimSpace(raw)))
	if !lt.IsValid() {
		return "", fmt.Errorf("unknown letter type %q", raw)
	}
	return lt, nil
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

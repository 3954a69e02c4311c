package config

import (
	"time"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Planner   PlannerConfig   `yaml:"planner"`
	Portfolio PortfolioConfig `yaml:"portfolio"`
	Letters   LettersConfig   `yaml:"letters"`
	Reminder  ReminderConfig  `yaml:"reminder"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RateLimit is the per-user request budget per minute on /api routes. 0 disables limiting.
	RateLimit int `yaml:"rate_limit" env:"SERVER_RATE_LIMIT" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"    env:"DATABASE_CONNECT_TIMEOUT"    env-default:"5s"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"creditdispute"`
}

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// StorageConfig selects the store backing the repositories.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"creditdispute"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LifecycleConfig holds response window and urgency parameters.
type LifecycleConfig struct {
	DefaultWindowDays      int    `yaml:"default_window_days"         env:"LIFECYCLE_DEFAULT_WINDOW_DAYS"         env-default:"30"`
	WindowUnit             string `yaml:"window_unit"                 env:"LIFECYCLE_WINDOW_UNIT"                 env-default:"calendar"`
	WindowOverridesRaw     string `yaml:"window_overrides"            env:"LIFECYCLE_WINDOW_OVERRIDES"`
	UpcomingDays           int    `yaml:"upcoming_days"               env:"LIFECYCLE_UPCOMING_DAYS"               env-default:"7"`
	EscalationResponsesRaw string `yaml:"escalation_responses"        env:"LIFECYCLE_ESCALATION_RESPONSES"        env-default:"VERIFIED,VERIFIED_NO_PROOF,FRIVOLOUS,STALL_LETTER"`
	BureauEscalationRaw    string `yaml:"bureau_escalation_letter"    env:"LIFECYCLE_BUREAU_ESCALATION_LETTER"    env-default:"METHOD_OF_VERIFICATION"`
	FurnisherEscalationRaw string `yaml:"furnisher_escalation_letter" env:"LIFECYCLE_FURNISHER_ESCALATION_LETTER" env-default:"INTENT_TO_SUE"`

	// WindowOverrides is parsed from WindowOverridesRaw during validation.
	// Keys are upper-cased "LETTER_TYPE/TARGET", "LETTER_TYPE" or "TARGET".
	WindowOverrides map[string]int `yaml:"-" env:"-"`
	// EscalationResponses is parsed from EscalationResponsesRaw during validation.
	EscalationResponses []domain.ResponseType `yaml:"-" env:"-"`
	// BureauEscalation and FurnisherEscalation are parsed during validation.
	BureauEscalation    domain.LetterType `yaml:"-" env:"-"`
	FurnisherEscalation domain.LetterType `yaml:"-" env:"-"`
}

// PlannerConfig holds letter selection parameters.
type PlannerConfig struct {
	MaxItems           int    `yaml:"max_items"        env:"PLANNER_MAX_ITEMS"        env-default:"100"`
	AccountLettersRaw  string `yaml:"account_letters"  env:"PLANNER_ACCOUNT_LETTERS"  env-default:"COLLECTION=DEBT_VALIDATION,MEDICAL=DEBT_VALIDATION,LATE_PAYMENT=GOODWILL"`
	CollectionTypesRaw string `yaml:"collection_types" env:"PLANNER_COLLECTION_TYPES" env-default:"COLLECTION,MEDICAL,CHARGE_OFF"`

	// AccountLetters is parsed from AccountLettersRaw during validation.
	AccountLetters map[domain.AccountType]domain.LetterType `yaml:"-" env:"-"`
	// CollectionTypes is parsed from CollectionTypesRaw during validation.
	CollectionTypes []domain.AccountType `yaml:"-" env:"-"`
}

// PortfolioConfig holds snapshot parameters.
type PortfolioConfig struct {
	AttentionLimit int `yaml:"attention_limit" env:"PORTFOLIO_ATTENTION_LIMIT" env-default:"5"`
	TrendMonths    int `yaml:"trend_months"    env:"PORTFOLIO_TREND_MONTHS"    env-default:"6"`
}

// LettersConfig holds letter generator settings. An empty BaseURL selects
// the built-in template generator.
type LettersConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"LETTERS_BASE_URL"`
	Timeout        time.Duration `yaml:"timeout"         env:"LETTERS_TIMEOUT"         env-default:"10s"`
	MaxRetries     uint64        `yaml:"max_retries"     env:"LETTERS_MAX_RETRIES"     env-default:"3"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"LETTERS_INITIAL_BACKOFF" env-default:"200ms"`
}

// ReminderConfig holds deadline reminder job settings.
type ReminderConfig struct {
	LookaheadDays int `yaml:"lookahead_days" env:"REMINDER_LOOKAHEAD_DAYS" env-default:"7"`
}

package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full environment surface of the service. Parsed once at
// startup and validated before anything else spins up.
type Config struct {
	Issuer string `env:"GATEKEEPER_ISSUER" envDefault:"gatekeeper"`

	// Provider app credentials and endpoints. The URL overrides exist for
	// GitHub Enterprise deployments and tests.
	GitHubClientID     string `env:"GATEKEEPER_GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GATEKEEPER_GITHUB_CLIENT_SECRET"`
	GitHubAuthURL      string `env:"GATEKEEPER_GITHUB_AUTH_URL" envDefault:"https://github.com/login/oauth/authorize"`
	GitHubTokenURL     string `env:"GATEKEEPER_GITHUB_TOKEN_URL" envDefault:"https://github.com/login/oauth/access_token"`
	GitHubAPIBaseURL   string `env:"GATEKEEPER_GITHUB_API_BASE_URL" envDefault:"https://api.github.com"`

	// CallbackURL is this service's own callback address, registered with
	// the provider app. Never caller-controlled.
	CallbackURL string `env:"GATEKEEPER_CALLBACK_URL"`

	RequiredScopes   []string          `env:"GATEKEEPER_REQUIRED_SCOPES" envDefault:"public_repo,user:email"`
	ScopeEquivalents map[string]string `env:"GATEKEEPER_SCOPE_EQUIVALENTS" envKeyValSeparator:"=" envDefault:"public_repo=repo,user:email=user"`

	AllowedRedirectHosts  []string `env:"GATEKEEPER_ALLOWED_REDIRECT_HOSTS"`
	InsufficientAccessURL string   `env:"GATEKEEPER_INSUFFICIENT_ACCESS_URL"`

	StateTTL time.Duration `env:"GATEKEEPER_STATE_TTL" envDefault:"30m"`
	TokenTTL time.Duration `env:"GATEKEEPER_TOKEN_TTL" envDefault:"24h"`

	DatabaseFile string `env:"GATEKEEPER_DATABASE_FILE" envDefault:"gatekeeper.db"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot possibly work. Defaults keep
// dev setups running; the provider credentials have no sane default.
func (c Config) Validate() error {
	if c.GitHubClientID == "" || c.GitHubClientSecret == "" {
		return fmt.Errorf("GATEKEEPER_GITHUB_CLIENT_ID and GATEKEEPER_GITHUB_CLIENT_SECRET are required")
	}
	if c.CallbackURL == "" {
		return fmt.Errorf("GATEKEEPER_CALLBACK_URL is required")
	}
	if c.InsufficientAccessURL == "" {
		return fmt.Errorf("GATEKEEPER_INSUFFICIENT_ACCESS_URL is required")
	}
	if c.StateTTL <= 0 {
		return fmt.Errorf("GATEKEEPER_STATE_TTL must be positive")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("GATEKEEPER_TOKEN_TTL must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number")
	}
	return nil
}

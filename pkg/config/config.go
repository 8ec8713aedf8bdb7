package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"nicolive-terminal/pkg/nicolive"
)

// Config is the on-disk configuration. It never holds a password or a
// session token; those come from the environment or a prompt.
type Config struct {
	Account   AccountConfig      `toml:"account"`
	Endpoints nicolive.Endpoints `toml:"endpoints"`
	HTTP      HTTPConfig         `toml:"http"`
	Logging   LoggingConfig      `toml:"logging"`
}

type AccountConfig struct {
	Mail       string `toml:"mail"`
	Site       string `toml:"site" validate:"required"` // cookie login site, e.g. "nicolive"
	TicketSite string `toml:"ticket_site"`              // ticket login site, e.g. "nicolive_encoder"
}

type HTTPConfig struct {
	Timeout       string   `toml:"timeout"` // e.g. "30s"
	UserAgent     string   `toml:"user_agent"`
	CookieDomains []string `toml:"cookie_domains" validate:"dive,hostname_rfc1123"` // registrable domains allowed to receive cookies
}

type LoggingConfig struct {
	Level string `toml:"level"` // "trace", "debug", "info", "warn", "error"
}

func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Site:       nicolive.SiteNicolive,
			TicketSite: nicolive.SiteNicoliveEncoder,
		},
		Endpoints: nicolive.DefaultEndpoints(),
		HTTP: HTTPConfig{
			Timeout:       "30s",
			UserAgent:     "nicolive-terminal",
			CookieDomains: []string{"nicovideo.jp"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// LoadDotEnv loads .env from the working directory if present, without
// overriding variables that are already set.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_MAIL")); v != "" {
		c.Account.Mail = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_SITE")); v != "" {
		c.Account.Site = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_TICKET_SITE")); v != "" {
		c.Account.TicketSite = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_LOGIN_URL")); v != "" {
		c.Endpoints.Login = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_TICKET_LOGIN_URL")); v != "" {
		c.Endpoints.TicketLogin = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_PUBLISH_STATUS_URL")); v != "" {
		c.Endpoints.PublishStatus = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_LIVE_PROFILE_URL")); v != "" {
		c.Endpoints.LiveProfile = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_HTTP_TIMEOUT")); v != "" {
		c.HTTP.Timeout = v
	}
	if v := strings.TrimSpace(os.Getenv("NICOLIVE_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	for name, raw := range map[string]string{
		"login":          c.Endpoints.Login,
		"ticket_login":   c.Endpoints.TicketLogin,
		"publish_status": c.Endpoints.PublishStatus,
		"live_profile":   c.Endpoints.LiveProfile,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("endpoints.%s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("endpoints.%s: scheme must be http or https, got %q", name, u.Scheme)
		}
	}
	return nil
}

func (c *Config) Timeout() (time.Duration, error) {
	if c.HTTP.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil {
		return 0, fmt.Errorf("http.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("http.timeout: must not be negative")
	}
	return d, nil
}

// Client converts the configuration into the nicolive client settings.
func (c *Config) Client() (nicolive.Config, error) {
	timeout, err := c.Timeout()
	if err != nil {
		return nicolive.Config{}, err
	}
	return nicolive.Config{
		Endpoints:     c.Endpoints,
		Site:          c.Account.Site,
		TicketSite:    c.Account.TicketSite,
		Timeout:       timeout,
		UserAgent:     c.HTTP.UserAgent,
		CookieDomains: c.HTTP.CookieDomains,
	}, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Tracker and chat
	Jira     JiraConfig
	Telegram TelegramConfig

	// Pipeline
	Webhook     WebhookConfig
	Correlation CorrelationConfig
	Download    DownloadConfig
	Delivery    DeliveryConfig

	// Routing and internal API
	Directory   DirectoryConfig
	InternalAPI InternalAPIConfig
	Ngrok       NgrokConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type JiraConfig struct {
	Domain    string
	Email     string
	APIToken  string
	AccountID string // Account the bridge writes as; its comments are never forwarded
}

type TelegramConfig struct {
	BotToken      string
	DefaultChatID string // Numeric chat id or @channel
	APIEndpoint   string // Optional self-hosted Bot API, e.g. http://localhost:8081/bot%s/%s
}

type WebhookConfig struct {
	Enabled         bool
	AllowedIPs      []string // Exact addresses or CIDR ranges; empty admits everyone
	MaxBodyBytes    int64
	RateLimit       RateLimitConfig
	DispatchTimeout time.Duration
}

type RateLimitConfig struct {
	Enabled           bool
	MaxRequests       int
	Window            time.Duration
	BlacklistDuration time.Duration
}

type CorrelationConfig struct {
	PendingTTL        time.Duration
	PendingMaxEntries int
	EchoTTL           time.Duration
	LookupTimeout     time.Duration
	SubstringMatch    bool
	DeliveredTTL      time.Duration
}

type DownloadConfig struct {
	MaxRetriesPerURL int
	RetryDelay       time.Duration
	BackoffSchedule  []time.Duration // Overrides RetryDelay when set
	JitterPct        float64
	AttemptTimeout   time.Duration
	MinBytes         int
}

type DeliveryConfig struct {
	SendInterval time.Duration
}

type DirectoryConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	SheetRange      string
	CacheTTL        time.Duration
}

type InternalAPIConfig struct {
	Key string
}

type NgrokConfig struct {
	APIURL string // Local agent API, e.g. http://ngrok:4040; empty disables detection
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Jira
	cfg.Jira.Domain = viper.GetString("jira.domain")
	cfg.Jira.Email = viper.GetString("jira.email")
	cfg.Jira.APIToken = expandEnvVar(viper.GetString("jira.api_token"))
	cfg.Jira.AccountID = viper.GetString("jira.account_id")
	if token := viper.GetString("jira_api_token"); token != "" {
		cfg.Jira.APIToken = token
	}

	// Telegram
	cfg.Telegram.BotToken = expandEnvVar(viper.GetString("telegram.bot_token"))
	cfg.Telegram.DefaultChatID = viper.GetString("telegram.default_chat_id")
	cfg.Telegram.APIEndpoint = viper.GetString("telegram.api_endpoint")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	// Webhook ingress
	cfg.Webhook.Enabled = viper.GetBool("webhook.enabled")
	cfg.Webhook.AllowedIPs = splitList(viper.GetString("webhook.allowed_ips"))
	if len(cfg.Webhook.AllowedIPs) == 0 {
		cfg.Webhook.AllowedIPs = viper.GetStringSlice("webhook.allowed_ips")
	}
	cfg.Webhook.MaxBodyBytes = viper.GetInt64("webhook.max_body_bytes")
	cfg.Webhook.RateLimit.Enabled = viper.GetBool("webhook.rate_limit.enabled")
	cfg.Webhook.RateLimit.MaxRequests = viper.GetInt("webhook.rate_limit.max_requests")
	cfg.Webhook.RateLimit.Window = viper.GetDuration("webhook.rate_limit.window")
	cfg.Webhook.RateLimit.BlacklistDuration = viper.GetDuration("webhook.rate_limit.blacklist_duration")
	cfg.Webhook.DispatchTimeout = viper.GetDuration("correlation.dispatch_timeout")

	// Correlation
	cfg.Correlation.PendingTTL = viper.GetDuration("correlation.pending_ttl")
	cfg.Correlation.PendingMaxEntries = viper.GetInt("correlation.pending_max_entries")
	cfg.Correlation.EchoTTL = viper.GetDuration("correlation.echo_ttl")
	cfg.Correlation.LookupTimeout = viper.GetDuration("correlation.lookup_timeout")
	cfg.Correlation.SubstringMatch = viper.GetBool("correlation.substring_match")
	cfg.Correlation.DeliveredTTL = viper.GetDuration("correlation.delivered_ttl")

	// Download
	cfg.Download.MaxRetriesPerURL = viper.GetInt("download.max_retries_per_url")
	cfg.Download.RetryDelay = viper.GetDuration("download.retry_delay")
	cfg.Download.JitterPct = viper.GetFloat64("download.jitter_pct")
	cfg.Download.AttemptTimeout = viper.GetDuration("download.attempt_timeout")
	cfg.Download.MinBytes = viper.GetInt("download.min_bytes")
	rawSchedule := viper.GetString("download.backoff_schedule")
	if rawSchedule == "" {
		rawSchedule = strings.Join(viper.GetStringSlice("download.backoff_schedule"), ",")
	}
	schedule, err := parseDurations(rawSchedule)
	if err != nil {
		return nil, fmt.Errorf("download.backoff_schedule: %w", err)
	}
	cfg.Download.BackoffSchedule = schedule

	// Delivery
	cfg.Delivery.SendInterval = viper.GetDuration("delivery.send_interval")

	// Directory
	cfg.Directory.CredentialsPath = viper.GetString("directory.credentials_path")
	cfg.Directory.SpreadsheetID = viper.GetString("directory.spreadsheet_id")
	cfg.Directory.SheetRange = viper.GetString("directory.sheet_range")
	cfg.Directory.CacheTTL = viper.GetDuration("directory.cache_ttl")
	if googleCreds := viper.GetString("google_credentials"); googleCreds != "" {
		cfg.Directory.CredentialsPath = googleCreds
	}

	// Internal API
	cfg.InternalAPI.Key = expandEnvVar(viper.GetString("internal_api.key"))
	if key := viper.GetString("internal_api_key"); key != "" {
		cfg.InternalAPI.Key = key
	}

	cfg.Ngrok.APIURL = viper.GetString("ngrok.api_url")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("webhook.enabled", true)
	viper.SetDefault("webhook.max_body_bytes", 1<<20)
	viper.SetDefault("webhook.rate_limit.enabled", true)
	viper.SetDefault("webhook.rate_limit.max_requests", 60)
	viper.SetDefault("webhook.rate_limit.window", "1m")
	viper.SetDefault("webhook.rate_limit.blacklist_duration", "10m")

	viper.SetDefault("correlation.pending_ttl", "10m")
	viper.SetDefault("correlation.pending_max_entries", 5000)
	viper.SetDefault("correlation.echo_ttl", "2m")
	viper.SetDefault("correlation.lookup_timeout", "10s")
	viper.SetDefault("correlation.substring_match", true)
	viper.SetDefault("correlation.delivered_ttl", "30m")
	viper.SetDefault("correlation.dispatch_timeout", "2m")

	viper.SetDefault("download.max_retries_per_url", 3)
	viper.SetDefault("download.retry_delay", "2s")
	viper.SetDefault("download.attempt_timeout", "30s")
	viper.SetDefault("download.min_bytes", 100)

	viper.SetDefault("delivery.send_interval", "1s")

	viper.SetDefault("directory.sheet_range", "Directory!A:B")
	viper.SetDefault("directory.cache_ttl", "1m")
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Jira.Domain) == "" {
		errs = append(errs, errors.New("jira.domain is required"))
	}
	if c.Jira.Email == "" || c.Jira.APIToken == "" {
		errs = append(errs, errors.New("jira.email and jira.api_token are required"))
	}
	if c.Telegram.BotToken == "" {
		errs = append(errs, errors.New("telegram.bot_token is required"))
	}
	if c.HTTPServer.Port <= 0 {
		errs = append(errs, errors.New("http_server.port must be positive"))
	}
	if c.Download.JitterPct < 0 || c.Download.JitterPct >= 1 {
		errs = append(errs, errors.New("download.jitter_pct must be in [0, 1)"))
	}
	if c.Directory.SpreadsheetID != "" && c.Directory.CredentialsPath == "" {
		errs = append(errs, errors.New("directory.credentials_path is required with directory.spreadsheet_id"))
	}
	return errors.Join(errs...)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
	}

	return value
}

// splitList splits a comma separated value, since env overrides arrive as
// one string.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseDurations parses "1s,2s,4s".
func parseDurations(raw string) ([]time.Duration, error) {
	var out []time.Duration
	for _, item := range splitList(raw) {
		d, err := time.ParseDuration(item)
		if err != nil {
			return nil, err
		}
		if d < 0 {
			return nil, fmt.Errorf("negative duration %q", item)
		}
		out = append(out, d)
	}
	return out, nil
}

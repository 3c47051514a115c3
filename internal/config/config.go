package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of every date accepted on the command line or in the config file.
const DateLayout = "2006-01-02"

// DefaultTickers is used when the user gives no tickers.
var DefaultTickers = []string{"SPY", "QQQ", "IWM", "XLK", "XLF", "TLT"}

// DataSourceConfig selects and configures the price provider.
type DataSourceConfig struct {
	Provider string `yaml:"provider"` // "yahoo" or "rest"
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
}

// ChartConfig controls image rendering.
type ChartConfig struct {
	DPI    int     `yaml:"dpi"`
	Width  float64 `yaml:"width_in"`
	Height float64 `yaml:"height_in"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
	File   string `yaml:"file"`
}

// Config holds all application configuration.
type Config struct {
	Tickers    string           `yaml:"tickers"`
	Start      string           `yaml:"start"`
	End        string           `yaml:"end"`
	OutDir     string           `yaml:"outdir"`
	SaveCSV    bool             `yaml:"save_csv"`
	Display    bool             `yaml:"display"`
	DataSource DataSourceConfig `yaml:"data_source"`
	Chart      ChartConfig      `yaml:"chart"`
	Telegram   struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Log   LogConfig `yaml:"log"`
	Proxy string    `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("CORRELATE_TICKERS"); v != "" {
		cfg.Tickers = v
	}
	if v := os.Getenv("CORRELATE_START"); v != "" {
		cfg.Start = v
	}
	if v := os.Getenv("CORRELATE_END"); v != "" {
		cfg.End = v
	}
	if v := os.Getenv("CORRELATE_OUTDIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("CORRELATE_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("REST_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("REST_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CORRELATE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Start == "" {
		c.Start = "2021-01-01"
	}
	if c.OutDir == "" {
		c.OutDir = "outputs"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.Chart.DPI == 0 {
		c.Chart.DPI = 200
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 6.4
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 4.8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Window parses the start and end dates. A zero end means "today".
func (c *Config) Window() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, strings.TrimSpace(c.Start))
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q: %w", c.Start, err)
	}
	if strings.TrimSpace(c.End) != "" {
		end, err = time.Parse(DateLayout, strings.TrimSpace(c.End))
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q: %w", c.End, err)
		}
	}
	return start, end, nil
}

// Validate checks that all fields hold usable values.
// Provider names are checked when the fetcher is built.
func (c *Config) Validate() error {
	start, end, err := c.Window()
	if err != nil {
		return err
	}
	if !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", c.End, c.Start)
	}
	if c.Chart.DPI <= 0 {
		return fmt.Errorf("chart.dpi must be positive")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive")
	}
	if c.OutDir == "" {
		return fmt.Errorf("outdir is required")
	}
	return nil
}

// TelegramEnabled reports whether run summaries should be sent to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

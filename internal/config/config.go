package config

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider" validate:"oneof=yahoo polygon"`
		Ticker   string `yaml:"ticker" validate:"required"`
		// Start and End are YYYY-MM-DD. An empty Start means LookbackDays
		// before End; an empty End means today.
		Start        string `yaml:"start" validate:"omitempty,datetime=2006-01-02"`
		End          string `yaml:"end" validate:"omitempty,datetime=2006-01-02"`
		LookbackDays int    `yaml:"lookback_days" validate:"gte=0"`
		AutoAdjust   bool   `yaml:"auto_adjust"`
		APIKey       string `yaml:"api_key"`
	} `yaml:"data_source"`
	Analytics struct {
		SMAWindows []int `yaml:"sma_windows" validate:"min=1,unique,dive,gt=0"`
		TailRows   int   `yaml:"tail_rows" validate:"gt=0"`
	} `yaml:"analytics"`
	Report struct {
		Title string `yaml:"title"`
	} `yaml:"report"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
	Proxy    string `yaml:"proxy" validate:"omitempty,url"`
}

// envOverrides lists the environment variables that override the file.
type envOverrides struct {
	Provider     string `envconfig:"PRICEWATCH_PROVIDER"`
	Ticker       string `envconfig:"PRICEWATCH_TICKER"`
	Start        string `envconfig:"PRICEWATCH_START"`
	End          string `envconfig:"PRICEWATCH_END"`
	LookbackDays int    `envconfig:"PRICEWATCH_LOOKBACK_DAYS"`
	AutoAdjust   *bool  `envconfig:"PRICEWATCH_AUTO_ADJUST"`
	SMAWindows   []int  `envconfig:"PRICEWATCH_SMA_WINDOWS"`
	TailRows     int    `envconfig:"PRICEWATCH_TAIL_ROWS"`
	LogLevel     string `envconfig:"PRICEWATCH_LOG_LEVEL"`
	PolygonKey   string `envconfig:"POLYGON_API_KEY"`
	BotToken     string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID       string `envconfig:"TELEGRAM_CHAT_ID"`
	Proxy        string `envconfig:"HTTPS_PROXY"`
}

// Load reads config from an optional YAML file, then applies environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	var env envOverrides
	unsetEmptyEnv(&env)
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(&env)

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Ticker == "" {
		cfg.DataSource.Ticker = "SI=F"
	}
	if cfg.DataSource.Start == "" && cfg.DataSource.LookbackDays == 0 {
		cfg.DataSource.LookbackDays = 180
	}
	if len(cfg.Analytics.SMAWindows) == 0 {
		cfg.Analytics.SMAWindows = []int{20, 50}
	}
	if cfg.Analytics.TailRows == 0 {
		cfg.Analytics.TailRows = 5
	}
	if cfg.Report.Title == "" {
		cfg.Report.Title = "Price Tracker"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// unsetEmptyEnv removes override variables that are set to "" so envconfig
// skips them instead of failing to parse an empty number or bool.
func unsetEmptyEnv(spec *envOverrides) {
	t := reflect.TypeOf(spec).Elem()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("envconfig")
		if v, ok := os.LookupEnv(key); ok && v == "" {
			os.Unsetenv(key)
		}
	}
}

func (c *Config) applyEnv(env *envOverrides) {
	if env.Provider != "" {
		c.DataSource.Provider = env.Provider
	}
	if env.Ticker != "" {
		c.DataSource.Ticker = env.Ticker
	}
	if env.Start != "" {
		c.DataSource.Start = env.Start
	}
	if env.End != "" {
		c.DataSource.End = env.End
	}
	if env.LookbackDays != 0 {
		c.DataSource.LookbackDays = env.LookbackDays
	}
	if env.AutoAdjust != nil {
		c.DataSource.AutoAdjust = *env.AutoAdjust
	}
	if len(env.SMAWindows) > 0 {
		c.Analytics.SMAWindows = env.SMAWindows
	}
	if env.TailRows != 0 {
		c.Analytics.TailRows = env.TailRows
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	if env.PolygonKey != "" {
		c.DataSource.APIKey = env.PolygonKey
	}
	if env.BotToken != "" {
		c.Telegram.BotToken = env.BotToken
	}
	if env.ChatID != "" {
		c.Telegram.ChatID = env.ChatID
	}
	if env.Proxy != "" {
		c.Proxy = env.Proxy
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DataSource.Provider == "polygon" && c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required for the polygon provider")
	}
	start, end, err := c.DateRange(time.Now())
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("data_source.start %s must be before end %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}

// DateRange returns the download window relative to now. End is exclusive;
// when unset it is the end of today.
func (c *Config) DateRange(now time.Time) (start, end time.Time, err error) {
	if c.DataSource.End != "" {
		end, err = time.Parse(time.DateOnly, c.DataSource.End)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse data_source.end: %w", err)
		}
	} else {
		y, m, d := now.Date()
		end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	}

	if c.DataSource.Start != "" {
		start, err = time.Parse(time.DateOnly, c.DataSource.Start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse data_source.start: %w", err)
		}
		return start, end, nil
	}
	return end.AddDate(0, 0, -c.DataSource.LookbackDays), end, nil
}

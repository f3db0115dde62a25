package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	API          API          `mapstructure:"api"`
	Cache        Cache        `mapstructure:"cache"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
	NewsAPI      NewsAPI      `mapstructure:"news_api"`
	Gemini       Gemini       `mapstructure:"gemini"`
	Signal       Signal       `mapstructure:"signal"`
	Backtest     Backtest     `mapstructure:"backtest"`
	Forecast     Forecast     `mapstructure:"forecast"`
	Retry        Retry        `mapstructure:"retry"`
	Agent        Agent        `mapstructure:"agent"`
	Janitor      Janitor      `mapstructure:"janitor"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port            int `mapstructure:"port"`
	RateLimitPerSec int `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int `mapstructure:"rate_limit_burst"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	PriceTTL          time.Duration `mapstructure:"price_ttl"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type NewsAPI struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAgeDays  int           `mapstructure:"max_age_days"`
	MaxArticles int           `mapstructure:"max_articles"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type Signal struct {
	FastSpan   int `mapstructure:"fast_span"`
	SlowSpan   int `mapstructure:"slow_span"`
	SignalSpan int `mapstructure:"signal_span"`
}

type Backtest struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
	FeeRate        float64 `mapstructure:"fee_rate"`
}

type Forecast struct {
	Lookback   int           `mapstructure:"lookback"`
	Horizon    int           `mapstructure:"horizon"`
	MinHistory int           `mapstructure:"min_history"`
	HiddenSize int           `mapstructure:"hidden_size"`
	Epochs     int           `mapstructure:"epochs"`
	LearnRate  float64       `mapstructure:"learn_rate"`
	ModelTTL   time.Duration `mapstructure:"model_ttl"`
}

type Retry struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

type Agent struct {
	ToolTimeout     time.Duration `mapstructure:"tool_timeout"`
	DefaultPeriod   string        `mapstructure:"default_period"`
	DefaultInterval string        `mapstructure:"default_interval"`
}

type Janitor struct {
	CronSpec string `mapstructure:"cron_spec"`
}

func Load() (*Config, error) {
	// .env is optional, keep going when it is absent
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 5001)
	viper.SetDefault("api.rate_limit_per_sec", 10)
	viper.SetDefault("api.rate_limit_burst", 30)

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("cache.price_ttl", 5*time.Minute)

	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.timeout", 15*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 30)

	viper.SetDefault("news_api.base_url", "https://newsapi.org/v2")
	viper.SetDefault("news_api.timeout", 15*time.Second)
	viper.SetDefault("news_api.max_age_days", 7)
	viper.SetDefault("news_api.max_articles", 15)

	viper.SetDefault("gemini.base_model", "gemini-2.0-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("gemini.max_token_per_minute", 250000)

	viper.SetDefault("signal.fast_span", 12)
	viper.SetDefault("signal.slow_span", 26)
	viper.SetDefault("signal.signal_span", 9)

	viper.SetDefault("backtest.initial_capital", 10000.0)
	viper.SetDefault("backtest.fee_rate", 0.001)

	viper.SetDefault("forecast.lookback", 60)
	viper.SetDefault("forecast.horizon", 7)
	viper.SetDefault("forecast.min_history", 100)
	viper.SetDefault("forecast.hidden_size", 16)
	viper.SetDefault("forecast.epochs", 30)
	viper.SetDefault("forecast.learn_rate", 0.05)
	viper.SetDefault("forecast.model_ttl", 1*time.Hour)

	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.initial_interval", 500*time.Millisecond)
	viper.SetDefault("retry.max_interval", 5*time.Second)

	viper.SetDefault("agent.tool_timeout", 90*time.Second)
	viper.SetDefault("agent.default_period", "1y")
	viper.SetDefault("agent.default_interval", "1d")

	viper.SetDefault("janitor.cron_spec", "*/15 * * * *")
}

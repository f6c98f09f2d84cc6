package config

import (
	"strings"
	"time"

	"github.com/infigaming-com/go-money/util"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	BankNone      = "none"
	BankStatic    = "static"
	BankDelegated = "delegated"
)

type Config struct {
	DefaultCurrency string `mapstructure:"MONEY_DEFAULT_CURRENCY"`
	ZeroDisplay     string `mapstructure:"MONEY_ZERO_DISPLAY"`
	Bank            string `mapstructure:"MONEY_BANK"`
	// StaticRates is a comma separated list of FROM:TO=RATE entries.
	StaticRates string `mapstructure:"MONEY_STATIC_RATES"`

	RateURL       string        `mapstructure:"MONEY_RATE_URL"`
	RateAPIKey    string        `mapstructure:"MONEY_RATE_API_KEY"`
	RateAPISecret string        `mapstructure:"MONEY_RATE_API_SECRET"`
	RateTimeout   time.Duration `mapstructure:"MONEY_RATE_TIMEOUT"`
	RateCacheTTL  time.Duration `mapstructure:"MONEY_RATE_CACHE_TTL"`
	RateCacheSize int           `mapstructure:"MONEY_RATE_CACHE_SIZE"`

	RedisAddr string `mapstructure:"MONEY_REDIS_ADDR"`
	RedisDB   int    `mapstructure:"MONEY_REDIS_DB"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// StaticRate is one parsed MONEY_STATIC_RATES entry.
type StaticRate struct {
	From string
	To   string
	Rate decimal.Decimal
}

var defaults = map[string]any{
	"MONEY_DEFAULT_CURRENCY": "EUR",
	"MONEY_ZERO_DISPLAY":     "",
	"MONEY_BANK":             BankNone,
	"MONEY_STATIC_RATES":     "",
	"MONEY_RATE_URL":         "",
	"MONEY_RATE_API_KEY":     "",
	"MONEY_RATE_API_SECRET":  "",
	"MONEY_RATE_TIMEOUT":     "3s",
	"MONEY_RATE_CACHE_TTL":   "1m",
	"MONEY_RATE_CACHE_SIZE":  10 * 1024 * 1024,
	"MONEY_REDIS_ADDR":       "",
	"MONEY_REDIS_DB":         0,
	"LOG_LEVEL":              "info",
}

// Load reads envFiles (".env" when none are given) into the process
// environment, then decodes the environment. Missing files are ignored and
// variables already set are never overridden.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ErrInvalidConfig.WithCause(err)
	}
	cfg.DefaultCurrency = util.NormalizeCurrency(cfg.DefaultCurrency)
	cfg.Bank = strings.ToLower(strings.TrimSpace(cfg.Bank))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Bank {
	case BankNone:
	case BankStatic:
		if _, err := ParseStaticRates(c.StaticRates); err != nil {
			return err
		}
	case BankDelegated:
		if c.RateURL == "" {
			return ErrInvalidConfig.WithDetails("MONEY_RATE_URL is required for the delegated bank")
		}
	default:
		return ErrInvalidConfig.WithDetails("unknown MONEY_BANK: " + c.Bank)
	}
	if c.RateTimeout < 0 || c.RateCacheTTL < 0 {
		return ErrInvalidConfig.WithDetails("durations must not be negative")
	}
	return nil
}

// ParseStaticRates parses "USD:CAD=1.24515, CAD:USD=0.803115". Blank entries
// are skipped.
func ParseStaticRates(s string) ([]StaticRate, error) {
	entries := lo.Compact(lo.Map(strings.Split(s, ","), func(e string, _ int) string {
		return strings.TrimSpace(e)
	}))

	rates := make([]StaticRate, 0, len(entries))
	for _, entry := range entries {
		pair, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, ErrInvalidConfig.WithDetails("static rate missing '=': " + entry)
		}
		from, to, ok := strings.Cut(pair, ":")
		from, to = util.NormalizeCurrency(from), util.NormalizeCurrency(to)
		if !ok || from == "" || to == "" {
			return nil, ErrInvalidConfig.WithDetails("static rate pair must be FROM:TO: " + entry)
		}
		rate, err := util.PositiveDecimalFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, ErrInvalidConfig.WithDetails(entry).WithCause(err)
		}
		rates = append(rates, StaticRate{From: from, To: to, Rate: rate})
	}
	return rates, nil
}

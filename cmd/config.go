package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/agent"
	"github.com/etnz/wealth/eodhd"
	"github.com/etnz/wealth/mirror"
	"github.com/etnz/wealth/yahoo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Environment variables read by wsnap.
const (
	EnvStateFile       = "WSNAP_STATE_FILE"
	EnvUSDRate         = "WSNAP_USD_RATE"
	EnvAUDRate         = "WSNAP_AUD_RATE"
	EnvConvertOnSettle = "WSNAP_CONVERT_ON_SETTLE"
	EnvMirrorURL       = "WSNAP_MIRROR_URL"
	EnvOracle          = "WSNAP_ORACLE"
	EnvModel           = "WSNAP_MODEL"
	EnvRetryAttempts   = "WSNAP_RETRY_ATTEMPTS"
	EnvRetryDelay      = "WSNAP_RETRY_DELAY"
	EnvLogLevel        = "WSNAP_LOG_LEVEL"
	EnvAddr            = "WSNAP_ADDR"
	EnvAPIKey          = "GEMINI_API_KEY"
	EnvEODHDKey        = "EODHD_API_KEY"
)

// Price oracles.
const (
	OracleGemini = "gemini"
	OracleYahoo  = "yahoo"
	OracleEODHD  = "eodhd"
	OracleNone   = "none"
)

// Config is the wsnap configuration.
type Config struct {
	StateFile       string
	Rates           wealth.Rates
	ConvertOnSettle bool
	MirrorURL       string
	Oracle          string
	Model           string
	Retry           wealth.RetryPolicy
	LogLevel        string
	Addr            string
	APIKey          string
	EODHDKey        string
}

// LoadConfig reads the .env file of the current directory, if any, then the
// environment and the global flags.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot read .env: %w", err)
	}
	cfg, err := configFrom(os.Getenv)
	if err != nil {
		return cfg, err
	}
	if *stateFile != "" {
		cfg.StateFile = *stateFile
	}
	return cfg, nil
}

// configFrom builds a Config from environment lookups.
func configFrom(getenv func(string) string) (Config, error) {
	cfg := Config{
		StateFile: "wealth.json",
		Rates:     wealth.DefaultRates(),
		Oracle:    OracleGemini,
		Model:     agent.DefaultModel,
		Retry:     wealth.DefaultRetryPolicy,
		LogLevel:  "warn",
		Addr:      "127.0.0.1:8080",
		MirrorURL: getenv(EnvMirrorURL),
		APIKey:    getenv(EnvAPIKey),
		EODHDKey:  getenv(EnvEODHDKey),
	}
	var errs []error
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	rate := func(key string, cur wealth.Currency) {
		v := getenv(key)
		if v == "" {
			return
		}
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid rate %q", key, v))
			return
		}
		cfg.Rates[cur] = r
	}

	str(EnvStateFile, &cfg.StateFile)
	str(EnvModel, &cfg.Model)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvAddr, &cfg.Addr)
	str(EnvOracle, &cfg.Oracle)
	rate(EnvUSDRate, wealth.USD)
	rate(EnvAUDRate, wealth.AUD)

	switch cfg.Oracle = strings.ToLower(cfg.Oracle); cfg.Oracle {
	case OracleGemini, OracleYahoo, OracleEODHD, OracleNone:
	default:
		errs = append(errs, fmt.Errorf("%s: unknown oracle %q", EnvOracle, cfg.Oracle))
	}
	if v := getenv(EnvConvertOnSettle); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvConvertOnSettle, err))
		}
		cfg.ConvertOnSettle = b
	}
	if v := getenv(EnvRetryAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs = append(errs, fmt.Errorf("%s: invalid attempts %q", EnvRetryAttempts, v))
		}
		cfg.Retry.Attempts = n
	}
	if v := getenv(EnvRetryDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvRetryDelay, err))
		}
		cfg.Retry.BaseDelay = d
	}
	return cfg, errors.Join(errs...)
}

// Engine returns the engine for the configured rates.
func (c Config) Engine() *wealth.Engine {
	e := wealth.NewEngine(c.Rates)
	e.ConvertOnSettle = c.ConvertOnSettle
	return e
}

// Client returns a Gemini client for the configured key.
func (c Config) Client(ctx context.Context) (*genai.Client, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%s is not set: %w", EnvAPIKey, wealth.ErrUnavailable)
	}
	return genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.APIKey, Backend: genai.BackendGeminiAPI})
}

// PriceOracle returns the configured oracle wrapped with retries, or nil
// when prices are not available. A missing oracle is not an error: stocks
// are then added with a price of 0.
func (c Config) PriceOracle(ctx context.Context) wealth.PriceOracle {
	switch c.Oracle {
	case OracleYahoo:
		return wealth.WithRetry(yahoo.New(), c.Retry)
	case OracleEODHD:
		return wealth.WithRetry(eodhd.New(c.EODHDKey), c.Retry)
	case OracleGemini:
		client, err := c.Client(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("prices disabled")
			return nil
		}
		return wealth.WithRetry(agent.NewOracle(client, c.Model), c.Retry)
	}
	return nil
}

// Extractor returns the statement scanner wrapped with retries.
func (c Config) Extractor(ctx context.Context) (wealth.StatementExtractor, error) {
	client, err := c.Client(ctx)
	if err != nil {
		return nil, err
	}
	return wealth.WithExtractorRetry(agent.NewScanner(client, c.Model), c.Retry), nil
}

// Mirror returns the ledger mirror, or nil when no URL is configured.
func (c Config) Mirror() wealth.LedgerMirror {
	if c.MirrorURL == "" {
		return nil
	}
	return mirror.New(c.MirrorURL)
}

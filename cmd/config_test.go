package cmd

import (
	"testing"
	"time"

	"github.com/etnz/wealth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConfigFrom_Defaults(t *testing.T) {
	cfg, err := configFrom(env(nil))
	require.NoError(t, err)
	assert.Equal(t, "wealth.json", cfg.StateFile)
	assert.Equal(t, wealth.DefaultRates(), cfg.Rates)
	assert.Equal(t, OracleGemini, cfg.Oracle)
	assert.Equal(t, wealth.DefaultRetryPolicy, cfg.Retry)
	assert.False(t, cfg.ConvertOnSettle)
	assert.Nil(t, cfg.Mirror())
}

func TestConfigFrom_Env(t *testing.T) {
	cfg, err := configFrom(env(map[string]string{
		EnvStateFile:       "/tmp/w.json",
		EnvUSDRate:         "7.75",
		EnvConvertOnSettle: "true",
		EnvOracle:          "Yahoo",
		EnvRetryAttempts:   "5",
		EnvRetryDelay:      "250ms",
		EnvMirrorURL:       "https://example.com/exec",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/w.json", cfg.StateFile)
	assert.Equal(t, 7.75, cfg.Rates[wealth.USD])
	assert.Equal(t, 5.1, cfg.Rates[wealth.AUD])
	assert.True(t, cfg.ConvertOnSettle)
	assert.True(t, cfg.Engine().ConvertOnSettle)
	assert.Equal(t, OracleYahoo, cfg.Oracle)
	assert.Equal(t, wealth.RetryPolicy{Attempts: 5, BaseDelay: 250 * time.Millisecond}, cfg.Retry)
	assert.NotNil(t, cfg.Mirror())
	assert.NotNil(t, cfg.PriceOracle(t.Context()))
}

func TestConfigFrom_Invalid(t *testing.T) {
	_, err := configFrom(env(map[string]string{
		EnvUSDRate:       "-1",
		EnvOracle:        "bloomberg",
		EnvRetryAttempts: "zero",
	}))
	require.Error(t, err)
	assert.ErrorContains(t, err, EnvUSDRate)
	assert.ErrorContains(t, err, "bloomberg")
	assert.ErrorContains(t, err, EnvRetryAttempts)
}

func TestConfig_NoKey(t *testing.T) {
	cfg, err := configFrom(env(nil))
	require.NoError(t, err)
	assert.Nil(t, cfg.PriceOracle(t.Context()))
	_, err = cfg.Extractor(t.Context())
	assert.ErrorIs(t, err, wealth.ErrUnavailable)
}

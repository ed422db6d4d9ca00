package cmd

import (
	"testing"

	"github.com/etnz/wealth"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in     string
		digits int
		want   string
	}{
		{"700", typedCodeDigits, "00700.HK"},
		{" 5 ", typedCodeDigits, "00005.HK"},
		{"0700", typedCodeDigits, "00700.HK"},
		{"09988", typedCodeDigits, "09988"},
		{"09988", scannedCodeDigits, "09988.HK"},
		{"aapl", typedCodeDigits, "AAPL"},
		{"0700.hk", typedCodeDigits, "0700.HK"},
		{"", typedCodeDigits, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeSymbol(tt.in, tt.digits), "normalizeSymbol(%q, %d)", tt.in, tt.digits)
	}
}

func TestSymbolCurrency(t *testing.T) {
	assert.Equal(t, wealth.AUD, symbolCurrency("CBA.AX"))
	assert.Equal(t, wealth.HKD, symbolCurrency("00700.HK"))
	assert.Equal(t, wealth.USD, symbolCurrency("AAPL"))
}

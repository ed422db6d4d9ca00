package cmd

import (
	"strings"

	"github.com/etnz/wealth"
)

// Hong Kong listings are typed as bare numeric codes. Typed symbols have up
// to 4 digits, scanned ones up to 5.
const (
	typedCodeDigits   = 4
	scannedCodeDigits = 5
)

// normalizeSymbol uppercases s and turns a numeric code of at most digits
// digits into its padded Hong Kong symbol, e.g. "700" into "00700.HK".
func normalizeSymbol(s string, digits int) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || len(s) > digits || strings.Trim(s, "0123456789") != "" {
		return s
	}
	return strings.Repeat("0", max(0, 5-len(s))) + s + ".HK"
}

// symbolCurrency infers the trading currency of a normalized symbol:
// AUD for ".AX", HKD for any other exchange suffix, USD otherwise.
func symbolCurrency(symbol string) wealth.Currency {
	switch {
	case strings.HasSuffix(symbol, ".AX"):
		return wealth.AUD
	case strings.Contains(symbol, "."):
		return wealth.HKD
	}
	return wealth.USD
}

// Package mirror pushes the holdings to a remote spreadsheet webhook and
// reads back the prices it computes.
//
// The webhook receives a text/plain JSON body
//
//	{"assets": [{"category": "STOCK", "institution": "IB", "symbol": "AAPL", "amount": 10, "currency": "USD", "market": "US"}]}
//
// and answers
//
//	{"status": "Success", "message": "...", "latestPrices": {"AAPL": 190.2}, "totalNetWorth": 1234567}
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/wealth"
	"github.com/rs/zerolog/log"
)

// Client is a wealth.LedgerMirror posting to a webhook URL.
type Client struct {
	URL  string
	HTTP *http.Client
}

// New returns a Client for url with a default timeout.
func New(url string) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: 30 * time.Second}}
}

type payload struct {
	Assets []wealth.MirrorAsset `json:"assets"`
}

// Push implements wealth.LedgerMirror.
//
// An answer whose status is not a success is returned with an error
// carrying the mirror's message.
func (c *Client) Push(ctx context.Context, assets []wealth.MirrorAsset) (wealth.MirrorResult, error) {
	if c.URL == "" {
		return wealth.MirrorResult{}, fmt.Errorf("%w: no mirror url configured", wealth.ErrUnavailable)
	}
	if assets == nil {
		assets = []wealth.MirrorAsset{}
	}
	var jobj any
	if err := c.jwpost(ctx, payload{Assets: assets}, &jobj); err != nil {
		return wealth.MirrorResult{}, err
	}
	res, err := parseResult(jobj)
	if err != nil {
		return res, err
	}
	if !res.OK() {
		return res, fmt.Errorf("mirror refused the update: %s %s", res.Status, res.Message)
	}
	return res, nil
}

// jwpost posts body as JSON and unmarshals the JSON response into data.
func (c *Client) jwpost(ctx context.Context, body any, data any) error {
	content, err := json.Marshal(body)
	if err != nil {
		return err
	}
	// webhooks of spreadsheet scripts reject application/json on preflight
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("invalid mirror url: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot reach mirror: %w", err)
	}
	defer resp.Body.Close()
	log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("status", resp.Status).Msg("mirror")
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http POST %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cannot read mirror response: %w", err)
	}
	if err := json.Unmarshal(buf, data); err != nil {
		return fmt.Errorf("invalid mirror response %q: %w", truncate(string(buf), 120), err)
	}
	return nil
}

// parseResult reads the mirror answer. Only the status is required.
func parseResult(jobj any) (wealth.MirrorResult, error) {
	var res wealth.MirrorResult
	status, err := jsonpath.Get("$.status", jobj)
	if err != nil {
		return res, fmt.Errorf("mirror response has no status: %w", err)
	}
	res.Status = fmt.Sprint(status)

	if msg, err := jsonpath.Get("$.message", jobj); err == nil && msg != nil {
		res.Message = fmt.Sprint(msg)
	}
	if total, err := jsonpath.Get("$.totalNetWorth", jobj); err == nil {
		res.TotalNetWorth, _ = number(total)
	}
	if prices, err := jsonpath.Get("$.latestPrices", jobj); err == nil {
		if m, ok := prices.(map[string]any); ok {
			res.LatestPrices = make(map[string]float64, len(m))
			for symbol, v := range m {
				p, ok := number(v)
				if !ok {
					log.Warn().Str("symbol", symbol).Interface("price", v).Msg("ignoring invalid mirror price")
					continue
				}
				res.LatestPrices[strings.ToUpper(strings.TrimSpace(symbol))] = p
			}
		}
	}
	return res, nil
}

// number reads a JSON number or a numeric string.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", ""), 64)
		return f, err == nil
	}
	return 0, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

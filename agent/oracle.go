package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/wealth"
	"google.golang.org/genai"
)

// Oracle estimates stock prices by asking Gemini.
//
// Answers are approximate and meant to be corrected later by the ledger
// mirror or by hand.
type Oracle struct {
	models generator
	model  string
}

// NewOracle returns an Oracle using client and model.
func NewOracle(client *genai.Client, model string) *Oracle {
	return newOracle(client.Models, model)
}

func newOracle(g generator, model string) *Oracle {
	if model == "" {
		model = DefaultModel
	}
	return &Oracle{models: g, model: model}
}

var priceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"price": {Type: genai.TypeNumber, Description: "Approximate current unit price."},
	},
	Required: []string{"price"},
}

const pricePrompt = `What is the approximate current stock price of %s?
Return ONLY a JSON object with a single key "price" containing the number.
Example: {"price": 340.5}.
If unsure, give a reasonable realistic estimate based on recent history.`

// EstimatePrice implements wealth.PriceOracle.
func (o *Oracle) EstimatePrice(ctx context.Context, symbol string) (float64, error) {
	var answer struct {
		Price json.RawMessage `json:"price"`
	}
	if err := generateJSON(ctx, o.models, o.model, priceSchema, &answer, &genai.Part{Text: fmt.Sprintf(pricePrompt, symbol)}); err != nil {
		return 0, err
	}
	price, ok := parseNumber(answer.Price)
	if !ok {
		return 0, fmt.Errorf("%w: no price for %s in %s", wealth.ErrUnavailable, symbol, answer.Price)
	}
	return price, nil
}

// parseNumber reads a JSON number, or a string holding one like "1,234.5".
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

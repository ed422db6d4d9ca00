package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/etnz/wealth"
	"google.golang.org/genai"
)

// Scanner reads the holdings listed on a bank or broker statement with
// Gemini vision.
type Scanner struct {
	models generator
	model  string
}

// NewScanner returns a Scanner using client and model.
func NewScanner(client *genai.Client, model string) *Scanner {
	return newScanner(client.Models, model)
}

func newScanner(g generator, model string) *Scanner {
	if model == "" {
		model = DefaultModel
	}
	return &Scanner{models: g, model: model}
}

var assetsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category":    {Type: genai.TypeString, Enum: []string{"CASH", "STOCK"}},
			"institution": {Type: genai.TypeString, Description: "Bank or broker name."},
			"symbol":      {Type: genai.TypeString, Description: "Ticker symbol if stock (e.g. AAPL, 0700.HK)."},
			"amount":      {Type: genai.TypeNumber, Description: "Balance for cash, number of shares for stocks."},
			"currency":    {Type: genai.TypeString, Enum: []string{"HKD", "USD", "AUD"}},
		},
		Required: []string{"category", "institution", "amount", "currency"},
	},
}

const scanPrompt = `Analyze this financial statement image. Extract asset details into a JSON list.
Identify bank accounts (CASH) and stock positions (STOCK).

Rules:
1. For STOCK, 'amount' must be the QUANTITY/SHARES held, NOT the value.
2. For CASH, 'amount' is the BALANCE.
3. If currency is not explicit, infer from the bank context (e.g. HSBC HK -> HKD).`

// rawAsset is an asset as answered by the model, before any type check.
type rawAsset struct {
	Category    string          `json:"category"`
	Institution string          `json:"institution"`
	Symbol      string          `json:"symbol"`
	Amount      json.RawMessage `json:"amount"`
	Currency    string          `json:"currency"`
}

// ExtractAssets implements wealth.StatementExtractor.
//
// Records are returned as read: amounts that are not numbers are NaN and
// must go through wealth.ValidateAssets.
func (s *Scanner) ExtractAssets(ctx context.Context, image []byte, mimeType string) ([]wealth.ExtractedAsset, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty statement image", wealth.ErrUnavailable)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	var raw []rawAsset
	err := generateJSON(ctx, s.models, s.model, assetsSchema, &raw,
		&genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		&genai.Part{Text: scanPrompt},
	)
	if err != nil {
		return nil, err
	}
	out := make([]wealth.ExtractedAsset, 0, len(raw))
	for _, r := range raw {
		amount, ok := parseNumber(r.Amount)
		if !ok {
			amount = math.NaN()
		}
		out = append(out, wealth.ExtractedAsset{
			Category:    wealth.Category(r.Category),
			Institution: r.Institution,
			Symbol:      r.Symbol,
			Amount:      amount,
			Currency:    r.Currency,
		})
	}
	return out, nil
}

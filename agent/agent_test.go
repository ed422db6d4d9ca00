package agent

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/etnz/wealth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModel answers every request with the same text.
type fakeModel struct {
	answer   string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModel) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: f.answer}}}}},
	}, nil
}

func TestOracle_EstimatePrice(t *testing.T) {
	testCases := []struct {
		name    string
		answer  string
		want    float64
		wantErr bool
	}{
		{"number", `{"price": 340.5}`, 340.5, false},
		{"fenced", "```json\n{\"price\": 12}\n```", 12, false},
		{"string", `{"price": "1,234.5"}`, 1234.5, false},
		{"null", `{"price": null}`, 0, true},
		{"missing", `{}`, 0, true},
		{"not json", `about 300 dollars`, 0, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &fakeModel{answer: tc.answer}
			got, err := newOracle(m, "").EstimatePrice(context.Background(), "AAPL")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, DefaultModel, m.model)
			assert.Equal(t, "application/json", m.config.ResponseMIMEType)
			assert.Contains(t, m.contents[0].Parts[0].Text, "AAPL")
		})
	}
}

func TestOracle_Unavailable(t *testing.T) {
	_, err := newOracle(&fakeModel{answer: `{"price": null}`}, "m").EstimatePrice(context.Background(), "XYZ")
	assert.ErrorIs(t, err, wealth.ErrUnavailable)

	boom := errors.New("quota exceeded")
	_, err = newOracle(&fakeModel{err: boom}, "m").EstimatePrice(context.Background(), "XYZ")
	assert.ErrorIs(t, err, boom)
}

func TestScanner_ExtractAssets(t *testing.T) {
	m := &fakeModel{answer: `[
		{"category": "CASH", "institution": "HSBC", "amount": 1000.5, "currency": "HKD"},
		{"category": "STOCK", "institution": "IB", "symbol": "AAPL", "amount": "10", "currency": "USD"},
		{"category": "STOCK", "institution": "IB", "symbol": "MSFT", "amount": "many", "currency": "USD"}
	]`}
	got, err := newScanner(m, "").ExtractAssets(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, wealth.ExtractedAsset{Category: wealth.CategoryCash, Institution: "HSBC", Amount: 1000.5, Currency: "HKD"}, got[0])
	assert.Equal(t, 10.0, got[1].Amount)
	assert.True(t, math.IsNaN(got[2].Amount))

	blob := m.contents[0].Parts[0].InlineData
	require.NotNil(t, blob)
	assert.Equal(t, "image/png", blob.MIMEType)

	valid := wealth.ValidateAssets(got)
	assert.Equal(t, 0.0, valid[2].Amount)
}

func TestScanner_EmptyImage(t *testing.T) {
	_, err := newScanner(&fakeModel{}, "").ExtractAssets(context.Background(), nil, "")
	assert.ErrorIs(t, err, wealth.ErrUnavailable)
}

func TestTools(t *testing.T) {
	e := wealth.NewEngine(nil)
	p := wealth.NewPortfolio()
	p.Accounts = []wealth.Account{wealth.NewCashAccount("HSBC", wealth.HKD, 1000)}
	load := func(context.Context) (wealth.Portfolio, error) { return p, nil }

	lib := NewLibrary(Tools(e, load))
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: "Overview"})
	assert.Equal(t, "1", resp.ID)
	assert.Contains(t, resp.Response["output"], "HSBC")

	resp = lib(context.Background(), &genai.FunctionCall{ID: "2", Name: "Nope"})
	assert.Contains(t, resp.Response["error"], "unknown function")

	failing := NewLibrary(Tools(e, func(context.Context) (wealth.Portfolio, error) {
		return wealth.Portfolio{}, errors.New("disk error")
	}))
	resp = failing(context.Background(), &genai.FunctionCall{ID: "3", Name: "Insights"})
	assert.Equal(t, "disk error", resp.Response["error"])
}

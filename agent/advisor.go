package agent

import (
	"context"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/renderer"
	"google.golang.org/genai"
)

// ChatModel is the model used by the advisor chat.
const ChatModel = "gemini-2.5-pro"

func instruction(s string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: s}}}
}

func newFacilitator(model string, experts ...*Expert) *Expert {
	if model == "" {
		model = ChatModel
	}
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep the context of your previous questions.

			The user tracks his net worth across cash accounts, stocks and fixed deposits held in
			HKD, USD and AUD. Devise a plan of questions to ask to each expert and come up with the
			best response to the user's request. Always check the user's holdings first.
			`),
		},
		Library: NewLibrary(experts),
	}
}

// NewMarketAnalyst returns the expert grounded on Google Search, for news
// and market questions.
func NewMarketAnalyst(model string) *Expert {
	if model == "" {
		model = ChatModel
	}
	return &Expert{
		Name: "MarketAnalyst",
		Description: `This is a market analyst, well aware of the financial products, banks and
		listed companies. Ask the MarketAnalyst whenever you need recent news, deposit rates or
		grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			SystemInstruction: instruction(`You are a market analyst. Leverage Google Search to ground your assertions.`),
		},
	}
}

// Source loads the current portfolio.
type Source func(context.Context) (wealth.Portfolio, error)

// NewAccountant returns the expert reading the user's portfolio through
// the engine.
func NewAccountant(model string, engine *wealth.Engine, load Source) *Expert {
	if model == "" {
		model = ChatModel
	}
	lib := Tools(engine, load)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He reads the user's holdings, net worth history,
		fixed deposits and analytics (goal progress, maturities, passive income).`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: NewDeclaration(lib)}},
			SystemInstruction: instruction(`
			You are the accountant of the user's wealth. Use the Tools to read the portfolio:
			  - Overview: accounts and net worth in HKD
			  - Deposits: fixed deposits with their status and days left
			  - Insights: distribution, goal progress, maturity map and passive income
			  - History: the monthly net worth series
			All amounts are in HKD unless stated otherwise.
			`),
		},
		Library: NewLibrary(lib),
	}
}

// Tools returns the functions rendering the portfolio as markdown.
func Tools(engine *wealth.Engine, load Source) []Function {
	tool := func(name, description string, render func(wealth.Portfolio) string) Function {
		return &Func{
			Decl: &genai.FunctionDeclaration{
				Name:        name,
				Description: description,
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown report."},
			},
			Func: func(ctx context.Context, id string, _ map[string]any) *genai.FunctionResponse {
				p, err := load(ctx)
				if err != nil {
					return errorResponse(id, name, err)
				}
				return outputResponse(id, name, render(p))
			},
		}
	}
	return []Function{
		tool("Overview", "Lists every account with its balance and the current net worth.", func(p wealth.Portfolio) string {
			return renderer.Overview(p, engine)
		}),
		tool("Deposits", "Lists the fixed deposits sorted by maturity.", func(p wealth.Portfolio) string {
			return renderer.Deposits(p, engine.Today())
		}),
		tool("Insights", "Reports distribution, goal progress, 12 months maturity map and passive income.", func(p wealth.Portfolio) string {
			return renderer.Insights(engine.Insights(p))
		}),
		tool("History", "Lists the monthly net worth history with its moving average.", func(p wealth.Portfolio) string {
			return renderer.History(p.History)
		}),
	}
}

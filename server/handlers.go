package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers serves the portfolio endpoints.
type Handlers struct {
	s   *Server
	log zerolog.Logger
}

// RegisterRoutes registers all portfolio routes.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/portfolio", h.GetPortfolio)
	r.Get("/valuation", h.GetValuation)
	r.Get("/insights", h.GetInsights)
	r.Post("/snapshot", h.RecordSnapshot)
	r.Put("/goal", h.SetGoal)
	r.Post("/estimate", h.Estimate)
	r.Post("/sync", h.Sync)

	r.Route("/accounts", func(r chi.Router) {
		r.Put("/", h.SaveAccounts)
		r.Post("/", h.AddAccount)
		r.Delete("/{id}", h.RemoveAccount)
	})
	r.Route("/deposits", func(r chi.Router) {
		r.Put("/", h.SaveDeposits)
		r.Post("/", h.AddDeposit)
		r.Delete("/{id}", h.RemoveDeposit)
		r.Get("/{id}/proposal", h.Proposal)
		r.Post("/{id}/rollover", h.Rollover)
		r.Post("/{id}/settle", h.Settle)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// fail maps engine errors to HTTP statuses.
func (h *Handlers) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, wealth.ErrInvalidTerms),
		errors.Is(err, wealth.ErrInvalidGoal),
		errors.Is(err, wealth.ErrInvalidDeposit):
		status = http.StatusBadRequest
	case errors.Is(err, wealth.ErrNotApplicable):
		status = http.StatusConflict
	case errors.Is(err, wealth.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// GetPortfolio returns the stored portfolio.
func (h *Handlers) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.s.load()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetValuation returns the live valuation of the holdings.
func (h *Handlers) GetValuation(w http.ResponseWriter, r *http.Request) {
	p, err := h.s.load()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.s.engine.Value(p))
}

// GetInsights returns the analytics.
func (h *Handlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	p, err := h.s.load()
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.s.engine.Insights(p))
}

// respond runs a transition and answers with the new portfolio.
func (h *Handlers) respond(w http.ResponseWriter, fn func(wealth.Portfolio) (wealth.Portfolio, error)) {
	p, err := h.s.update(fn)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// RecordSnapshot records the net worth for the current month.
func (h *Handlers) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.Snapshot(p), nil
	})
}

type goalRequest struct {
	Goal float64 `json:"goal"`
}

// SetGoal sets the wealth goal.
func (h *Handlers) SetGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.SetGoal(p, req.Goal)
	})
}

// SaveAccounts replaces every account and records a snapshot.
func (h *Handlers) SaveAccounts(w http.ResponseWriter, r *http.Request) {
	var accounts []wealth.Account
	if err := decode(r, &accounts); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.SaveAccounts(p, accounts), nil
	})
}

type accountRequest struct {
	Type     wealth.AccountType `json:"type"`
	Name     string             `json:"name"`
	Currency wealth.Currency    `json:"currency"`
	Balance  float64            `json:"balance"`
	Symbol   string             `json:"symbol"`
	Quantity float64            `json:"quantity"`
	Price    float64            `json:"price"` // looked up when 0
}

// AddAccount creates a cash account or a stock position.
func (h *Handlers) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if !req.Currency.Known() {
		h.fail(w, fmt.Errorf("%w: unknown currency %q", errBadRequest, req.Currency))
		return
	}
	var a wealth.Account
	switch req.Type {
	case wealth.Cash:
		a = wealth.NewCashAccount(req.Name, req.Currency, req.Balance)
	case wealth.Stock:
		if req.Symbol == "" {
			h.fail(w, fmt.Errorf("%w: a stock needs a symbol", errBadRequest))
			return
		}
		price := req.Price
		if price <= 0 {
			price = wealth.Price(r.Context(), h.s.oracle, req.Symbol)
		}
		a = wealth.NewStockAccount(req.Symbol, req.Name, req.Currency, req.Quantity, price)
	default:
		h.fail(w, fmt.Errorf("%w: unknown account type %q", errBadRequest, req.Type))
		return
	}
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.AddAccounts(p, a), nil
	})
}

// RemoveAccount deletes an account.
func (h *Handlers) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.RemoveAccount(p, id)
	})
}

// SaveDeposits replaces every fixed deposit.
func (h *Handlers) SaveDeposits(w http.ResponseWriter, r *http.Request) {
	var deposits []wealth.FixedDeposit
	if err := decode(r, &deposits); err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.SaveDeposits(p, deposits), nil
	})
}

type depositRequest struct {
	BankName         string                `json:"bankName"`
	Principal        float64               `json:"principal"`
	Currency         wealth.Currency       `json:"currency"`
	InterestRate     float64               `json:"interestRate"`
	MaturityDate     date.Date             `json:"maturityDate"`
	ActionOnMaturity wealth.MaturityAction `json:"actionOnMaturity"`
	AutoRoll         bool                  `json:"autoRoll"`
}

// AddDeposit creates a fixed deposit.
func (h *Handlers) AddDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	fd, err := wealth.NewFixedDeposit(req.BankName, req.Principal, req.Currency, req.InterestRate, req.MaturityDate, req.ActionOnMaturity, req.AutoRoll)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.AddDeposit(p, fd), nil
	})
}

// RemoveDeposit deletes a fixed deposit without paying it out.
func (h *Handlers) RemoveDeposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.RemoveDeposit(p, id)
	})
}

type proposalResponse struct {
	Status     string               `json:"status"`
	DaysLeft   int                  `json:"daysLeft"`
	Rollover   wealth.RolloverTerms `json:"rollover"`
	Settlement wealth.SettleTerms   `json:"settlement"`
	Terms      []int                `json:"terms"`
}

// Proposal returns the default rollover and settlement terms of a deposit.
func (h *Handlers) Proposal(w http.ResponseWriter, r *http.Request) {
	p, err := h.s.load()
	if err != nil {
		h.fail(w, err)
		return
	}
	i, ok := p.FindDeposit(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, fmt.Errorf("%w: unknown fixed deposit %q", wealth.ErrNotApplicable, chi.URLParam(r, "id")))
		return
	}
	fd, today := p.FixedDeposits[i], h.s.engine.Today()
	writeJSON(w, http.StatusOK, proposalResponse{
		Status:     fd.Status(today).String(),
		DaysLeft:   fd.DaysLeft(today),
		Rollover:   wealth.RolloverProposal(fd),
		Settlement: wealth.SettlementProposal(fd, p.Accounts),
		Terms:      wealth.Terms,
	})
}

// Rollover renews a deposit.
func (h *Handlers) Rollover(w http.ResponseWriter, r *http.Request) {
	var terms wealth.RolloverTerms
	if err := decode(r, &terms); err != nil {
		h.fail(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.Rollover(p, id, terms)
	})
}

// Settle pays a deposit out to a cash account.
func (h *Handlers) Settle(w http.ResponseWriter, r *http.Request) {
	var terms wealth.SettleTerms
	if err := decode(r, &terms); err != nil {
		h.fail(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	h.respond(w, func(p wealth.Portfolio) (wealth.Portfolio, error) {
		return h.s.engine.Settle(p, id, terms)
	})
}

type estimateRequest struct {
	Principal    float64   `json:"principal"`
	InterestRate float64   `json:"interestRate"`
	Start        date.Date `json:"start"`
	MaturityDate date.Date `json:"maturityDate"`
}

// Estimate previews the interest of a new deposit.
func (h *Handlers) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.Start.IsZero() {
		req.Start = h.s.engine.Today()
	}
	writeJSON(w, http.StatusOK, wealth.EstimateInterest(req.Principal, req.InterestRate, req.Start, req.MaturityDate))
}

type syncResponse struct {
	Portfolio wealth.Portfolio    `json:"portfolio"`
	Mirror    wealth.MirrorResult `json:"mirror"`
	Warning   string              `json:"warning,omitempty"`
}

// Sync pushes the holdings to the ledger mirror and applies its prices.
// A mirror failure is reported as a warning, the local state is kept.
func (h *Handlers) Sync(w http.ResponseWriter, r *http.Request) {
	if h.s.mirror == nil {
		h.fail(w, fmt.Errorf("%w: no ledger mirror configured", wealth.ErrUnavailable))
		return
	}
	var (
		res     wealth.MirrorResult
		warning string
	)
	p, err := h.s.update(func(p wealth.Portfolio) (wealth.Portfolio, error) {
		out, result, err := h.s.engine.Sync(r.Context(), p, h.s.mirror)
		res = result
		if err != nil {
			h.log.Warn().Err(err).Msg("ledger mirror sync failed")
			warning = err.Error()
		}
		return out, nil
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Portfolio: p, Mirror: res, Warning: warning})
}

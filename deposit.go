package wealth

import (
	"fmt"
	"strings"

	"github.com/etnz/wealth/date"
)

// MaturityAction is the instruction given to the bank for a maturing deposit.
type MaturityAction string

const (
	Renew       MaturityAction = "Renew"
	TransferOut MaturityAction = "Transfer Out"
)

// FixedDeposit is a time deposit that accrues simple interest until its
// maturity date.
type FixedDeposit struct {
	ID               string         `json:"id"`
	BankName         string         `json:"bankName"`
	Principal        float64        `json:"principal"`
	Currency         Currency       `json:"currency"`
	InterestRate     float64        `json:"interestRate"` // annual, in percent
	MaturityDate     date.Date      `json:"maturityDate"`
	ActionOnMaturity MaturityAction `json:"actionOnMaturity"`
	AutoRoll         bool           `json:"autoRoll"`
}

// NewFixedDeposit validates the inputs and returns a deposit with a fresh ID.
func NewFixedDeposit(bank string, principal float64, cur Currency, rate float64, maturity date.Date, action MaturityAction, autoRoll bool) (FixedDeposit, error) {
	if !finite(principal) || principal <= 0 {
		return FixedDeposit{}, fmt.Errorf("%w: principal must be positive, got %v", ErrInvalidDeposit, principal)
	}
	if maturity.IsZero() {
		return FixedDeposit{}, fmt.Errorf("%w: missing maturity date", ErrInvalidDeposit)
	}
	if !finite(rate) || rate < 0 {
		return FixedDeposit{}, fmt.Errorf("%w: interest rate must not be negative, got %v", ErrInvalidDeposit, rate)
	}
	if action == "" {
		action = Renew
	}
	return FixedDeposit{
		ID:               NewID(),
		BankName:         strings.TrimSpace(bank),
		Principal:        principal,
		Currency:         cur,
		InterestRate:     rate,
		MaturityDate:     maturity,
		ActionOnMaturity: action,
		AutoRoll:         autoRoll,
	}, nil
}

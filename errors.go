package wealth

import "errors"

var (
	// ErrNotApplicable is returned when a transition does not apply to the
	// current state, like settling an unknown deposit.
	ErrNotApplicable = errors.New("transition not applicable")
	// ErrInvalidTerms is returned for rollover or settlement terms that are
	// out of range.
	ErrInvalidTerms = errors.New("invalid terms")
	// ErrInvalidGoal is returned when the wealth goal is not a positive number.
	ErrInvalidGoal = errors.New("wealth goal must be positive")
	// ErrInvalidDeposit is returned when a fixed deposit lacks a principal or a maturity date.
	ErrInvalidDeposit = errors.New("invalid fixed deposit")
	// ErrUnavailable is returned by external collaborators that cannot serve a request.
	ErrUnavailable = errors.New("unavailable")
)

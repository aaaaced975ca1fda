package payment

import (
	"go.uber.org/zap"

	"pharmapos/internal/util"
)

// Mode selects which funding source a charge is routed to
type Mode int

// Payment modes
const (
	ModeUnknown Mode = iota
	ModeCash
	ModeCredit
	ModeEWallet
)

// ParseMode maps a request string to a Mode. Unrecognized values map to
// ModeUnknown, which every charge rejects.
func ParseMode(s string) Mode {
	switch s {
	case "CASH":
		return ModeCash
	case "CREDIT":
		return ModeCredit
	case "EWALLET":
		return ModeEWallet
	default:
		return ModeUnknown
	}
}

// String returns the wire name of the mode
func (m Mode) String() string {
	switch m {
	case ModeCash:
		return "CASH"
	case ModeCredit:
		return "CREDIT"
	case ModeEWallet:
		return "EWALLET"
	default:
		return "UNKNOWN"
	}
}

// Dispatcher routes charges to one of three funding sources by mode.
// SetMode only moves the selector; balances are never touched by routing.
type Dispatcher struct {
	mode    Mode
	cash    FundingSource
	credit  FundingSource
	ewallet FundingSource
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher over the three funding sources
func NewDispatcher(cash, credit, ewallet FundingSource) *Dispatcher {
	return &Dispatcher{
		cash:    cash,
		credit:  credit,
		ewallet: ewallet,
		logger:  util.GetLogger(),
	}
}

// SetMode selects the funding source for subsequent charges
func (d *Dispatcher) SetMode(mode Mode) {
	d.mode = mode
}

// Mode returns the currently selected mode
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Charge routes the amount to the selected funding source. An unrecognized
// mode fails without touching any source. Invalid amounts are logged and
// reported as failure.
func (d *Dispatcher) Charge(amount int64) bool {
	var source FundingSource
	switch d.mode {
	case ModeCash:
		source = d.cash
	case ModeCredit:
		source = d.credit
	case ModeEWallet:
		source = d.ewallet
	default:
		d.logger.Warn("Charge rejected: unrecognized payment mode",
			zap.Int64("amount", amount))
		return false
	}

	ok, err := source.AttemptDebit(amount)
	if err != nil {
		d.logger.Error("Charge rejected: invalid amount",
			zap.String("mode", d.mode.String()),
			zap.Int64("amount", amount),
			zap.Error(err))
		return false
	}
	return ok
}

// DisplayName returns a human label for the current mode
func (d *Dispatcher) DisplayName() string {
	switch d.mode {
	case ModeCash:
		return "Cash"
	case ModeCredit:
		return "Credit Card"
	case ModeEWallet:
		return "E-Wallet"
	default:
		return "Unknown"
	}
}

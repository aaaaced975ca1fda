package payment

import "fmt"

// FundingSource is a payment backend holding its own balance or limit.
// AttemptDebit subtracts the full amount and returns true, or changes
// nothing and returns false. A non-positive amount is a caller error,
// returned as error with no state change.
type FundingSource interface {
	AttemptDebit(amount int64) (bool, error)
}

// CashTill is a cash drawer with an available balance
type CashTill struct {
	available int64
}

// NewCashTill creates a till holding the given cash amount
func NewCashTill(available int64) *CashTill {
	return &CashTill{available: available}
}

// AttemptDebit takes amount from the till if enough cash is available
func (c *CashTill) AttemptDebit(amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	if c.available < amount {
		return false, nil
	}
	c.available -= amount
	return true, nil
}

// Available returns the cash remaining in the till
func (c *CashTill) Available() int64 {
	return c.available
}

// CreditLine is a credit account with a remaining limit
type CreditLine struct {
	remainingLimit int64
}

// NewCreditLine creates a credit line with the given limit
func NewCreditLine(limit int64) *CreditLine {
	return &CreditLine{remainingLimit: limit}
}

// AttemptDebit consumes limit if the amount fits. Charging exactly the
// remaining limit succeeds and leaves the limit at zero.
func (c *CreditLine) AttemptDebit(amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	if amount > c.remainingLimit {
		return false, nil
	}
	c.remainingLimit -= amount
	return true, nil
}

// RemainingLimit returns the credit still available
func (c *CreditLine) RemainingLimit() int64 {
	return c.remainingLimit
}

// Wallet is a prepaid e-wallet balance
type Wallet struct {
	balance int64
}

// NewWallet creates a wallet with the given prepaid balance
func NewWallet(balance int64) *Wallet {
	return &Wallet{balance: balance}
}

// AttemptDebit spends from the wallet if the balance covers the amount
func (w *Wallet) AttemptDebit(amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	if w.balance < amount {
		return false, nil
	}
	w.balance -= amount
	return true, nil
}

// Balance returns the wallet's current balance
func (w *Wallet) Balance() int64 {
	return w.balance
}

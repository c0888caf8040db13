package ledger

import (
	"math"
	"strings"
	"time"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/uuid"
)

// TransactionFilter holds optional filter parameters for querying the ledger.
type TransactionFilter struct {
	Category  *string
	From      *time.Time
	To        *time.Time
	MinAmount *float64
	MaxAmount *float64
}

func (f TransactionFilter) matches(t Transaction) bool {
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.From != nil && t.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && t.Timestamp.After(*f.To) {
		return false
	}
	if f.MinAmount != nil && t.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
		return false
	}
	return true
}

// AddTransaction records a spend entry at the given instant. The amount must
// be finite and positive, the description non-empty after trimming, and the
// category present in the registry.
func (e *Engine) AddTransaction(description string, amount float64, category string, now time.Time) (*Transaction, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, apperrors.ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperrors.ErrInvalidDescription
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.hasCategory(category) {
		return nil, apperrors.ErrUnknownCategory
	}

	tx := Transaction{
		ID:          uuid.New(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Timestamp:   now,
	}

	next := e.state.clone()
	next.Transactions = append(next.Transactions, tx)
	if err := e.commit(next); err != nil {
		return nil, err
	}
	return &tx, nil
}

// RemoveTransaction deletes the entry with the given id. Removing an id twice
// fails the second time; deletion is not a silent no-op.
func (e *Engine) RemoveTransaction(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.clone()
	for i, t := range next.Transactions {
		if t.ID == id {
			next.Transactions = append(next.Transactions[:i], next.Transactions[i+1:]...)
			return e.commit(next)
		}
	}
	return apperrors.ErrTransactionNotFound
}

// Transactions returns the live ledger in append (chronological) order.
// Sorting for display is a caller concern.
func (e *Engine) Transactions() []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Transaction(nil), e.state.Transactions...)
}

// QueryTransactions returns the live entries matching the filter, in append
// order.
func (e *Engine) QueryTransactions(f TransactionFilter) []Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := []Transaction{}
	for _, t := range e.state.Transactions {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// TotalSpent sums the amounts of all live transactions.
func (e *Engine) TotalSpent() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sumAmounts(e.state.Transactions)
}

// Balance returns the raw budget minus spend. It goes negative once the
// budget is overrun; threshold and alert logic keys off this value.
func (e *Engine) Balance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Budget - sumAmounts(e.state.Transactions)
}

// Remaining returns the budget left for the period, clamped at zero for
// display purposes.
func (e *Engine) Remaining() float64 {
	return math.Max(0, e.Balance())
}

func sumAmounts(txs []Transaction) float64 {
	var total float64
	for _, t := range txs {
		total += t.Amount
	}
	return total
}

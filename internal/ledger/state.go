// Package ledger implements the payday-rolled spending engine: the live
// budget, the category registry, the transaction ledger, and the archival
// cycle that seals each period into an immutable snapshot.
package ledger

import "time"

// FallbackCategory receives transactions orphaned by a category deletion.
// It is added to the registry on first use so that every transaction always
// references a registered category.
const FallbackCategory = "Sonstiges"

// defaultPayday is used until the user configures one.
const defaultPayday = 1

// Transaction is a single spend entry in the live ledger. It is immutable
// once created except for Category, which is rewritten by category rename
// and delete cascades.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
}

// Archive is the sealed snapshot of one completed period. It is created
// exactly once per period boundary and never mutated afterwards.
type Archive struct {
	ID              string        `json:"id"`
	Label           string        `json:"label"`
	ArchivedAt      time.Time     `json:"archivedAt"`
	BudgetAtArchive float64       `json:"budgetAtArchive"`
	Transactions    []Transaction `json:"transactionsSnapshot"`
	Categories      []string      `json:"categoriesSnapshot"`
}

// State is the entire persisted surface the engine owns. It round-trips
// through JSON as one blob; the store replaces it wholesale on every mutation.
type State struct {
	Budget               float64       `json:"budget"`
	Payday               int           `json:"payday"`
	Categories           []string      `json:"categories"`
	Transactions         []Transaction `json:"transactions"`
	Archives             []Archive     `json:"archives"`
	LastArchivedPeriodID string        `json:"lastArchivedPeriodId,omitempty"`
}

// defaultState is the state of a first run: no budget, no categories, no
// history, payday on the 1st.
func defaultState() *State {
	return &State{
		Payday:       defaultPayday,
		Categories:   []string{},
		Transactions: []Transaction{},
		Archives:     []Archive{},
	}
}

// clone deep-copies the state. Mutating operations work on a clone and swap
// it in only after the new state has been persisted.
func (s *State) clone() *State {
	next := *s
	next.Categories = append([]string(nil), s.Categories...)
	next.Transactions = append([]Transaction(nil), s.Transactions...)
	next.Archives = make([]Archive, len(s.Archives))
	for i, a := range s.Archives {
		next.Archives[i] = a.clone()
	}
	return &next
}

// clone deep-copies an archive record.
func (a Archive) clone() Archive {
	out := a
	out.Transactions = append([]Transaction(nil), a.Transactions...)
	out.Categories = append([]string(nil), a.Categories...)
	return out
}

// hasCategory reports whether name is present in the registry.
func (s *State) hasCategory(name string) bool {
	for _, c := range s.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// normalize repairs fields that a blob written by an older build may lack.
func (s *State) normalize() {
	if s.Payday < 1 || s.Payday > 28 {
		s.Payday = defaultPayday
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.Archives == nil {
		s.Archives = []Archive{}
	}
}

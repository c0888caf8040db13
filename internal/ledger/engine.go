package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/logger"
	"paycycle/internal/period"
	"paycycle/internal/storage"
	"paycycle/internal/uuid"
)

// Engine is the owned instance holding the live ledger state. All mutation
// goes through its methods; one logical state change runs at a time. Every
// mutating method builds the next state on a deep copy, persists it, and only
// then swaps it in, so a failed call never leaves a partial change behind.
//
// Time-dependent operations take the reference instant explicitly, which
// keeps the archival decision deterministic under synthetic clocks.
type Engine struct {
	mu    sync.Mutex
	store storage.Store
	state *State
}

// Open loads the persisted state from the store, or starts from the empty
// default state on first run. A corrupt blob is discarded with a warning
// rather than propagated: losing a malformed snapshot is cheaper than
// refusing to start.
func Open(store storage.Store) (*Engine, error) {
	blob, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger state: %w", err)
	}

	state := defaultState()
	if blob != nil {
		if err := json.Unmarshal(blob, state); err != nil {
			logger.Get().Warnw("discarding corrupt ledger state, starting fresh", "error", err)
			state = defaultState()
		}
	}
	state.normalize()

	return &Engine{store: store, state: state}, nil
}

// commit persists next and, only on success, makes it the live state.
func (e *Engine) commit(next *State) error {
	blob, err := json.Marshal(next)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := e.store.Save(blob); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	e.state = next
	return nil
}

// Snapshot returns a deep copy of the current state for read-only consumers.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.state.clone()
}

// Budget returns the spending ceiling of the current live period.
func (e *Engine) Budget() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Budget
}

// Payday returns the configured period boundary day-of-month.
func (e *Engine) Payday() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Payday
}

// SetBudget replaces the live budget. The amount must be a finite,
// non-negative number.
func (e *Engine) SetBudget(amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperrors.ErrInvalidBudget
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.clone()
	next.Budget = amount
	return e.commit(next)
}

// SetPayday reconfigures the period boundary day. It governs boundary
// computation going forward only; sealed archives keep their boundaries.
func (e *Engine) SetPayday(day int) error {
	if !period.ValidPayday(day) {
		return apperrors.ErrInvalidPayday
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.clone()
	next.Payday = day
	return e.commit(next)
}

// Tick runs the archival check for the given instant. When the current
// period id is later than the last archived one, the live budget,
// transactions, and categories are sealed into a new archive and the live
// budget and ledger reset for the new period. Repeated ticks within one
// period are no-ops, so Tick is safe to run on any polling schedule.
//
// Tick also catches up after downtime: a boundary missed while the process
// was offline is sealed on the next invocation, whatever day that happens to
// be. A single archive then covers everything accumulated since the previous
// seal, and its label names the spanned periods.
//
// It returns the newly sealed archive, or nil when nothing was sealed.
func (e *Engine) Tick(now time.Time) (*Archive, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := period.IDFor(now, e.state.Payday)

	// First tick ever: nothing precedes the first period, so just anchor
	// the cycle without sealing.
	if e.state.LastArchivedPeriodID == "" {
		next := e.state.clone()
		next.LastArchivedPeriodID = current
		if err := e.commit(next); err != nil {
			return nil, err
		}
		return nil, nil
	}

	// A payday reconfiguration can move the current id backwards (moving the
	// payday past today's day-of-month shifts the period start into the
	// previous month). The cycle stays anchored at the last sealed boundary
	// and sealing resumes once time passes it again; ids never regress or
	// seal twice. The "YYYY-MM" key compares chronologically as a string.
	if current <= e.state.LastArchivedPeriodID {
		return nil, nil
	}

	completed := period.Previous(now, e.state.Payday)
	label := completed
	if e.state.LastArchivedPeriodID != completed {
		// More than one boundary elapsed since the last seal.
		label = fmt.Sprintf("%s..%s", e.state.LastArchivedPeriodID, completed)
	}

	archive := Archive{
		ID:              uuid.New(),
		Label:           label,
		ArchivedAt:      now,
		BudgetAtArchive: e.state.Budget,
		Transactions:    append([]Transaction(nil), e.state.Transactions...),
		Categories:      append([]string(nil), e.state.Categories...),
	}

	// Seal and reset as one state transition: the archive append and the
	// live reset land in the same persisted blob or not at all.
	next := e.state.clone()
	next.Archives = append(next.Archives, archive)
	next.Budget = 0
	next.Transactions = []Transaction{}
	next.LastArchivedPeriodID = current

	if err := e.commit(next); err != nil {
		return nil, err
	}

	logger.Get().Infow("sealed period archive",
		"label", archive.Label,
		"transactions", len(archive.Transactions),
		"budget", archive.BudgetAtArchive,
	)
	sealed := archive.clone()
	return &sealed, nil
}

// Archives returns the chronological list of sealed archives.
func (e *Engine) Archives() []Archive {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Archive, len(e.state.Archives))
	for i, a := range e.state.Archives {
		out[i] = a.clone()
	}
	return out
}

// ArchiveByID returns a single sealed archive.
func (e *Engine) ArchiveByID(id string) (*Archive, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, a := range e.state.Archives {
		if a.ID == id {
			found := a.clone()
			return &found, nil
		}
	}
	return nil, apperrors.ErrArchiveNotFound
}

// DeleteArchive removes a sealed archive. This is an administrative action;
// the archival cycle itself never deletes records.
func (e *Engine) DeleteArchive(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.state.clone()
	for i, a := range next.Archives {
		if a.ID == id {
			next.Archives = append(next.Archives[:i], next.Archives[i+1:]...)
			return e.commit(next)
		}
	}
	return apperrors.ErrArchiveNotFound
}

package ledger

import (
	"strings"

	apperrors "paycycle/internal/errors"
)

// Categories returns the registry in insertion order. Order is preserved for
// display only and carries no lookup semantics.
func (e *Engine) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.state.Categories...)
}

// CreateCategory adds a new category name to the registry. Names are
// case-sensitive, trimmed, and must be unique.
func (e *Engine) CreateCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.hasCategory(name) {
		return apperrors.ErrDuplicateCategory
	}

	next := e.state.clone()
	next.Categories = append(next.Categories, name)
	return e.commit(next)
}

// RenameCategory replaces oldName with newName and rewrites the category of
// every transaction referencing oldName in the same state transition, so no
// transaction ever observes a vanished name.
func (e *Engine) RenameCategory(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.hasCategory(oldName) {
		return apperrors.ErrCategoryNotFound
	}
	if newName == oldName {
		return nil
	}
	if e.state.hasCategory(newName) {
		return apperrors.ErrDuplicateCategory
	}

	next := e.state.clone()
	for i, c := range next.Categories {
		if c == oldName {
			next.Categories[i] = newName
		}
	}
	for i := range next.Transactions {
		if next.Transactions[i].Category == oldName {
			next.Transactions[i].Category = newName
		}
	}
	return e.commit(next)
}

// DeleteCategory removes name from the registry and reassigns every
// transaction referencing it to FallbackCategory, adding the fallback to the
// registry if it is not present yet. Deleting the fallback itself while
// transactions still reference it is rejected, since the cascade would only
// recreate it.
func (e *Engine) DeleteCategory(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.hasCategory(name) {
		return apperrors.ErrCategoryNotFound
	}

	orphaned := false
	for _, t := range e.state.Transactions {
		if t.Category == name {
			orphaned = true
			break
		}
	}
	if orphaned && name == FallbackCategory {
		return apperrors.ErrCategoryInUse
	}

	next := e.state.clone()
	kept := next.Categories[:0]
	for _, c := range next.Categories {
		if c != name {
			kept = append(kept, c)
		}
	}
	next.Categories = kept

	if orphaned {
		if !next.hasCategory(FallbackCategory) {
			next.Categories = append(next.Categories, FallbackCategory)
		}
		for i := range next.Transactions {
			if next.Transactions[i].Category == name {
				next.Transactions[i].Category = FallbackCategory
			}
		}
	}
	return e.commit(next)
}

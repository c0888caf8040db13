// Package testutil provides test helpers for setting up engines, stores,
// fixtures, and assertions.
package testutil

import (
	"errors"
	"testing"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/ledger"
	"paycycle/internal/storage"
)

// SetupTestEngine creates a ledger engine backed by a fresh in-memory store.
func SetupTestEngine(t *testing.T) (*ledger.Engine, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	engine, err := ledger.Open(store)
	if err != nil {
		t.Fatalf("failed to open test engine: %v", err)
	}
	return engine, store
}

// SeedCategory creates a category, failing the test on error.
func SeedCategory(t *testing.T, engine *ledger.Engine, name string) {
	t.Helper()

	if err := engine.CreateCategory(name); err != nil {
		t.Fatalf("failed to seed category %q: %v", name, err)
	}
}

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

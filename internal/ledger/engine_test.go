package ledger_test

import (
	"reflect"
	"testing"
	"time"

	"paycycle/internal/ledger"
	"paycycle/internal/storage"
	"paycycle/internal/testutil"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
}

func TestOpen(t *testing.T) {
	t.Run("first_run_defaults", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)

		state := engine.Snapshot()
		if state.Budget != 0 {
			t.Errorf("expected zero budget, got %v", state.Budget)
		}
		if state.Payday != 1 {
			t.Errorf("expected default payday 1, got %d", state.Payday)
		}
		if len(state.Categories) != 0 || len(state.Transactions) != 0 || len(state.Archives) != 0 {
			t.Error("expected empty collections on first run")
		}
		if state.LastArchivedPeriodID != "" {
			t.Errorf("expected no archived period yet, got %q", state.LastArchivedPeriodID)
		}
	})

	t.Run("corrupt_blob_falls_back_to_defaults", func(t *testing.T) {
		store := storage.NewMemoryStore()
		if err := store.Save([]byte("{not json")); err != nil {
			t.Fatalf("failed to seed corrupt blob: %v", err)
		}

		engine, err := ledger.Open(store)
		testutil.AssertNoError(t, err)

		state := engine.Snapshot()
		if state.Payday != 1 || state.Budget != 0 {
			t.Error("expected default state after corrupt blob")
		}
	})

	t.Run("round_trip", func(t *testing.T) {
		store := storage.NewMemoryStore()
		engine, err := ledger.Open(store)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, engine.SetPayday(5))
		testutil.AssertNoError(t, engine.SetBudget(1200))
		testutil.SeedCategory(t, engine, "Food")
		testutil.SeedCategory(t, engine, "Rent")
		_, err = engine.AddTransaction("Groceries", 54.30, "Food", date(2025, time.August, 10))
		testutil.AssertNoError(t, err)
		_, err = engine.Tick(date(2025, time.August, 10))
		testutil.AssertNoError(t, err)

		reloaded, err := ledger.Open(store)
		testutil.AssertNoError(t, err)

		before := engine.Snapshot()
		after := reloaded.Snapshot()
		if !reflect.DeepEqual(before, after) {
			t.Errorf("state did not survive reload:\nbefore: %+v\nafter:  %+v", before, after)
		}
	})
}

func TestSetBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)

		testutil.AssertNoError(t, engine.SetBudget(1000))
		if got := engine.Budget(); got != 1000 {
			t.Errorf("expected budget 1000, got %v", got)
		}
	})

	t.Run("zero_allowed", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		testutil.AssertNoError(t, engine.SetBudget(0))
	})

	t.Run("negative_rejected", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		testutil.AssertAppError(t, engine.SetBudget(-1), "INVALID_BUDGET")
	})
}

func TestSetPayday(t *testing.T) {
	t.Run("valid_range", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)

		testutil.AssertNoError(t, engine.SetPayday(1))
		testutil.AssertNoError(t, engine.SetPayday(28))
		if got := engine.Payday(); got != 28 {
			t.Errorf("expected payday 28, got %d", got)
		}
	})

	t.Run("out_of_range_rejected", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)

		testutil.AssertAppError(t, engine.SetPayday(0), "INVALID_PAYDAY")
		testutil.AssertAppError(t, engine.SetPayday(29), "INVALID_PAYDAY")
		testutil.AssertAppError(t, engine.SetPayday(31), "INVALID_PAYDAY")
	})
}

// seedLivePeriod configures payday 5, anchors the cycle mid-period, and
// records two transactions.
func seedLivePeriod(t *testing.T, engine *ledger.Engine) {
	t.Helper()

	testutil.AssertNoError(t, engine.SetPayday(5))
	testutil.AssertNoError(t, engine.SetBudget(1000))
	testutil.SeedCategory(t, engine, "Food")
	testutil.SeedCategory(t, engine, "Transport")

	if _, err := engine.Tick(date(2025, time.July, 10)); err != nil {
		t.Fatalf("anchor tick failed: %v", err)
	}
	if _, err := engine.AddTransaction("Groceries", 120, "Food", date(2025, time.July, 12)); err != nil {
		t.Fatalf("failed to add transaction: %v", err)
	}
	if _, err := engine.AddTransaction("Bus pass", 60, "Transport", date(2025, time.July, 20)); err != nil {
		t.Fatalf("failed to add transaction: %v", err)
	}
}

func TestTick(t *testing.T) {
	t.Run("first_tick_anchors_without_sealing", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		testutil.AssertNoError(t, engine.SetPayday(5))

		archive, err := engine.Tick(date(2025, time.July, 10))
		testutil.AssertNoError(t, err)
		if archive != nil {
			t.Fatal("first tick must not seal anything")
		}

		state := engine.Snapshot()
		if state.LastArchivedPeriodID != "2025-07" {
			t.Errorf("expected anchor 2025-07, got %q", state.LastArchivedPeriodID)
		}
		if len(state.Archives) != 0 {
			t.Errorf("expected no archives, got %d", len(state.Archives))
		}
	})

	t.Run("same_period_is_noop", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)

		before := engine.Snapshot()
		archive, err := engine.Tick(date(2025, time.August, 2)) // still before payday 5
		testutil.AssertNoError(t, err)
		if archive != nil {
			t.Fatal("tick inside the period must not seal")
		}
		if !reflect.DeepEqual(before, engine.Snapshot()) {
			t.Error("no-op tick must leave state unchanged")
		}
	})

	t.Run("boundary_seals_and_resets", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)
		preSeal := engine.Snapshot()

		now := date(2025, time.August, 5)
		archive, err := engine.Tick(now)
		testutil.AssertNoError(t, err)
		if archive == nil {
			t.Fatal("expected a sealed archive at the boundary")
		}

		if archive.Label != "2025-07" {
			t.Errorf("expected label 2025-07, got %q", archive.Label)
		}
		if !archive.ArchivedAt.Equal(now) {
			t.Errorf("expected archivedAt %v, got %v", now, archive.ArchivedAt)
		}
		if archive.BudgetAtArchive != preSeal.Budget {
			t.Errorf("expected archived budget %v, got %v", preSeal.Budget, archive.BudgetAtArchive)
		}
		if !reflect.DeepEqual(archive.Transactions, preSeal.Transactions) {
			t.Error("archived transactions must deep-equal the pre-seal ledger")
		}
		if !reflect.DeepEqual(archive.Categories, preSeal.Categories) {
			t.Error("archived categories must deep-equal the pre-seal registry")
		}

		state := engine.Snapshot()
		if len(state.Archives) != len(preSeal.Archives)+1 {
			t.Errorf("expected archives to grow by exactly 1, got %d", len(state.Archives))
		}
		if state.Budget != 0 {
			t.Errorf("expected budget reset to 0, got %v", state.Budget)
		}
		if len(state.Transactions) != 0 {
			t.Errorf("expected ledger reset, got %d transactions", len(state.Transactions))
		}
		if state.LastArchivedPeriodID != "2025-08" {
			t.Errorf("expected lastArchivedPeriodId 2025-08, got %q", state.LastArchivedPeriodID)
		}
		// Categories survive the reset.
		if !reflect.DeepEqual(state.Categories, preSeal.Categories) {
			t.Error("categories must survive the seal")
		}
	})

	t.Run("idempotent_per_period", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)

		now := date(2025, time.August, 5)
		first, err := engine.Tick(now)
		testutil.AssertNoError(t, err)
		if first == nil {
			t.Fatal("expected first boundary tick to seal")
		}
		afterFirst := engine.Snapshot()

		second, err := engine.Tick(now)
		testutil.AssertNoError(t, err)
		if second != nil {
			t.Fatal("repeated tick must not double-archive")
		}
		if !reflect.DeepEqual(afterFirst, engine.Snapshot()) {
			t.Error("repeated tick must leave state identical")
		}
	})

	t.Run("catches_up_after_downtime", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)

		// Offline across the August, September, and October boundaries.
		archive, err := engine.Tick(date(2025, time.October, 20))
		testutil.AssertNoError(t, err)
		if archive == nil {
			t.Fatal("expected a catch-up seal")
		}
		if archive.Label != "2025-07..2025-09" {
			t.Errorf("expected span label 2025-07..2025-09, got %q", archive.Label)
		}
		if len(archive.Transactions) != 2 {
			t.Errorf("expected the full stale ledger in the archive, got %d", len(archive.Transactions))
		}

		state := engine.Snapshot()
		if state.LastArchivedPeriodID != "2025-10" {
			t.Errorf("expected lastArchivedPeriodId 2025-10, got %q", state.LastArchivedPeriodID)
		}
		if len(state.Archives) != 1 {
			t.Errorf("expected exactly one catch-up archive, got %d", len(state.Archives))
		}
	})

	t.Run("payday_change_cannot_regress_the_cycle", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		testutil.AssertNoError(t, engine.SetPayday(1))
		testutil.AssertNoError(t, engine.SetBudget(1000))
		testutil.SeedCategory(t, engine, "Food")

		// Anchor with payday 1 inside August.
		_, err := engine.Tick(date(2025, time.August, 10))
		testutil.AssertNoError(t, err)
		_, err = engine.AddTransaction("Groceries", 80, "Food", date(2025, time.August, 10))
		testutil.AssertNoError(t, err)

		// Moving the payday past today shifts the current period id back to
		// 2025-07. The next tick must not seal a mid-period archive.
		testutil.AssertNoError(t, engine.SetPayday(20))
		archive, err := engine.Tick(date(2025, time.August, 10))
		testutil.AssertNoError(t, err)
		if archive != nil {
			t.Fatalf("a backwards period id must not seal, got label %q", archive.Label)
		}
		state := engine.Snapshot()
		if state.LastArchivedPeriodID != "2025-08" {
			t.Errorf("anchor must not regress, got %q", state.LastArchivedPeriodID)
		}
		if len(state.Archives) != 0 {
			t.Errorf("expected no archives, got %d", len(state.Archives))
		}

		// The new boundary day inside the anchored period is still a no-op.
		archive, err = engine.Tick(date(2025, time.August, 20))
		testutil.AssertNoError(t, err)
		if archive != nil {
			t.Fatal("re-entering the anchored period must not seal")
		}

		// The cycle resumes at the first boundary past the anchor, sealing
		// the anchored period exactly once.
		archive, err = engine.Tick(date(2025, time.September, 20))
		testutil.AssertNoError(t, err)
		if archive == nil {
			t.Fatal("expected the next real boundary to seal")
		}
		if archive.Label != "2025-08" {
			t.Errorf("expected label 2025-08, got %q", archive.Label)
		}
		if got := engine.Archives(); len(got) != 1 {
			t.Errorf("expected exactly one archive, got %d", len(got))
		}
	})

	t.Run("persist_failure_aborts_the_seal", func(t *testing.T) {
		store := &testutil.FlakyStore{}
		engine, err := ledger.Open(store)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, engine.SetPayday(5))
		testutil.AssertNoError(t, engine.SetBudget(500))
		testutil.SeedCategory(t, engine, "Food")
		_, err = engine.Tick(date(2025, time.July, 10))
		testutil.AssertNoError(t, err)
		_, err = engine.AddTransaction("Groceries", 75, "Food", date(2025, time.July, 12))
		testutil.AssertNoError(t, err)
		before := engine.Snapshot()

		store.FailSaves(true)
		if _, err := engine.Tick(date(2025, time.August, 5)); err == nil {
			t.Fatal("expected the seal to surface the persist failure")
		}
		if !reflect.DeepEqual(before, engine.Snapshot()) {
			t.Error("failed seal must not change live state")
		}

		// Once the store recovers, the same boundary seals cleanly.
		store.FailSaves(false)
		archive, err := engine.Tick(date(2025, time.August, 5))
		testutil.AssertNoError(t, err)
		if archive == nil {
			t.Fatal("expected the retried tick to seal")
		}
		if len(engine.Archives()) != 1 {
			t.Errorf("expected exactly one archive after retry, got %d", len(engine.Archives()))
		}
	})

	t.Run("sealed_archive_is_isolated_from_later_mutation", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)

		archive, err := engine.Tick(date(2025, time.August, 5))
		testutil.AssertNoError(t, err)
		if archive == nil {
			t.Fatal("expected a sealed archive")
		}

		// Mutating the returned copy must not reach the stored record.
		archive.Transactions[0].Description = "tampered"
		stored, err := engine.ArchiveByID(archive.ID)
		testutil.AssertNoError(t, err)
		if stored.Transactions[0].Description == "tampered" {
			t.Error("stored archive must be immune to caller mutation")
		}
	})
}

func TestArchives(t *testing.T) {
	t.Run("get_by_id", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)

		archive, err := engine.Tick(date(2025, time.August, 5))
		testutil.AssertNoError(t, err)

		found, err := engine.ArchiveByID(archive.ID)
		testutil.AssertNoError(t, err)
		if found.Label != archive.Label {
			t.Errorf("expected label %q, got %q", archive.Label, found.Label)
		}
	})

	t.Run("get_unknown_id", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		_, err := engine.ArchiveByID("missing")
		testutil.AssertAppError(t, err, "ARCHIVE_NOT_FOUND")
	})

	t.Run("delete", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)
		archive, err := engine.Tick(date(2025, time.August, 5))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, engine.DeleteArchive(archive.ID))
		if len(engine.Archives()) != 0 {
			t.Error("expected archive list to be empty after delete")
		}
		testutil.AssertAppError(t, engine.DeleteArchive(archive.ID), "ARCHIVE_NOT_FOUND")
	})

	t.Run("chronological_order", func(t *testing.T) {
		engine, _ := testutil.SetupTestEngine(t)
		seedLivePeriod(t, engine)

		_, err := engine.Tick(date(2025, time.August, 5))
		testutil.AssertNoError(t, err)
		_, err = engine.AddTransaction("Coffee", 4.5, "Food", date(2025, time.August, 6))
		testutil.AssertNoError(t, err)
		_, err = engine.Tick(date(2025, time.September, 5))
		testutil.AssertNoError(t, err)

		archives := engine.Archives()
		if len(archives) != 2 {
			t.Fatalf("expected 2 archives, got %d", len(archives))
		}
		if archives[0].Label != "2025-07" || archives[1].Label != "2025-08" {
			t.Errorf("expected chronological labels, got %q then %q", archives[0].Label, archives[1].Label)
		}
	})
}

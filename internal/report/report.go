// Package report derives read-only summaries from a transaction set and a
// budget. The same functions serve the live ledger and any archived snapshot;
// nothing in here mutates state.
package report

import (
	"math"
	"time"

	"paycycle/internal/ledger"
	"paycycle/internal/period"
)

// SumsByCategory maps each category to its summed spend. Categories without
// transactions do not appear.
func SumsByCategory(txs []ledger.Transaction) map[string]float64 {
	sums := make(map[string]float64)
	for _, t := range txs {
		sums[t.Category] += t.Amount
	}
	return sums
}

// PercentagesByCategory returns each category's share of the grand total,
// summing to 1.0. With no spending there is no distribution: the result is
// empty and callers must special-case it instead of dividing by zero.
func PercentagesByCategory(txs []ledger.Transaction) map[string]float64 {
	sums := SumsByCategory(txs)
	var total float64
	for _, v := range sums {
		total += v
	}
	if total == 0 {
		return map[string]float64{}
	}

	pct := make(map[string]float64, len(sums))
	for k, v := range sums {
		pct[k] = v / total
	}
	return pct
}

// PeriodSaving is the spent-vs-budget outcome of one period.
type PeriodSaving struct {
	PeriodID string  `json:"period_id"`
	Spent    float64 `json:"spent"`
	Saved    float64 `json:"saved"`
}

// SavedPerPeriod partitions the given transactions by payday boundaries and
// reports budget minus spend for every period from the earliest transaction
// through the period covering now. This is a reporting view over whatever
// transaction set it is handed; it does not consult archives.
func SavedPerPeriod(txs []ledger.Transaction, budget float64, payday int, now time.Time) []PeriodSaving {
	if len(txs) == 0 {
		return []PeriodSaving{}
	}

	spentByID := make(map[string]float64)
	earliest := txs[0].Timestamp
	for _, t := range txs {
		spentByID[period.IDFor(t.Timestamp, payday)] += t.Amount
		if t.Timestamp.Before(earliest) {
			earliest = t.Timestamp
		}
	}

	currentID := period.IDFor(now, payday)
	out := []PeriodSaving{}
	for start := period.StartFor(earliest, payday); ; start = start.AddDate(0, 1, 0) {
		id := period.IDFor(start, payday)
		spent := spentByID[id]
		out = append(out, PeriodSaving{PeriodID: id, Spent: spent, Saved: budget - spent})
		if id >= currentID {
			break
		}
	}
	return out
}

// Summary is the headline live-period view.
type Summary struct {
	Budget       float64 `json:"budget"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	Balance      float64 `json:"balance"`
	LowRemaining bool    `json:"low_remaining"`
	Threshold    float64 `json:"threshold"`
}

// Summarize computes spend, remaining (clamped), the raw balance, and the
// low-remaining warning flag for the given threshold.
func Summarize(budget float64, txs []ledger.Transaction, threshold float64) Summary {
	var spent float64
	for _, t := range txs {
		spent += t.Amount
	}
	balance := budget - spent
	return Summary{
		Budget:       budget,
		Spent:        spent,
		Remaining:    math.Max(0, balance),
		Balance:      balance,
		LowRemaining: budget > 0 && balance < threshold,
		Threshold:    threshold,
	}
}

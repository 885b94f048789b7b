package service

import "fmt"

type dedupeKey struct {
	date        string
	description string
	amount      string
	balance     string
	hasBalance  bool
}

// Dedupe disambiguates structurally identical records within one import
// batch, preserving input order. The first occurrence of a
// (date, description, amount, balance) tuple passes through unchanged; each
// later occurrence gets its description suffixed with its 1-based occurrence
// count, e.g. "Coffee (2)". Without the suffix two genuine same-day purchases
// would collide with the stored-duplicate check and the second would never be
// persisted.
func Dedupe(records []NormalizedRecord) []NormalizedRecord {
	counts := make(map[dedupeKey]int, len(records))
	out := make([]NormalizedRecord, 0, len(records))

	for _, rec := range records {
		key := dedupeKey{date: rec.Date, description: rec.Description, amount: rec.Amount}
		if rec.Balance != nil {
			key.balance = *rec.Balance
			key.hasBalance = true
		}
		counts[key]++
		if n := counts[key]; n > 1 {
			rec.Description = fmt.Sprintf("%s (%d)", rec.Description, n)
		}
		out = append(out, rec)
	}
	return out
}

package service

import (
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/patogeno/family-budget-app/internal/database/repository"
)

// NearMatch flags an incoming record that closely resembles a stored
// transaction without being an exact duplicate. Purely advisory: the record
// is still imported, the pair is surfaced for review.
type NearMatch struct {
	Description         string
	Date                string
	ExistingDescription string
	ExistingDate        string
}

// nearMatches compares a record against stored candidates with the same
// amount: within a week and a normalized edit distance under 0.4 counts as
// near. Identical descriptions are the exact-duplicate path, not a near
// match.
func nearMatches(rec NormalizedRecord, candidates []repository.Transaction) []NearMatch {
	var out []NearMatch
	for _, t := range candidates {
		if t.Description == rec.Description {
			continue
		}
		if daysApart(rec.Date, t.Date) > 7 {
			continue
		}
		dist := levenshtein.ComputeDistance(strings.ToUpper(rec.Description), strings.ToUpper(t.Description))
		maxlen := len(rec.Description)
		if len(t.Description) > maxlen {
			maxlen = len(t.Description)
		}
		if maxlen == 0 || float64(dist)/float64(maxlen) >= 0.4 {
			continue
		}
		out = append(out, NearMatch{
			Description:         rec.Description,
			Date:                rec.Date,
			ExistingDescription: t.Description,
			ExistingDate:        t.Date,
		})
	}
	return out
}

func daysApart(a, b string) int {
	ta, erra := time.Parse(time.DateOnly, a)
	tb, errb := time.Parse(time.DateOnly, b)
	if erra != nil || errb != nil {
		return int(^uint(0) >> 1)
	}
	d := ta.Sub(tb)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

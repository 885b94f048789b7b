package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/patogeno/family-budget-app/internal/database/repository"
)

// Matcher resolves a transaction's type and budget group from the ordered
// pattern rules. It is a pure query-and-compute component; compiled regexes
// are cached across calls.
type Matcher struct {
	Patterns *repository.PatternRepo
	Types    *repository.TransactionTypeRepo
	Groups   *repository.BudgetGroupRepo

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

func NewMatcher(patterns *repository.PatternRepo, types *repository.TransactionTypeRepo, groups *repository.BudgetGroupRepo) *Matcher {
	return &Matcher{Patterns: patterns, Types: types, Groups: groups, cache: make(map[string]*regexp.Regexp)}
}

// Categorize evaluates the rules scoped to exactly the given account in
// stored order and returns the first match's transaction type, resolved
// budget group, and pattern comments. Patterns scoped to no account are only
// consulted for a nil account. No match returns an all-nil triple.
//
// The budget group is the type's threshold group when an amount threshold is
// set and the raw signed amount meets it, else the default group. A set
// threshold with an unset threshold group deliberately resolves to no group.
func (m *Matcher) Categorize(ctx context.Context, description string, accountNameID *string, amount decimal.Decimal) (*repository.TransactionType, *repository.BudgetGroup, *string, error) {
	patterns, err := m.Patterns.ListForAccount(ctx, accountNameID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load patterns: %w", err)
	}

	for _, p := range patterns {
		re, err := m.compile(p.RegexPattern)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("pattern %q: %w", p.RegexPattern, err)
		}
		if !re.MatchString(description) {
			continue
		}

		txType, err := m.Types.Get(ctx, p.TransactionTypeID)
		if err != nil {
			return nil, nil, nil, err
		}
		if txType == nil {
			return nil, nil, nil, fmt.Errorf("pattern %q references missing transaction type %s", p.RegexPattern, p.TransactionTypeID)
		}

		groupID := txType.DefaultBudgetGroupID
		if txType.AmountThreshold != nil && amount.GreaterThanOrEqual(*txType.AmountThreshold) {
			groupID = txType.ThresholdBudgetGroupID
		}

		var group *repository.BudgetGroup
		if groupID != nil {
			group, err = m.Groups.Get(ctx, *groupID)
			if err != nil {
				return nil, nil, nil, err
			}
		}
		return txType, group, p.Comments, nil
	}
	return nil, nil, nil, nil
}

// compile caches case-insensitive compiled patterns. Description matching is
// an unanchored search, mirroring how rules are authored.
func (m *Matcher) compile(pattern string) (*regexp.Regexp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if re, ok := m.cache[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	if m.cache == nil {
		m.cache = make(map[string]*regexp.Regexp)
	}
	m.cache[pattern] = re
	return re, nil
}

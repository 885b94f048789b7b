package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patogeno/family-budget-app/internal/database/repository"
)

func TestCategorize_FirstMatchWins(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	groceries := env.mustType(t, repository.TransactionType{Name: "Groceries"})
	shopping := env.mustType(t, repository.TransactionType{Name: "Shopping"})

	// both patterns match "WOOLWORTHS METRO"; insertion order decides
	env.mustPattern(t, "WOOLWORTHS", groceries.ID, &account.ID, "")
	env.mustPattern(t, "WOOL", shopping.ID, &account.ID, "")

	txType, _, _, err := env.matcher.Categorize(env.ctx, "WOOLWORTHS METRO", &account.ID, dec(t, "-20.00"))
	require.NoError(t, err)
	require.NotNil(t, txType)
	require.Equal(t, "Groceries", txType.Name)
}

func TestCategorize_CaseInsensitiveSearch(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	coffee := env.mustType(t, repository.TransactionType{Name: "Coffee"})
	env.mustPattern(t, "cafe", coffee.ID, &account.ID, "")

	txType, _, _, err := env.matcher.Categorize(env.ctx, "THE LITTLE CAFE MELBOURNE", &account.ID, dec(t, "-4.50"))
	require.NoError(t, err)
	require.NotNil(t, txType)
}

func TestCategorize_ThresholdBoundary(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	everyday := env.mustGroup(t, "Everyday Spending")
	large := env.mustGroup(t, "Large Purchases")
	threshold := dec(t, "100.00")
	appliances := env.mustType(t, repository.TransactionType{
		Name:                   "Appliances",
		DefaultBudgetGroupID:   &everyday.ID,
		AmountThreshold:        &threshold,
		ThresholdBudgetGroupID: &large.ID,
	})
	env.mustPattern(t, "HARVEY NORMAN", appliances.ID, &account.ID, "")

	_, group, _, err := env.matcher.Categorize(env.ctx, "HARVEY NORMAN", &account.ID, dec(t, "100.00"))
	require.NoError(t, err)
	require.NotNil(t, group)
	require.Equal(t, "Large Purchases", group.Name)

	_, group, _, err = env.matcher.Categorize(env.ctx, "HARVEY NORMAN", &account.ID, dec(t, "99.99"))
	require.NoError(t, err)
	require.NotNil(t, group)
	require.Equal(t, "Everyday Spending", group.Name)
}

// The threshold comparison uses the raw signed amount: a -150.00 debit does
// not meet a 100.00 threshold even though its magnitude does.
func TestCategorize_ThresholdUsesSignedAmount(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	everyday := env.mustGroup(t, "Everyday Spending")
	large := env.mustGroup(t, "Large Purchases")
	threshold := dec(t, "100.00")
	appliances := env.mustType(t, repository.TransactionType{
		Name:                   "Appliances",
		DefaultBudgetGroupID:   &everyday.ID,
		AmountThreshold:        &threshold,
		ThresholdBudgetGroupID: &large.ID,
	})
	env.mustPattern(t, "HARVEY NORMAN", appliances.ID, &account.ID, "")

	_, group, _, err := env.matcher.Categorize(env.ctx, "HARVEY NORMAN", &account.ID, dec(t, "-150.00"))
	require.NoError(t, err)
	require.NotNil(t, group)
	require.Equal(t, "Everyday Spending", group.Name)
}

// A met threshold with no threshold group silently resolves to no group.
func TestCategorize_ThresholdWithoutGroup(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	everyday := env.mustGroup(t, "Everyday Spending")
	threshold := dec(t, "100.00")
	appliances := env.mustType(t, repository.TransactionType{
		Name:                 "Appliances",
		DefaultBudgetGroupID: &everyday.ID,
		AmountThreshold:      &threshold,
	})
	env.mustPattern(t, "HARVEY NORMAN", appliances.ID, &account.ID, "")

	txType, group, _, err := env.matcher.Categorize(env.ctx, "HARVEY NORMAN", &account.ID, dec(t, "500.00"))
	require.NoError(t, err)
	require.NotNil(t, txType)
	require.Nil(t, group)
}

func TestCategorize_NoMatch(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	txType, group, comments, err := env.matcher.Categorize(env.ctx, "MYSTERY MERCHANT", &account.ID, dec(t, "-5.00"))
	require.NoError(t, err)
	require.Nil(t, txType)
	require.Nil(t, group)
	require.Nil(t, comments)
}

// Patterns are scoped by exact account match: a pattern with no account is
// only consulted when categorizing with no account, never folded into an
// account-specific lookup.
func TestCategorize_NullScopedPatternsStayNullScoped(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	fees := env.mustType(t, repository.TransactionType{Name: "Fees"})
	env.mustPattern(t, "ACCOUNT FEE", fees.ID, nil, "")

	txType, _, _, err := env.matcher.Categorize(env.ctx, "ACCOUNT FEE", &account.ID, dec(t, "-10.00"))
	require.NoError(t, err)
	require.Nil(t, txType)

	txType, _, _, err = env.matcher.Categorize(env.ctx, "ACCOUNT FEE", nil, dec(t, "-10.00"))
	require.NoError(t, err)
	require.NotNil(t, txType)
	require.Equal(t, "Fees", txType.Name)
}

func TestCategorize_ReturnsPatternComments(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	coffee := env.mustType(t, repository.TransactionType{Name: "Coffee"})
	env.mustPattern(t, "CAFE", coffee.ID, &account.ID, "morning ritual")

	_, _, comments, err := env.matcher.Categorize(env.ctx, "CAFE ONE", &account.ID, dec(t, "-4.00"))
	require.NoError(t, err)
	require.NotNil(t, comments)
	require.Equal(t, "morning ritual", *comments)
}

func TestCategorize_InvalidRegex(t *testing.T) {
	t.Parallel()
	env := setupEnv(t)

	account := env.mustAccount(t, "Everyday")
	coffee := env.mustType(t, repository.TransactionType{Name: "Coffee"})
	env.mustPattern(t, "CAFE(", coffee.ID, &account.ID, "")

	_, _, _, err := env.matcher.Categorize(env.ctx, "CAFE ONE", &account.ID, dec(t, "-4.00"))
	require.Error(t, err)
}

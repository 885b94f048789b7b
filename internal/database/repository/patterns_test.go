package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternUpsert_KeepsSeqOnUpdate(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	accounts := NewAccountRepo(db)
	types := NewTransactionTypeRepo(db)
	patterns := NewPatternRepo(db)

	account, err := accounts.GetOrCreate(ctx, "Everyday")
	require.NoError(t, err)
	groceries, err := types.GetOrCreateByName(ctx, "Groceries")
	require.NoError(t, err)
	shopping, err := types.GetOrCreateByName(ctx, "Shopping")
	require.NoError(t, err)

	require.NoError(t, patterns.Upsert(ctx, TransactionPattern{
		RegexPattern: "WOOLWORTHS", TransactionTypeID: groceries.ID, AccountNameID: &account.ID,
	}))
	require.NoError(t, patterns.Upsert(ctx, TransactionPattern{
		RegexPattern: "KMART", TransactionTypeID: shopping.ID, AccountNameID: &account.ID,
	}))

	// re-upserting the first pattern changes its type but not its position
	require.NoError(t, patterns.Upsert(ctx, TransactionPattern{
		RegexPattern: "WOOLWORTHS", TransactionTypeID: shopping.ID, AccountNameID: &account.ID,
	}))

	got, err := patterns.ListForAccount(ctx, &account.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "WOOLWORTHS", got[0].RegexPattern)
	require.Equal(t, shopping.ID, got[0].TransactionTypeID)
	require.Equal(t, "KMART", got[1].RegexPattern)
	require.Less(t, got[0].Seq, got[1].Seq)
}

func TestPatternListForAccount_ExactScope(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	accounts := NewAccountRepo(db)
	types := NewTransactionTypeRepo(db)
	patterns := NewPatternRepo(db)

	account, err := accounts.GetOrCreate(ctx, "Everyday")
	require.NoError(t, err)
	fees, err := types.GetOrCreateByName(ctx, "Fees")
	require.NoError(t, err)

	require.NoError(t, patterns.Upsert(ctx, TransactionPattern{
		RegexPattern: "ACCOUNT FEE", TransactionTypeID: fees.ID,
	}))
	require.NoError(t, patterns.Upsert(ctx, TransactionPattern{
		RegexPattern: "CARD FEE", TransactionTypeID: fees.ID, AccountNameID: &account.ID,
	}))

	scoped, err := patterns.ListForAccount(ctx, &account.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, "CARD FEE", scoped[0].RegexPattern)

	unscoped, err := patterns.ListForAccount(ctx, nil)
	require.NoError(t, err)
	require.Len(t, unscoped, 1)
	require.Equal(t, "ACCOUNT FEE", unscoped[0].RegexPattern)
}

func TestPatternDelete_CascadesFromType(t *testing.T) {
	t.Parallel()
	db, ctx := setupDB(t)
	types := NewTransactionTypeRepo(db)
	patterns := NewPatternRepo(db)

	groceries, err := types.GetOrCreateByName(ctx, "Groceries")
	require.NoError(t, err)
	require.NoError(t, patterns.Upsert(ctx, TransactionPattern{
		RegexPattern: "WOOLWORTHS", TransactionTypeID: groceries.ID,
	}))

	require.NoError(t, types.Delete(ctx, groceries.ID))

	got, err := patterns.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

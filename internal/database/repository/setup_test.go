package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/patogeno/family-budget-app/internal/database"
)

func setupDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

func insertTx(t *testing.T, ctx context.Context, repo *TransactionRepo, tx Transaction) Transaction {
	t.Helper()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Source == "" {
		tx.Source = "anz"
	}
	if tx.ReviewStatus == "" {
		tx.ReviewStatus = ReviewPending
	}
	if tx.TransactionAssignment == "" {
		tx.TransactionAssignment = AssignmentUnassigned
	}
	if tx.BudgetGroupAssignment == "" {
		tx.BudgetGroupAssignment = AssignmentUnassigned
	}
	require.NoError(t, repo.Insert(ctx, tx))
	return tx
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

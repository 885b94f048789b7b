package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/patogeno/family-budget-app/internal/config"
	"github.com/patogeno/family-budget-app/internal/database"
	"github.com/patogeno/family-budget-app/internal/database/repository"
)

type testEnv struct {
	db       *sql.DB
	ctx      context.Context
	accounts *repository.AccountRepo
	groups   *repository.BudgetGroupRepo
	types    *repository.TransactionTypeRepo
	patterns *repository.PatternRepo
	txs      *repository.TransactionRepo
	matcher  *Matcher
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		db:       db,
		ctx:      ctx,
		accounts: repository.NewAccountRepo(db),
		groups:   repository.NewBudgetGroupRepo(db),
		types:    repository.NewTransactionTypeRepo(db),
		patterns: repository.NewPatternRepo(db),
		txs:      repository.NewTransactionRepo(db),
	}
	env.matcher = NewMatcher(env.patterns, env.types, env.groups)
	return env
}

func (e *testEnv) importer(t *testing.T) *Importer {
	t.Helper()
	formats := config.DefaultFormats()
	return &Importer{
		Transactions: e.txs,
		Accounts:     e.accounts,
		Types:        e.types,
		Patterns:     e.patterns,
		Matcher:      e.matcher,
		Formats: func(id string) (config.BankFormat, bool) {
			f, ok := formats[id]
			return f, ok
		},
	}
}

func (e *testEnv) mustAccount(t *testing.T, name string) repository.AccountName {
	t.Helper()
	a, err := e.accounts.GetOrCreate(e.ctx, name)
	require.NoError(t, err)
	return a
}

func (e *testEnv) mustGroup(t *testing.T, name string) repository.BudgetGroup {
	t.Helper()
	g := repository.BudgetGroup{ID: uuid.NewString(), Name: name}
	require.NoError(t, e.groups.Create(e.ctx, g))
	return g
}

func (e *testEnv) mustType(t *testing.T, tt repository.TransactionType) repository.TransactionType {
	t.Helper()
	if tt.ID == "" {
		tt.ID = uuid.NewString()
	}
	require.NoError(t, e.types.Create(e.ctx, tt))
	return tt
}

func (e *testEnv) mustPattern(t *testing.T, regex, typeID string, accountID *string, comments string) {
	t.Helper()
	p := repository.TransactionPattern{
		RegexPattern:      regex,
		TransactionTypeID: typeID,
		AccountNameID:     accountID,
	}
	if comments != "" {
		p.Comments = &comments
	}
	require.NoError(t, e.patterns.Upsert(e.ctx, p))
}

func (e *testEnv) mustInsertTx(t *testing.T, tx repository.Transaction) repository.Transaction {
	t.Helper()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Source == "" {
		tx.Source = "anz"
	}
	if tx.ReviewStatus == "" {
		tx.ReviewStatus = repository.ReviewPending
	}
	if tx.TransactionAssignment == "" {
		tx.TransactionAssignment = repository.AssignmentUnassigned
	}
	if tx.BudgetGroupAssignment == "" {
		tx.BudgetGroupAssignment = repository.AssignmentUnassigned
	}
	require.NoError(t, e.txs.Insert(e.ctx, tx))
	return tx
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

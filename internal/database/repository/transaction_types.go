package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionTypeRepo handles transaction types.
type TransactionTypeRepo struct{ db *sql.DB }

func NewTransactionTypeRepo(db *sql.DB) *TransactionTypeRepo { return &TransactionTypeRepo{db: db} }

const transactionTypeCols = `id, name, description, default_budget_group_id, amount_threshold, threshold_budget_group_id`

func (r *TransactionTypeRepo) Create(ctx context.Context, t TransactionType) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transaction_types(`+transactionTypeCols+`)
	VALUES (?, ?, ?, ?, ?, ?);
	`, t.ID, t.Name, t.Description, t.DefaultBudgetGroupID, decimalPtr(t.AmountThreshold), t.ThresholdBudgetGroupID)
	return err
}

func (r *TransactionTypeRepo) Update(ctx context.Context, t TransactionType) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transaction_types
	SET name = ?, description = ?, default_budget_group_id = ?, amount_threshold = ?, threshold_budget_group_id = ?
	WHERE id = ?`,
		t.Name, t.Description, t.DefaultBudgetGroupID, decimalPtr(t.AmountThreshold), t.ThresholdBudgetGroupID, t.ID)
	return err
}

// GetOrCreateByName is used by the pattern CSV import, which references
// transaction types by name only.
func (r *TransactionTypeRepo) GetOrCreateByName(ctx context.Context, name string) (TransactionType, error) {
	name = strings.TrimSpace(name)
	if t, err := r.GetByName(ctx, name); err != nil {
		return TransactionType{}, err
	} else if t != nil {
		return *t, nil
	}
	t := TransactionType{ID: deterministicID("type:" + strings.ToLower(name)), Name: name}
	if _, err := r.db.ExecContext(ctx, `
	INSERT INTO transaction_types(id, name, description)
	VALUES (?, ?, '')
	ON CONFLICT(name) DO NOTHING;
	`, t.ID, t.Name); err != nil {
		return TransactionType{}, err
	}
	got, err := r.GetByName(ctx, name)
	if err != nil {
		return TransactionType{}, err
	}
	return *got, nil
}

func (r *TransactionTypeRepo) Get(ctx context.Context, id string) (*TransactionType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionTypeCols+` FROM transaction_types WHERE id = ?`, id)
	return scanTransactionType(row)
}

func (r *TransactionTypeRepo) GetByName(ctx context.Context, name string) (*TransactionType, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionTypeCols+` FROM transaction_types WHERE name = ?`, name)
	return scanTransactionType(row)
}

func (r *TransactionTypeRepo) List(ctx context.Context) ([]TransactionType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionTypeCols+` FROM transaction_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransactionType
	for rows.Next() {
		t, err := scanTransactionTypeRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Delete removes a type; referencing transactions are nulled, referencing
// patterns cascade away.
func (r *TransactionTypeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transaction_types WHERE id = ?`, id)
	return err
}

func scanTransactionType(row *sql.Row) (*TransactionType, error) {
	var t TransactionType
	var groupID, thresholdGroupID, threshold sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &groupID, &threshold, &thresholdGroupID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	applyTypeNullables(&t, groupID, threshold, thresholdGroupID)
	return &t, nil
}

func scanTransactionTypeRows(rows *sql.Rows) (TransactionType, error) {
	var t TransactionType
	var groupID, thresholdGroupID, threshold sql.NullString
	if err := rows.Scan(&t.ID, &t.Name, &t.Description, &groupID, &threshold, &thresholdGroupID); err != nil {
		return TransactionType{}, err
	}
	applyTypeNullables(&t, groupID, threshold, thresholdGroupID)
	return t, nil
}

func applyTypeNullables(t *TransactionType, groupID, threshold, thresholdGroupID sql.NullString) {
	if groupID.Valid {
		t.DefaultBudgetGroupID = &groupID.String
	}
	if thresholdGroupID.Valid {
		t.ThresholdBudgetGroupID = &thresholdGroupID.String
	}
	if threshold.Valid {
		if d, err := decimal.NewFromString(threshold.String); err == nil {
			t.AmountThreshold = &d
		}
	}
}

func decimalPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// BudgetInitializationRepo stores opening balances for budget groups.
type BudgetInitializationRepo struct{ db *sql.DB }

func NewBudgetInitializationRepo(db *sql.DB) *BudgetInitializationRepo {
	return &BudgetInitializationRepo{db: db}
}

func (r *BudgetInitializationRepo) Create(ctx context.Context, b BudgetInitialization) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO budget_initializations(id, budget_group_id, amount, date, description)
	VALUES (?, ?, ?, ?, ?);
	`, b.ID, b.BudgetGroupID, b.Amount.String(), b.Date, b.Description)
	return err
}

func (r *BudgetInitializationRepo) List(ctx context.Context) ([]BudgetInitialization, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, budget_group_id, amount, date, description FROM budget_initializations ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BudgetInitialization
	for rows.Next() {
		var b BudgetInitialization
		var amount string
		if err := rows.Scan(&b.ID, &b.BudgetGroupID, &amount, &b.Date, &b.Description); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		b.Amount = d
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BudgetInitializationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM budget_initializations WHERE id = ?`, id)
	return err
}

// BudgetAdjustmentRepo stores manual transfers between budget groups.
type BudgetAdjustmentRepo struct{ db *sql.DB }

func NewBudgetAdjustmentRepo(db *sql.DB) *BudgetAdjustmentRepo {
	return &BudgetAdjustmentRepo{db: db}
}

func (r *BudgetAdjustmentRepo) Create(ctx context.Context, b BudgetAdjustment) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO budget_adjustments(id, from_budget_group_id, to_budget_group_id, amount, date, description)
	VALUES (?, ?, ?, ?, ?, ?);
	`, b.ID, b.FromBudgetGroupID, b.ToBudgetGroupID, b.Amount.String(), b.Date, b.Description)
	return err
}

func (r *BudgetAdjustmentRepo) List(ctx context.Context) ([]BudgetAdjustment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, from_budget_group_id, to_budget_group_id, amount, date, description FROM budget_adjustments ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BudgetAdjustment
	for rows.Next() {
		var b BudgetAdjustment
		var amount string
		if err := rows.Scan(&b.ID, &b.FromBudgetGroupID, &b.ToBudgetGroupID, &amount, &b.Date, &b.Description); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		b.Amount = d
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BudgetAdjustmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM budget_adjustments WHERE id = ?`, id)
	return err
}

package repository

import (
	"context"
	"database/sql"
)

// BudgetGroupRepo handles budget groups.
type BudgetGroupRepo struct{ db *sql.DB }

func NewBudgetGroupRepo(db *sql.DB) *BudgetGroupRepo { return &BudgetGroupRepo{db: db} }

func (r *BudgetGroupRepo) Create(ctx context.Context, g BudgetGroup) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO budget_groups(id, name, description) VALUES (?, ?, ?);
	`, g.ID, g.Name, g.Description)
	return err
}

func (r *BudgetGroupRepo) Update(ctx context.Context, g BudgetGroup) error {
	_, err := r.db.ExecContext(ctx, `UPDATE budget_groups SET name = ?, description = ? WHERE id = ?`,
		g.Name, g.Description, g.ID)
	return err
}

func (r *BudgetGroupRepo) Get(ctx context.Context, id string) (*BudgetGroup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM budget_groups WHERE id = ?`, id)
	var g BudgetGroup
	if err := row.Scan(&g.ID, &g.Name, &g.Description); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *BudgetGroupRepo) List(ctx context.Context) ([]BudgetGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM budget_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BudgetGroup
	for rows.Next() {
		var g BudgetGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Description); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Delete removes a budget group; referencing transactions have their
// budget_group_id nulled by the SET NULL foreign key.
func (r *BudgetGroupRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM budget_groups WHERE id = ?`, id)
	return err
}

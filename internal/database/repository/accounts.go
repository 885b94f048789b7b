package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// AccountRepo handles account names.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Create(ctx context.Context, a AccountName) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO account_names(id, name, created_at, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, a.ID, a.Name)
	return err
}

// GetOrCreate looks an account up by name, creating it when absent. The id is
// derived from the name so repeated creates converge on one row.
func (r *AccountRepo) GetOrCreate(ctx context.Context, name string) (AccountName, error) {
	name = strings.TrimSpace(name)
	if a, err := r.GetByName(ctx, name); err != nil {
		return AccountName{}, err
	} else if a != nil {
		return *a, nil
	}
	a := AccountName{ID: deterministicID("account:" + strings.ToLower(name)), Name: name}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO account_names(id, name, created_at, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET updated_at=CURRENT_TIMESTAMP;
	`, a.ID, a.Name)
	if err != nil {
		return AccountName{}, err
	}
	got, err := r.GetByName(ctx, name)
	if err != nil {
		return AccountName{}, err
	}
	return *got, nil
}

func (r *AccountRepo) Get(ctx context.Context, id string) (*AccountName, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM account_names WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *AccountRepo) GetByName(ctx context.Context, name string) (*AccountName, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM account_names WHERE name = ?`, name)
	return scanAccount(row)
}

func (r *AccountRepo) List(ctx context.Context) ([]AccountName, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM account_names ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountName
	for rows.Next() {
		var a AccountName
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an account. The transactions foreign key is RESTRICT, so the
// delete fails while any transaction still references the account.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM account_names WHERE id = ?`, id)
	return err
}

func scanAccount(row *sql.Row) (*AccountName, error) {
	var a AccountName
	if err := row.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func deterministicID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// PatternRepo stores categorization rules.
type PatternRepo struct{ db *sql.DB }

func NewPatternRepo(db *sql.DB) *PatternRepo { return &PatternRepo{db: db} }

const patternCols = `id, seq, regex_pattern, transaction_type_id, account_name_id, comments`

// Upsert inserts a pattern or, when (regex_pattern, account_name_id) already
// exists, updates its transaction type and comments in place. Existing rows
// keep their seq so rule evaluation order is stable across re-imports.
func (r *PatternRepo) Upsert(ctx context.Context, p TransactionPattern) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transaction_patterns(id, seq, regex_pattern, transaction_type_id, account_name_id, comments)
	VALUES (?, (SELECT IFNULL(MAX(seq), 0) + 1 FROM transaction_patterns), ?, ?, ?, ?)
	ON CONFLICT(regex_pattern, account_name_id) DO UPDATE SET
	 transaction_type_id=excluded.transaction_type_id,
	 comments=excluded.comments;
	`, p.ID, p.RegexPattern, p.TransactionTypeID, p.AccountNameID, p.Comments)
	return err
}

// ListForAccount returns patterns scoped to exactly the given account, in
// stored seq order. A nil account returns only the null-scoped patterns;
// null-scoped patterns are never folded into an account-specific query.
func (r *PatternRepo) ListForAccount(ctx context.Context, accountNameID *string) ([]TransactionPattern, error) {
	query := `SELECT ` + patternCols + ` FROM transaction_patterns WHERE account_name_id = ? ORDER BY seq`
	args := []interface{}{accountNameID}
	if accountNameID == nil {
		query = `SELECT ` + patternCols + ` FROM transaction_patterns WHERE account_name_id IS NULL ORDER BY seq`
		args = nil
	}
	return r.query(ctx, query, args...)
}

func (r *PatternRepo) List(ctx context.Context) ([]TransactionPattern, error) {
	return r.query(ctx, `SELECT `+patternCols+` FROM transaction_patterns ORDER BY seq`)
}

func (r *PatternRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transaction_patterns WHERE id = ?`, id)
	return err
}

func (r *PatternRepo) query(ctx context.Context, q string, args ...interface{}) ([]TransactionPattern, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransactionPattern
	for rows.Next() {
		var p TransactionPattern
		var account, comments sql.NullString
		if err := rows.Scan(&p.ID, &p.Seq, &p.RegexPattern, &p.TransactionTypeID, &account, &comments); err != nil {
			return nil, err
		}
		if account.Valid {
			p.AccountNameID = &account.String
		}
		if comments.Valid {
			p.Comments = &comments.String
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

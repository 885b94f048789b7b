package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionFilters defines list filters for paginated queries. Zero values
// mean "no filter". SortBy must be one of the whitelisted column names.
type TransactionFilters struct {
	DateFrom          string
	DateTo            string
	Description       string
	TransactionTypeID string
	BudgetGroupID     string
	AccountNameID     string
	ReviewStatus      string
	SortBy            string
	SortDesc          bool
	Page              int
	PerPage           int
}

// sortColumns whitelists sortable fields. Amounts are stored as decimal text,
// so they sort through a numeric cast.
var sortColumns = map[string]string{
	"date":          "date",
	"amount":        "CAST(amount AS REAL)",
	"balance":       "CAST(balance AS REAL)",
	"description":   "description",
	"source":        "source",
	"review_status": "review_status",
	"created_at":    "created_at",
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionCols = `id, date, amount, balance, description, source, account_name_id,
 budget_group_id, transaction_type_id, budget_group_assignment_type, transaction_assignment_type,
 review_status, comments, created_at, updated_at`

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

// InsertMany writes all rows in one transaction; a failing insert rolls the
// whole batch back so linked rows never land half-written.
func (r *TransactionRepo) InsertMany(ctx context.Context, txs []Transaction) error {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range txs {
		if err := insertTransaction(ctx, dbtx, t); err != nil {
			_ = dbtx.Rollback()
			return err
		}
	}
	return dbtx.Commit()
}

// execer abstracts DB and Tx for the shared insert.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertTransaction(ctx context.Context, e execer, t Transaction) error {
	_, err := e.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, date, amount, balance, description, source, account_name_id,
	 budget_group_id, transaction_type_id, budget_group_assignment_type, transaction_assignment_type,
	 review_status, comments, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		t.ID, t.Date, t.Amount.String(), decimalPtr(t.Balance), t.Description, t.Source, t.AccountNameID,
		t.BudgetGroupID, t.TransactionTypeID, string(t.BudgetGroupAssignment), string(t.TransactionAssignment),
		string(t.ReviewStatus), t.Comments)
	return err
}

// Update rewrites all mutable fields of an existing row.
func (r *TransactionRepo) Update(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transactions SET
	 date = ?, amount = ?, balance = ?, description = ?, source = ?, account_name_id = ?,
	 budget_group_id = ?, transaction_type_id = ?, budget_group_assignment_type = ?,
	 transaction_assignment_type = ?, review_status = ?, comments = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`,
		t.Date, t.Amount.String(), decimalPtr(t.Balance), t.Description, t.Source, t.AccountNameID,
		t.BudgetGroupID, t.TransactionTypeID, string(t.BudgetGroupAssignment),
		string(t.TransactionAssignment), string(t.ReviewStatus), t.Comments, t.ID)
	return err
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionCols+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ExistsDuplicate reports whether a stored transaction matches exactly on
// (date, description, amount, account, balance). A nil balance only matches a
// stored null balance.
func (r *TransactionRepo) ExistsDuplicate(ctx context.Context, accountNameID, date, description string, amount decimal.Decimal, balance *decimal.Decimal) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM transactions
	 WHERE account_name_id = ? AND date = ? AND description = ? AND amount = ?`
	args := []interface{}{accountNameID, date, description, amount.String()}
	if balance == nil {
		query += ` AND balance IS NULL)`
	} else {
		query += ` AND balance = ?)`
		args = append(args, balance.String())
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns one page of transactions plus the unpaginated total.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, int, error) {
	var where []string
	var args []interface{}

	if f.DateFrom != "" {
		where = append(where, "date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "date <= ?")
		args = append(args, f.DateTo)
	}
	if f.Description != "" {
		where = append(where, "description LIKE ?")
		args = append(args, "%"+f.Description+"%")
	}
	if f.TransactionTypeID != "" {
		where = append(where, "transaction_type_id = ?")
		args = append(args, f.TransactionTypeID)
	}
	if f.BudgetGroupID != "" {
		where = append(where, "budget_group_id = ?")
		args = append(args, f.BudgetGroupID)
	}
	if f.AccountNameID != "" {
		where = append(where, "account_name_id = ?")
		args = append(args, f.AccountNameID)
	}
	if f.ReviewStatus != "" {
		where = append(where, "review_status = ?")
		args = append(args, f.ReviewStatus)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "date"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}

	query := "SELECT " + transactionCols + " FROM transactions" + clause +
		fmt.Sprintf(" ORDER BY %s %s, created_at %s", col, dir, dir)

	if f.PerPage > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PerPage, (page-1)*f.PerPage)
	}

	out, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListNeedingCategorization selects rows eligible for the recategorization
// sweep: either provenance flag is auto_unchecked or unassigned. Manually and
// auto-confirmed rows are never returned.
func (r *TransactionRepo) ListNeedingCategorization(ctx context.Context) ([]Transaction, error) {
	return r.queryTransactions(ctx, `SELECT `+transactionCols+` FROM transactions
	 WHERE transaction_assignment_type IN ('auto_unchecked', 'unassigned')
	    OR budget_group_assignment_type IN ('auto_unchecked', 'unassigned')
	 ORDER BY date, created_at`)
}

func (r *TransactionRepo) ListByIDs(ctx context.Context, ids []string) ([]Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.queryTransactions(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE id IN (`+placeholders+`) ORDER BY date, created_at`, args...)
}

func (r *TransactionRepo) PendingReview(ctx context.Context) ([]Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE review_status = 'pending' ORDER BY date, created_at`)
}

// ListByAmount returns stored rows for one account with the given amount,
// used by the near-duplicate advisor.
func (r *TransactionRepo) ListByAmount(ctx context.Context, accountNameID string, amount decimal.Decimal) ([]Transaction, error) {
	return r.queryTransactions(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE account_name_id = ? AND amount = ? ORDER BY date`,
		accountNameID, amount.String())
}

func (r *TransactionRepo) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// scanner abstracts Row and Rows for the shared nullable-field scan.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var amount string
	var balance, group, txType, comments sql.NullString
	var groupAssign, txAssign, status string
	if err := row.Scan(&t.ID, &t.Date, &amount, &balance, &t.Description, &t.Source, &t.AccountNameID,
		&group, &txType, &groupAssign, &txAssign, &status, &comments, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: bad amount %q: %w", t.ID, amount, err)
	}
	t.Amount = d
	if balance.Valid {
		b, err := decimal.NewFromString(balance.String)
		if err != nil {
			return Transaction{}, fmt.Errorf("transaction %s: bad balance %q: %w", t.ID, balance.String, err)
		}
		t.Balance = &b
	}
	if group.Valid {
		t.BudgetGroupID = &group.String
	}
	if txType.Valid {
		t.TransactionTypeID = &txType.String
	}
	if comments.Valid {
		t.Comments = &comments.String
	}
	t.BudgetGroupAssignment = AssignmentType(groupAssign)
	t.TransactionAssignment = AssignmentType(txAssign)
	t.ReviewStatus = ReviewStatus(status)
	return t, nil
}

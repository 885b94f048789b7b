package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/patogeno/family-budget-app/internal/config"
	"github.com/patogeno/family-budget-app/internal/database/repository"
)

// SourceManualEntry marks transactions created outside a bank import.
const SourceManualEntry = "manual_entry"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Importer drives the import pipeline: parse, dedupe, reconcile against
// stored rows, categorize, persist.
type Importer struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Types        *repository.TransactionTypeRepo
	Patterns     *repository.PatternRepo
	Matcher      *Matcher
	Formats      func(id string) (config.BankFormat, bool)
	Log          *zap.Logger
}

// ImportResult summarizes one statement import. NearMatches are advisory
// only: inserted records that closely resemble an already-stored one.
type ImportResult struct {
	Created     int
	Skipped     int
	NearMatches []NearMatch
}

// ImportTransactions ingests one uploaded statement for one account.
// A new account is created when newAccountName is given, otherwise the
// account is looked up by id. Records already stored (same date, description,
// amount, account, balance) are silently skipped. The first record failing
// validation aborts the remaining batch; rows persisted before it stay
// persisted.
func (i *Importer) ImportTransactions(ctx context.Context, r io.Reader, formatID, accountNameID, newAccountName string) (ImportResult, error) {
	res := ImportResult{}
	if r == nil {
		return res, ErrMissingFile
	}

	format, ok := i.Formats(formatID)
	if !ok {
		return res, &UnsupportedFormatError{Format: formatID}
	}

	account, err := i.resolveAccount(ctx, accountNameID, newAccountName)
	if err != nil {
		return res, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("read upload: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	csvr := csv.NewReader(bytes.NewReader(data))
	csvr.FieldsPerRecord = -1
	rows, err := csvr.ReadAll()
	if err != nil {
		return res, fmt.Errorf("read csv: %w", err)
	}

	records, err := ParseStatement(rows, format)
	if err != nil {
		return res, err
	}
	records = Dedupe(records)

	for idx, rec := range records {
		amount, balance, verr := validateRecord(idx+1, rec)
		if verr != nil {
			return res, verr
		}

		exists, err := i.Transactions.ExistsDuplicate(ctx, account.ID, rec.Date, rec.Description, amount, balance)
		if err != nil {
			return res, fmt.Errorf("duplicate check: %w", err)
		}
		if exists {
			res.Skipped++
			continue
		}

		txType, group, patternComments, err := i.Matcher.Categorize(ctx, rec.Description, &account.ID, amount)
		if err != nil {
			return res, err
		}

		t := repository.Transaction{
			ID:            uuid.NewString(),
			Date:          rec.Date,
			Amount:        amount,
			Balance:       balance,
			Description:   rec.Description,
			Source:        formatID,
			AccountNameID: account.ID,
			ReviewStatus:  repository.ReviewPending,
			Comments:      patternComments,
		}
		t.TransactionAssignment = repository.AssignmentUnassigned
		if txType != nil {
			t.TransactionTypeID = &txType.ID
			t.TransactionAssignment = repository.AssignmentAutoUnchecked
		}
		t.BudgetGroupAssignment = repository.AssignmentUnassigned
		if group != nil {
			t.BudgetGroupID = &group.ID
			t.BudgetGroupAssignment = repository.AssignmentAutoUnchecked
		}

		if stored, err := i.Transactions.ListByAmount(ctx, account.ID, amount); err == nil {
			res.NearMatches = append(res.NearMatches, nearMatches(rec, stored)...)
		}

		if err := i.Transactions.Insert(ctx, t); err != nil {
			// a concurrent import can win the check-then-insert race; the
			// identity index turns the loser into a skip
			if strings.Contains(err.Error(), "UNIQUE") {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("insert transaction: %w", err)
		}
		res.Created++
	}

	if i.Log != nil {
		i.Log.Info("statement imported",
			zap.String("format", formatID),
			zap.String("account", account.Name),
			zap.Int("created", res.Created),
			zap.Int("skipped", res.Skipped),
			zap.Int("near_matches", len(res.NearMatches)),
		)
	}
	return res, nil
}

// ImportPatterns ingests a rule CSV with header columns Pattern, Category,
// Comments. Each row upserts a transaction type by name and then a pattern
// keyed on (pattern, account). Returns the number of rows processed.
func (i *Importer) ImportPatterns(ctx context.Context, r io.Reader, accountNameID string) (int, error) {
	if r == nil {
		return 0, ErrMissingFile
	}
	if strings.TrimSpace(accountNameID) == "" {
		return 0, ErrMissingAccount
	}
	account, err := i.Accounts.Get(ctx, accountNameID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, fmt.Errorf("account %s: %w", accountNameID, ErrUnknownAccount)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read upload: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	csvr := csv.NewReader(bytes.NewReader(data))
	csvr.FieldsPerRecord = -1
	rows, err := csvr.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("pattern csv is empty")
	}

	cols := map[string]int{}
	for idx, name := range rows[0] {
		cols[strings.TrimSpace(name)] = idx
	}
	for _, required := range []string{"Pattern", "Category", "Comments"} {
		if _, ok := cols[required]; !ok {
			return 0, fmt.Errorf("pattern csv missing column %q", required)
		}
	}

	count := 0
	for idx, row := range rows[1:] {
		if len(row) <= cols["Comments"] || len(row) <= cols["Pattern"] || len(row) <= cols["Category"] {
			return count, fmt.Errorf("pattern csv row %d: too few columns", idx+1)
		}
		txType, err := i.Types.GetOrCreateByName(ctx, row[cols["Category"]])
		if err != nil {
			return count, fmt.Errorf("pattern csv row %d: %w", idx+1, err)
		}
		comments := row[cols["Comments"]]
		p := repository.TransactionPattern{
			RegexPattern:      row[cols["Pattern"]],
			TransactionTypeID: txType.ID,
			AccountNameID:     &account.ID,
			Comments:          &comments,
		}
		if err := i.Patterns.Upsert(ctx, p); err != nil {
			return count, fmt.Errorf("pattern csv row %d: %w", idx+1, err)
		}
		count++
	}

	if i.Log != nil {
		i.Log.Info("patterns imported", zap.String("account", account.Name), zap.Int("rows", count))
	}
	return count, nil
}

func (i *Importer) resolveAccount(ctx context.Context, accountNameID, newAccountName string) (repository.AccountName, error) {
	if strings.TrimSpace(newAccountName) != "" {
		return i.Accounts.GetOrCreate(ctx, newAccountName)
	}
	if strings.TrimSpace(accountNameID) != "" {
		a, err := i.Accounts.Get(ctx, accountNameID)
		if err != nil {
			return repository.AccountName{}, err
		}
		if a == nil {
			return repository.AccountName{}, fmt.Errorf("account %s: %w", accountNameID, ErrUnknownAccount)
		}
		return *a, nil
	}
	return repository.AccountName{}, ErrMissingAccount
}

// validateRecord converts the record's string amounts at the persistence
// boundary, reporting field-level failures.
func validateRecord(row int, rec NormalizedRecord) (decimal.Decimal, *decimal.Decimal, error) {
	fields := map[string]string{}

	if strings.TrimSpace(rec.Description) == "" {
		fields["description"] = "must not be blank"
	} else if len(rec.Description) > 255 {
		fields["description"] = "must be at most 255 characters"
	}

	amount, err := decimal.NewFromString(rec.Amount)
	if err != nil {
		fields["amount"] = fmt.Sprintf("invalid decimal %q", rec.Amount)
	}

	var balance *decimal.Decimal
	if rec.Balance != nil {
		b, err := decimal.NewFromString(*rec.Balance)
		if err != nil {
			fields["balance"] = fmt.Sprintf("invalid decimal %q", *rec.Balance)
		} else {
			balance = &b
		}
	}

	if len(fields) > 0 {
		return decimal.Decimal{}, nil, &ValidationError{Row: row, Fields: fields}
	}
	return amount, balance, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/patogeno/family-budget-app/internal/database/repository"
)

// AdjustmentAccountName is the synthetic account that holds manual date
// adjustments.
const AdjustmentAccountName = "Adjustment Date"

// Adjuster creates paired manual adjustment transactions.
type Adjuster struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Groups       *repository.BudgetGroupRepo
	Types        *repository.TransactionTypeRepo
}

// AdjustmentRequest describes one budget rebalance: +Amount lands on
// DateFrom, -Amount on DateTo.
type AdjustmentRequest struct {
	DateFrom          string
	DateTo            string
	Amount            decimal.Decimal
	BudgetGroupID     string
	TransactionTypeID string
	Description       string
	Comments          string
}

// CreateAdjustmentTransaction creates exactly two linked rows under the
// synthetic adjustment account, both pre-confirmed and manually assigned.
// The pair sums to zero.
func (a *Adjuster) CreateAdjustmentTransaction(ctx context.Context, req AdjustmentRequest) ([]repository.Transaction, error) {
	group, err := a.Groups.Get(ctx, req.BudgetGroupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("budget group %s: %w", req.BudgetGroupID, ErrUnknownBudgetGroup)
	}
	txType, err := a.Types.Get(ctx, req.TransactionTypeID)
	if err != nil {
		return nil, err
	}
	if txType == nil {
		return nil, fmt.Errorf("transaction type %s: %w", req.TransactionTypeID, ErrUnknownTransactionType)
	}

	account, err := a.Accounts.GetOrCreate(ctx, AdjustmentAccountName)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "Date Adjustment"
	}

	var comments *string
	if req.Comments != "" {
		comments = &req.Comments
	}

	pair := []repository.Transaction{
		adjustmentRow(req.DateFrom, req.Amount, description, account.ID, group.ID, txType.ID, comments),
		adjustmentRow(req.DateTo, req.Amount.Neg(), description, account.ID, group.ID, txType.ID, comments),
	}
	if err := a.Transactions.InsertMany(ctx, pair); err != nil {
		return nil, fmt.Errorf("insert adjustment: %w", err)
	}
	return pair, nil
}

func adjustmentRow(date string, amount decimal.Decimal, description, accountID, groupID, typeID string, comments *string) repository.Transaction {
	return repository.Transaction{
		ID:                    uuid.NewString(),
		Date:                  date,
		Amount:                amount,
		Description:           description,
		Source:                SourceManualEntry,
		AccountNameID:         accountID,
		BudgetGroupID:         &groupID,
		TransactionTypeID:     &typeID,
		BudgetGroupAssignment: repository.AssignmentManual,
		TransactionAssignment: repository.AssignmentManual,
		ReviewStatus:          repository.ReviewConfirmed,
		Comments:              comments,
	}
}

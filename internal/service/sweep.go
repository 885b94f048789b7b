package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/patogeno/family-budget-app/internal/database/repository"
)

// Sweeper re-runs categorization over transactions that have not been
// manually assigned or confirmed, used after the pattern rules change.
type Sweeper struct {
	Transactions *repository.TransactionRepo
	Matcher      *Matcher
	Log          *zap.Logger
}

// RedoCategorization re-categorizes every transaction whose type or budget
// group provenance is still auto_unchecked or unassigned. Type, group, and
// both provenance flags are overwritten; pattern comments are backfilled only
// onto rows with no comments. Every selected row is written back even when
// nothing changed, so the sweep is idempotent but not a no-op write.
func (s *Sweeper) RedoCategorization(ctx context.Context) ([]repository.Transaction, error) {
	txs, err := s.Transactions.ListNeedingCategorization(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]repository.Transaction, 0, len(txs))
	for _, t := range txs {
		accountID := t.AccountNameID
		txType, group, patternComments, err := s.Matcher.Categorize(ctx, t.Description, &accountID, t.Amount)
		if err != nil {
			return updated, err
		}

		t.TransactionTypeID = nil
		t.TransactionAssignment = repository.AssignmentUnassigned
		if txType != nil {
			t.TransactionTypeID = &txType.ID
			t.TransactionAssignment = repository.AssignmentAutoUnchecked
		}
		t.BudgetGroupID = nil
		t.BudgetGroupAssignment = repository.AssignmentUnassigned
		if group != nil {
			t.BudgetGroupID = &group.ID
			t.BudgetGroupAssignment = repository.AssignmentAutoUnchecked
		}
		if (t.Comments == nil || *t.Comments == "") && patternComments != nil && *patternComments != "" {
			t.Comments = patternComments
		}

		if err := s.Transactions.Update(ctx, t); err != nil {
			return updated, err
		}
		updated = append(updated, t)
	}

	if s.Log != nil {
		s.Log.Info("recategorization sweep finished", zap.Int("swept", len(updated)))
	}
	return updated, nil
}

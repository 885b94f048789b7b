package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/patogeno/family-budget-app/internal/database/repository"
)

// Reviewer implements the manual review state machine: pending rows move to
// confirmed or modified; confirmed and modified rows can be edited again into
// modified, but nothing ever returns to pending.
type Reviewer struct {
	Transactions *repository.TransactionRepo
	Log          *zap.Logger
}

// ModifyRequest carries a partial edit. Nil pointers mean "leave unchanged".
// An empty string for TransactionTypeID or BudgetGroupID clears the
// reference.
type ModifyRequest struct {
	TransactionTypeID *string
	BudgetGroupID     *string
	Comments          *string
	ReviewStatus      *string
}

// Modify applies a partial edit to one transaction. Any edit forces both
// provenance flags to manual and the review status to modified, unless the
// caller explicitly confirmed in the same edit. A missing transaction
// short-circuits before any write.
func (r *Reviewer) Modify(ctx context.Context, id string, req ModifyRequest) (*repository.Transaction, error) {
	t, err := r.Transactions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	if req.TransactionTypeID != nil {
		t.TransactionTypeID = nilIfEmpty(*req.TransactionTypeID)
	}
	if req.BudgetGroupID != nil {
		t.BudgetGroupID = nilIfEmpty(*req.BudgetGroupID)
	}
	if req.Comments != nil {
		t.Comments = req.Comments
	}
	if req.ReviewStatus != nil {
		t.ReviewStatus = repository.ReviewStatus(*req.ReviewStatus)
	}

	// only a confirmation made in this edit keeps the row confirmed; a
	// previously confirmed row edited without one moves to modified
	explicitConfirm := req.ReviewStatus != nil && *req.ReviewStatus == string(repository.ReviewConfirmed)

	t.TransactionAssignment = repository.AssignmentManual
	t.BudgetGroupAssignment = repository.AssignmentManual
	if !explicitConfirm {
		t.ReviewStatus = repository.ReviewModified
	}

	if err := r.Transactions.Update(ctx, *t); err != nil {
		return nil, err
	}
	return t, nil
}

// BulkConfirm marks the given transactions confirmed with both provenance
// flags auto_checked, regardless of prior state. Comments are overwritten
// from the supplied map; ids absent from the map get empty comments.
func (r *Reviewer) BulkConfirm(ctx context.Context, ids []string, commentsByID map[string]string) error {
	txs, err := r.Transactions.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, t := range txs {
		t.ReviewStatus = repository.ReviewConfirmed
		t.TransactionAssignment = repository.AssignmentAutoChecked
		t.BudgetGroupAssignment = repository.AssignmentAutoChecked
		comment := commentsByID[t.ID]
		t.Comments = &comment
		if err := r.Transactions.Update(ctx, t); err != nil {
			return err
		}
	}
	if r.Log != nil {
		r.Log.Info("transactions confirmed", zap.Int("count", len(txs)))
	}
	return nil
}

// PendingReview lists transactions still awaiting review, oldest first.
func (r *Reviewer) PendingReview(ctx context.Context) ([]repository.Transaction, error) {
	return r.Transactions.PendingReview(ctx)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

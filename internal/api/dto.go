package api

import (
	"github.com/patogeno/family-budget-app/internal/database/repository"
	"github.com/patogeno/family-budget-app/internal/service"
)

// transactionDTO is the wire shape of a transaction. Monetary fields travel
// as decimal strings.
type transactionDTO struct {
	ID                    string  `json:"id"`
	Date                  string  `json:"date"`
	Amount                string  `json:"amount"`
	Balance               *string `json:"balance"`
	Description           string  `json:"description"`
	Source                string  `json:"source"`
	AccountNameID         string  `json:"account_name"`
	BudgetGroupID         *string `json:"budget_group"`
	TransactionTypeID     *string `json:"transaction_type"`
	BudgetGroupAssignment string  `json:"budget_group_assignment_type"`
	TransactionAssignment string  `json:"transaction_assignment_type"`
	ReviewStatus          string  `json:"review_status"`
	Comments              *string `json:"comments"`
}

func toTransactionDTO(t repository.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:                    t.ID,
		Date:                  t.Date,
		Amount:                t.Amount.String(),
		Description:           t.Description,
		Source:                t.Source,
		AccountNameID:         t.AccountNameID,
		BudgetGroupID:         t.BudgetGroupID,
		TransactionTypeID:     t.TransactionTypeID,
		BudgetGroupAssignment: string(t.BudgetGroupAssignment),
		TransactionAssignment: string(t.TransactionAssignment),
		ReviewStatus:          string(t.ReviewStatus),
		Comments:              t.Comments,
	}
	if t.Balance != nil {
		s := t.Balance.String()
		dto.Balance = &s
	}
	return dto
}

func toTransactionDTOs(txs []repository.Transaction) []transactionDTO {
	out := make([]transactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionDTO(t))
	}
	return out
}

type nearMatchDTO struct {
	Description         string `json:"description"`
	Date                string `json:"date"`
	ExistingDescription string `json:"existing_description"`
	ExistingDate        string `json:"existing_date"`
}

func toNearMatchDTOs(matches []service.NearMatch) []nearMatchDTO {
	out := make([]nearMatchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, nearMatchDTO(m))
	}
	return out
}

type importResponse struct {
	Created     int            `json:"created_count"`
	Skipped     int            `json:"skipped_count"`
	NearMatches []nearMatchDTO `json:"near_matches,omitempty"`
}

type pageResponse struct {
	Transactions []transactionDTO `json:"transactions"`
	TotalPages   int              `json:"total_pages"`
	CurrentPage  int              `json:"current_page"`
	Total        int              `json:"total_transactions"`
}

type modifyRequest struct {
	TransactionTypeID *string `json:"transaction_type"`
	BudgetGroupID     *string `json:"budget_group"`
	Comments          *string `json:"comments"`
	ReviewStatus      *string `json:"review_status"`
}

type bulkConfirmRequest struct {
	TransactionIDs []string          `json:"transaction_ids"`
	CommentsMap    map[string]string `json:"comments_map"`
}

type adjustmentRequest struct {
	DateFrom          string `json:"date_from"`
	DateTo            string `json:"date_to"`
	Amount            string `json:"amount"`
	BudgetGroupID     string `json:"budget_group_id"`
	TransactionTypeID string `json:"transaction_type_id"`
	Description       string `json:"description"`
	Comments          string `json:"comments"`
}

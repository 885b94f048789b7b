package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignmentType records how a transaction's type or budget group was set.
// The two provenance fields on Transaction share this one enum so invalid
// values cannot drift between them.
type AssignmentType string

const (
	AssignmentManual        AssignmentType = "manual"
	AssignmentAutoUnchecked AssignmentType = "auto_unchecked"
	AssignmentAutoChecked   AssignmentType = "auto_checked"
	AssignmentUnassigned    AssignmentType = "unassigned"
)

// ReviewStatus is the human review lifecycle of a transaction.
type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewConfirmed ReviewStatus = "confirmed"
	ReviewModified  ReviewStatus = "modified"
)

// AccountName represents one bank account as a source of transactions.
type AccountName struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BudgetGroup is a named bucket transactions roll up into for budgeting.
type BudgetGroup struct {
	ID          string
	Name        string
	Description string
}

// TransactionType is a semantic category of spending/income. When a matching
// transaction's amount meets AmountThreshold, ThresholdBudgetGroupID is
// assigned instead of DefaultBudgetGroupID.
type TransactionType struct {
	ID                     string
	Name                   string
	Description            string
	DefaultBudgetGroupID   *string
	AmountThreshold        *decimal.Decimal
	ThresholdBudgetGroupID *string
}

// TransactionPattern is one ordered categorization rule. A nil AccountNameID
// scopes the rule to no account in particular. Seq is the stable evaluation
// order; first match wins.
type TransactionPattern struct {
	ID                string
	Seq               int64
	RegexPattern      string
	TransactionTypeID string
	AccountNameID     *string
	Comments          *string
}

// Transaction is the core record.
type Transaction struct {
	ID                    string
	Date                  string // YYYY-MM-DD
	Amount                decimal.Decimal
	Balance               *decimal.Decimal
	Description           string
	Source                string
	AccountNameID         string
	BudgetGroupID         *string
	TransactionTypeID     *string
	BudgetGroupAssignment AssignmentType
	TransactionAssignment AssignmentType
	ReviewStatus          ReviewStatus
	Comments              *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BudgetInitialization seeds an opening balance for a budget group.
type BudgetInitialization struct {
	ID            string
	BudgetGroupID string
	Amount        decimal.Decimal
	Date          string
	Description   string
}

// BudgetAdjustment is a manual transfer record between two budget groups.
type BudgetAdjustment struct {
	ID                string
	FromBudgetGroupID string
	ToBudgetGroupID   string
	Amount            decimal.Decimal
	Date              string
	Description       string
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ExpenseStatus is shared by expenses and their approval records.
type ExpenseStatus string

const (
	StatusPending  ExpenseStatus = "PENDING"
	StatusApproved ExpenseStatus = "APPROVED"
	StatusRejected ExpenseStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is possible from s.
func (s ExpenseStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// MaxAmount is the largest amount the expenses.amount column (NUMERIC(19,4)) can hold.
var MaxAmount = decimal.RequireFromString("999999999999999.9999")

// Decision is the verdict an approver records.
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// ParseDecision converts a string to a Decision. Matching is case-insensitive.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToUpper(strings.TrimSpace(s))); d {
	case DecisionApproved, DecisionRejected:
		return d, nil
	default:
		return "", fmt.Errorf("%w: decision must be APPROVED or REJECTED", apperrors.ErrValidation)
	}
}

// Status maps the decision onto the status it produces.
func (d Decision) Status() ExpenseStatus {
	if d == DecisionApproved {
		return StatusApproved
	}
	return StatusRejected
}

// Approval is one approver's decision record. It only exists inside an Expense.
type Approval struct {
	ApproverID   string        `json:"approverID"`
	ApproverName string        `json:"approverName,omitempty"`
	Position     int           `json:"position"`
	Status       ExpenseStatus `json:"status"`
	Comment      *string       `json:"comment,omitempty"`
	DecidedAt    *time.Time    `json:"decidedAt,omitempty"`
}

// Expense is a reimbursement claim owned by the submitting user.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	CompanyID   string          `json:"companyID"`
	OwnerID     string          `json:"ownerID"`
	OwnerName   string          `json:"ownerName,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Status      ExpenseStatus   `json:"status"`
	Approvals   []Approval      `json:"approvals"`
	Receipt     Receipt         `json:"-"`
	AuditFields
	Version int64 `json:"version"`
}

// NewExpenseParams carries the inputs for NewExpense.
type NewExpenseParams struct {
	ExpenseID   string
	Owner       *User
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Date        time.Time
	Receipt     Receipt
	Now         time.Time
}

// NewExpense builds a PENDING expense. When the owner has a manager the
// approval chain is seeded with exactly one PENDING record for that manager,
// otherwise the chain is empty.
func NewExpense(p NewExpenseParams) (*Expense, error) {
	if p.Owner == nil {
		return nil, fmt.Errorf("%w: expense owner is required", apperrors.ErrValidation)
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if p.Amount.Round(4).GreaterThan(MaxAmount) {
		return nil, fmt.Errorf("%w: amount must not exceed %s", apperrors.ErrValidation, MaxAmount.String())
	}
	if r, ok := p.Receipt.(ExternalReceipt); ok && strings.TrimSpace(r.URL) == "" {
		p.Receipt = nil
	}
	date := p.Date
	if date.IsZero() {
		date = p.Now
	}

	exp := &Expense{
		ExpenseID:   p.ExpenseID,
		CompanyID:   p.Owner.CompanyID,
		OwnerID:     p.Owner.UserID,
		OwnerName:   p.Owner.FullName(),
		Amount:      p.Amount,
		Currency:    p.Currency,
		Category:    strings.TrimSpace(p.Category),
		Description: strings.TrimSpace(p.Description),
		Date:        date,
		Status:      StatusPending,
		Approvals:   []Approval{},
		Receipt:     p.Receipt,
		AuditFields: AuditFields{
			CreatedAt:     p.Now,
			CreatedBy:     p.Owner.UserID,
			LastUpdatedAt: p.Now,
			LastUpdatedBy: p.Owner.UserID,
		},
		Version: 1,
	}
	if p.Owner.HasManager() {
		exp.Approvals = append(exp.Approvals, Approval{
			ApproverID: *p.Owner.ManagerID,
			Position:   0,
			Status:     StatusPending,
		})
	}
	return exp, nil
}

// ApprovalFor returns the approval record assigned to approverID, if any.
func (e *Expense) ApprovalFor(approverID string) (*Approval, bool) {
	for i := range e.Approvals {
		if e.Approvals[i].ApproverID == approverID {
			return &e.Approvals[i], true
		}
	}
	return nil, false
}

// Decide applies approverID's decision. A rejection vetoes the expense and
// an approval closes it; either way the expense becomes terminal.
// The expense is left untouched when an error is returned.
func (e *Expense) Decide(approverID string, decision Decision, comment string, now time.Time) error {
	approval, ok := e.ApprovalFor(approverID)
	if !ok {
		return fmt.Errorf("%w: no approval assigned to this approver", apperrors.ErrNotFound)
	}
	if approval.Status != StatusPending || e.Status.IsTerminal() {
		return apperrors.ErrAlreadyDecided
	}
	if decision != DecisionApproved && decision != DecisionRejected {
		return fmt.Errorf("%w: decision must be APPROVED or REJECTED", apperrors.ErrValidation)
	}

	approval.Status = decision.Status()
	if c := strings.TrimSpace(comment); c != "" {
		approval.Comment = &c
	}
	decidedAt := now
	approval.DecidedAt = &decidedAt

	e.Status = decision.Status()
	e.LastUpdatedAt = now
	e.LastUpdatedBy = approverID
	return nil
}

// IsPendingFor reports whether approverID still owes a decision on e.
func (e *Expense) IsPendingFor(approverID string) bool {
	a, ok := e.ApprovalFor(approverID)
	return ok && a.Status == StatusPending && !e.Status.IsTerminal()
}

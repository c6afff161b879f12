package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the expenses table without the receipt bytes.
type Expense struct {
	ExpenseID       string          `db:"expense_id"`
	UserID          string          `db:"user_id"`
	CompanyID       string          `db:"company_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	Category        string          `db:"category"`
	Description     string          `db:"description"`
	ExpenseDate     time.Time       `db:"expense_date"`
	Status          string          `db:"status"`
	ReceiptURL      *string         `db:"receipt_url"`
	ReceiptFilename *string         `db:"receipt_filename"`
	ReceiptMIMEType *string         `db:"receipt_mime_type"`
	ReceiptSize     *int64          `db:"receipt_size"`
	ReceiptData     []byte          `db:"receipt_data"` // only set on insert
	Version         int64           `db:"version"`
	AuditFields

	OwnerFirstName string `db:"owner_first_name"`
	OwnerLastName  string `db:"owner_last_name"`
}

// ExpenseApproval is a row of the expense_approvals table joined with the approver's name.
type ExpenseApproval struct {
	ExpenseID  string     `db:"expense_id"`
	ApproverID string     `db:"approver_id"`
	Position   int        `db:"position"`
	Status     string     `db:"status"`
	Comment    *string    `db:"comment"`
	DecidedAt  *time.Time `db:"decided_at"`

	ApproverFirstName string `db:"approver_first_name"`
	ApproverLastName  string `db:"approver_last_name"`
}

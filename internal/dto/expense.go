package dto

import (
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is bound from multipart/form-data or JSON.
// The uploaded file, if any, travels separately under the "receipt" form field.
type CreateExpenseRequest struct {
	Description string `form:"description" json:"description" binding:"max=1000"`
	Amount      string `form:"amount" json:"amount" binding:"required"`
	Category    string `form:"category" json:"category" binding:"max=64"`
	Date        string `form:"date" json:"date"`
	ReceiptURL  string `form:"receiptUrl" json:"receiptUrl" binding:"omitempty,http_url,max=2048"`
}

// DecisionRequest records a manager's verdict on an expense.
type DecisionRequest struct {
	Status   string  `json:"status" binding:"required,decision"`
	Comments *string `json:"comments" binding:"omitempty,max=1000"`
}

// Comment returns the comment, or "" when none was sent.
func (r DecisionRequest) Comment() string {
	if r.Comments == nil {
		return ""
	}
	return *r.Comments
}

type ApprovalResponse struct {
	ApproverID   string               `json:"approverId"`
	ApproverName string               `json:"approverName,omitempty"`
	Status       domain.ExpenseStatus `json:"status"`
	Comment      *string              `json:"comment,omitempty"`
	DecidedAt    *time.Time           `json:"decidedAt,omitempty"`
}

type ReceiptResponse struct {
	Kind     string `json:"kind"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

type ExpenseResponse struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"ownerId"`
	OwnerName   string               `json:"ownerName,omitempty"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    string               `json:"currency"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Date        time.Time            `json:"date"`
	Status      domain.ExpenseStatus `json:"status"`
	Approvals   []ApprovalResponse   `json:"approvals"`
	Receipt     *ReceiptResponse     `json:"receipt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ExpenseEnvelope wraps a single expense as {"expense": ...}.
type ExpenseEnvelope struct {
	Expense ExpenseResponse `json:"expense"`
}

// ListExpensesResponse wraps a list of expenses.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

func toReceiptResponse(r domain.Receipt) *ReceiptResponse {
	switch v := r.(type) {
	case domain.ExternalReceipt:
		return &ReceiptResponse{Kind: domain.ReceiptKindURL, URL: v.URL}
	case domain.StoredReceipt:
		return &ReceiptResponse{Kind: domain.ReceiptKindFile, Filename: v.Filename, MIMEType: v.MIMEType, Size: v.Size}
	default:
		return nil
	}
}

// ToExpenseResponse converts a domain expense. Receipt bytes are never included.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	approvals := make([]ApprovalResponse, len(e.Approvals))
	for i, a := range e.Approvals {
		approvals[i] = ApprovalResponse{
			ApproverID:   a.ApproverID,
			ApproverName: a.ApproverName,
			Status:       a.Status,
			Comment:      a.Comment,
			DecidedAt:    a.DecidedAt,
		}
	}
	return ExpenseResponse{
		ID:          e.ExpenseID,
		OwnerID:     e.OwnerID,
		OwnerName:   e.OwnerName,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		Status:      e.Status,
		Approvals:   approvals,
		Receipt:     toReceiptResponse(e.Receipt),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.LastUpdatedAt,
	}
}

// ToListExpensesResponse converts a slice of domain expenses.
func ToListExpensesResponse(expenses []domain.Expense) ListExpensesResponse {
	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = ToExpenseResponse(&expenses[i])
	}
	return ListExpensesResponse{Expenses: out}
}

package mapping

import (
	"strings"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/Darshanh20/ExpenseManagement/internal/models"
)

// ToModelExpense flattens the receipt variant into its nullable columns.
func ToModelExpense(d domain.Expense) models.Expense {
	m := models.Expense{
		ExpenseID:    d.ExpenseID,
		UserID:       d.OwnerID,
		CompanyID:    d.CompanyID,
		Amount:       d.Amount,
		CurrencyCode: d.Currency,
		Category:     d.Category,
		Description:  d.Description,
		ExpenseDate:  d.Date,
		Status:       string(d.Status),
		Version:      d.Version,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	switch r := d.Receipt.(type) {
	case domain.ExternalReceipt:
		url := r.URL
		m.ReceiptURL = &url
	case domain.StoredReceipt:
		filename, mimeType, size := r.Filename, r.MIMEType, r.Size
		m.ReceiptFilename = &filename
		m.ReceiptMIMEType = &mimeType
		m.ReceiptSize = &size
		m.ReceiptData = r.Data
	}
	return m
}

// ToModelApprovals converts the approval chain of an expense.
func ToModelApprovals(d domain.Expense) []models.ExpenseApproval {
	out := make([]models.ExpenseApproval, len(d.Approvals))
	for i, a := range d.Approvals {
		out[i] = models.ExpenseApproval{
			ExpenseID:  d.ExpenseID,
			ApproverID: a.ApproverID,
			Position:   a.Position,
			Status:     string(a.Status),
			Comment:    a.Comment,
			DecidedAt:  a.DecidedAt,
		}
	}
	return out
}

// ToDomainExpense rebuilds an expense from its row and approval rows.
// Stored receipts come back without their bytes.
func ToDomainExpense(m models.Expense, approvals []models.ExpenseApproval) domain.Expense {
	d := domain.Expense{
		ExpenseID:   m.ExpenseID,
		CompanyID:   m.CompanyID,
		OwnerID:     m.UserID,
		OwnerName:   strings.TrimSpace(m.OwnerFirstName + " " + m.OwnerLastName),
		Amount:      m.Amount,
		Currency:    strings.TrimSpace(m.CurrencyCode),
		Category:    m.Category,
		Description: m.Description,
		Date:        m.ExpenseDate,
		Status:      domain.ExpenseStatus(m.Status),
		Approvals:   make([]domain.Approval, len(approvals)),
		AuditFields: ToDomainAuditFields(m.AuditFields),
		Version:     m.Version,
	}
	switch {
	case m.ReceiptURL != nil:
		d.Receipt = domain.ExternalReceipt{URL: *m.ReceiptURL}
	case m.ReceiptFilename != nil:
		r := domain.StoredReceipt{Filename: *m.ReceiptFilename}
		if m.ReceiptMIMEType != nil {
			r.MIMEType = *m.ReceiptMIMEType
		}
		if m.ReceiptSize != nil {
			r.Size = *m.ReceiptSize
		}
		d.Receipt = r
	}
	for i, a := range approvals {
		d.Approvals[i] = domain.Approval{
			ApproverID:   a.ApproverID,
			ApproverName: strings.TrimSpace(a.ApproverFirstName + " " + a.ApproverLastName),
			Position:     a.Position,
			Status:       domain.ExpenseStatus(a.Status),
			Comment:      a.Comment,
			DecidedAt:    a.DecidedAt,
		}
	}
	return d
}

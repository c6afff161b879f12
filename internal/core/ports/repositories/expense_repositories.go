package repositories

import (
	"context"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
)

// ExpenseReader defines read operations for expenses.
// Returned expenses carry receipt metadata only; blobs are read through FindReceiptBlob.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense with its approval chain.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// FindExpensesByOwner lists the expenses of one user, newest first.
	FindExpensesByOwner(ctx context.Context, ownerID string) ([]domain.Expense, error)

	// FindPendingForApprover lists expenses in companyID holding a PENDING approval for approverID, newest first.
	FindPendingForApprover(ctx context.Context, companyID, approverID string) ([]domain.Expense, error)

	// FindReceiptBlob loads the stored receipt of an expense, including its bytes.
	FindReceiptBlob(ctx context.Context, expenseID string) (*domain.StoredReceipt, error)
}

// ExpenseWriter defines write operations for expenses
type ExpenseWriter interface {
	// SaveExpense persists a new expense and its approval chain atomically.
	SaveExpense(ctx context.Context, expense domain.Expense) error

	// ApplyDecision persists the outcome of Expense.Decide for approverID.
	// It only succeeds if the stored approval is still PENDING and the stored
	// version equals expense.Version. A decision already taken returns
	// apperrors.ErrAlreadyDecided; a stale version of a still pending expense
	// returns apperrors.ErrConflict.
	// On success expense.Version is the new stored version.
	ApplyDecision(ctx context.Context, expense *domain.Expense, approverID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

package services

import (
	"context"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
)

// ExpenseSvcFacade covers submission and reads of expenses.
type ExpenseSvcFacade interface {
	// SubmitExpense creates a PENDING expense owned by the actor. receipt may be nil.
	SubmitExpense(ctx context.Context, actor *domain.User, req dto.CreateExpenseRequest, receipt domain.Receipt) (*domain.Expense, error)

	// ListOwnExpenses lists the actor's expenses, newest first.
	ListOwnExpenses(ctx context.Context, actor *domain.User) ([]domain.Expense, error)

	// GetExpense returns an expense the actor is allowed to read.
	GetExpense(ctx context.Context, actor *domain.User, expenseID string) (*domain.Expense, error)

	// FetchReceipt returns the stored receipt blob of an expense the actor is allowed to read.
	FetchReceipt(ctx context.Context, actor *domain.User, expenseID string) (*domain.StoredReceipt, error)
}

// ApprovalSvcFacade drives the approval workflow.
type ApprovalSvcFacade interface {
	// ListQueue lists expenses waiting on the actor's decision, newest first.
	ListQueue(ctx context.Context, actor *domain.User) ([]domain.Expense, error)

	// Decide records the actor's decision on an expense assigned to them.
	Decide(ctx context.Context, actor *domain.User, expenseID string, req dto.DecisionRequest) (*domain.Expense, error)
}

package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
)

// approvalService runs the approval workflow. State transitions live on
// domain.Expense; this service loads, applies and persists them with a
// conditional write so concurrent decisions cannot both succeed.
type approvalService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
}

// NewApprovalService creates the approval workflow service.
func NewApprovalService(expenseRepo portsrepo.ExpenseRepositoryFacade, options ...ServiceOption) portssvc.ApprovalSvcFacade {
	return &approvalService{
		BaseService: newBaseService(options...),
		expenseRepo: expenseRepo,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

func (s *approvalService) ListQueue(ctx context.Context, actor *domain.User) ([]domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.CapReviewExpenses); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindPendingForApprover(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list approval queue")
		return nil, err
	}
	s.LogDebug(ctx, "Approval queue loaded", slog.Int("count", len(expenses)))
	return expenses, nil
}

// Decide records actor's decision. Expenses of other companies and expenses
// without an approval assigned to actor are both reported as not found.
func (s *approvalService) Decide(ctx context.Context, actor *domain.User, expenseID string, req dto.DecisionRequest) (*domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.CapReviewExpenses); err != nil {
		return nil, err
	}
	decision, err := domain.ParseDecision(req.Status)
	if err != nil {
		return nil, err
	}

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("expense not found")
		}
		s.LogError(ctx, err, "Failed to load expense for decision", slog.String("expense_id", expenseID))
		return nil, err
	}
	if err := s.Policy.RequireSameCompany(actor, expense.CompanyID); err != nil {
		return nil, apperrors.NewNotFoundError("expense not found")
	}

	if err := expense.Decide(actor.UserID, decision, req.Comment(), s.Now()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("no approval assigned to you for this expense")
		}
		s.recordConflict(ctx, expenseID, err)
		return nil, err
	}

	if err := s.expenseRepo.ApplyDecision(ctx, expense, actor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyDecided) || errors.Is(err, apperrors.ErrConflict) {
			s.recordConflict(ctx, expenseID, err)
			return nil, err
		}
		s.LogError(ctx, err, "Failed to persist decision", slog.String("expense_id", expenseID))
		return nil, err
	}

	if s.Metrics != nil {
		s.Metrics.ExpenseDecisions.WithLabelValues(string(decision)).Inc()
	}
	s.Track(actor.UserID, "expense_decided", map[string]any{
		"expense_id": expense.ExpenseID,
		"decision":   string(decision),
	})
	s.LogInfo(ctx, "Expense decided",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("decision", string(decision)))

	return expense, nil
}

func (s *approvalService) recordConflict(ctx context.Context, expenseID string, err error) {
	if !errors.Is(err, apperrors.ErrAlreadyDecided) && !errors.Is(err, apperrors.ErrConflict) {
		return
	}
	if s.Metrics != nil {
		s.Metrics.DecisionConflicts.Inc()
	}
	s.LogInfo(ctx, "Decision refused", slog.String("expense_id", expenseID), slog.String("reason", err.Error()))
}

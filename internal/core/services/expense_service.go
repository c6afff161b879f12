package services

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/Darshanh20/ExpenseManagement/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// expenseDateLayouts are tried in order when parsing the submitted date.
var expenseDateLayouts = []string{time.DateOnly, time.RFC3339}

type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	companyRepo portsrepo.CompanyReader
}

// NewExpenseService creates the expense record service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, companyRepo portsrepo.CompanyReader, options ...ServiceOption) portssvc.ExpenseSvcFacade {
	return &expenseService{
		BaseService: newBaseService(options...),
		expenseRepo: expenseRepo,
		companyRepo: companyRepo,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// SubmitExpense creates a PENDING expense for the actor. The currency is the
// company's, and the approval chain is seeded from the actor's current manager.
func (s *expenseService) SubmitExpense(ctx context.Context, actor *domain.User, req dto.CreateExpenseRequest, receipt domain.Receipt) (*domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.CapSubmitExpenses); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil, apperrors.NewValidationFailedError("amount must be a number")
	}

	receiptURL := strings.TrimSpace(req.ReceiptURL)
	if receiptURL != "" {
		if receipt != nil {
			return nil, apperrors.NewValidationFailedError("provide either a receipt file or a receipt URL, not both")
		}
		if !isWebURL(receiptURL) {
			return nil, apperrors.NewValidationFailedError("receiptUrl must be an http or https URL")
		}
		receipt = domain.ExternalReceipt{URL: receiptURL}
	}

	now := s.Now()
	date, err := parseExpenseDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load company for expense submission")
		return nil, err
	}

	expense, err := domain.NewExpense(domain.NewExpenseParams{
		ExpenseID:   uuid.NewString(),
		Owner:       actor,
		Amount:      utils.RoundToCurrency(amount, company.CurrencyCode),
		Currency:    company.CurrencyCode,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Receipt:     receipt,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveExpense(ctx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("expense_id", expense.ExpenseID))
		return nil, err
	}

	hasApprover := len(expense.Approvals) > 0
	if !hasApprover {
		s.LogWarn(ctx, "Expense submitted by a user without a manager, it stays pending until one is assigned",
			slog.String("expense_id", expense.ExpenseID))
	}
	if s.Metrics != nil {
		s.Metrics.ExpensesSubmitted.WithLabelValues(strconv.FormatBool(hasApprover)).Inc()
	}
	s.Track(actor.UserID, "expense_submitted", map[string]any{
		"expense_id":   expense.ExpenseID,
		"currency":     expense.Currency,
		"receipt_kind": domain.ReceiptKind(expense.Receipt),
	})
	s.LogInfo(ctx, "Expense submitted", slog.String("expense_id", expense.ExpenseID))

	return expense, nil
}

// ListOwnExpenses is always filtered to the actor; there is no parameter to widen it.
func (s *expenseService) ListOwnExpenses(ctx context.Context, actor *domain.User) ([]domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.CapSubmitExpenses); err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.FindExpensesByOwner(ctx, actor.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list own expenses")
		return nil, err
	}
	return expenses, nil
}

func (s *expenseService) GetExpense(ctx context.Context, actor *domain.User, expenseID string) (*domain.Expense, error) {
	return s.loadReadable(ctx, actor, expenseID)
}

// FetchReceipt authorizes before revealing whether a stored receipt exists.
func (s *expenseService) FetchReceipt(ctx context.Context, actor *domain.User, expenseID string) (*domain.StoredReceipt, error) {
	expense, err := s.loadReadable(ctx, actor, expenseID)
	if err != nil {
		return nil, err
	}
	if domain.ReceiptKind(expense.Receipt) != domain.ReceiptKindFile {
		return nil, apperrors.NewNotFoundError("receipt not found")
	}

	blob, err := s.expenseRepo.FindReceiptBlob(ctx, expense.ExpenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load receipt blob", slog.String("expense_id", expenseID))
		}
		return nil, err
	}
	return blob, nil
}

func (s *expenseService) loadReadable(ctx context.Context, actor *domain.User, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("expense not found")
		}
		s.LogError(ctx, err, "Failed to load expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	if err := s.Policy.AuthorizeExpenseRead(actor, expense); err != nil {
		s.LogWarn(ctx, "Expense read denied", slog.String("expense_id", expenseID), slog.String("reason", err.Error()))
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("expense not found")
		}
		return nil, err
	}
	return expense, nil
}

// parseExpenseDate accepts YYYY-MM-DD or RFC 3339 and defaults to now.
func parseExpenseDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	for _, layout := range expenseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewValidationFailedError("date must be YYYY-MM-DD or RFC 3339")
}

// isWebURL accepts absolute http and https URLs with a host.
func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

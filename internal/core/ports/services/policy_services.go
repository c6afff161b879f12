package services

import "github.com/Darshanh20/ExpenseManagement/internal/core/domain"

// PolicySvc centralises role, tenant and ownership checks.
type PolicySvc interface {
	// RequireCapability fails with apperrors.ErrForbidden unless the actor's role grants c.
	RequireCapability(actor *domain.User, c domain.Capability) error

	// RequireSameCompany fails with apperrors.ErrNotFound when companyID is not the actor's.
	RequireSameCompany(actor *domain.User, companyID string) error

	// AuthorizeExpenseRead allows the owner and same-company reviewers.
	// Cross-tenant reads are reported as not found, same-company strangers as forbidden.
	AuthorizeExpenseRead(actor *domain.User, expense *domain.Expense) error
}

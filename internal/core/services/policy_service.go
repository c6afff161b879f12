package services

import (
	"fmt"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
)

type policyService struct{}

// NewPolicyService returns the role, tenant and ownership policy.
func NewPolicyService() portssvc.PolicySvc {
	return policyService{}
}

var _ portssvc.PolicySvc = policyService{}

func (policyService) RequireCapability(actor *domain.User, c domain.Capability) error {
	if actor == nil {
		return apperrors.ErrUnauthenticated
	}
	if !actor.Role.Can(c) {
		return fmt.Errorf("%w: role %s may not %s", apperrors.ErrForbidden, actor.Role, c)
	}
	return nil
}

// RequireSameCompany reports cross-tenant references as not found so other
// tenants' records are never confirmed to exist.
func (policyService) RequireSameCompany(actor *domain.User, companyID string) error {
	if actor == nil {
		return apperrors.ErrUnauthenticated
	}
	if actor.CompanyID == "" || actor.CompanyID != companyID {
		return apperrors.ErrNotFound
	}
	return nil
}

func (p policyService) AuthorizeExpenseRead(actor *domain.User, expense *domain.Expense) error {
	if err := p.RequireSameCompany(actor, expense.CompanyID); err != nil {
		return err
	}
	if expense.OwnerID == actor.UserID {
		return nil
	}
	if actor.Role.Can(domain.CapViewCompanyReceipts) {
		return nil
	}
	return fmt.Errorf("%w: expense belongs to another user", apperrors.ErrForbidden)
}

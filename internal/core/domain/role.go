package domain

import (
	"fmt"
	"strings"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
)

// Role is the closed set of roles a user can hold inside a company.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// Capability names an action gated by role.
type Capability int

const (
	// CapManageUsers covers creating users and changing reporting lines.
	CapManageUsers Capability = iota + 1
	// CapSubmitExpenses covers submitting and listing one's own expenses.
	CapSubmitExpenses
	// CapReviewExpenses covers the approval queue, decisions and the team listing.
	CapReviewExpenses
	// CapViewCompanyReceipts allows reading receipts of other users in the same company.
	CapViewCompanyReceipts
)

var roleCapabilities = map[Role][]Capability{
	RoleAdmin:    {CapManageUsers, CapReviewExpenses, CapViewCompanyReceipts},
	RoleManager:  {CapReviewExpenses, CapViewCompanyReceipts},
	RoleEmployee: {CapSubmitExpenses},
}

// ParseRole converts a string to a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, s)
	}
	return r, nil
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

// RolesWith lists the roles granting c, in a stable order.
func RolesWith(c Capability) []Role {
	var roles []Role
	for _, r := range []Role{RoleAdmin, RoleManager, RoleEmployee} {
		if r.Can(c) {
			roles = append(roles, r)
		}
	}
	return roles
}

func (c Capability) String() string {
	switch c {
	case CapManageUsers:
		return "manage_users"
	case CapSubmitExpenses:
		return "submit_expenses"
	case CapReviewExpenses:
		return "review_expenses"
	case CapViewCompanyReceipts:
		return "view_company_receipts"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

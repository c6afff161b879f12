package services

import (
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The options apply to every service, so metrics and analytics are configured once.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The policy is shared so every service enforces identical rules.
	policy := NewPolicyService()
	options = append([]ServiceOption{WithPolicy(policy)}, options...)
	container.Policy = policy

	container.Token = NewTokenService(cfg, repos.UserRepo, options...)

	var google portssvc.GoogleIDTokenValidator
	if cfg.GoogleClientID != "" {
		google = NewGoogleIDTokenService(cfg.GoogleClientID)
	}
	container.Auth = NewAuthService(repos.CompanyRepo, repos.UserRepo, container.Token, google, options...)

	container.User = NewUserService(repos.UserRepo, options...)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.CompanyRepo, options...)
	container.Approval = NewApprovalService(repos.ExpenseRepo, options...)

	return container
}

package repositories

import (
	"context"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its ID.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// CreateCompanyWithAdmin persists a company and its first ADMIN user atomically.
	// Returns apperrors.ErrDuplicateCompany or apperrors.ErrDuplicateUser on uniqueness clashes.
	CreateCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.User) error
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}

package pgsql

import (
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo: newPgxCompanyRepository(dbPool),
		UserRepo:    newPgxUserRepository(dbPool),
		ExpenseRepo: newPgxExpenseRepository(dbPool),
	}
}

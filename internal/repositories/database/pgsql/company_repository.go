package pgsql

import (
	"context"
	"errors"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
	"github.com/Darshanh20/ExpenseManagement/internal/models"
	"github.com/Darshanh20/ExpenseManagement/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID,
		&m.Name,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find company "+companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

// CreateCompanyWithAdmin inserts both rows in one transaction. Uniqueness is
// left to the database constraints so concurrent signups cannot both win.
func (r *PgxCompanyRepository) CreateCompanyWithAdmin(ctx context.Context, company domain.Company, admin domain.User) error {
	mc := mapping.ToModelCompany(company)
	mu := mapping.ToModelUser(admin)

	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO companies (company_id, name, currency_code, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`, mc.CompanyID, mc.Name, mc.CurrencyCode, mc.CreatedAt, mc.CreatedBy, mc.LastUpdatedAt, mc.LastUpdatedBy)
		if err != nil {
			if _, ok := pgErrorWith(err, pgUniqueViolation); ok {
				return apperrors.ErrDuplicateCompany
			}
			return apperrors.NewAppError(500, "failed to insert company", err)
		}

		if err := insertUser(ctx, tx, mu); err != nil {
			return err
		}
		return nil
	})
}

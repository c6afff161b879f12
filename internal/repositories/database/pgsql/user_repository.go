package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
	"github.com/Darshanh20/ExpenseManagement/internal/models"
	"github.com/Darshanh20/ExpenseManagement/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

var fullUserSelectQuery = `
SELECT
	u.user_id, u.email, u.password_hash, u.first_name, u.last_name, u.role,
	u.company_id, u.manager_id, u.created_at, u.created_by, u.last_updated_at, u.last_updated_by,
	m.email, m.first_name, m.last_name
FROM users u
LEFT JOIN users m ON m.user_id = u.manager_id
`

func scanUser(row rowScanner) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.FirstName,
		&m.LastName,
		&m.Role,
		&m.CompanyID,
		&m.ManagerID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.ManagerEmail,
		&m.ManagerFirstName,
		&m.ManagerLastName,
	)
	return m, err
}

// getUser runs fullUserSelectQuery with a filter expected to match at most one row.
func (r *PgxUserRepository) getUser(ctx context.Context, filterQuery string, args ...any) (*domain.User, error) {
	m, err := scanUser(r.Pool.QueryRow(ctx, fullUserSelectQuery+filterQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query user", err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

// getUsers private func to get users from the select query filters
func (r *PgxUserRepository) getUsers(ctx context.Context, filterQuery string, args ...any) ([]domain.User, error) {
	rows, err := r.Pool.Query(ctx, fullUserSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users", err)
	}
	defer rows.Close()

	modelUsers := []models.User{}
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user row", err)
		}
		modelUsers = append(modelUsers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}
	return mapping.ToDomainUserSlice(modelUsers), nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.email = $1`, email)
}

func (r *PgxUserRepository) FindUserInCompany(ctx context.Context, companyID, userID string) (*domain.User, error) {
	return r.getUser(ctx, `WHERE u.user_id = $1 AND u.company_id = $2`, userID, companyID)
}

func (r *PgxUserRepository) FindUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	return r.getUsers(ctx, `WHERE u.company_id = $1 ORDER BY u.created_at DESC, u.user_id`, companyID)
}

func (r *PgxUserRepository) FindEmployees(ctx context.Context, companyID string, managerID *string) ([]domain.User, error) {
	query := `
		WHERE u.company_id = $1 AND u.role = 'EMPLOYEE'
		  AND ($2::text IS NULL OR u.manager_id = $2::text)
		ORDER BY u.created_at DESC, u.user_id`
	return r.getUsers(ctx, query, companyID, managerID)
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return insertUser(ctx, r.Pool, mapping.ToModelUser(user))
}

func (r *PgxUserRepository) UpdateUserManager(ctx context.Context, companyID, userID string, managerID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE users
		SET manager_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $4 AND company_id = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, managerID, updatedAt, updatedBy, userID, companyID)
	if err != nil {
		if _, ok := pgErrorWith(err, pgForeignKeyViolation); ok {
			return apperrors.ErrInvalidManager
		}
		return apperrors.NewAppError(500, "failed to update manager of user "+userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// execer is satisfied by *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertUser(ctx context.Context, db execer, m models.User) error {
	query := `
		INSERT INTO users (
			user_id, email, password_hash, first_name, last_name, role, company_id, manager_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := db.Exec(ctx, query,
		m.UserID,
		m.Email,
		m.PasswordHash,
		m.FirstName,
		m.LastName,
		m.Role,
		m.CompanyID,
		m.ManagerID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := pgErrorWith(err, pgUniqueViolation); ok {
			return apperrors.ErrDuplicateUser
		}
		if _, ok := pgErrorWith(err, pgForeignKeyViolation); ok {
			return apperrors.ErrInvalidManager
		}
		return apperrors.NewAppError(500, "failed to save user "+m.UserID, err)
	}
	return nil
}

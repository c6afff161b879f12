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

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

// receipt_data is never selected here; see FindReceiptBlob.
const expenseSelectQuery = `
SELECT
	e.expense_id, e.user_id, e.company_id, e.amount, e.currency_code, e.category, e.description,
	e.expense_date, e.status, e.receipt_url, e.receipt_filename, e.receipt_mime_type, e.receipt_size,
	e.version, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by,
	o.first_name, o.last_name
FROM expenses e
JOIN users o ON o.user_id = e.user_id
`

func scanExpense(row rowScanner) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.UserID,
		&m.CompanyID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Category,
		&m.Description,
		&m.ExpenseDate,
		&m.Status,
		&m.ReceiptURL,
		&m.ReceiptFilename,
		&m.ReceiptMIMEType,
		&m.ReceiptSize,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.OwnerFirstName,
		&m.OwnerLastName,
	)
	return m, err
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	m, err := scanExpense(r.Pool.QueryRow(ctx, expenseSelectQuery+`WHERE e.expense_id = $1`, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find expense "+expenseID, err)
	}

	approvals, err := r.loadApprovals(ctx, []string{m.ExpenseID})
	if err != nil {
		return nil, err
	}
	expense := mapping.ToDomainExpense(m, approvals[m.ExpenseID])
	return &expense, nil
}

func (r *PgxExpenseRepository) FindExpensesByOwner(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	return r.getExpenses(ctx, `WHERE e.user_id = $1 ORDER BY e.created_at DESC, e.expense_id`, ownerID)
}

func (r *PgxExpenseRepository) FindPendingForApprover(ctx context.Context, companyID, approverID string) ([]domain.Expense, error) {
	query := `
		WHERE e.company_id = $1
		  AND e.status = 'PENDING'
		  AND EXISTS (
			SELECT 1 FROM expense_approvals a
			WHERE a.expense_id = e.expense_id AND a.approver_id = $2 AND a.status = 'PENDING'
		  )
		ORDER BY e.created_at DESC, e.expense_id`
	return r.getExpenses(ctx, query, companyID, approverID)
}

func (r *PgxExpenseRepository) FindReceiptBlob(ctx context.Context, expenseID string) (*domain.StoredReceipt, error) {
	query := `
		SELECT receipt_filename, receipt_mime_type, receipt_size, receipt_data
		FROM expenses
		WHERE expense_id = $1 AND receipt_data IS NOT NULL;
	`
	var (
		filename, mimeType string
		size               int64
		data               []byte
	)
	err := r.Pool.QueryRow(ctx, query, expenseID).Scan(&filename, &mimeType, &size, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load receipt of expense "+expenseID, err)
	}
	return &domain.StoredReceipt{Filename: filename, MIMEType: mimeType, Size: size, Data: data}, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	approvals := mapping.ToModelApprovals(expense)

	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO expenses (
				expense_id, user_id, company_id, amount, currency_code, category, description, expense_date,
				status, receipt_url, receipt_filename, receipt_mime_type, receipt_size, receipt_data, version,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
		`,
			m.ExpenseID, m.UserID, m.CompanyID, m.Amount, m.CurrencyCode, m.Category, m.Description, m.ExpenseDate,
			m.Status, m.ReceiptURL, m.ReceiptFilename, m.ReceiptMIMEType, m.ReceiptSize, m.ReceiptData, m.Version,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert expense "+m.ExpenseID, err)
		}

		if len(approvals) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for _, a := range approvals {
			batch.Queue(`
				INSERT INTO expense_approvals (expense_id, approver_id, position, status, comment, decided_at)
				VALUES ($1, $2, $3, $4, $5, $6);
			`, a.ExpenseID, a.ApproverID, a.Position, a.Status, a.Comment, a.DecidedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert approvals of expense "+m.ExpenseID, err)
		}
		return nil
	})
}

// ApplyDecision writes the decided approval and the expense status. Both
// updates are guarded so a concurrent decision makes this one affect no rows.
// A decided expense yields ErrAlreadyDecided, a stale version ErrConflict.
func (r *PgxExpenseRepository) ApplyDecision(ctx context.Context, expense *domain.Expense, approverID string) error {
	approval, ok := expense.ApprovalFor(approverID)
	if !ok {
		return apperrors.ErrNotFound
	}

	var newVersion int64
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE expense_approvals
			SET status = $1, comment = $2, decided_at = $3
			WHERE expense_id = $4 AND approver_id = $5 AND status = 'PENDING';
		`, string(approval.Status), approval.Comment, approval.DecidedAt, expense.ExpenseID, approverID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update approval of expense "+expense.ExpenseID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrAlreadyDecided
		}

		err = tx.QueryRow(ctx, `
			UPDATE expenses
			SET status = $1, last_updated_at = $2, last_updated_by = $3, version = version + 1
			WHERE expense_id = $4 AND status = 'PENDING' AND version = $5
			RETURNING version;
		`, string(expense.Status), expense.LastUpdatedAt, expense.LastUpdatedBy, expense.ExpenseID, expense.Version).Scan(&newVersion)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return r.classifyLostUpdate(ctx, tx, expense.ExpenseID)
			}
			return apperrors.NewAppError(500, "failed to update expense "+expense.ExpenseID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	expense.Version = newVersion
	return nil
}

// classifyLostUpdate tells a decided expense apart from a stale version.
func (r *PgxExpenseRepository) classifyLostUpdate(ctx context.Context, tx pgx.Tx, expenseID string) error {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM expenses WHERE expense_id = $1;`, expenseID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to read status of expense "+expenseID, err)
	}
	if domain.ExpenseStatus(status) != domain.StatusPending {
		return apperrors.ErrAlreadyDecided
	}
	return apperrors.NewConflictError("expense was modified concurrently, reload and retry")
}

// getExpenses runs expenseSelectQuery with filterQuery and attaches the approval chains.
func (r *PgxExpenseRepository) getExpenses(ctx context.Context, filterQuery string, args ...any) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, expenseSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expenses", err)
	}
	defer rows.Close()

	modelExpenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan expense row", err)
		}
		modelExpenses = append(modelExpenses, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating expense rows", err)
	}
	rows.Close()

	ids := make([]string, len(modelExpenses))
	for i, m := range modelExpenses {
		ids[i] = m.ExpenseID
	}
	approvals, err := r.loadApprovals(ctx, ids)
	if err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, len(modelExpenses))
	for i, m := range modelExpenses {
		expenses[i] = mapping.ToDomainExpense(m, approvals[m.ExpenseID])
	}
	return expenses, nil
}

// loadApprovals returns the approval rows of the given expenses keyed by expense id, ordered by position.
func (r *PgxExpenseRepository) loadApprovals(ctx context.Context, expenseIDs []string) (map[string][]models.ExpenseApproval, error) {
	result := make(map[string][]models.ExpenseApproval, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT a.expense_id, a.approver_id, a.position, a.status, a.comment, a.decided_at,
		       u.first_name, u.last_name
		FROM expense_approvals a
		JOIN users u ON u.user_id = a.approver_id
		WHERE a.expense_id = ANY($1)
		ORDER BY a.expense_id, a.position;
	`
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approvals", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.ExpenseApproval
		if err := rows.Scan(
			&a.ExpenseID,
			&a.ApproverID,
			&a.Position,
			&a.Status,
			&a.Comment,
			&a.DecidedAt,
			&a.ApproverFirstName,
			&a.ApproverLastName,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval row", err)
		}
		result[a.ExpenseID] = append(result[a.ExpenseID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating approval rows", err)
	}
	return result, nil
}

package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
)

// memoryStore backs the in-memory repositories used by the workflow tests.
// It mirrors the constraints of the Postgres schema that the services rely on.
type memoryStore struct {
	mu        sync.Mutex
	companies map[string]domain.Company
	users     map[string]domain.User
	expenses  map[string]domain.Expense
	blobs     map[string]domain.StoredReceipt
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		companies: map[string]domain.Company{},
		users:     map[string]domain.User{},
		expenses:  map[string]domain.Expense{},
		blobs:     map[string]domain.StoredReceipt{},
	}
}

func (s *memoryStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo: &memoryCompanyRepo{s},
		UserRepo:    &memoryUserRepo{s},
		ExpenseRepo: &memoryExpenseRepo{s},
	}
}

func copyExpense(e domain.Expense) domain.Expense {
	e.Approvals = append([]domain.Approval(nil), e.Approvals...)
	if r, ok := e.Receipt.(domain.StoredReceipt); ok {
		r.Data = nil
		e.Receipt = r
	}
	return e
}

// withManager resolves the manager display fields the way the SQL join does.
func (s *memoryStore) withManager(u domain.User) domain.User {
	u.Manager = nil
	if u.ManagerID != nil {
		if m, ok := s.users[*u.ManagerID]; ok {
			summary := m.Summary()
			u.Manager = &summary
		}
	}
	return u
}

// withNames resolves owner and approver names the way the SQL joins do.
func (s *memoryStore) withNames(e domain.Expense) domain.Expense {
	e = copyExpense(e)
	if owner, ok := s.users[e.OwnerID]; ok {
		e.OwnerName = owner.FullName()
	}
	for i := range e.Approvals {
		if approver, ok := s.users[e.Approvals[i].ApproverID]; ok {
			e.Approvals[i].ApproverName = approver.FullName()
		}
	}
	return e
}

type memoryCompanyRepo struct{ s *memoryStore }

func (r *memoryCompanyRepo) FindCompanyByID(_ context.Context, companyID string) (*domain.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[companyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *memoryCompanyRepo) CreateCompanyWithAdmin(_ context.Context, company domain.Company, admin domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.Name == company.Name {
			return apperrors.ErrDuplicateCompany
		}
	}
	for _, u := range r.s.users {
		if u.Email == admin.Email {
			return apperrors.ErrDuplicateUser
		}
	}
	r.s.companies[company.CompanyID] = company
	r.s.users[admin.UserID] = admin
	return nil
}

type memoryUserRepo struct{ s *memoryStore }

func (r *memoryUserRepo) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	u = r.s.withManager(u)
	return &u, nil
}

func (r *memoryUserRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u = r.s.withManager(u)
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memoryUserRepo) FindUserInCompany(_ context.Context, companyID, userID string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok || u.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	u = r.s.withManager(u)
	return &u, nil
}

func (r *memoryUserRepo) FindUsersByCompany(_ context.Context, companyID string) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool { return u.CompanyID == companyID }), nil
}

func (r *memoryUserRepo) FindEmployees(_ context.Context, companyID string, managerID *string) ([]domain.User, error) {
	return r.filter(func(u domain.User) bool {
		if u.CompanyID != companyID || u.Role != domain.RoleEmployee {
			return false
		}
		return managerID == nil || (u.ManagerID != nil && *u.ManagerID == *managerID)
	}), nil
}

func (r *memoryUserRepo) filter(keep func(domain.User) bool) []domain.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.s.users {
		if keep(u) {
			out = append(out, r.s.withManager(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memoryUserRepo) SaveUser(_ context.Context, user domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return apperrors.ErrDuplicateUser
		}
	}
	user.Manager = nil
	r.s.users[user.UserID] = user
	return nil
}

func (r *memoryUserRepo) UpdateUserManager(_ context.Context, companyID, userID string, managerID *string, updatedBy string, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok || u.CompanyID != companyID {
		return apperrors.ErrNotFound
	}
	u.ManagerID = managerID
	u.LastUpdatedBy = updatedBy
	u.LastUpdatedAt = updatedAt
	r.s.users[userID] = u
	return nil
}

type memoryExpenseRepo struct{ s *memoryStore }

func (r *memoryExpenseRepo) FindExpenseByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[expenseID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e = r.s.withNames(e)
	return &e, nil
}

func (r *memoryExpenseRepo) FindExpensesByOwner(_ context.Context, ownerID string) ([]domain.Expense, error) {
	return r.filter(func(e domain.Expense) bool { return e.OwnerID == ownerID }), nil
}

func (r *memoryExpenseRepo) FindPendingForApprover(_ context.Context, companyID, approverID string) ([]domain.Expense, error) {
	return r.filter(func(e domain.Expense) bool {
		return e.CompanyID == companyID && e.IsPendingFor(approverID)
	}), nil
}

func (r *memoryExpenseRepo) filter(keep func(domain.Expense) bool) []domain.Expense {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Expense{}
	for _, e := range r.s.expenses {
		if keep(e) {
			out = append(out, r.s.withNames(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memoryExpenseRepo) FindReceiptBlob(_ context.Context, expenseID string) (*domain.StoredReceipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	blob, ok := r.s.blobs[expenseID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &blob, nil
}

func (r *memoryExpenseRepo) SaveExpense(_ context.Context, expense domain.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if blob, ok := expense.Receipt.(domain.StoredReceipt); ok {
		r.s.blobs[expense.ExpenseID] = blob
	}
	r.s.expenses[expense.ExpenseID] = copyExpense(expense)
	return nil
}

// ApplyDecision succeeds only when the stored approval is still pending and
// the stored version matches, like the guarded UPDATEs in Postgres.
func (r *memoryExpenseRepo) ApplyDecision(_ context.Context, expense *domain.Expense, approverID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.expenses[expense.ExpenseID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !stored.IsPendingFor(approverID) {
		return apperrors.ErrAlreadyDecided
	}
	if stored.Version != expense.Version {
		return apperrors.NewConflictError("expense was modified concurrently")
	}
	expense.Version = stored.Version + 1
	r.s.expenses[expense.ExpenseID] = copyExpense(*expense)
	return nil
}

package handlers_test

import (
	"context"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) SignupCompany(ctx context.Context, req dto.SignupRequest) (*portssvc.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*portssvc.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*portssvc.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*portssvc.AuthResult)
	return res, args.Error(1)
}

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*portssvc.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*portssvc.AuthResult)
	return res, args.Error(1)
}

type MockTokenService struct{ mock.Mock }

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	args := m.Called(ctx, actor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *MockUserService) ListEmployees(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	args := m.Called(ctx, actor)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *MockUserService) CreateSubordinateUser(ctx context.Context, actor *domain.User, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, actor, req)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserService) AssignManager(ctx context.Context, actor *domain.User, req dto.AssignManagerRequest) (*domain.User, error) {
	args := m.Called(ctx, actor, req)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockExpenseService struct{ mock.Mock }

func (m *MockExpenseService) SubmitExpense(ctx context.Context, actor *domain.User, req dto.CreateExpenseRequest, receipt domain.Receipt) (*domain.Expense, error) {
	args := m.Called(ctx, actor, req, receipt)
	exp, _ := args.Get(0).(*domain.Expense)
	return exp, args.Error(1)
}

func (m *MockExpenseService) ListOwnExpenses(ctx context.Context, actor *domain.User) ([]domain.Expense, error) {
	args := m.Called(ctx, actor)
	exps, _ := args.Get(0).([]domain.Expense)
	return exps, args.Error(1)
}

func (m *MockExpenseService) GetExpense(ctx context.Context, actor *domain.User, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, actor, expenseID)
	exp, _ := args.Get(0).(*domain.Expense)
	return exp, args.Error(1)
}

func (m *MockExpenseService) FetchReceipt(ctx context.Context, actor *domain.User, expenseID string) (*domain.StoredReceipt, error) {
	args := m.Called(ctx, actor, expenseID)
	r, _ := args.Get(0).(*domain.StoredReceipt)
	return r, args.Error(1)
}

type MockApprovalService struct{ mock.Mock }

func (m *MockApprovalService) ListQueue(ctx context.Context, actor *domain.User) ([]domain.Expense, error) {
	args := m.Called(ctx, actor)
	exps, _ := args.Get(0).([]domain.Expense)
	return exps, args.Error(1)
}

func (m *MockApprovalService) Decide(ctx context.Context, actor *domain.User, expenseID string, req dto.DecisionRequest) (*domain.Expense, error) {
	args := m.Called(ctx, actor, expenseID, req)
	exp, _ := args.Get(0).(*domain.Expense)
	return exp, args.Error(1)
}

var (
	_ portssvc.AuthSvcFacade     = (*MockAuthService)(nil)
	_ portssvc.TokenSvcFacade    = (*MockTokenService)(nil)
	_ portssvc.UserSvcFacade     = (*MockUserService)(nil)
	_ portssvc.ExpenseSvcFacade  = (*MockExpenseService)(nil)
	_ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)
)

package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/Darshanh20/ExpenseManagement/internal/handlers"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/Darshanh20/ExpenseManagement/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type HandlersTestSuite struct {
	suite.Suite
	router   *gin.Engine
	auth     *MockAuthService
	token    *MockTokenService
	users    *MockUserService
	expenses *MockExpenseService
	approval *MockApprovalService

	admin    *domain.User
	manager  *domain.User
	employee *domain.User
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.auth = new(MockAuthService)
	s.token = new(MockTokenService)
	s.users = new(MockUserService)
	s.expenses = new(MockExpenseService)
	s.approval = new(MockApprovalService)

	managerID := "manager-1"
	s.admin = &domain.User{UserID: "admin-1", CompanyID: "company-1", Role: domain.RoleAdmin, Email: "admin@acme.test"}
	s.manager = &domain.User{UserID: managerID, CompanyID: "company-1", Role: domain.RoleManager, Email: "manager@acme.test"}
	s.employee = &domain.User{UserID: "employee-1", CompanyID: "company-1", Role: domain.RoleEmployee, Email: "employee@acme.test", ManagerID: &managerID}

	s.token.On("VerifyToken", mock.Anything, "admin-token").Return(s.admin, nil).Maybe()
	s.token.On("VerifyToken", mock.Anything, "manager-token").Return(s.manager, nil).Maybe()
	s.token.On("VerifyToken", mock.Anything, "employee-token").Return(s.employee, nil).Maybe()

	authLimiter, err := middleware.NewIPRateLimiter("1000-M")
	s.Require().NoError(err)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{IsProduction: true, ReceiptMaxBytes: 1024}, &portssvc.ServiceContainer{
		Auth:     s.auth,
		Token:    s.token,
		User:     s.users,
		Expense:  s.expenses,
		Approval: s.approval,
	}, authLimiter)
}

func (s *HandlersTestSuite) TearDownTest() {
	s.auth.AssertExpectations(s.T())
	s.users.AssertExpectations(s.T())
	s.expenses.AssertExpectations(s.T())
	s.approval.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *HandlersTestSuite) errorBody(w *httptest.ResponseRecorder) handlers.ErrorResponse {
	var body handlers.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *HandlersTestSuite) pendingExpense() *domain.Expense {
	return &domain.Expense{
		ExpenseID: "expense-1",
		CompanyID: "company-1",
		OwnerID:   s.employee.UserID,
		Amount:    decimal.RequireFromString("12.50"),
		Currency:  "USD",
		Status:    domain.StatusPending,
		Approvals: []domain.Approval{{ApproverID: s.manager.UserID, Status: domain.StatusPending}},
	}
}

func (s *HandlersTestSuite) TestHealth() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlersTestSuite) TestSwaggerNotServedInProduction() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil), "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestSignup() {
	req := dto.SignupRequest{
		CompanyName: "Acme",
		Currency:    "usd",
		FirstName:   "Ada",
		LastName:    "Admin",
		Email:       "ada@acme.test",
		Password:    "secret1",
	}
	s.auth.On("SignupCompany", mock.Anything, req).Return(&portssvc.AuthResult{
		User:      s.admin,
		Company:   &domain.Company{CompanyID: "company-1", Name: "Acme", CurrencyCode: "USD"},
		Token:     "signed",
		ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil).Once()

	w := s.doJSON(http.MethodPost, "/api/auth/signup", "", req)

	s.Require().Equal(http.StatusCreated, w.Code)
	var body dto.AuthResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("signed", body.Token)
	s.Equal("admin-1", body.User.ID)
	s.Require().NotNil(body.Company)
	s.Equal("USD", body.Company.Currency)
}

func (s *HandlersTestSuite) TestSignupValidation() {
	w := s.doJSON(http.MethodPost, "/api/auth/signup", "", map[string]string{"companyName": "Acme"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestSignupDuplicateCompany() {
	s.auth.On("SignupCompany", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateCompany).Once()

	w := s.doJSON(http.MethodPost, "/api/auth/signup", "", dto.SignupRequest{
		CompanyName: "Acme", Currency: "USD", FirstName: "A", LastName: "B", Email: "a@acme.test", Password: "secret1",
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("DUPLICATE_COMPANY", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestLoginInvalidCredentials() {
	s.auth.On("Login", mock.Anything, dto.LoginRequest{Email: "x@acme.test", Password: "wrong"}).
		Return(nil, apperrors.ErrInvalidCredentials).Once()

	w := s.doJSON(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "x@acme.test", Password: "wrong"})

	s.Equal(http.StatusUnauthorized, w.Code)
	body := s.errorBody(w)
	s.Equal("INVALID_CREDENTIALS", body.Code)
	s.Equal("Invalid email or password", body.Error)
}

func (s *HandlersTestSuite) TestMe() {
	s.users.On("GetUserByID", mock.Anything, s.employee.UserID).Return(s.employee, nil).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "employee-token")

	s.Require().Equal(http.StatusOK, w.Code)
	var body dto.UserEnvelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(domain.RoleEmployee, body.User.Role)
	s.Equal("manager-1", *body.User.ManagerID)
}

func (s *HandlersTestSuite) TestMeRequiresToken() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("UNAUTHENTICATED", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestCreateUser() {
	req := dto.CreateUserRequest{
		Email: "new@acme.test", Password: "secret1", FirstName: "New", LastName: "Hire", Role: "EMPLOYEE",
	}
	created := &domain.User{UserID: "user-9", CompanyID: "company-1", Role: domain.RoleEmployee, Email: req.Email}
	s.users.On("CreateSubordinateUser", mock.Anything, s.admin, req).Return(created, nil).Twice()

	for _, path := range []string{"/api/admin/users", "/api/auth/signup-employee"} {
		w := s.doJSON(http.MethodPost, path, "admin-token", req)
		s.Equal(http.StatusCreated, w.Code, path)
	}
}

func (s *HandlersTestSuite) TestCreateUserRejectsUnknownRole() {
	w := s.doJSON(http.MethodPost, "/api/admin/users", "admin-token", dto.CreateUserRequest{
		Email: "new@acme.test", Password: "secret1", FirstName: "New", LastName: "Hire", Role: "INTERN",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestAdminRoutesRequireAdmin() {
	for _, token := range []string{"manager-token", "employee-token"} {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil), token)
		s.Equal(http.StatusForbidden, w.Code, token)
		s.Equal("FORBIDDEN", s.errorBody(w).Code)
	}
}

func (s *HandlersTestSuite) TestAssignManagerInvalidManager() {
	managerID := "employee-2"
	req := dto.AssignManagerRequest{UserID: s.employee.UserID, ManagerID: &managerID}
	s.users.On("AssignManager", mock.Anything, s.admin, req).Return(nil, apperrors.ErrInvalidManager).Once()

	w := s.doJSON(http.MethodPut, "/api/admin/users/assign-manager", "admin-token", req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("INVALID_MANAGER", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestManagerRoutesForbiddenForEmployee() {
	w := s.do(httptest.NewRequest(http.MethodGet, "/api/manager/approvals", nil), "employee-token")
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlersTestSuite) TestListQueue() {
	s.approval.On("ListQueue", mock.Anything, s.manager).Return([]domain.Expense{*s.pendingExpense()}, nil).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/manager/approvals", nil), "manager-token")

	s.Require().Equal(http.StatusOK, w.Code)
	var body dto.ListExpensesResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Require().Len(body.Expenses, 1)
	s.Equal("expense-1", body.Expenses[0].ID)
	s.True(decimal.RequireFromString("12.5").Equal(body.Expenses[0].Amount))
}

func (s *HandlersTestSuite) TestDecide() {
	decided := s.pendingExpense()
	decided.Status = domain.StatusApproved
	decided.Approvals[0].Status = domain.StatusApproved
	s.approval.On("Decide", mock.Anything, s.manager, "expense-1", dto.DecisionRequest{Status: "approved"}).
		Return(decided, nil).Once()

	w := s.doJSON(http.MethodPut, "/api/manager/approvals/expense-1", "manager-token", map[string]string{"status": "approved"})

	s.Require().Equal(http.StatusOK, w.Code)
	var body dto.ExpenseEnvelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(domain.StatusApproved, body.Expense.Status)
}

func (s *HandlersTestSuite) TestDecideAlreadyDecided() {
	s.approval.On("Decide", mock.Anything, s.manager, "expense-1", mock.Anything).
		Return(nil, apperrors.ErrAlreadyDecided).Once()

	w := s.doJSON(http.MethodPut, "/api/manager/approvals/expense-1", "manager-token", map[string]string{"status": "REJECTED"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("ALREADY_DECIDED", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestDecideConcurrentModification() {
	s.approval.On("Decide", mock.Anything, s.manager, "expense-1", mock.Anything).
		Return(nil, apperrors.NewConflictError("expense was modified concurrently, reload and retry")).Once()

	w := s.doJSON(http.MethodPut, "/api/manager/approvals/expense-1", "manager-token", map[string]string{"status": "APPROVED"})

	s.Equal(http.StatusConflict, w.Code)
	body := s.errorBody(w)
	s.Equal("CONFLICT", body.Code)
	s.Equal("expense was modified concurrently, reload and retry", body.Error)
}

func (s *HandlersTestSuite) TestDecideRejectsUnknownDecision() {
	w := s.doJSON(http.MethodPut, "/api/manager/approvals/expense-1", "manager-token", map[string]string{"status": "MAYBE"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestSubmitExpenseWithUploadedReceipt() {
	isPNGReceipt := mock.MatchedBy(func(r domain.Receipt) bool {
		stored, ok := r.(domain.StoredReceipt)
		return ok && stored.MIMEType == "image/png" && stored.Filename == "taxi.png" && stored.Size == int64(len(pngHeader))
	})
	s.expenses.On("SubmitExpense", mock.Anything, s.employee, dto.CreateExpenseRequest{Amount: "12.50", Category: "Travel"}, isPNGReceipt).
		Return(s.pendingExpense(), nil).Once()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(s.T(), form.WriteField("amount", "12.50"))
	require.NoError(s.T(), form.WriteField("category", "Travel"))
	part, err := form.CreateFormFile("receipt", `..\..\taxi.png`)
	s.Require().NoError(err)
	_, err = part.Write(pngHeader)
	s.Require().NoError(err)
	s.Require().NoError(form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/expenses", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := s.do(req, "employee-token")

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *HandlersTestSuite) TestSubmitExpenseRejectsNonImageReceipt() {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	s.Require().NoError(form.WriteField("amount", "5"))
	part, err := form.CreateFormFile("receipt", "notes.txt")
	s.Require().NoError(err)
	_, err = part.Write([]byte("just some plain text"))
	s.Require().NoError(err)
	s.Require().NoError(form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/expenses", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := s.do(req, "employee-token")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("VALIDATION_ERROR", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestSubmitExpenseRejectsOversizedReceipt() {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	s.Require().NoError(form.WriteField("amount", "5"))
	part, err := form.CreateFormFile("receipt", "big.png")
	s.Require().NoError(err)
	_, err = part.Write(append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 2048)...))
	s.Require().NoError(err)
	s.Require().NoError(form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/expenses", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := s.do(req, "employee-token")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(s.errorBody(w).Error, "maximum size")
}

func (s *HandlersTestSuite) TestSubmitExpenseWithReceiptURL() {
	req := dto.CreateExpenseRequest{Amount: "40", ReceiptURL: "https://receipts.example.com/r/1"}
	s.expenses.On("SubmitExpense", mock.Anything, s.employee, req, nil).Return(s.pendingExpense(), nil).Once()

	w := s.doJSON(http.MethodPost, "/api/expenses", "employee-token", req)

	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlersTestSuite) TestSubmitExpenseRejectsNonWebReceiptURL() {
	for _, receiptURL := range []string{"javascript:alert(document.cookie)", "ftp://x/y", "file:///etc/passwd"} {
		w := s.doJSON(http.MethodPost, "/api/expenses", "employee-token", dto.CreateExpenseRequest{Amount: "40", ReceiptURL: receiptURL})

		s.Equal(http.StatusBadRequest, w.Code, receiptURL)
		s.Equal("VALIDATION_ERROR", s.errorBody(w).Code, receiptURL)
	}
	s.expenses.AssertNotCalled(s.T(), "SubmitExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestSubmitExpenseForbiddenForManager() {
	w := s.doJSON(http.MethodPost, "/api/expenses", "manager-token", dto.CreateExpenseRequest{Amount: "1"})
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlersTestSuite) TestGetExpenseNotFound() {
	s.expenses.On("GetExpense", mock.Anything, s.manager, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/expenses/missing", nil), "manager-token")

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NOT_FOUND", s.errorBody(w).Code)
}

func (s *HandlersTestSuite) TestDownloadReceipt() {
	s.expenses.On("FetchReceipt", mock.Anything, s.manager, "expense-1").Return(&domain.StoredReceipt{
		Filename: "taxi fare.png",
		MIMEType: "image/png",
		Size:     int64(len(pngHeader)),
		Data:     pngHeader,
	}, nil).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/expenses/receipt/expense-1", nil), "manager-token")

	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))
	s.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
	s.True(strings.HasPrefix(w.Header().Get("Content-Disposition"), "inline;"))
	s.Contains(w.Header().Get("Content-Disposition"), `filename="taxi fare.png"`)
	s.Equal(pngHeader, w.Body.Bytes())
}

func (s *HandlersTestSuite) TestUnexpectedErrorIsHidden() {
	s.expenses.On("ListOwnExpenses", mock.Anything, s.employee).Return(nil, errors.New("connection reset by peer")).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/expenses/my-expenses", nil), "employee-token")

	s.Equal(http.StatusInternalServerError, w.Code)
	body := s.errorBody(w)
	s.Equal("INTERNAL_ERROR", body.Code)
	s.NotContains(body.Error, "connection reset")
}

func (s *HandlersTestSuite) TestValidationMessageIsSurfaced() {
	s.expenses.On("ListOwnExpenses", mock.Anything, s.employee).
		Return(nil, apperrors.NewValidationFailedError("amount must be greater than zero")).Once()

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/expenses/my-expenses", nil), "employee-token")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("amount must be greater than zero", s.errorBody(w).Error)
}

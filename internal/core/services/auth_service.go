package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Darshanh20/ExpenseManagement/internal/apperrors"
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portsrepo "github.com/Darshanh20/ExpenseManagement/internal/core/ports/repositories"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"github.com/Darshanh20/ExpenseManagement/internal/utils"
	"github.com/google/uuid"
)

const (
	loginMethodPassword = "password"
	loginMethodGoogle   = "google"
)

type authService struct {
	BaseService
	companyRepo portsrepo.CompanyWriter
	userRepo    portsrepo.UserReader
	tokens      portssvc.TokenSvcFacade
	google      portssvc.GoogleIDTokenValidator
}

// NewAuthService wires signup and login. google may be nil, which disables Google sign-in.
func NewAuthService(
	companyRepo portsrepo.CompanyWriter,
	userRepo portsrepo.UserReader,
	tokens portssvc.TokenSvcFacade,
	google portssvc.GoogleIDTokenValidator,
	options ...ServiceOption,
) portssvc.AuthSvcFacade {
	return &authService{
		BaseService: newBaseService(options...),
		companyRepo: companyRepo,
		userRepo:    userRepo,
		tokens:      tokens,
		google:      google,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// SignupCompany creates the tenant and its only ADMIN in one step.
func (s *authService) SignupCompany(ctx context.Context, req dto.SignupRequest) (*portssvc.AuthResult, error) {
	currency, err := utils.NormalizeCurrencyCode(req.Currency)
	if err != nil {
		return nil, err
	}
	companyName := strings.TrimSpace(req.CompanyName)
	if companyName == "" {
		return nil, apperrors.NewValidationFailedError("company name is required")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if errors.Is(err, apperrors.ErrValidation) {
		return nil, err
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to hash admin password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	company := domain.Company{
		CompanyID:    uuid.NewString(),
		Name:         companyName,
		CurrencyCode: currency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	admin := domain.User{
		UserID:       uuid.NewString(),
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         domain.RoleAdmin,
		CompanyID:    company.CompanyID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	company.CreatedBy = admin.UserID
	company.LastUpdatedBy = admin.UserID

	if err := s.companyRepo.CreateCompanyWithAdmin(ctx, company, admin); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogInfo(ctx, "Signup rejected as duplicate", slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to create company with admin")
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(ctx, &admin)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Company signed up",
		slog.String("company_id", company.CompanyID),
		slog.String("admin_id", admin.UserID))
	s.Track(admin.UserID, "company_signed_up", map[string]any{"currency": currency})

	return &portssvc.AuthResult{User: &admin, Company: &company, Token: token, ExpiresAt: expiresAt}, nil
}

// Login never reveals whether the email exists: both failure paths return
// ErrInvalidCredentials after the same bcrypt work.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*portssvc.AuthResult, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up user for login")
			return nil, err
		}
		utils.CompareDummyPassword(req.Password)
		s.recordLogin(loginMethodPassword, "failure")
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.recordLogin(loginMethodPassword, "failure")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(ctx, user, loginMethodPassword)
}

// LoginWithGoogle only signs in users that already exist; it never creates accounts.
func (s *authService) LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*portssvc.AuthResult, error) {
	if s.google == nil {
		return nil, apperrors.NewValidationFailedError("Google sign-in is not enabled")
	}

	payload, err := s.google.ValidateGoogleIDToken(ctx, req.IDToken)
	if err != nil {
		s.LogWarn(ctx, "Google ID token rejected", slog.String("error", err.Error()))
		s.recordLogin(loginMethodGoogle, "failure")
		return nil, apperrors.ErrInvalidCredentials
	}

	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !verified {
		s.recordLogin(loginMethodGoogle, "failure")
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordLogin(loginMethodGoogle, "failure")
			return nil, apperrors.ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up user for Google login")
		return nil, err
	}

	return s.issueSession(ctx, user, loginMethodGoogle)
}

func (s *authService) issueSession(ctx context.Context, user *domain.User, method string) (*portssvc.AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	s.recordLogin(method, "success")
	s.LogInfo(ctx, "User logged in", slog.String("user_id", user.UserID), slog.String("method", method))
	return &portssvc.AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) recordLogin(method, outcome string) {
	if s.Metrics != nil {
		s.Metrics.LoginAttempts.WithLabelValues(method, outcome).Inc()
	}
}

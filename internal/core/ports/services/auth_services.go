package services

import (
	"context"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/Darshanh20/ExpenseManagement/internal/dto"
	"google.golang.org/api/idtoken"
)

// AuthResult is what a successful signup or login hands back to the caller.
type AuthResult struct {
	User      *domain.User
	Company   *domain.Company
	Token     string
	ExpiresAt time.Time
}

// AuthSvcFacade covers company signup and the login flows.
type AuthSvcFacade interface {
	// SignupCompany creates a company together with its ADMIN and issues a session token.
	SignupCompany(ctx context.Context, req dto.SignupRequest) (*AuthResult, error)

	// Login verifies email/password. Unknown email and wrong password yield the same error.
	Login(ctx context.Context, req dto.LoginRequest) (*AuthResult, error)

	// LoginWithGoogle signs in an existing user whose verified Google email matches.
	LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*AuthResult, error)
}

// TokenSvcFacade defines the interface for session token management.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed session token for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// VerifyToken validates a session token and returns a fresh read of its user.
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// GoogleIDTokenValidator validates Google ID tokens against the configured client ID.
type GoogleIDTokenValidator interface {
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}

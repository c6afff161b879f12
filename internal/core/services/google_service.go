package services

import (
	"context"
	"errors"
	"fmt"

	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"google.golang.org/api/idtoken"
)

type googleIDTokenService struct {
	clientID string
}

// NewGoogleIDTokenService validates ID tokens issued for clientID.
func NewGoogleIDTokenService(clientID string) portssvc.GoogleIDTokenValidator {
	return &googleIDTokenService{clientID: clientID}
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleIDTokenService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.clientID == "" {
		return nil, errors.New("google client ID is not configured")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}

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

// userService implements the identity side of the tenant: subordinate
// users, reporting lines and listings, always scoped to the actor's company.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service with the provided dependencies
func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...ServiceOption) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(options...),
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user by ID", slog.String("target_user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := s.Authorize(ctx, actor, domain.CapManageUsers); err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindUsersByCompany(ctx, actor.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company users")
		return nil, err
	}
	return users, nil
}

// ListEmployees returns direct reports for a MANAGER and every EMPLOYEE for an ADMIN.
func (s *userService) ListEmployees(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := s.Authorize(ctx, actor, domain.CapReviewExpenses); err != nil {
		return nil, err
	}
	var managerFilter *string
	if actor.Role != domain.RoleAdmin {
		managerFilter = &actor.UserID
	}
	employees, err := s.userRepo.FindEmployees(ctx, actor.CompanyID, managerFilter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees")
		return nil, err
	}
	return employees, nil
}

// CreateSubordinateUser adds a MANAGER or EMPLOYEE to the actor's company.
func (s *userService) CreateSubordinateUser(ctx context.Context, actor *domain.User, req dto.CreateUserRequest) (*domain.User, error) {
	if err := s.Authorize(ctx, actor, domain.CapManageUsers); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleEmployee && role != domain.RoleManager {
		return nil, apperrors.NewValidationFailedError("role must be EMPLOYEE or MANAGER")
	}

	managerID := normalizeID(req.ManagerID)
	var manager *domain.User
	if managerID != nil {
		if manager, err = s.resolveManager(ctx, actor.CompanyID, *managerID); err != nil {
			return nil, err
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if errors.Is(err, apperrors.ErrValidation) {
		return nil, err
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password for new user")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		CompanyID:    actor.CompanyID,
		ManagerID:    managerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicateUser) {
			s.LogError(ctx, err, "Failed to save new user")
		}
		return nil, err
	}
	if manager != nil {
		summary := manager.Summary()
		user.Manager = &summary
	}

	s.LogInfo(ctx, "User created",
		slog.String("new_user_id", user.UserID),
		slog.String("new_user_role", string(role)))
	return &user, nil
}

// AssignManager sets or clears the manager of an EMPLOYEE. Approval chains of
// already submitted expenses keep their original approver.
func (s *userService) AssignManager(ctx context.Context, actor *domain.User, req dto.AssignManagerRequest) (*domain.User, error) {
	if err := s.Authorize(ctx, actor, domain.CapManageUsers); err != nil {
		return nil, err
	}

	targetID := strings.TrimSpace(req.TargetUserID())
	if targetID == "" {
		return nil, apperrors.NewValidationFailedError("userId is required")
	}

	employee, err := s.userRepo.FindUserInCompany(ctx, actor.CompanyID, targetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("employee not found")
		}
		s.LogError(ctx, err, "Failed to load employee for manager assignment")
		return nil, err
	}
	if employee.Role != domain.RoleEmployee {
		return nil, apperrors.NewNotFoundError("employee not found")
	}

	managerID := normalizeID(req.ManagerID)
	var manager *domain.User
	if managerID != nil {
		if manager, err = s.resolveManager(ctx, actor.CompanyID, *managerID); err != nil {
			return nil, err
		}
	}

	now := s.Now()
	if err := s.userRepo.UpdateUserManager(ctx, actor.CompanyID, employee.UserID, managerID, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to update manager", slog.String("employee_id", employee.UserID))
		return nil, err
	}

	employee.ManagerID = managerID
	employee.Manager = nil
	if manager != nil {
		summary := manager.Summary()
		employee.Manager = &summary
	}
	employee.LastUpdatedAt = now
	employee.LastUpdatedBy = actor.UserID

	s.LogInfo(ctx, "Manager assignment changed",
		slog.String("employee_id", employee.UserID),
		slog.String("manager_id", valueOrEmpty(managerID)))
	return employee, nil
}

// resolveManager accepts only a MANAGER of companyID; anything else, including
// users of other companies, is ErrInvalidManager.
func (s *userService) resolveManager(ctx context.Context, companyID, managerID string) (*domain.User, error) {
	manager, err := s.userRepo.FindUserInCompany(ctx, companyID, managerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: manager must be a MANAGER of your company", apperrors.ErrInvalidManager)
		}
		s.LogError(ctx, err, "Failed to resolve manager", slog.String("manager_id", managerID))
		return nil, err
	}
	if manager.Role != domain.RoleManager {
		return nil, fmt.Errorf("%w: manager must be a MANAGER of your company", apperrors.ErrInvalidManager)
	}
	return manager, nil
}

// normalizeID treats blank references as absent.
func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

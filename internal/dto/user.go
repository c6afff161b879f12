package dto

import (
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
)

// CreateUserRequest is used by an ADMIN to add a MANAGER or EMPLOYEE to the company.
type CreateUserRequest struct {
	Email     string  `json:"email" binding:"required,email,max=255"`
	Password  string  `json:"password" binding:"required,min=6,max=72"`
	FirstName string  `json:"firstName" binding:"required,max=100"`
	LastName  string  `json:"lastName" binding:"required,max=100"`
	Role      string  `json:"role" binding:"required,role"`
	ManagerID *string `json:"managerId"`
}

// AssignManagerRequest sets or clears an employee's manager.
// employeeId is accepted as an alias of userId; a null managerId clears the relation.
type AssignManagerRequest struct {
	UserID     string  `json:"userId"`
	EmployeeID string  `json:"employeeId"`
	ManagerID  *string `json:"managerId"`
}

// TargetUserID resolves the userId/employeeId alias.
func (r AssignManagerRequest) TargetUserID() string {
	if r.UserID != "" {
		return r.UserID
	}
	return r.EmployeeID
}

type UserResponse struct {
	ID        string               `json:"id"`
	Email     string               `json:"email"`
	FirstName string               `json:"firstName"`
	LastName  string               `json:"lastName"`
	Role      domain.Role          `json:"role"`
	CompanyID string               `json:"companyId"`
	ManagerID *string              `json:"managerId"`
	Manager   *UserSummaryResponse `json:"manager,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

type UserSummaryResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserEnvelope wraps a single user as {"user": ...}.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ListEmployeesResponse wraps the team listing of a manager or admin.
type ListEmployeesResponse struct {
	Employees []UserResponse `json:"employees"`
}

// ToUserResponse strips credentials from a domain user.
func ToUserResponse(u *domain.User) UserResponse {
	resp := UserResponse{
		ID:        u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		ManagerID: u.ManagerID,
		CreatedAt: u.CreatedAt,
	}
	if u.Manager != nil {
		resp.Manager = &UserSummaryResponse{
			ID:        u.Manager.UserID,
			Email:     u.Manager.Email,
			FirstName: u.Manager.FirstName,
			LastName:  u.Manager.LastName,
		}
	}
	return resp
}

// ToUserResponses converts a slice of domain users.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

package domain

import "strings"

// User represents a member of a company.
type User struct {
	UserID       string  `json:"userID"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Role         Role    `json:"role"`
	CompanyID    string  `json:"companyID"`
	ManagerID    *string `json:"managerID,omitempty"`
	// Manager holds resolved display fields; only populated by listing queries.
	Manager *UserSummary `json:"manager,omitempty"`
	AuditFields
}

// UserSummary is the display projection of a user referenced from another record.
type UserSummary struct {
	UserID    string `json:"userID"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasManager reports whether a reporting line is set.
func (u *User) HasManager() bool {
	return u.ManagerID != nil && *u.ManagerID != ""
}

// Summary returns the display projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		UserID:    u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// NormalizeEmail lower-cases and trims an email address. Emails are stored normalised.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

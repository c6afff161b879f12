package models

// User is a row of the users table, plus the manager columns of the self join.
type User struct {
	UserID       string  `db:"user_id"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	Role         string  `db:"role"`
	CompanyID    string  `db:"company_id"`
	ManagerID    *string `db:"manager_id"`
	AuditFields

	ManagerEmail     *string `db:"manager_email"`
	ManagerFirstName *string `db:"manager_first_name"`
	ManagerLastName  *string `db:"manager_last_name"`
}

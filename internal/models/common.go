package models

import "time"

// AuditFields mirrors the audit columns shared by every table.
// created_by/last_updated_by are nullable for rows created by self-signup.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     *string   `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy *string   `db:"last_updated_by"`
}

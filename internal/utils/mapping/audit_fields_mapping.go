package mapping

import (
	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/Darshanh20/ExpenseManagement/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     nullableString(d.CreatedBy),
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: nullableString(d.LastUpdatedBy),
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     stringValue(m.CreatedBy),
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: stringValue(m.LastUpdatedBy),
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

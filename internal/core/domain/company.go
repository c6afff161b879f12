package domain

// Company is the tenant boundary. It is created once at signup and never changed.
type Company struct {
	CompanyID    string `json:"companyID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // ISO 4217, upper case
	AuditFields
}

package dto

import "github.com/Darshanh20/ExpenseManagement/internal/core/domain"

type CompanyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func ToCompanyResponse(c *domain.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{
		ID:       c.CompanyID,
		Name:     c.Name,
		Currency: c.CurrencyCode,
	}
}

package handlers

import (
	"sync"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the domain enumerations to gin's validator engine
// so DTOs can use `binding:"role"` and `binding:"decision"`.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseRole(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("decision", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseDecision(fl.Field().String())
			return err == nil
		})
	})
}

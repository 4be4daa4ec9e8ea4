package validator

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/polito-log/backend/internal/models"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("statement_status", validateStatementStatus)
	mustRegister("user_role", validateUserRole)
}

// Empty values pass; presence is the job of 'required'.

func validateStatementStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.StatementStatus(value).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).Valid()
}

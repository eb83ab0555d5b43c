package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError représente une erreur de validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implémente l'interface error
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateStruct valide une structure via ses tags `validate` et
// retourne la première erreur sous forme lisible
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return ValidationError{Field: "payload", Message: "données invalides"}
	}

	fe := validationErrors[0]
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s est requis", field)}
	case "email":
		return ValidationError{Field: field, Message: "format d'email invalide"}
	case "min":
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s doit contenir au moins %s caractères", field, fe.Param())}
	case "max":
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s ne doit pas dépasser %s caractères", field, fe.Param())}
	case "oneof":
		return ValidationError{Field: field, Message: fmt.Sprintf("valeur invalide pour le champ %s", field)}
	default:
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s est invalide", field)}
	}
}

// ValidateRequired valide qu'un champ n'est pas vide
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: fmt.Sprintf("le champ %s est requis", field)}
	}
	return nil
}

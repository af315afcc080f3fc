package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Numéros internationaux: indicatif facultatif, 7 à 15 chiffres
var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidationError représente une erreur de validation
type ValidationError struct {
	Field   string
	Message string
}

// Error implémente l'interface error
func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateEmail valide un email
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

// ValidatePassword valide un mot de passe
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 6 {
		return ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	return nil
}

// ValidateRequired valide qu'un champ n'est pas vide
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
	}
	return nil
}

// ValidatePhone valide un numéro de téléphone (format international souple)
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	phone = strings.NewReplacer(" ", "", ".", "", "-", "", "(", "", ")", "").Replace(phone)

	if phone == "" {
		return ValidationError{Field: "phone", Message: "phone is required"}
	}
	if !phoneRegex.MatchString(phone) {
		return ValidationError{Field: "phone", Message: "invalid phone number"}
	}
	return nil
}

// ValidateAmount valide un montant strictement positif
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	return nil
}

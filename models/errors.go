package models

import "fmt"

// FieldError signale un champ obligatoire manquant dans un enregistrement
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("champ manquant: %s", e.Field)
}

func errMissingField(field string) error {
	return &FieldError{Field: field}
}

package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " é obrigatório."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s não pode exceder %d caracteres.", fieldName, maxLen)
		}
		return ""
	}
}

// Optional validates that an optional field does not exceed maxLen characters if provided.
func Optional(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s não pode exceder %d caracteres.", fieldName, maxLen)
		}
		return ""
	}
}

// Email validates that a field is a parseable e-mail address.
func Email(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " é obrigatório."
		}
		if _, err := mail.ParseAddress(v); err != nil {
			return "Informe um e-mail válido."
		}
		return ""
	}
}

// HTTPSURL validates that a field is a valid HTTP(S) URL and does not exceed maxLen characters.
func HTTPSURL(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " é obrigatório."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s não pode exceder %d caracteres.", fieldName, maxLen)
		}
		p, e := url.Parse(v)
		if e != nil || (p.Scheme != "http" && p.Scheme != "https") || p.Host == "" {
			return "Informe uma URL http(s) válida."
		}
		return ""
	}
}

// OneOf validates that a field matches one of the provided options (case-insensitive).
func OneOf(fieldName string, options []string) Validator {
	return func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		for _, opt := range options {
			if v == strings.ToLower(opt) {
				return ""
			}
		}
		return fmt.Sprintf("%s deve ser um de: %s", fieldName, strings.Join(options, ", "))
	}
}

// NonNegativeAmount validates that an optional field is a non-negative decimal number.
func NonNegativeAmount(fieldName string) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if err != nil {
			return fieldName + " deve ser um número."
		}
		if n < 0 {
			return fieldName + " não pode ser negativo."
		}
		return ""
	}
}

// FieldValidator provides a fluent API for validating multiple fields.
type FieldValidator struct {
	errors map[string]string
}

// New creates a new FieldValidator instance.
func New() *FieldValidator {
	return &FieldValidator{errors: make(map[string]string)}
}

// Validate validates a field with one or more validators.
// It stops at the first error for each field.
func (fv *FieldValidator) Validate(field, value string, validators ...Validator) *FieldValidator {
	for _, v := range validators {
		if err := v(value); err != "" {
			fv.errors[field] = err
			break
		}
	}
	return fv
}

// Errors returns the accumulated validation errors.
func (fv *FieldValidator) Errors() map[string]string {
	return fv.errors
}

// Cinematek - Film Catalog Aggregation and Enrichment Service
// Copyright 2026 Pavel G. (pavelgr)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pavelgr/cinematek

// Package validation provides struct validation using go-playground/validator
// v10. A single thread-safe validator instance is shared process-wide so that
// struct metadata is parsed and cached once.
//
// Request structs declare their rules with `validate:` tags:
//
//	type FilterRequest struct {
//	    Page  int `validate:"min=1"`
//	    Limit int `validate:"min=1,max=100"`
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pavelgr/cinematek/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// sortkey restricts the browse sort parameter to the supported keys.
		_ = validate.RegisterValidation("sortkey", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "", "views", "rating", "latest":
				return true
			}
			return false
		})
	})
	return validate
}

// ValidateStruct validates v against its `validate:` tags. Returns nil on
// success, or a models.APIError with code VALIDATION_ERROR describing every
// failing field.
func ValidateStruct(v interface{}) *models.APIError {
	err := GetValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError: v was not a struct. Programming error,
		// surfaced as a validation failure rather than a panic.
		return &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}

	return &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: strings.Join(messages, "; "),
	}
}

// fieldMessage renders one field error in a stable, client-friendly form.
func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "sortkey":
		return fmt.Sprintf("%s must be one of views, rating, latest", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

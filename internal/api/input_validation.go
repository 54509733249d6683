package api

import "github.com/terraincognita07/moodtune/internal/validation"

// validateInput runs the struct tags of a request payload.
func validateInput(input any) error {
	return validation.Struct(input)
}

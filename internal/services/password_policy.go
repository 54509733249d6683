package services

import (
	"errors"
	"strings"
	"unicode"
)

const minPasswordLength = 8

var ErrWeakPassword = errors.New("weak password")

// commonPasswords is a short deny-list of the most frequently leaked passwords.
var commonPasswords = map[string]struct{}{
	"123456789": {}, "12345678": {}, "1234567890": {}, "password": {}, "password1": {},
	"password123": {}, "qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "welcome123": {},
	"abc12345": {}, "abcd1234": {}, "11111111": {}, "00000000": {}, "letmein1": {},
	"trustno1": {}, "superman": {}, "starwars": {}, "whatever": {}, "dragon123": {},
	"passw0rd": {}, "p@ssw0rd": {}, "master123": {}, "monkey123": {}, "1q2w3e4r": {},
	"zaq12wsx": {}, "qazwsxedc": {}, "asdfghjkl": {}, "administrator": {}, "changeme": {},
	"computer": {}, "michelle": {}, "jennifer": {}, "corvette": {}, "mustang1": {},
}

// PasswordPolicyError lists every rule a password broke.
type PasswordPolicyError struct {
	Problems []string
}

func (e *PasswordPolicyError) Error() string {
	return strings.Join(e.Problems, " ")
}

func (e *PasswordPolicyError) Unwrap() error {
	return ErrWeakPassword
}

// UserAttribute is a piece of account data a password must not resemble.
type UserAttribute struct {
	Label string
	Value string
}

// ValidatePasswordStrength applies the length, numeric, common-password and
// similarity rules. It returns nil or a *PasswordPolicyError.
func ValidatePasswordStrength(password string, attributes ...UserAttribute) error {
	problems := make([]string, 0, 4)

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if isEntirelyNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, common := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; common {
		problems = append(problems, "This password is too common.")
	}
	for _, attribute := range attributes {
		if isTooSimilar(password, attribute.Value) {
			problems = append(problems, "The password is too similar to the "+attribute.Label+".")
			break
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &PasswordPolicyError{Problems: problems}
}

func isEntirelyNumeric(password string) bool {
	if password == "" {
		return false
	}
	for _, char := range password {
		if !unicode.IsDigit(char) {
			return false
		}
	}
	return true
}

// isTooSimilar compares case-insensitively and, for email addresses, only the
// local part.
func isTooSimilar(password string, attribute string) bool {
	value := strings.ToLower(strings.TrimSpace(attribute))
	if at := strings.Index(value, "@"); at >= 0 {
		value = value[:at]
	}
	candidate := strings.ToLower(password)
	if len(value) < 3 || len(candidate) < 3 {
		return false
	}
	return strings.Contains(candidate, value) || strings.Contains(value, candidate)
}

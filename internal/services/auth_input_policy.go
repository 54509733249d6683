package services

import (
	"net/mail"
	"strings"
)

// NormalizeEmail trims the address and lowercases its domain. The local part
// keeps its case, so two addresses differing only there stay distinct.
func NormalizeEmail(raw string) string {
	email := strings.TrimSpace(raw)
	if email == "" {
		return ""
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// NormalizeCredentialsInput prepares login input. Passwords are not trimmed.
func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeEmail(emailRaw)
	if email == "" || passwordRaw == "" {
		return "", "", ErrInvalidCredentials
	}
	return email, passwordRaw, nil
}

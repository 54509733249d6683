package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordStrength_RejectsWeakPasswords(t *testing.T) {
	testCases := []struct {
		password string
		problem  string
	}{
		{password: "Short1", problem: "too short"},
		{password: "4815162342", problem: "entirely numeric"},
		{password: "Password123", problem: "too common"},
		{password: "Password", problem: "too common"},
	}

	for _, testCase := range testCases {
		err := ValidatePasswordStrength(testCase.password)
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword for %q, got %v", testCase.password, err)
		}
		if !strings.Contains(err.Error(), testCase.problem) {
			t.Fatalf("expected %q in error for %q, got %q", testCase.problem, testCase.password, err.Error())
		}
	}
}

func TestValidatePasswordStrength_RejectsPasswordsResemblingAccount(t *testing.T) {
	err := ValidatePasswordStrength("melodyfan2024", UserAttribute{Label: "email address", Value: "MelodyFan@example.com"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if !strings.Contains(err.Error(), "too similar to the email address") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	err = ValidatePasswordStrength("groovy-tunes-77", UserAttribute{Label: "username", Value: "Groovy"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for username match, got %v", err)
	}
}

func TestValidatePasswordStrength_AcceptsStrongPassword(t *testing.T) {
	err := ValidatePasswordStrength(
		"violet-harbor-92",
		UserAttribute{Label: "email address", Value: "listener@example.com"},
		UserAttribute{Label: "username", Value: "listener"},
	)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidatePasswordStrength_IgnoresShortAttributes(t *testing.T) {
	if err := ValidatePasswordStrength("violet-harbor-92", UserAttribute{Label: "username", Value: "vi"}); err != nil {
		t.Fatalf("expected short attribute to be ignored, got %v", err)
	}
}

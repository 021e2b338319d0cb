package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenService_IssueVerify(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != "user-1" {
		t.Errorf("Verify() = %q, want %q", got, "user-1")
	}
}

func TestTokenService_Rejects(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", time.Hour)
	svc.now = func() time.Time { return issued }

	valid, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other := NewTokenService("other-secret", time.Hour)
	other.now = svc.now
	foreign, err := other.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  "user-1",
		"iss": tokenIssuer,
		"exp": issued.Add(time.Hour).Unix(),
	})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		at      time.Time
		message string
	}{
		{name: "expired", token: valid, at: issued.Add(2 * time.Hour), message: "Token has expired"},
		{name: "wrong key", token: foreign, at: issued, message: "Token is invalid"},
		{name: "alg none", token: none, at: issued, message: "Token is invalid"},
		{name: "garbage", token: "not-a-jwt", at: issued, message: "Token is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewTokenService("secret", time.Hour)
			verifier.now = func() time.Time { return tt.at }

			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
			}
			var appErr *Error
			if !errors.As(err, &appErr) || appErr.Message != tt.message {
				t.Errorf("Verify() message = %v, want %q", err, tt.message)
			}
		})
	}
}

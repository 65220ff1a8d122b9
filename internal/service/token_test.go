package service

import (
	"errors"
	"testing"
	"time"

	"github.com/userdesk/backend/internal/config"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: "1h"})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService(config.AuthConfig{TokenTTL: "1h"}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
	if _, err := NewTokenService(config.AuthConfig{JWTSecret: "x", TokenTTL: "soon"}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured for bad TTL, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("johnsilva")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	subject, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "johnsilva" {
		t.Fatalf("expected subject johnsilva, got %q", subject)
	}
}

func TestTokenExpiryWindow(t *testing.T) {
	svc := newTestTokenService(t)

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue("johnsilva")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// accepted anywhere inside [T, T+1h)
	for _, offset := range []time.Duration{0, time.Minute, time.Hour - time.Second} {
		svc.now = func() time.Time { return issued.Add(offset) }
		if _, err := svc.Verify(token); err != nil {
			t.Fatalf("expected token valid at T+%s, got %v", offset, err)
		}
	}

	// rejected at and after T+1h
	for _, offset := range []time.Duration{time.Hour, 2 * time.Hour} {
		svc.now = func() time.Time { return issued.Add(offset) }
		if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired at T+%s, got %v", offset, err)
		}
	}
}

func TestTokenWrongKeyRejected(t *testing.T) {
	svc := newTestTokenService(t)
	other, err := NewTokenService(config.AuthConfig{JWTSecret: "other-secret", TokenTTL: "1h"})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := other.Issue("johnsilva")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestTokenMalformedRejected(t *testing.T) {
	svc := newTestTokenService(t)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

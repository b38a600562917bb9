package service

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSigningKey = "test-signing-key"

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService(testSigningKey, time.Hour)

	token, err := svc.IssueToken("alice")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	user, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if user != "alice" {
		t.Fatalf("expected alice, got %q", user)
	}
}

func TestTokenService_IssueToken_EmptyUsername(t *testing.T) {
	svc := NewTokenService(testSigningKey, time.Hour)
	if _, err := svc.IssueToken(""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestTokenService_ParseToken_Malformed(t *testing.T) {
	svc := NewTokenService(testSigningKey, time.Hour)
	if _, err := svc.ParseToken("not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestTokenService_ParseToken_InvalidSignature(t *testing.T) {
	other := NewTokenService("different-key", time.Hour)
	badToken, err := other.IssueToken("alice")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	svc := NewTokenService(testSigningKey, time.Hour)
	if _, err := svc.ParseToken(badToken); err == nil {
		t.Fatalf("expected signature verification error")
	}
}

func TestTokenService_ParseToken_Expired(t *testing.T) {
	svc := NewTokenService(testSigningKey, time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.IssueToken("alice")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ParseToken(expired); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestTokenService_ParseToken_MissingSubject(t *testing.T) {
	svc := NewTokenService(testSigningKey, time.Hour)
	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	tokenStr, err := tk.SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	if _, err := svc.ParseToken(tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_ParseToken_UnexpectedAlg(t *testing.T) {
	svc := NewTokenService(testSigningKey, time.Hour)
	now := time.Now()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	tokenStr, err := tk.SignedString(privateKey)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseToken(tokenStr); err == nil {
		t.Fatalf("expected error due to unexpected signing method")
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	if svc := NewTokenService(testSigningKey, 0); svc.ttl != defaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", svc.ttl, defaultTokenTTL)
	}
}

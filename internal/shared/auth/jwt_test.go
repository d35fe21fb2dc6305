package auth

import (
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "asha", "patient")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	p, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.UserID != "user-1" || p.Username != "asha" || p.Role != "patient" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	if _, err := GenerateToken("", "asha", "patient"); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken("user-1", "asha", "patient")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three segments, got %d", len(parts))
	}
	forged := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := ValidateToken(forged); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}

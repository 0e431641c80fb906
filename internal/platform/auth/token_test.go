package auth

import (
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	token, err := issuer.Issue("user-1", []string{"admin"}, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %q", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "admin" {
		t.Errorf("unexpected roles: %v", claims.Roles)
	}
}

func TestParse_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", -time.Minute)
	token, _ := issuer.Issue("user-1", []string{"admin"}, "")
	if _, err := issuer.Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	other := NewTokenIssuer([]byte("ffffffffffffffffffffffffffffffff"), "medrec", time.Hour)
	token, _ := other.Issue("user-1", []string{"admin"}, "")
	if _, err := issuer.Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	other := NewTokenIssuer(testSecret, "someone-else", time.Hour)
	token, _ := other.Issue("user-1", []string{"admin"}, "")
	if _, err := issuer.Parse(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	if _, err := issuer.Parse("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestIssue_CarriesPatientUID(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, "medrec", time.Hour)
	token, _ := issuer.Issue("patient-portal", []string{"user"}, "PAT-001")
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.PatientUID != "PAT-001" {
		t.Errorf("expected PAT-001, got %q", claims.PatientUID)
	}
}

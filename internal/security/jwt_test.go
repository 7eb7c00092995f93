package security_test

import (
	"testing"
	"time"

	"github.com/WalesndWebs/project-prodigyloan/internal/security"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := security.MakeAccess("s3cret", "u1", "u@example.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	c, err := security.ParseAccess("s3cret", tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UID != "u1" || c.Email != "u@example.com" || c.Subject != "u1" {
		t.Fatalf("claims mismatch: %#v", c)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := security.MakeAccess("s3cret", "u1", "u@example.com", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseAccess("other", tok); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := security.MakeAccess("s3cret", "u1", "u@example.com", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := security.ParseAccess("s3cret", tok); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

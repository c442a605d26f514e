package service

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("s3cret", time.Hour)
	tok, err := ti.Generate("ops")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sub, err := ti.Parse(tok)
	if err != nil || sub != "ops" {
		t.Fatalf("Parse = %q, %v", sub, err)
	}
}

func TestTokenRejects(t *testing.T) {
	ti := NewTokenIssuer("s3cret", time.Hour)
	tok, _ := ti.Generate("ops")

	other := NewTokenIssuer("different", time.Hour)
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("expected signature error")
	}

	expired := NewTokenIssuer("s3cret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.Parse(tok); err == nil {
		t.Fatal("expected expiry error")
	}

	if _, err := NewTokenIssuer("", 0).Generate("x"); err == nil {
		t.Fatal("expected error without secret")
	}
}

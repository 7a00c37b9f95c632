package auth

import (
	"testing"
	"time"
)

func TestStoreIssueAndGet(t *testing.T) {
	store := NewStore(time.Hour)

	session := store.Issue("user-1")
	if session.Token == "" {
		t.Fatalf("expected a token")
	}

	got, ok := store.Get(session.Token)
	if !ok {
		t.Fatalf("expected session to be live")
	}
	if got.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", got.UserID)
	}

	second := store.Issue("user-1")
	if second.Token == session.Token {
		t.Fatalf("expected distinct tokens per session")
	}
}

func TestStoreUnknownToken(t *testing.T) {
	store := NewStore(time.Hour)

	if _, ok := store.Get("no-such-token"); ok {
		t.Fatalf("expected unknown token to miss")
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(-time.Minute)

	session := store.Issue("user-1")
	if _, ok := store.Get(session.Token); ok {
		t.Fatalf("expected expired session to miss")
	}
}

func TestStoreRevoke(t *testing.T) {
	store := NewStore(time.Hour)

	session := store.Issue("user-1")
	store.Revoke(session.Token)
	if _, ok := store.Get(session.Token); ok {
		t.Fatalf("expected revoked session to miss")
	}
}

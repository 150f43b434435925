package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.Issue(42, true)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	userID, isAdmin, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 || !isAdmin {
		t.Errorf("claims = (%d, %v), want (42, true)", userID, isAdmin)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(1, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := NewManager("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	m := &Manager{secret: []byte("secret"), ttl: -time.Minute}

	token, err := m.Issue(1, false)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	m := NewManager("secret", time.Hour)
	if _, _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "supersecret" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "supersecret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

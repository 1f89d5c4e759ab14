package crypto

import (
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestSealOpenRoundTrip(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected configured service")
	}

	plain, sealed, err := svc.Seal("123-45-6789")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if plain != nil {
		t.Fatalf("expected plaintext column to be cleared, got %v", plain)
	}
	if len(sealed) == 0 || strings.Contains(string(sealed), "123-45-6789") {
		t.Fatal("expected opaque ciphertext")
	}
	if got := svc.Open(sealed, nil); got != "123-45-6789" {
		t.Fatalf("unexpected open result %q", got)
	}
}

func TestOpenFallsBackToPlaintext(t *testing.T) {
	svc, err := New(testKey)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	legacy := "AB123"
	if got := svc.Open(nil, &legacy); got != legacy {
		t.Fatalf("expected legacy plaintext, got %q", got)
	}
	if got := svc.Open([]byte("garbage-bytes-that-are-long-enough"), &legacy); got != legacy {
		t.Fatalf("expected fallback on bad ciphertext, got %q", got)
	}
}

func TestPassthroughWithoutKey(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	plain, sealed, err := svc.Seal("P-998")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if plain != "P-998" || sealed != nil {
		t.Fatalf("expected plaintext passthrough, got %v %v", plain, sealed)
	}
	value := "P-998"
	if got := svc.Open(nil, &value); got != value {
		t.Fatalf("unexpected open result %q", got)
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("short"); err != ErrKeyLength {
		t.Fatalf("expected ErrKeyLength, got %v", err)
	}
}

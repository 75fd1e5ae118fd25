package crypto

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	svc, err := New("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if !svc.Configured() {
		t.Fatal("expected service to be configured")
	}

	plain := []byte("readiness report contents")
	encrypted, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(encrypted, plain) {
		t.Fatal("ciphertext should differ from plaintext")
	}

	decrypted, err := svc.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plain) {
		t.Fatalf("round trip mismatch: %q", decrypted)
	}
}

func TestEncryptStringRoundTrip(t *testing.T) {
	svc, err := New("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	secret := "JBSWY3DPEHPK3PXP"
	encrypted, err := svc.EncryptString(secret)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if string(encrypted) == secret {
		t.Fatal("ciphertext should differ from plaintext")
	}

	decrypted, err := svc.DecryptString(encrypted)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decrypted != secret {
		t.Fatalf("round trip mismatch: %q", decrypted)
	}

	empty, err := svc.EncryptString("")
	if err != nil {
		t.Fatalf("encrypt empty: %v", err)
	}
	if empty != nil {
		t.Fatalf("empty string should encrypt to nil, got %v", empty)
	}
}

func TestUnconfiguredServicePassesThrough(t *testing.T) {
	svc, err := New("")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if svc.Configured() {
		t.Fatal("empty key should leave the service unconfigured")
	}

	plain := []byte("data")
	out, err := svc.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if !bytes.Equal(out, plain) {
		t.Fatal("unconfigured encrypt should pass data through")
	}
}

func TestNewRejectsShortKey(t *testing.T) {
	if _, err := New("too-short"); err == nil {
		t.Fatal("expected an error for a short key")
	}
}

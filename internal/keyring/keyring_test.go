package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://streaker@localhost:5432/cleanstreak?sslmode=disable"

	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetEmptyRejected(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
	if err := SetSigningSecret(""); err == nil {
		t.Error("SetSigningSecret(\"\") should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := GetSigningSecret(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSigningSecret() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://streaker@localhost/cleanstreak"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestSecretsAreSeparateEntries(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://a@localhost/x"); err != nil {
		t.Fatal(err)
	}
	if err := SetSigningSecret("s3cret"); err != nil {
		t.Fatal(err)
	}

	secret, err := GetSigningSecret()
	if err != nil || secret != "s3cret" {
		t.Errorf("GetSigningSecret() = %q, %v", secret, err)
	}
	connStr, err := GetConnectionString()
	if err != nil || connStr != "postgres://a@localhost/x" {
		t.Errorf("GetConnectionString() = %q, %v", connStr, err)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should report available")
	}
}

package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetAPIKey(t *testing.T) {
	gokeyring.MockInit()
	v := New()

	if err := v.SetAPIKey("sk-or-test"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}

	got, err := v.GetAPIKey()
	if err != nil {
		t.Fatalf("GetAPIKey() failed: %v", err)
	}
	if got != "sk-or-test" {
		t.Errorf("GetAPIKey() = %q, want %q", got, "sk-or-test")
	}
}

func TestSetAPIKeyEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := New().SetAPIKey(""); err == nil {
		t.Error("SetAPIKey(\"\") should return an error")
	}
}

func TestGetAPIKeyNotFound(t *testing.T) {
	gokeyring.MockInit()
	v := New()
	_ = v.DeleteAPIKey()

	if _, err := v.GetAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAPIKey() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteAPIKey(t *testing.T) {
	gokeyring.MockInit()
	v := New()

	if err := v.SetAPIKey("sk-or-test"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}
	if err := v.DeleteAPIKey(); err != nil {
		t.Fatalf("DeleteAPIKey() failed: %v", err)
	}
	if err := v.DeleteAPIKey(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteAPIKey() error = %v, want %v", err, ErrNotFound)
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	v := New()

	if v.IsAvailable() {
		t.Error("IsAvailable() = true, want false")
	}
	if _, err := v.GetAPIKey(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetAPIKey() error = %v, want %v", err, ErrKeyringUnavailable)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !New().IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}

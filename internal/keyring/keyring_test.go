package keyring

import (
	"errors"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	want := "postgres://streak@localhost:5432/streaklit?sslmode=disable"
	if err := SetConnectionString(want); err != nil {
		t.Fatalf("SetConnectionString() error = %v", err)
	}
	got, err := ConnectionString()
	if err != nil {
		t.Fatalf("ConnectionString() error = %v", err)
	}
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := SetConnectionString("  "); err == nil {
		t.Error("expected error for blank connection string")
	}
}

func TestNotFound(t *testing.T) {
	gokeyring.MockInit()

	if _, err := ConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("ConnectionString() error = %v, want ErrNotFound", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("host=localhost dbname=streaklit"); err != nil {
		t.Fatal(err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() error = %v", err)
	}
	if _, err := ConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete error = %v, want ErrNotFound", err)
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	defer gokeyring.MockInit()

	if Available() {
		t.Error("Available() = true with a failing keyring")
	}
	if _, err := ConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("ConnectionString() error = %v, want ErrKeyringUnavailable", err)
	}
}

func TestAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !Available() {
		t.Error("Available() = false in mock mode")
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		noSecret string
	}{
		{"postgres://user:secret@db:5432/streaklit", "postgres://user:****@db:5432/streaklit", "secret"},
		{"postgres://user@db:5432/streaklit", "postgres://user@db:5432/streaklit", ""},
		{"host=db user=u password=secret dbname=s", "host=db user=u password=**** dbname=s", "secret"},
		{"host=db dbname=s", "host=db dbname=s", ""},
	}
	for _, tt := range tests {
		got := Mask(tt.in)
		if got != tt.want {
			t.Errorf("Mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if tt.noSecret != "" && strings.Contains(got, tt.noSecret) {
			t.Errorf("Mask(%q) leaked the password", tt.in)
		}
	}
}

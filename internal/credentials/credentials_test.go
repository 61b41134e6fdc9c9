package credentials

import (
	"errors"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) Store {
	t.Helper()
	t.Setenv(EnvVar, "")
	return Store{Path: filepath.Join(t.TempDir(), "gemini_api_key")}
}

func TestGet_NotConfigured(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveGetClear(t *testing.T) {
	s := testStore(t)

	if err := s.Save("  AIza-test-key \n"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	key, err := s.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if key != "AIza-test-key" {
		t.Errorf("key = %q", key)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := s.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after clear err = %v, want ErrNotFound", err)
	}
	// clearing again is a no-op
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestGet_EnvOverridesFile(t *testing.T) {
	s := testStore(t)
	if err := s.Save("file-key"); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvVar, "env-key")

	key, err := s.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if key != "env-key" {
		t.Errorf("key = %q, want env-key", key)
	}
}

func TestSave_EmptyKeyRejected(t *testing.T) {
	s := testStore(t)
	if err := s.Save("   "); err == nil {
		t.Fatal("expected error for empty key")
	}
}

package identity_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cadence/internal/identity"
)

func TestComposeIsDeterministic(t *testing.T) {
	when := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	a := identity.Compose("clip.mp4", when, 1024)
	b := identity.Compose("clip.mp4", when, 1024)
	if a != b {
		t.Fatalf("identities differ: %q vs %q", a, b)
	}
	if c := identity.Compose("clip.mp4", when, 1025); c == a {
		t.Fatal("size change should alter identity")
	}
	if c := identity.Compose("other.mp4", when, 1024); c == a {
		t.Fatal("name change should alter identity")
	}
	if c := identity.Compose("clip.mp4", when.Add(time.Second), 1024); c == a {
		t.Fatal("modtime change should alter identity")
	}
}

func TestFromFileUsesBaseName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.wav")
	if err := os.WriteFile(path, []byte("abcd"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	id, err := identity.FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat fixture: %v", err)
	}
	want := identity.Compose("track.wav", info.ModTime(), 4)
	if id != want {
		t.Fatalf("expected %q, got %q", want, id)
	}
}

func TestFromFileRejectsDirectory(t *testing.T) {
	if _, err := identity.FromFile(t.TempDir()); err == nil {
		t.Fatal("expected error for directory")
	}
}

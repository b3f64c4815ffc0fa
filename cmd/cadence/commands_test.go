package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadence/internal/store"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// init refuses to clobber
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init over existing file to fail")
	}
}

func TestConfigShowPrintsEffectiveValues(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "video_concurrency = 2")
	requireContains(t, out, env.cfg.Paths.StateDir)
}

func TestStatusEmptyStore(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No analysis records")
}

func TestStatusListsAndFiltersRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	seed := []*store.Record{
		{Identity: "song.wav|1|100", Path: "/media/song.wav", Kind: "audio", Status: store.StatusReady, ResultJSON: `{"kind":"audio"}`},
		{Identity: "clip.mp4|2|200", Path: "/media/clip.mp4", Kind: "video", Status: store.StatusError, ErrorMessage: "decode error"},
	}
	for _, rec := range seed {
		if err := env.store.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "song.wav")
	requireContains(t, out, "clip.mp4")

	out, _, err = runCLI(t, []string{"status", "--errors"}, env.configPath)
	if err != nil {
		t.Fatalf("status --errors: %v", err)
	}
	requireContains(t, out, "clip.mp4")
	if strings.Contains(out, "song.wav") {
		t.Fatalf("expected ready record to be filtered out:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"status", "clip.mp4|2|200"}, env.configPath)
	if err != nil {
		t.Fatalf("status by identity: %v", err)
	}
	requireContains(t, out, "decode error")
}

func TestClearErroredRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if err := env.store.Put(ctx, &store.Record{Identity: "ok|1|1", Path: "/ok.wav", Kind: "audio", Status: store.StatusReady}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := env.store.Put(ctx, &store.Record{Identity: "bad|1|1", Path: "/bad.wav", Kind: "audio", Status: store.StatusError}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, _, err := runCLI(t, []string{"clear"}, env.configPath)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	requireContains(t, out, "Cleared errored")

	records, err := env.store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Identity != "ok|1|1" {
		t.Fatalf("expected only ready record after clear, got %+v", records)
	}

	if _, _, err := runCLI(t, []string{"clear", "--all"}, env.configPath); err != nil {
		t.Fatalf("clear --all: %v", err)
	}
	records, err = env.store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty store, got %d records", len(records))
	}
}

func TestHealthSummarizesCounts(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	if err := env.store.Put(ctx, &store.Record{Identity: "a|1|1", Path: "/a.wav", Kind: "audio", Status: store.StatusReady}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	out, _, err := runCLI(t, []string{"health"}, env.configPath)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	requireContains(t, out, "Analysis records")
	requireContains(t, out, "Ready")
}

func TestRetryUnknownIdentityFails(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"retry", "missing|0|0"}, env.configPath)
	if err == nil {
		t.Fatal("expected retry of unknown identity to fail")
	}
}

func TestAnalyzeRejectsUnknownExtension(t *testing.T) {
	env := setupCLITestEnv(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	out, _, err := runCLI(t, []string{"analyze", path}, env.configPath)
	if err == nil {
		t.Fatal("expected analyze of unsupported file to fail")
	}
	requireContains(t, out, "unsupported media extension")
}

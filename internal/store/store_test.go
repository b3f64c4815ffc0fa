package store_test

import (
	"context"
	"testing"

	"cadence/internal/store"
	"cadence/internal/testsupport"
)

func TestPutAndGetRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec := &store.Record{
		Identity: "clip.wav|1700000000000|2048",
		Path:     "/media/clip.wav",
		Kind:     "audio",
		Status:   store.StatusPending,
	}
	if err := st.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be stamped on Put")
	}

	got, err := st.Get(ctx, rec.Identity)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if got.Path != rec.Path || got.Kind != "audio" || got.Status != store.StatusPending {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	got, err := st.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing identity, got %+v", got)
	}
}

func TestPutUpsertsSameIdentity(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec := &store.Record{Identity: "a|1|1", Path: "/a", Kind: "audio", Status: store.StatusPending}
	if err := st.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rec.Status = store.StatusReady
	rec.ResultJSON = `{"kind":"audio"}`
	if err := st.Put(ctx, rec); err != nil {
		t.Fatalf("Put update: %v", err)
	}

	got, err := st.Get(ctx, rec.Identity)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != store.StatusReady || got.ResultJSON == "" {
		t.Fatalf("expected upserted record, got %+v", got)
	}

	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected single record after upsert, got %d", len(records))
	}
}

func TestListFiltersByStatus(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seed := []*store.Record{
		{Identity: "a|1|1", Path: "/a", Kind: "audio", Status: store.StatusReady},
		{Identity: "b|1|1", Path: "/b", Kind: "video", Status: store.StatusError, ErrorMessage: "decode failed"},
		{Identity: "c|1|1", Path: "/c", Kind: "audio", Status: store.StatusAnalyzing},
	}
	for _, rec := range seed {
		if err := st.Put(ctx, rec); err != nil {
			t.Fatalf("Put %s: %v", rec.Identity, err)
		}
	}

	errored, err := st.List(ctx, store.StatusError)
	if err != nil {
		t.Fatalf("List errored: %v", err)
	}
	if len(errored) != 1 || errored[0].Identity != "b|1|1" {
		t.Fatalf("unexpected errored list: %+v", errored)
	}

	busy, err := st.List(ctx, store.StatusAnalyzing, store.StatusReady)
	if err != nil {
		t.Fatalf("List busy: %v", err)
	}
	if len(busy) != 2 {
		t.Fatalf("expected 2 records, got %d", len(busy))
	}
}

func TestClearErroredLeavesOthers(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := st.Put(ctx, &store.Record{Identity: "ok|1|1", Path: "/ok", Kind: "audio", Status: store.StatusReady}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Put(ctx, &store.Record{Identity: "bad|1|1", Path: "/bad", Kind: "audio", Status: store.StatusError}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := st.ClearErrored(ctx); err != nil {
		t.Fatalf("ClearErrored: %v", err)
	}

	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Identity != "ok|1|1" {
		t.Fatalf("expected only ready record to survive, got %+v", records)
	}
}

func TestHealthCounts(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seed := map[string]store.Status{
		"a|1|1": store.StatusPending,
		"b|1|1": store.StatusAnalyzing,
		"c|1|1": store.StatusReady,
		"d|1|1": store.StatusReady,
		"e|1|1": store.StatusError,
	}
	for identity, status := range seed {
		rec := &store.Record{Identity: identity, Path: "/" + identity, Kind: "audio", Status: status}
		if err := st.Put(ctx, rec); err != nil {
			t.Fatalf("Put %s: %v", identity, err)
		}
	}

	health, err := st.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Total != 5 || health.Pending != 1 || health.Analyzing != 1 || health.Ready != 2 || health.Errored != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestDeleteAndClear(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	for _, identity := range []string{"a|1|1", "b|1|1"} {
		if err := st.Put(ctx, &store.Record{Identity: identity, Path: "/x", Kind: "video", Status: store.StatusPending}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	if err := st.Delete(ctx, "a|1|1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, err := st.Get(ctx, "a|1|1"); err != nil || got != nil {
		t.Fatalf("expected deleted record gone, got %+v err %v", got, err)
	}

	if err := st.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty store, got %d records", len(records))
	}
}

package journal

import (
	"context"
	"testing"
)

func TestRecordAndRecent(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	j := New(db)
	ctx := context.Background()

	if err := j.Record(ctx, "SERIAL1", EventAttached, ""); err != nil {
		t.Fatalf("Record attached: %v", err)
	}
	if err := j.Record(ctx, "SERIAL1", EventErrored, "transport: pipe"); err != nil {
		t.Fatalf("Record errored: %v", err)
	}
	if err := j.Record(ctx, "SERIAL2", EventAttached, ""); err != nil {
		t.Fatalf("Record other serial: %v", err)
	}

	events, err := j.Recent(ctx, "SERIAL1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for SERIAL1, got %d", len(events))
	}
	if events[0].Type != EventErrored {
		t.Fatalf("expected newest-first ordering, got %v first", events[0].Type)
	}
	if events[1].Detail != "" {
		t.Fatalf("expected empty detail on attach event, got %q", events[1].Detail)
	}
}

func TestRecentLimitsResults(t *testing.T) {
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	j := New(db)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := j.Record(ctx, "SERIAL", EventCommand, "tick"); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	events, err := j.Recent(ctx, "SERIAL", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(events))
	}
}

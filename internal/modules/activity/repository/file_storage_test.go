package repository

import (
	"fmt"
	"testing"
	"time"

	"telewatch/internal/modules/activity/domain"
)

func TestFileStorage_AppendAndRecent(t *testing.T) {
	store, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		rec := &domain.Record{
			ChannelID:    int64(i),
			ChannelTitle: "News",
			Body:         fmt.Sprintf("msg-%d", i),
			Timestamp:    ts,
			ReceivedAt:   ts,
		}
		if err := store.Append(rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Body != "msg-3" || records[1].Body != "msg-2" {
		t.Fatalf("expected newest first, got %q, %q", records[0].Body, records[1].Body)
	}
	if !records[0].Timestamp.Equal(ts) {
		t.Fatalf("timestamp mismatch: %v", records[0].Timestamp)
	}
}

func TestFileStorage_RecentOnMissingFile(t *testing.T) {
	store, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent on missing log: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty result, got %d records", len(records))
	}
}

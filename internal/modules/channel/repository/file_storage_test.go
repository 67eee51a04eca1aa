package repository

import (
	"testing"
	"time"

	"telewatch/internal/modules/channel/domain"
)

func TestFileStorage_EmptyStoreLoadsEmpty(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	channels, err := repo.LoadChannels()
	if err != nil {
		t.Fatalf("LoadChannels on empty store: %v", err)
	}
	if len(channels) != 0 {
		t.Fatalf("expected empty cache, got %d channels", len(channels))
	}

	ids, err := repo.LoadSelection()
	if err != nil {
		t.Fatalf("LoadSelection on empty store: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty selection, got %v", ids)
	}
}

func TestFileStorage_ChannelsRoundTrip(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	cachedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in := []*domain.Channel{
		{ID: 100, Title: "News", Username: "news", CachedAt: cachedAt},
		{ID: 200, Title: "Tech", CachedAt: cachedAt},
	}
	if err := repo.SaveChannels(in); err != nil {
		t.Fatalf("SaveChannels: %v", err)
	}

	out, err := repo.LoadChannels()
	if err != nil {
		t.Fatalf("LoadChannels: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(out))
	}
	if out[0].ID != 100 || out[0].Title != "News" || !out[0].CachedAt.Equal(cachedAt) {
		t.Fatalf("first channel mismatch: %+v", out[0])
	}
}

func TestFileStorage_SelectionRoundTrip(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	if err := repo.SaveSelection([]int64{1, 2, 3}); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	ids, err := repo.LoadSelection()
	if err != nil {
		t.Fatalf("LoadSelection: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("selection mismatch: %v", ids)
	}
}

func TestFileStorage_SaveReplacesWholesale(t *testing.T) {
	repo, err := NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}

	if err := repo.SaveSelection([]int64{1, 2, 3}); err != nil {
		t.Fatalf("SaveSelection: %v", err)
	}
	if err := repo.SaveSelection([]int64{9}); err != nil {
		t.Fatalf("SaveSelection replace: %v", err)
	}

	ids, err := repo.LoadSelection()
	if err != nil {
		t.Fatalf("LoadSelection: %v", err)
	}
	if len(ids) != 1 || ids[0] != 9 {
		t.Fatalf("expected replacement selection [9], got %v", ids)
	}
}

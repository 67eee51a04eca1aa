package service

import (
	"context"
	goerrors "errors"
	"sync"
	"testing"

	"telewatch/internal/modules/channel/domain"
	"telewatch/internal/shared/errors"
)

type memoryRepo struct {
	mu            sync.Mutex
	channels      []*domain.Channel
	selection     []int64
	failSelection bool
	saveChannels  int
	saveSelection int
}

func (r *memoryRepo) SaveChannels(channels []*domain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = channels
	r.saveChannels++
	return nil
}

func (r *memoryRepo) LoadChannels() ([]*domain.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels, nil
}

func (r *memoryRepo) SaveSelection(ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSelection {
		return errors.ErrPersistence
	}
	r.selection = ids
	r.saveSelection++
	return nil
}

func (r *memoryRepo) LoadSelection() ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selection, nil
}

type fakeLister struct {
	channels []*domain.Channel
	err      error
}

func (l *fakeLister) ListChannels(ctx context.Context) ([]*domain.Channel, error) {
	return l.channels, l.err
}

func TestSetSelection_RoundTrip(t *testing.T) {
	svc := New(&memoryRepo{})

	if err := svc.SetSelection([]int64{2, 1, 2}); err != nil {
		t.Fatalf("SetSelection: %v", err)
	}

	ids := svc.Selection().IDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("expected [1 2], got %v", ids)
	}
}

func TestSetSelection_PersistFailureLeavesSelection(t *testing.T) {
	repo := &memoryRepo{failSelection: true}
	svc := New(repo)

	if err := svc.SetSelection([]int64{1}); err == nil {
		t.Fatalf("expected persistence error")
	}
	if svc.Selection().Len() != 0 {
		t.Fatalf("failed persist must not install a new selection")
	}
}

func TestRefresh_FailureLeavesCacheIntact(t *testing.T) {
	repo := &memoryRepo{}
	svc := New(repo)
	svc.SetLister(&fakeLister{channels: []*domain.Channel{{ID: 1, Title: "A"}}})

	if err := svc.RefreshFromPlatform(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if len(svc.List()) != 1 {
		t.Fatalf("expected 1 cached channel")
	}

	svc.SetLister(&fakeLister{err: goerrors.New("network down")})
	err := svc.RefreshFromPlatform(context.Background())
	if err == nil {
		t.Fatalf("expected refresh error")
	}
	if !goerrors.Is(err, errors.ErrRefresh) {
		t.Fatalf("expected ErrRefresh, got %v", err)
	}
	if len(svc.List()) != 1 {
		t.Fatalf("failed refresh must leave the prior cache intact")
	}
}

func TestRefresh_UnknownSelectedIDsSurvive(t *testing.T) {
	svc := New(&memoryRepo{})
	svc.SetLister(&fakeLister{channels: []*domain.Channel{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B"},
	}})

	if err := svc.RefreshFromPlatform(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := svc.SetSelection([]int64{1, 2}); err != nil {
		t.Fatalf("SetSelection: %v", err)
	}

	// Channel 2 disappears from the platform list.
	svc.SetLister(&fakeLister{channels: []*domain.Channel{{ID: 1, Title: "A"}}})
	if err := svc.RefreshFromPlatform(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	if !svc.Selection().Contains(2) {
		t.Fatalf("selected id must survive refresh even when unknown to the cache")
	}
}

func TestList_StableTitleOrder(t *testing.T) {
	svc := New(&memoryRepo{})
	svc.SetLister(&fakeLister{channels: []*domain.Channel{
		{ID: 3, Title: "Zeta"},
		{ID: 1, Title: "Alpha"},
		{ID: 2, Title: "Alpha"},
	}})
	if err := svc.RefreshFromPlatform(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	list := svc.List()
	if list[0].ID != 1 || list[1].ID != 2 || list[2].ID != 3 {
		t.Fatalf("expected title order with id tiebreak, got %v %v %v", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestLoad_EmptyRepoIsNotAnError(t *testing.T) {
	svc := New(&memoryRepo{})
	if err := svc.Load(); err != nil {
		t.Fatalf("Load on empty repo: %v", err)
	}
	info := svc.Info()
	if info.Channels != 0 || info.Selected != 0 {
		t.Fatalf("expected empty state, got %+v", info)
	}
}

func TestTitle_KnownAndUnknown(t *testing.T) {
	svc := New(&memoryRepo{})
	svc.SetLister(&fakeLister{channels: []*domain.Channel{{ID: 7, Title: "Weather"}}})
	if err := svc.RefreshFromPlatform(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if title, ok := svc.Title(7); !ok || title != "Weather" {
		t.Fatalf("expected cached title, got %q ok=%v", title, ok)
	}
	if _, ok := svc.Title(404); ok {
		t.Fatalf("unknown id must report not found")
	}
}

func TestRefresh_WithoutListerReportsRefreshError(t *testing.T) {
	svc := New(&memoryRepo{})
	err := svc.RefreshFromPlatform(context.Background())
	if !goerrors.Is(err, errors.ErrRefresh) {
		t.Fatalf("expected ErrRefresh, got %v", err)
	}
}

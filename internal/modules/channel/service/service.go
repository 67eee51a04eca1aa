package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"telewatch/internal/modules/channel/domain"
	"telewatch/internal/modules/channel/repository"
	"telewatch/internal/shared/errors"
)

// Lister fetches the full channel list from the platform. The session
// manager provides this capability once authenticated.
type Lister interface {
	ListChannels(ctx context.Context) ([]*domain.Channel, error)
}

// CacheInfo describes the current cache for status output.
type CacheInfo struct {
	Channels    int
	Selected    int
	RefreshedAt time.Time
}

// Service is the channel store: the local cache of channel metadata plus the
// monitoring selection. It is the only component touching durable state.
//
// The selection is held behind an atomic pointer so the monitoring loop can
// take a consistent snapshot per filtering decision without contending with
// the command loop.
type Service struct {
	repo      repository.Repository
	lister    Lister
	mu        sync.RWMutex
	cache     []*domain.Channel
	refreshed time.Time
	selection atomic.Pointer[domain.Selection]
}

// New creates a new channel store backed by the given repository.
func New(repo repository.Repository) *Service {
	s := &Service{repo: repo}
	s.selection.Store(domain.EmptySelection())
	return s
}

// SetLister sets the platform capability used by RefreshFromPlatform.
func (s *Service) SetLister(l Lister) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lister = l
}

// Load reads the cache and the selection from durable storage. A missing or
// empty store loads as empty state, not an error. In-memory-only state is
// discarded, which is what the reload command relies on.
func (s *Service) Load() error {
	channels, err := s.repo.LoadChannels()
	if err != nil {
		return oops.With("context", "failed to load channel cache").Wrap(err)
	}
	ids, err := s.repo.LoadSelection()
	if err != nil {
		return oops.With("context", "failed to load selection").Wrap(err)
	}

	s.mu.Lock()
	s.cache = channels
	s.refreshed = lastCachedAt(channels)
	s.mu.Unlock()
	s.selection.Store(domain.NewSelection(ids))

	slog.Info("Channel store loaded", "channels", len(channels), "selected", len(ids))
	return nil
}

// Save flushes both records to durable storage.
func (s *Service) Save() error {
	s.mu.RLock()
	channels := make([]*domain.Channel, len(s.cache))
	copy(channels, s.cache)
	s.mu.RUnlock()

	if err := s.repo.SaveChannels(channels); err != nil {
		return oops.With("context", "failed to save channel cache").Wrap(err)
	}
	if err := s.repo.SaveSelection(s.Selection().IDs()); err != nil {
		return oops.With("context", "failed to save selection").Wrap(err)
	}
	return nil
}

// RefreshFromPlatform replaces the cache wholesale with the platform's
// current channel list. On failure the prior cache stays intact and the
// error is reported as ErrRefresh. Selected IDs that disappear from the
// platform list remain selected until explicitly removed.
func (s *Service) RefreshFromPlatform(ctx context.Context) error {
	s.mu.RLock()
	lister := s.lister
	s.mu.RUnlock()

	if lister == nil {
		return oops.Wrapf(errors.ErrRefresh, "platform lister not configured")
	}

	channels, err := lister.ListChannels(ctx)
	if err != nil {
		return oops.With("context", "platform list fetch failed").Wrapf(errors.ErrRefresh, "%v", err)
	}

	now := time.Now()
	for _, ch := range channels {
		ch.CachedAt = now
	}

	if err := s.repo.SaveChannels(channels); err != nil {
		return oops.With("context", "failed to persist refreshed cache").Wrapf(errors.ErrRefresh, "%v", err)
	}

	s.mu.Lock()
	s.cache = channels
	s.refreshed = now
	s.mu.Unlock()

	slog.Info("Channel cache refreshed", "channels", len(channels))
	return nil
}

// List returns a stable snapshot of the cache ordered by title, ID as
// tiebreak.
func (s *Service) List() []*domain.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Channel, len(s.cache))
	copy(out, s.cache)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Title returns the cached title for a channel ID, or false when the ID is
// unknown to the cache.
func (s *Service) Title(id int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := lo.Find(s.cache, func(c *domain.Channel) bool { return c.ID == id })
	if !ok {
		return "", false
	}
	return ch.Title, true
}

// Selection returns the current selection snapshot.
func (s *Service) Selection() *domain.Selection {
	return s.selection.Load()
}

// SetSelection durably replaces the selection. The write is persisted before
// the new snapshot is installed, so success means a crash cannot lose the
// update, and every event filtered after return observes the new set.
// Unknown IDs are allowed.
func (s *Service) SetSelection(ids []int64) error {
	next := domain.NewSelection(ids)
	if err := s.repo.SaveSelection(next.IDs()); err != nil {
		return oops.With("context", "failed to persist selection").Wrap(err)
	}
	s.selection.Store(next)

	slog.Info("Selection updated", "selected", next.Len())
	return nil
}

// Info reports cache and selection counts for the status command.
func (s *Service) Info() CacheInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return CacheInfo{
		Channels:    len(s.cache),
		Selected:    s.selection.Load().Len(),
		RefreshedAt: s.refreshed,
	}
}

func lastCachedAt(channels []*domain.Channel) time.Time {
	var last time.Time
	for _, ch := range channels {
		if ch.CachedAt.After(last) {
			last = ch.CachedAt
		}
	}
	return last
}

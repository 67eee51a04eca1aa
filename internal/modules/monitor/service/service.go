package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	activitydomain "telewatch/internal/modules/activity/domain"
	channeldomain "telewatch/internal/modules/channel/domain"
	"telewatch/internal/modules/monitor/domain"
	sessiondomain "telewatch/internal/modules/session/domain"
)

// Store is the slice of the channel store the monitoring loop reads: the
// current selection snapshot and cached titles.
type Store interface {
	Selection() *channeldomain.Selection
	Title(id int64) (string, bool)
}

// Session is the slice of the session manager the loop consumes.
type Session interface {
	Events() <-chan sessiondomain.Event
	StateChanges() <-chan sessiondomain.State
}

// Service is the monitoring task: it consumes the session's event stream,
// filters each event against the store's current selection and forwards
// matches to the sink. It never terminates the process itself.
type Service struct {
	session Session
	store   Store
	sink    domain.Sink

	mu    sync.RWMutex
	state domain.State

	done chan struct{}
}

// New creates the monitoring task.
func New(session Session, store Store, sink domain.Sink) *Service {
	return &Service{
		session: session,
		store:   store,
		sink:    sink,
		state:   domain.StateStarting,
		done:    make(chan struct{}),
	}
}

// State returns the task's current lifecycle state.
func (s *Service) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Done is closed when the loop has fully stopped; the app controller
// bound-waits on it during shutdown.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Run blocks until the context is cancelled or the session stream ends.
// A session disconnect pauses the task; it resumes when the session reports
// authenticated again.
func (s *Service) Run(ctx context.Context) {
	defer close(s.done)
	defer s.setState(domain.StateStopped)

	s.setState(domain.StateRunning)
	slog.Info("Monitoring started")

	events := s.session.Events()
	states := s.session.StateChanges()

	for {
		select {
		case <-ctx.Done():
			return
		case state := <-states:
			s.onSessionState(state)
		case ev, ok := <-events:
			if !ok {
				slog.Info("Monitoring stream closed")
				return
			}
			s.handle(ev)
		}
	}
}

func (s *Service) onSessionState(state sessiondomain.State) {
	switch state {
	case sessiondomain.StateDisconnected:
		s.setState(domain.StatePaused)
		slog.Warn("Monitoring paused, waiting for reconnect")
	case sessiondomain.StateAuthenticated:
		if s.State() == domain.StatePaused {
			s.setState(domain.StateRunning)
			slog.Info("Monitoring resumed")
		}
	}
}

// handle filters one event against the selection read at decision time.
// Non-matching events are the normal high-frequency path and are dropped
// without logging. A sink failure is logged and the loop continues.
func (s *Service) handle(ev sessiondomain.Event) {
	if !s.store.Selection().Contains(ev.ChannelID) {
		return
	}

	title, _ := s.store.Title(ev.ChannelID)
	record := &activitydomain.Record{
		ChannelID:    ev.ChannelID,
		ChannelTitle: title,
		Sender:       ev.Sender,
		Body:         ev.Body,
		Edited:       ev.Edited,
		Timestamp:    ev.Timestamp,
		ReceivedAt:   time.Now(),
	}

	if err := s.sink.Deliver(record); err != nil {
		slog.Error("Failed to deliver record", "channel_id", ev.ChannelID, "error", err)
	}
}

func (s *Service) setState(state domain.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

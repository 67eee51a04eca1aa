package service

import (
	"context"
	goerrors "errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	channeldomain "telewatch/internal/modules/channel/domain"
	"telewatch/internal/modules/session/domain"
	"telewatch/internal/shared/errors"
)

// Client is the platform boundary: the underlying messaging client supplies
// transport, login steps, the live event stream and the channel list. Wire
// protocol detail stays behind this interface.
//
// Events() returns the stream for the current connection; the channel closes
// when the transport drops. After a successful reconnect the session obtains
// a fresh stream.
type Client interface {
	Connect(ctx context.Context) error
	SendCode(ctx context.Context, phone string) error
	SignIn(ctx context.Context, phone, code string) (domain.Identity, bool, error)
	SignInWithPassword(ctx context.Context, password string) (domain.Identity, error)
	Events() <-chan domain.Event
	ListChannels(ctx context.Context) ([]*channeldomain.Channel, error)
	Disconnect(ctx context.Context) error
}

// SecretSource supplies login secrets on demand. Any presentation layer can
// implement it: a line prompt, a form, a test fake.
type SecretSource interface {
	Secret(ctx context.Context, kind domain.SecretKind) (string, error)
}

// Options tunes the session manager.
type Options struct {
	Phone                string
	MaxReconnectAttempts int
	ReconnectBaseDelay   time.Duration
	ReconnectMaxDelay    time.Duration
}

// Service owns the single authenticated connection to the platform. It is
// mutated only here; the monitoring and control tasks read it through
// Status, Events and StateChanges.
type Service struct {
	client Client
	opts   Options

	mu          sync.RWMutex
	state       domain.State
	identity    domain.Identity
	connectedAt time.Time

	clientEvents <-chan domain.Event
	events       chan domain.Event
	stateCh      chan domain.State
	fatal        chan error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	disconnectOnce sync.Once
}

// New creates a session manager around the given platform client.
func New(client Client, opts Options) *Service {
	if opts.MaxReconnectAttempts <= 0 {
		opts.MaxReconnectAttempts = 8
	}
	if opts.ReconnectBaseDelay <= 0 {
		opts.ReconnectBaseDelay = time.Second
	}
	if opts.ReconnectMaxDelay <= 0 {
		opts.ReconnectMaxDelay = 60 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		client:  client,
		opts:    opts,
		state:   domain.StateUnauthenticated,
		events:  make(chan domain.Event, 64),
		stateCh: make(chan domain.State, 16),
		fatal:   make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Connect establishes the transport. Failures are transient connection
// errors; the caller may retry.
func (s *Service) Connect(ctx context.Context) error {
	if err := s.client.Connect(ctx); err != nil {
		return oops.With("context", "transport connect failed").Wrapf(errors.ErrConnection, "%v", err)
	}

	s.mu.Lock()
	s.connectedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Authenticate drives the login state machine. At awaiting_code and
// awaiting_password it suspends on the secret source, so any presentation
// can feed it. A wrong verification code returns to awaiting_code for
// exactly one retry; every other failure is fatal.
func (s *Service) Authenticate(ctx context.Context, secrets SecretSource) error {
	if s.Status().State == domain.StateAuthenticated {
		return nil
	}

	if err := s.client.SendCode(ctx, s.opts.Phone); err != nil {
		// Clients with token auth skip the code round-trip entirely by
		// reporting success from SignIn with an empty code.
		return oops.With("phone", s.opts.Phone).Wrapf(errors.ErrAuth, "sending verification code: %v", err)
	}

	var (
		identity     domain.Identity
		needPassword bool
	)
	for attempt := 0; ; attempt++ {
		s.setState(domain.StateAwaitingCode)

		code, err := secrets.Secret(ctx, domain.SecretKindCode)
		if err != nil {
			return oops.Wrapf(errors.ErrAuth, "obtaining verification code: %v", err)
		}

		identity, needPassword, err = s.client.SignIn(ctx, s.opts.Phone, code)
		if err == nil {
			break
		}
		if goerrors.Is(err, errors.ErrBadCode) && attempt == 0 {
			slog.Warn("Verification code rejected, one retry allowed")
			continue
		}
		return oops.With("attempt", attempt+1).Wrapf(errors.ErrAuth, "sign in failed: %v", err)
	}

	if needPassword {
		s.setState(domain.StateAwaitingPassword)

		password, err := secrets.Secret(ctx, domain.SecretKindPassword)
		if err != nil {
			return oops.Wrapf(errors.ErrAuth, "obtaining password: %v", err)
		}
		identity, err = s.client.SignInWithPassword(ctx, password)
		if err != nil {
			return oops.Wrapf(errors.ErrAuth, "second factor rejected: %v", err)
		}
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	s.setState(domain.StateAuthenticated)

	s.clientEvents = s.client.Events()
	s.wg.Add(1)
	go s.pump()

	slog.Info("Session authenticated", "user", identity.Name, "user_id", identity.UserID)
	return nil
}

// Status returns a non-blocking snapshot of the session.
func (s *Service) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Status{
		State:       s.state,
		Identity:    s.identity,
		ConnectedAt: s.connectedAt,
	}
}

// Events is the live stream consumed by the monitoring task. It stays open
// across reconnects and ends only on shutdown.
func (s *Service) Events() <-chan domain.Event {
	return s.events
}

// StateChanges notifies a single consumer (the monitoring task) of session
// state transitions.
func (s *Service) StateChanges() <-chan domain.State {
	return s.stateCh
}

// Fatal delivers the error that ends the process when recovery is
// exhausted. The app controller selects on it.
func (s *Service) Fatal() <-chan error {
	return s.fatal
}

// ListChannels exposes the platform channel list; the channel store uses the
// session as its Lister.
func (s *Service) ListChannels(ctx context.Context) ([]*channeldomain.Channel, error) {
	switch s.Status().State {
	case domain.StateAuthenticated:
		return s.client.ListChannels(ctx)
	case domain.StateTerminated:
		return nil, oops.Wrap(errors.ErrSessionClosed)
	default:
		return nil, oops.Wrapf(errors.ErrConnection, "session not authenticated")
	}
}

// Disconnect tears the session down. Idempotent: always safe to call more
// than once.
func (s *Service) Disconnect(ctx context.Context) error {
	var err error
	s.disconnectOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		err = s.client.Disconnect(ctx)
		s.setState(domain.StateTerminated)
		close(s.events)
	})
	return err
}

// pump forwards client events in order and supervises the transport: a
// closed client stream means the connection dropped, triggering the
// backoff reconnect loop.
func (s *Service) pump() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case ev, ok := <-s.clientEvents:
			if !ok {
				s.setState(domain.StateDisconnected)
				if err := s.reconnect(); err != nil {
					if s.ctx.Err() != nil {
						return
					}
					s.reportFatal(err)
					return
				}
				s.setState(domain.StateAuthenticated)
				continue
			}
			select {
			case s.events <- ev:
			case <-s.ctx.Done():
				return
			}
		}
	}
}

// reconnect retries the transport with exponential backoff, capped and
// bounded. Cancellable by shutdown.
func (s *Service) reconnect() error {
	delay := s.opts.ReconnectBaseDelay
	for attempt := 1; attempt <= s.opts.MaxReconnectAttempts; attempt++ {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case <-time.After(delay):
		}

		if err := s.client.Connect(s.ctx); err != nil {
			slog.Warn("Reconnect attempt failed",
				"attempt", attempt,
				"max_attempts", s.opts.MaxReconnectAttempts,
				"next_delay", delay,
				"error", err)
			delay *= 2
			if delay > s.opts.ReconnectMaxDelay {
				delay = s.opts.ReconnectMaxDelay
			}
			continue
		}

		s.clientEvents = s.client.Events()
		slog.Info("Session reconnected", "attempt", attempt)
		return nil
	}
	return oops.With("attempts", s.opts.MaxReconnectAttempts).
		Wrapf(errors.ErrConnection, "reconnect attempts exhausted")
}

func (s *Service) setState(state domain.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	select {
	case s.stateCh <- state:
	default:
		// Slow or absent consumer never blocks the session.
	}
	slog.Debug("Session state changed", "state", state)
}

func (s *Service) reportFatal(err error) {
	select {
	case s.fatal <- err:
	default:
	}
}

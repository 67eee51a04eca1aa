package errors

import "errors"

var (
	ErrMissingBotToken = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")

	// ErrConnection marks transient transport failures; the session manager
	// retries these with backoff.
	ErrConnection = errors.New("connection failed")

	// ErrAuth is fatal: bad credentials, exhausted attempts or a
	// platform-side rejection.
	ErrAuth = errors.New("authentication failed")

	// ErrBadCode is the one recoverable login failure: the verification
	// code was wrong and may be entered once more.
	ErrBadCode = errors.New("invalid verification code")

	// ErrRefresh means the channel list could not be fetched; the prior
	// cache stays intact.
	ErrRefresh = errors.New("channel list refresh failed")

	// ErrPersistence means a durable write failed; prior durable state is
	// unaffected.
	ErrPersistence = errors.New("persistence failed")

	// ErrDelivery means a sink rejected a record; monitoring continues.
	ErrDelivery = errors.New("delivery failed")

	ErrUnknownCommand = errors.New("unknown command")

	// ErrSessionClosed rejects operations after the session terminated.
	ErrSessionClosed = errors.New("session is closed")
)

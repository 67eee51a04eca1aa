package domain

import "time"

// Identity holds the basic user info of the authenticated session. Tokens
// and secrets stay inside the transport client and are never persisted.
type Identity struct {
	UserID   int64
	Name     string
	Username string
	Phone    string
}

// Status is a read-only snapshot of the session for the status command.
type Status struct {
	State       State
	Identity    Identity
	ConnectedAt time.Time
}

// Event is one message-like occurrence delivered by the platform. Events are
// transient: consumed once by the monitoring filter, never persisted as-is.
type Event struct {
	ChannelID int64
	Sender    string
	Timestamp time.Time
	Body      string
	Edited    bool
}

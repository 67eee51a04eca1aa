package app

import "sync"

// QuitSignal carries the operator's quit request from the control task to
// the app controller. Triggering it more than once is safe.
type QuitSignal struct {
	ch   chan struct{}
	once sync.Once
}

// NewQuitSignal creates an untriggered signal.
func NewQuitSignal() *QuitSignal {
	return &QuitSignal{ch: make(chan struct{})}
}

// Trigger requests shutdown.
func (q *QuitSignal) Trigger() {
	q.once.Do(func() { close(q.ch) })
}

// Done is closed once shutdown has been requested.
func (q *QuitSignal) Done() <-chan struct{} {
	return q.ch
}

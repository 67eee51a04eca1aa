package domain

import (
	activitydomain "telewatch/internal/modules/activity/domain"
)

// Sink consumes filtered events for display or logging. Implementations
// must tolerate being called from the monitoring goroutine only.
type Sink interface {
	Deliver(record *activitydomain.Record) error
}

package repository

import (
	"telewatch/internal/modules/channel/domain"
)

// Repository defines the interface for durable channel state: the cached
// channel list and the monitoring selection, stored as two logical records.
// This abstraction allows easy replacement of storage implementations
// (e.g., FileStorage -> PostgreSQL -> MongoDB)
type Repository interface {
	SaveChannels(channels []*domain.Channel) error
	LoadChannels() ([]*domain.Channel, error)
	SaveSelection(ids []int64) error
	LoadSelection() ([]int64, error)
}

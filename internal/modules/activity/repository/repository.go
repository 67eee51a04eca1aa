package repository

import (
	"telewatch/internal/modules/activity/domain"
)

// Repository is an append-only store of delivered activity.
type Repository interface {
	Append(record *domain.Record) error
	Recent(limit int) ([]*domain.Record, error)
}

package service

import (
	"log/slog"

	"github.com/samber/oops"

	"telewatch/internal/modules/activity/domain"
	"telewatch/internal/modules/activity/repository"
	"telewatch/internal/shared/errors"
)

// Service is the delivery sink: it fans a record out to a log line and to
// every configured repository (ring buffer, optional activity file). A
// failing repository does not stop the others.
type Service struct {
	ring  *repository.Ring
	repos []repository.Repository
}

// New creates the sink. The ring buffer always participates; additional
// repositories are optional.
func New(ring *repository.Ring, extra ...repository.Repository) *Service {
	repos := append([]repository.Repository{ring}, extra...)
	return &Service{ring: ring, repos: repos}
}

// Deliver implements the monitoring task's sink contract.
func (s *Service) Deliver(record *domain.Record) error {
	title := record.ChannelTitle
	if title == "" {
		title = "(unknown channel)"
	}
	slog.Info("Channel activity",
		"channel", title,
		"channel_id", record.ChannelID,
		"sender", record.Sender,
		"edited", record.Edited,
		"body", truncate(record.Body, 200))

	var failed error
	for _, repo := range s.repos {
		if err := repo.Append(record); err != nil {
			failed = err
		}
	}
	if failed != nil {
		return oops.Wrapf(errors.ErrDelivery, "%v", failed)
	}
	return nil
}

// Recent returns the newest records from the in-memory buffer.
func (s *Service) Recent(limit int) ([]*domain.Record, error) {
	return s.ring.Recent(limit)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

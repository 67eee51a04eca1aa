package service

import (
	goerrors "errors"
	"testing"

	"telewatch/internal/modules/activity/domain"
	"telewatch/internal/modules/activity/repository"
	"telewatch/internal/shared/errors"
)

type failingRepo struct{ appends int }

func (r *failingRepo) Append(record *domain.Record) error {
	r.appends++
	return goerrors.New("disk full")
}

func (r *failingRepo) Recent(limit int) ([]*domain.Record, error) {
	return nil, nil
}

func TestDeliver_RecordsToRing(t *testing.T) {
	svc := New(repository.NewRing(8))

	if err := svc.Deliver(&domain.Record{ChannelID: 1, Body: "hello"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	records, err := svc.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || records[0].Body != "hello" {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestDeliver_FanoutSurvivesFailingRepo(t *testing.T) {
	failing := &failingRepo{}
	svc := New(repository.NewRing(8), failing)

	err := svc.Deliver(&domain.Record{ChannelID: 1, Body: "hello"})
	if !goerrors.Is(err, errors.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	if failing.appends != 1 {
		t.Fatalf("failing repo must still be attempted, got %d", failing.appends)
	}

	// The ring got the record despite the failing sibling.
	records, recErr := svc.Recent(0)
	if recErr != nil {
		t.Fatalf("Recent: %v", recErr)
	}
	if len(records) != 1 {
		t.Fatalf("ring must keep the record, got %d", len(records))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncation of short body: %q", got)
	}
	if got := truncate("0123456789abc", 10); got != "0123456789..." {
		t.Fatalf("unexpected truncated body: %q", got)
	}
}

package service

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"
	"github.com/samber/oops"

	"telewatch/internal/modules/activity/domain"
)

const defaultFeedSize = 50

// Activity supplies recent delivered records for feed rendering.
type Activity interface {
	Recent(limit int) ([]*domain.Record, error)
}

// Service renders the recent monitoring activity as a web feed.
type Service struct {
	activity Activity
}

// New creates a new feed service
func New(activity Activity) *Service {
	return &Service{activity: activity}
}

// GenerateFeed builds a feed from the newest delivered records.
func (s *Service) GenerateFeed(baseURL string) (*feeds.Feed, error) {
	records, err := s.activity.Recent(defaultFeedSize)
	if err != nil {
		return nil, oops.With("context", "failed to read recent activity").Wrap(err)
	}

	feed := &feeds.Feed{
		Title:       "telewatch - monitored channel activity",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feed", baseURL)},
		Description: "Events delivered from monitored Telegram channels",
		Updated:     time.Now(),
	}

	feed.Items = lo.Map(records, func(rec *domain.Record, _ int) *feeds.Item {
		return s.recordToFeedItem(rec)
	})
	return feed, nil
}

func (s *Service) recordToFeedItem(rec *domain.Record) *feeds.Item {
	title := rec.ChannelTitle
	if title == "" {
		title = fmt.Sprintf("channel %d", rec.ChannelID)
	}
	prefix := "Post"
	if rec.Edited {
		prefix = "Edit"
	}

	return &feeds.Item{
		Title:       fmt.Sprintf("%s in %s", prefix, title),
		Description: rec.Body,
		Author:      &feeds.Author{Name: rec.Sender},
		Created:     rec.Timestamp,
		Updated:     rec.ReceivedAt,
		Id:          fmt.Sprintf("%d-%d", rec.ChannelID, rec.ReceivedAt.UnixNano()),
	}
}

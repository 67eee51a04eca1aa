package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	activitydomain "telewatch/internal/modules/activity/domain"
	channelservice "telewatch/internal/modules/channel/service"
	feedservice "telewatch/internal/modules/feed/service"
	monitordomain "telewatch/internal/modules/monitor/domain"
	sessiondomain "telewatch/internal/modules/session/domain"
)

type stubActivity struct{ records []*activitydomain.Record }

func (s *stubActivity) Recent(limit int) ([]*activitydomain.Record, error) {
	return s.records, nil
}

type stubSession struct{}

func (stubSession) Status() sessiondomain.Status {
	return sessiondomain.Status{
		State:    sessiondomain.StateAuthenticated,
		Identity: sessiondomain.Identity{Name: "Operator"},
	}
}

type stubStore struct{}

func (stubStore) Info() channelservice.CacheInfo {
	return channelservice.CacheInfo{Channels: 3, Selected: 1, RefreshedAt: time.Now()}
}

type stubMonitor struct{}

func (stubMonitor) State() monitordomain.State { return monitordomain.StateRunning }

func testServer() *Server {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	feed := feedservice.New(&stubActivity{records: []*activitydomain.Record{
		{ChannelID: 1, ChannelTitle: "News", Body: "breaking", Timestamp: ts, ReceivedAt: ts},
	}})
	return New(nil, feed, stubSession{}, stubStore{}, stubMonitor{})
}

func TestHandleFeed_ServesAtom(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "http://localhost/feed", nil)
	rec := httptest.NewRecorder()
	s.handleFeed(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "atom+xml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<feed") || !strings.Contains(body, "Post in News") {
		t.Fatalf("atom body missing entries:\n%s", body)
	}
}

func TestHandleStatus_ReportsCounters(t *testing.T) {
	s := testServer()

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "http://localhost/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out["session"] != "authenticated" || out["monitoring"] != "running" {
		t.Fatalf("unexpected status payload: %v", out)
	}
	if out["channels"] != float64(3) || out["monitored"] != float64(1) {
		t.Fatalf("unexpected counters: %v", out)
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer()

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "http://localhost/health", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestGetScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://localhost/", nil)
	if got := getScheme(req); got != "http" {
		t.Fatalf("expected http, got %q", got)
	}

	req.Header.Set("X-Forwarded-Proto", "https")
	if got := getScheme(req); got != "https" {
		t.Fatalf("expected forwarded https, got %q", got)
	}
}

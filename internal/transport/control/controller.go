package control

import (
	"context"
	goerrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	channeldomain "telewatch/internal/modules/channel/domain"
	channelservice "telewatch/internal/modules/channel/service"
	monitordomain "telewatch/internal/modules/monitor/domain"
	sessiondomain "telewatch/internal/modules/session/domain"
	"telewatch/internal/shared/errors"
)

// ErrQuit signals the command loop to stop reading; the shutdown itself is
// triggered through the quit callback.
var ErrQuit = goerrors.New("quit requested")

// Store is the slice of the channel store the control task drives.
type Store interface {
	List() []*channeldomain.Channel
	Selection() *channeldomain.Selection
	SetSelection(ids []int64) error
	RefreshFromPlatform(ctx context.Context) error
	Load() error
	Info() channelservice.CacheInfo
}

// Session exposes read-only session status.
type Session interface {
	Status() sessiondomain.Status
}

// Monitor exposes the monitoring task state for status output.
type Monitor interface {
	State() monitordomain.State
}

// Controller dispatches operator commands against the store and the
// session. It is independent of whichever presentation layer renders it:
// commands come in as lines, results go out as strings.
type Controller struct {
	store   Store
	session Session
	monitor Monitor
	quit    func()
}

// New creates a command controller. quit is invoked exactly once per quit
// command and must start the app shutdown protocol.
func New(store Store, session Session, monitor Monitor, quit func()) *Controller {
	return &Controller{
		store:   store,
		session: session,
		monitor: monitor,
		quit:    quit,
	}
}

// Execute runs one command line and returns its human-readable result.
// Command failures come back as errors with readable reasons; they never
// crash the loop.
func (c *Controller) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "help":
		return c.help(), nil
	case "status":
		return c.status(), nil
	case "channels", "list":
		return c.channels(), nil
	case "refresh", "update":
		return c.refresh(ctx)
	case "select", "monitor":
		return c.setSelection(args)
	case "reload":
		return c.reload()
	case "quit", "exit":
		c.quit()
		return "Shutting down...", ErrQuit
	default:
		return "", fmt.Errorf("%w: %s (type 'help' for available commands)", errors.ErrUnknownCommand, cmd)
	}
}

func (c *Controller) help() string {
	return strings.Join([]string{
		"Available commands:",
		"  help                 - show this help message",
		"  status               - show session, cache and monitoring status",
		"  channels             - list cached channels, monitored ones marked",
		"  refresh              - fetch the channel list from Telegram",
		"  select <ids|all|none> - replace the set of monitored channels",
		"  reload               - reload cache and selection from disk",
		"  quit                 - shut down",
	}, "\n")
}

// status never fails.
func (c *Controller) status() string {
	status := c.session.Status()
	info := c.store.Info()

	var b strings.Builder
	fmt.Fprintf(&b, "Session:    %s", status.State)
	if status.Identity.Name != "" {
		fmt.Fprintf(&b, " (%s)", status.Identity.Name)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Monitoring: %s\n", c.monitor.State())
	fmt.Fprintf(&b, "Channels:   %d cached, %d monitored\n", info.Channels, info.Selected)
	if info.RefreshedAt.IsZero() {
		b.WriteString("Cache:      never refreshed (use 'refresh')")
	} else {
		fmt.Fprintf(&b, "Cache:      refreshed %s", info.RefreshedAt.Format("2006-01-02 15:04:05"))
	}
	return b.String()
}

func (c *Controller) channels() string {
	channels := c.store.List()
	if len(channels) == 0 {
		return "No cached channels. Use 'refresh' to fetch the list from Telegram."
	}

	selection := c.store.Selection()
	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-15s %s\n", "", "ID", "Title")
	for _, ch := range channels {
		marker := "   "
		if selection.Contains(ch.ID) {
			marker = " * "
		}
		fmt.Fprintf(&b, "%s %-15d %s\n", marker, ch.ID, ch.Title)
	}
	fmt.Fprintf(&b, "%d channels, %d monitored", len(channels), selection.Len())
	return b.String()
}

func (c *Controller) refresh(ctx context.Context) (string, error) {
	if err := c.store.RefreshFromPlatform(ctx); err != nil {
		return "", fmt.Errorf("channel list refresh failed: %w", err)
	}
	return fmt.Sprintf("Channel list updated, %d channels cached", c.store.Info().Channels), nil
}

func (c *Controller) setSelection(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: select <id,id,...|all|none>")
	}

	var ids []int64
	switch strings.ToLower(args[0]) {
	case "all":
		ids = lo.Map(c.store.List(), func(ch *channeldomain.Channel, _ int) int64 { return ch.ID })
	case "none":
		ids = []int64{}
	default:
		parsed, err := parseIDs(args)
		if err != nil {
			return "", err
		}
		ids = parsed
	}

	if err := c.store.SetSelection(ids); err != nil {
		return "", fmt.Errorf("failed to save selection: %w", err)
	}
	return fmt.Sprintf("Monitoring %d channels", len(ids)), nil
}

func (c *Controller) reload() (string, error) {
	if err := c.store.Load(); err != nil {
		return "", fmt.Errorf("failed to reload configuration: %w", err)
	}
	info := c.store.Info()
	return fmt.Sprintf("Configuration reloaded: %d channels cached, %d monitored", info.Channels, info.Selected), nil
}

// parseIDs accepts comma or space separated numeric channel IDs.
func parseIDs(args []string) ([]int64, error) {
	joined := strings.Join(args, ",")
	parts := strings.FieldsFunc(joined, func(r rune) bool { return r == ',' || r == ' ' })

	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid channel id %q: expected a number", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no channel ids given")
	}
	return ids, nil
}

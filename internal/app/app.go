package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/rbright/waybar-harvester/internal/config"
	"github.com/rbright/waybar-harvester/internal/feed"
	"github.com/rbright/waybar-harvester/internal/harvester"
	"github.com/rbright/waybar-harvester/internal/notify"
	"github.com/rbright/waybar-harvester/internal/selector"
	"github.com/rbright/waybar-harvester/internal/state"
	"github.com/rbright/waybar-harvester/internal/waybar"
)

// Fetcher loads the raw feed records for an event name.
type Fetcher interface {
	FetchRaw(ctx context.Context, name string) ([]harvester.RawEvent, error)
}

type notifier interface {
	notify.Sender
	Close() error
}

type deps struct {
	fs         afero.Fs
	fetcher    Fetcher
	now        func() time.Time
	notifier   func(ctx context.Context) (notifier, error)
	selectMaps func(ctx context.Context, maps []string, current map[string]bool) ([]string, error)
}

func defaultDeps(cfg config.Runtime) deps {
	return deps{
		fs:      afero.NewOsFs(),
		fetcher: feed.New(cfg.FeedURL, cfg.Timeout),
		now:     time.Now,
		notifier: func(ctx context.Context) (notifier, error) {
			return notify.New(ctx)
		},
		selectMaps: selector.SelectMaps,
	}
}

func Run(ctx context.Context, args []string, cfg config.Runtime, stdout io.Writer) error {
	return run(ctx, args, cfg, stdout, defaultDeps(cfg))
}

func run(ctx context.Context, args []string, cfg config.Runtime, stdout io.Writer, d deps) error {
	cmd, err := parseArgs(args)
	if err != nil {
		return err
	}

	switch cmd {
	case "status":
		out, statusErr := buildStatus(ctx, cfg, d, false)
		if statusErr != nil {
			return statusErr
		}
		return writeOutput(stdout, out)
	case "refresh":
		out, statusErr := buildStatus(ctx, cfg, d, true)
		if statusErr != nil {
			return statusErr
		}
		if out.Class == "error" {
			return errors.New(out.Tooltip)
		}
		return nil
	case "upcoming":
		return printUpcoming(ctx, cfg, d, stdout)
	case "notify":
		return sendNotification(ctx, cfg, d)
	case "select-maps":
		return selectMaps(ctx, cfg, d, stdout)
	default:
		return fmt.Errorf("unsupported command %q", cmd)
	}
}

func parseArgs(args []string) (string, error) {
	if len(args) == 0 {
		return "status", nil
	}

	switch strings.TrimSpace(args[0]) {
	case "status", "refresh", "upcoming", "notify", "select-maps":
		if len(args) > 1 {
			return "", fmt.Errorf("unexpected argument %q", args[1])
		}
		return strings.TrimSpace(args[0]), nil
	default:
		return "", fmt.Errorf("usage: waybar-harvester <status|refresh|upcoming|notify|select-maps>")
	}
}

// loaded is the feed as the presenter sees it: fresh, cached, or cached after
// a failed refresh (staleErr set).
type loaded struct {
	events    []harvester.RawEvent
	fetchedAt time.Time
	staleErr  string
}

func loadEvents(ctx context.Context, cfg config.Runtime, d deps, force bool) (loaded, error) {
	store := state.NewStore(d.fs, cfg.SnapshotPath)
	cached, loadErr := store.Load()
	if loadErr != nil && !errors.Is(loadErr, state.ErrNotFound) {
		cached = nil
	}

	if cached != nil && !force && cached.Fresh(d.now(), cfg.CacheTTL) {
		return loaded{events: cached.Events, fetchedAt: cached.FetchedAt}, nil
	}

	events, fetchErr := d.fetcher.FetchRaw(ctx, cfg.EventName)
	if fetchErr == nil {
		fetchedAt := d.now().UTC()
		_ = store.Save(events, fetchedAt) // Best-effort cache persistence.
		return loaded{events: events, fetchedAt: fetchedAt}, nil
	}

	if cached != nil {
		return loaded{events: cached.Events, fetchedAt: cached.FetchedAt, staleErr: fetchErr.Error()}, nil
	}
	return loaded{}, fetchErr
}

func resolve(cfg config.Runtime, d deps, events []harvester.RawEvent) (harvester.Result, error) {
	resolver := cfg.Resolver()
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	resolver.Now = func() time.Time { return d.now().In(location) }
	return resolver.Resolve(events)
}

// selectedEvents applies the saved map filter. A missing selection file keeps
// every map; a saved empty selection keeps none.
func selectedEvents(cfg config.Runtime, d deps, events []harvester.RawEvent) ([]harvester.RawEvent, error) {
	selection, err := state.LoadSelection(d.fs, cfg.SelectionPath)
	if err != nil {
		return nil, err
	}
	if !selection.Exists {
		return events, nil
	}
	if len(selection.SelectedMaps) == 0 {
		return []harvester.RawEvent{}, nil
	}
	return harvester.FilterMaps(events, selection.SelectedMaps), nil
}

func buildStatus(ctx context.Context, cfg config.Runtime, d deps, force bool) (waybar.Output, error) {
	if err := state.EnsureDirs(d.fs, cfg.StateDir, cfg.MenuDir, cfg.SelectionPath); err != nil {
		return waybar.Output{}, err
	}

	feedData, err := loadEvents(ctx, cfg, d, force)
	if err != nil {
		return renderErrorState(cfg, d, fmt.Sprintf("Failed to fetch events: %s", err.Error()))
	}

	events, err := selectedEvents(cfg, d, feedData.events)
	if err != nil {
		return waybar.Output{}, err
	}

	result, err := resolve(cfg, d, events)
	if err != nil {
		return renderErrorState(cfg, d, fmt.Sprintf("Invalid event data: %s", err.Error()))
	}

	menu := state.MenuData{
		StatusLine: fmt.Sprintf("No upcoming %s events", cfg.EventName),
		Highlight:  result.CurrentOrNext,
		Items:      capEntries(result.Upcoming, cfg.MaxItems),
	}
	if err := state.WriteMenu(d.fs, cfg.MenuPath, menu); err != nil {
		return waybar.Output{}, err
	}

	return waybar.Render(result, waybar.Options{
		EventName:  cfg.EventName,
		MaxItems:   cfg.MaxItems,
		FetchedAt:  feedData.fetchedAt,
		StaleError: feedData.staleErr,
	}), nil
}

func printUpcoming(ctx context.Context, cfg config.Runtime, d deps, stdout io.Writer) error {
	feedData, err := loadEvents(ctx, cfg, d, false)
	if err != nil {
		return err
	}
	events, err := selectedEvents(cfg, d, feedData.events)
	if err != nil {
		return err
	}
	result, err := resolve(cfg, d, events)
	if err != nil {
		return err
	}

	lines := waybar.UpcomingLines(result.Upcoming, cfg.MaxItems)
	if len(lines) == 0 {
		lines = []string{fmt.Sprintf("No upcoming %s events", cfg.EventName)}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(stdout, line); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

// sendNotification raises at most one desktop notification per slot per
// local day.
func sendNotification(ctx context.Context, cfg config.Runtime, d deps) error {
	if err := state.EnsureDirs(d.fs, cfg.StateDir, cfg.MenuDir, cfg.SelectionPath); err != nil {
		return err
	}

	feedData, err := loadEvents(ctx, cfg, d, false)
	if err != nil {
		return err
	}
	events, err := selectedEvents(cfg, d, feedData.events)
	if err != nil {
		return err
	}
	result, err := resolve(cfg, d, events)
	if err != nil {
		return err
	}

	entry, due := notify.Due(result, cfg.NotifyLead)
	if !due {
		return nil
	}

	notified, err := state.LoadNotified(d.fs, cfg.NotifiedPath)
	if err != nil {
		return err
	}
	day := result.EvaluatedAt.Format("2006-01-02")
	if notified.Seen(entry.Key(), day) {
		return nil
	}

	client, err := d.notifier(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	iconURL := ""
	if len(entry.MapIcons) > 0 {
		iconURL = entry.MapIcons[0]
	}
	if err := client.Send(ctx, notify.Message(*entry, cfg.EventName, iconURL)); err != nil {
		return err
	}

	notified.Mark(entry.Key(), day)
	return state.SaveNotified(d.fs, cfg.NotifiedPath, notified)
}

func selectMaps(ctx context.Context, cfg config.Runtime, d deps, stdout io.Writer) error {
	if err := state.EnsureDirs(d.fs, cfg.StateDir, cfg.MenuDir, cfg.SelectionPath); err != nil {
		return err
	}

	feedData, err := loadEvents(ctx, cfg, d, false)
	if err != nil {
		return err
	}
	maps := harvester.MapNames(harvester.FilterNamed(feedData.events, cfg.EventName))

	selection, err := state.LoadSelection(d.fs, cfg.SelectionPath)
	if err != nil {
		return err
	}
	current := make(map[string]bool, len(maps))
	for _, name := range maps {
		current[name] = !selection.Exists
	}
	for _, name := range selection.SelectedMaps {
		current[name] = true
	}

	selected, err := d.selectMaps(ctx, maps, current)
	if err != nil {
		if errors.Is(err, selector.ErrSelectionCancelled) {
			return nil
		}
		return err
	}

	if err := state.SaveSelection(d.fs, cfg.SelectionPath, selected); err != nil {
		return err
	}

	if _, err := buildStatus(ctx, cfg, d, false); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Saved %d selected map(s)\n", len(selected))
	return nil
}

func capEntries(entries []harvester.Entry, max int) []harvester.Entry {
	if max > 0 && len(entries) > max {
		return entries[:max]
	}
	return entries
}

func renderErrorState(cfg config.Runtime, d deps, tooltip string) (waybar.Output, error) {
	if err := state.WriteMenu(d.fs, cfg.MenuPath, state.MenuData{StatusLine: "Event feed unavailable"}); err != nil {
		return waybar.Output{}, err
	}
	return waybar.RenderError("", tooltip), nil
}

func writeOutput(w io.Writer, output waybar.Output) error {
	payload, err := waybar.Encode(output)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write trailing newline: %w", err)
	}
	return nil
}

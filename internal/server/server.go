// Package server exposes the resolver over HTTP: the upstream proxy, the
// next-event summary, the full resolution, a calendar feed, a live websocket
// and the chat webhook.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rbright/waybar-harvester/internal/harvester"
	"github.com/rbright/waybar-harvester/internal/logging"
)

const (
	defaultPushInterval = time.Minute
	shutdownTimeout     = 5 * time.Second
)

// Fetcher is the upstream feed as seen by the server.
type Fetcher interface {
	FetchRaw(ctx context.Context, name string) ([]harvester.RawEvent, error)
	FetchBody(ctx context.Context, query url.Values) ([]byte, error)
}

type Options struct {
	EventName        string
	RespectDayFilter bool
	IconBaseURL      string
	Location         *time.Location
	CacheTTL         time.Duration
	ShortcutPhrases  []string
	PushInterval     time.Duration
	Now              func() time.Time
	Logger           *slog.Logger
}

type Server struct {
	opts      Options
	fetcher   Fetcher
	cache     *Cache
	shortcuts map[string]struct{}
	logger    *slog.Logger
	responder responder
}

func New(fetcher Fetcher, opts Options) *Server {
	if strings.TrimSpace(opts.EventName) == "" {
		opts.EventName = harvester.DefaultEventName
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.PushInterval <= 0 {
		opts.PushInterval = defaultPushInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	shortcuts := make(map[string]struct{}, len(opts.ShortcutPhrases))
	for _, phrase := range opts.ShortcutPhrases {
		if normalized := normalizePhrase(phrase); normalized != "" {
			shortcuts[normalized] = struct{}{}
		}
	}

	return &Server{
		opts:      opts,
		fetcher:   fetcher,
		cache:     NewCache(fetcher, opts.EventName, opts.CacheTTL, opts.Now),
		shortcuts: shortcuts,
		logger:    opts.Logger,
		responder: newResponder(opts.Logger),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/event-timers", s.handleEventTimers)
	mux.HandleFunc("GET /api/next-event", s.handleNextEvent)
	mux.HandleFunc("GET /api/harvester", s.handleResolution)
	mux.HandleFunc("GET /api/calendar.ics", s.handleCalendar)
	mux.HandleFunc("GET /api/ws", s.handleWebsocket)
	mux.HandleFunc("POST /api/whatsapp", s.handleWebhook)
	mux.HandleFunc("GET /api/whatsapp", s.handleWebhookInfo)
	mux.HandleFunc("GET /api/shortcuts/{phrase}", s.handleShortcut)
	return logging.RequestLogger(s.logger)(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) resolver(loc *time.Location) *harvester.Resolver {
	resolver := harvester.NewResolver(s.opts.EventName)
	resolver.RespectDayFilter = s.opts.RespectDayFilter
	if strings.TrimSpace(s.opts.IconBaseURL) != "" {
		resolver.IconBaseURL = s.opts.IconBaseURL
	}
	resolver.Now = func() time.Time { return s.opts.Now().In(loc) }
	return resolver
}

// location reads the optional tz query parameter.
func (s *Server) location(r *http.Request) (*time.Location, error) {
	zone := strings.TrimSpace(r.URL.Query().Get("tz"))
	if zone == "" {
		return s.opts.Location, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return loc, nil
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rbright/waybar-harvester/internal/calendar"
	"github.com/rbright/waybar-harvester/internal/harvester"
)

const (
	msgEventTimersFailed = "Failed to fetch event timers"
	msgNextEventFailed   = "Failed to fetch next event"
	msgResolveFailed     = "Failed to resolve events"
	msgCalendarFailed    = "Failed to build calendar"
	msgNoUpcoming        = "No upcoming events found"
	msgInvalidTimezone   = "Invalid timezone"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// handleEventTimers passes the upstream document through unchanged.
func (s *Server) handleEventTimers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := s.fetcher.FetchBody(ctx, r.URL.Query())
	if err != nil {
		s.responder.writeFailure(ctx, w, msgEventTimersFailed, err)
		return
	}

	allowCORS(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleNextEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc, err := s.location(r)
	if err != nil {
		s.responder.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msgInvalidTimezone})
		return
	}

	summary, message, err := s.nextEvent(ctx, loc)
	if err != nil {
		s.responder.writeFailure(ctx, w, msgNextEventFailed, err)
		return
	}
	if message != "" {
		s.responder.writeJSON(ctx, w, http.StatusOK, messageResponse{Message: message})
		return
	}

	allowCORS(w)
	s.responder.writeJSON(ctx, w, http.StatusOK, summary)
}

// nextEvent summarises the highlighted window on loc's clock. When there is
// nothing to show the message is set instead.
func (s *Server) nextEvent(ctx context.Context, loc *time.Location) (harvester.NextEvent, string, error) {
	events, _, err := s.cache.Events(ctx)
	if err != nil {
		return harvester.NextEvent{}, "", err
	}
	if len(harvester.FilterNamed(events, s.opts.EventName)) == 0 {
		return harvester.NextEvent{}, fmt.Sprintf("No %s events found", s.opts.EventName), nil
	}

	result, err := s.resolver(loc).Resolve(events)
	if err != nil {
		return harvester.NextEvent{}, "", err
	}

	summary, ok := harvester.Summarize(result, s.opts.EventName)
	if !ok {
		return harvester.NextEvent{}, msgNoUpcoming, nil
	}
	return summary, "", nil
}

// NextEventText is the plain-text reply used by chat and voice shortcuts, on
// the configured zone.
func (s *Server) NextEventText(ctx context.Context) (string, error) {
	return s.nextEventText(ctx, s.opts.Location)
}

func (s *Server) nextEventText(ctx context.Context, loc *time.Location) (string, error) {
	summary, message, err := s.nextEvent(ctx, loc)
	if err != nil {
		return "", err
	}
	if message != "" {
		return message, nil
	}
	return summary.Text, nil
}

func (s *Server) handleResolution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc, err := s.location(r)
	if err != nil {
		s.responder.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msgInvalidTimezone})
		return
	}

	view, err := s.resolution(ctx, loc)
	if err != nil {
		s.responder.writeFailure(ctx, w, msgResolveFailed, err)
		return
	}

	allowCORS(w)
	s.responder.writeJSON(ctx, w, http.StatusOK, view)
}

func (s *Server) resolution(ctx context.Context, loc *time.Location) (resolutionView, error) {
	events, fetchedAt, err := s.cache.Events(ctx)
	if err != nil {
		return resolutionView{}, err
	}

	result, err := s.resolver(loc).Resolve(events)
	if err != nil {
		return resolutionView{}, err
	}
	return newResolutionView(s.opts.EventName, result, fetchedAt), nil
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc, err := s.location(r)
	if err != nil {
		s.responder.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msgInvalidTimezone})
		return
	}

	events, _, err := s.cache.Events(ctx)
	if err != nil {
		s.responder.writeFailure(ctx, w, msgCalendarFailed, err)
		return
	}

	slots, err := harvester.GroupSlots(events, s.opts.EventName, s.opts.IconBaseURL)
	if err != nil {
		s.responder.writeFailure(ctx, w, msgCalendarFailed, err)
		return
	}

	opts := calendar.Options{Name: s.opts.EventName, Now: s.opts.Now().In(loc)}
	if s.opts.RespectDayFilter {
		opts.Days = calendar.SlotDays(events, s.opts.EventName)
	}

	body, err := calendar.Build(slots, opts)
	if err != nil {
		s.responder.writeFailure(ctx, w, msgCalendarFailed, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="harvester.ics"`)
	_, _ = w.Write([]byte(body))
}

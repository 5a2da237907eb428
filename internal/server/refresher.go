package server

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// RunRefresher refreshes the feed cache on the cron schedule until ctx ends.
func (s *Server) RunRefresher(ctx context.Context, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := s.cache.Refresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "scheduled refresh failed", "kind", ErrorKind(err), "error", err)
			return
		}
		s.logger.DebugContext(ctx, "feed refreshed")
	})
	if err != nil {
		return fmt.Errorf("parse refresh schedule %q: %w", schedule, err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

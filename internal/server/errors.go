package server

import (
	"errors"

	"github.com/rbright/waybar-harvester/internal/feed"
	"github.com/rbright/waybar-harvester/internal/harvester"
)

// ErrorKind maps an error to a stable log label.
func ErrorKind(err error) string {
	var fetchErr *feed.FetchError
	var parseErr *feed.ParseError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, harvester.ErrInvalidTime):
		return "invalid_time"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &fetchErr):
		return "fetch"
	default:
		return "unexpected"
	}
}

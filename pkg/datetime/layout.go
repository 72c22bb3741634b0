package datetime

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultLayouts are the absolute forms accepted by the layout backend.
var DefaultLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"02/01/2006 15:04",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	time.RFC3339,
}

// Layouts normalizes dates with time.ParseInLocation against a fixed list of
// layouts. It does not understand relative dates beyond "now"; it exists for
// hosts without GNU date and for tests.
type Layouts struct {
	Formats  []string
	Location *time.Location
	Now      func() time.Time
}

// NewLayouts creates a layout backend using DefaultLayouts in loc (UTC when nil).
func NewLayouts(loc *time.Location) *Layouts {
	if loc == nil {
		loc = time.UTC
	}
	return &Layouts{
		Formats:  DefaultLayouts,
		Location: loc,
		Now:      time.Now,
	}
}

// Normalize implements Normalizer.
func (l *Layouts) Normalize(_ context.Context, value string) (int64, error) {
	v := strings.TrimSpace(value)
	if strings.EqualFold(v, "now") {
		return l.Now().Unix(), nil
	}
	for _, f := range l.Formats {
		if t, err := time.ParseInLocation(f, v, l.Location); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnparseable, value)
}

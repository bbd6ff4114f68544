package clock

import (
	"time"

	"github.com/mamadbah2/meatledger/internal/domain/models"
)

// Clock anchors default date ranges and the dashboard chart window.
type Clock interface {
	Now() time.Time
	Today() string
	DaysAgo(n int) string
}

type zoned struct {
	loc *time.Location
	now func() time.Time
}

// New returns a wall clock that resolves calendar dates in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &zoned{loc: loc, now: time.Now}
}

// Fixed returns a clock frozen at t, for tests and replays.
func Fixed(t time.Time) Clock {
	return &zoned{loc: t.Location(), now: func() time.Time { return t }}
}

func (c *zoned) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *zoned) Today() string {
	return c.Now().Format(models.DateLayout)
}

func (c *zoned) DaysAgo(n int) string {
	now := c.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
	return day.AddDate(0, 0, -n).Format(models.DateLayout)
}

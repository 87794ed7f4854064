// Package biztime resolves calendar boundaries in the business timezone.
// Everything is stored and compared in UTC; the business timezone only
// decides where a day starts, which is what due dates and the nightly
// sweep are measured against.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	DefaultTimezone = "America/Sao_Paulo"

	DateLayout = "2006-01-02"
)

var (
	bizLocation   *time.Location
	bizLocationMu sync.RWMutex
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load business timezone %q: %w", tz, err)
	}
	bizLocationMu.Lock()
	bizLocation = loc
	bizLocationMu.Unlock()
	return nil
}

// Location returns the business timezone, initialising the default on first use.
func Location() *time.Location {
	bizLocationMu.RLock()
	loc := bizLocation
	bizLocationMu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: %v", err))
	}
	return Location()
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns business-day midnight for t, expressed in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}

func EndOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 23, 59, 59, 999999999, Location()).UTC()
}

// AddDays moves t by n calendar days in the business timezone, so a DST
// change never shifts the wall-clock hour.
func AddDays(t time.Time, n int) time.Time {
	return t.In(Location()).AddDate(0, 0, n).UTC()
}

// AddMonths is AddDays for months. Day overflow normalises like time.AddDate.
func AddMonths(t time.Time, n int) time.Time {
	return t.In(Location()).AddDate(0, n, 0).UTC()
}

// ParseDate parses YYYY-MM-DD as business-timezone midnight and returns it in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatDate renders t as a business-timezone calendar date.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format(DateLayout)
}

func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

package utils

import (
	"fmt"
	"sync"
	"time"
)

const (
	dateOnlyLayout = "2006-01-02"
	buddhistOffset = 543
)

var (
	locMu    sync.RWMutex
	localLoc *time.Location
)

// SetLocation sets the zone used for reports and date filters.
func SetLocation(loc *time.Location) {
	locMu.Lock()
	localLoc = loc
	locMu.Unlock()
}

// Location returns the configured zone, Asia/Bangkok by default.
func Location() *time.Location {
	locMu.RLock()
	loc := localLoc
	locMu.RUnlock()
	if loc != nil {
		return loc
	}

	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		// Fallback to a fixed zone if the location database is unavailable.
		loc = time.FixedZone("Asia/Bangkok", 7*60*60)
	}
	SetLocation(loc)
	return loc
}

// FormatThaiDateTime renders t the way th-TH locales print a date and time:
// d/m/yyyy H:MM:SS with a Buddhist-era year.
func FormatThaiDateTime(t time.Time) string {
	lt := t.In(Location())
	return fmt.Sprintf("%d/%d/%d %d:%02d:%02d",
		lt.Day(), int(lt.Month()), lt.Year()+buddhistOffset,
		lt.Hour(), lt.Minute(), lt.Second())
}

// FormatDateOnly formats a time as YYYY-MM-DD in the configured zone.
func FormatDateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location()).Format(dateOnlyLayout)
}

// ParseUserDate parses a user-supplied date or RFC3339 instant.
func ParseUserDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}
	if ts, err := time.ParseInLocation(dateOnlyLayout, value, Location()); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.In(Location()), nil
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}

// StartOfDay returns midnight of t's day in the configured zone.
func StartOfDay(t time.Time) time.Time {
	loc := Location()
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's day in the configured zone.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

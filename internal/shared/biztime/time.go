// Package biztime provides utilities for business timezone calculations.
// Instants are stored in UTC. Calendar dates (delivery dates, pause dates)
// are represented as UTC midnight of the business-timezone date, so two
// dates compare equal exactly when they name the same day.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "Asia/Ho_Chi_Minh"

	// DateLayout is the wire format of a calendar date.
	DateLayout = "2006-01-02"
)

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. If tz is empty, DefaultTimezone is used.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load business timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, initializing the default lazily.
func Location() *time.Location {
	mu.RLock()
	loc := bizLocation
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
	}
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns the instant business-day t began, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	biz := t.In(Location())
	return time.Date(biz.Year(), biz.Month(), biz.Day(), 0, 0, 0, 0, Location()).UTC()
}

// DateOf returns the business calendar date containing instant t.
func DateOf(t time.Time) time.Time {
	biz := t.In(Location())
	return time.Date(biz.Year(), biz.Month(), biz.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDate drops any time-of-day component of an already calendar
// valued time, keeping its year, month and day as written.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays moves a calendar date by n days.
func AddDays(date time.Time, n int) time.Time {
	return NormalizeDate(date).AddDate(0, 0, n)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

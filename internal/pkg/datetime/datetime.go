// Package datetime parses the free-form dates and clock times users type into
// the reminder dialog and does the calendar arithmetic around them.
package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	appErrors "qurainbot/internal/pkg/errors"
)

// DisplayLayout is how fire times are rendered back to users.
const DisplayLayout = "2006-01-02 15:04"

var (
	dateRe  = regexp.MustCompile(`^(\d{1,2})[-./_\\ ](\d{1,2})[-./_\\ ](\d{4}|\d{2})$`)
	clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// SkipWords mean "no particular time", i.e. 00:00.
var SkipWords = []string{"تخطي", "skip"}

// Date is a calendar day without a time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts day-month-year with any of - . / _ \ or a space between the
// parts. Two-digit years are taken as 2000+N.
func ParseDate(s string) (Date, error) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Date{}, fmt.Errorf("%w: %q", appErrors.ErrInvalidDate, s)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) {
		return Date{}, fmt.Errorf("%w: %q", appErrors.ErrInvalidDate, s)
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// ParseClock accepts 24-hour HH:MM (H:MM also works) or one of SkipWords.
func ParseClock(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	for _, w := range SkipWords {
		if strings.EqualFold(s, w) {
			return 0, 0, nil
		}
	}
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", appErrors.ErrInvalidTime, s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", appErrors.ErrInvalidTime, s)
	}
	return hour, minute, nil
}

// At returns the instant the date reaches hour:minute in loc.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc)
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// FormatClock renders hour and minute as HH:MM.
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// String renders the date as DD-MM-YYYY, the form users are asked to type.
func (d Date) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, int(d.Month), d.Year)
}

// DateOf returns the calendar date of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	t = t.In(loc)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// NextWeekday returns the first instant strictly after now that falls on wd at
// hour:minute local time.
func NextWeekday(now time.Time, wd time.Weekday, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	ahead := (int(wd) - int(local.Weekday()) + 7) % 7
	candidate := time.Date(local.Year(), local.Month(), local.Day()+ahead, hour, minute, 0, 0, loc)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// Format renders t in loc with DisplayLayout.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DisplayLayout)
}

// Storage normalizes an instant for persistence: UTC, whole seconds.
func Storage(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Package dates parses natural-language due dates like "tomorrow",
// "next friday", or "in 3 days".
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var weekdayPattern = regexp.MustCompile(`^(next|this|on)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$`)

var parser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// Parse resolves a date expression relative to now. Accepted inputs:
// ISO dates (2006-01-02), RFC 3339 timestamps, weekday phrases
// ("next friday", "this monday", "on tuesday"), and general English
// phrases ("tomorrow", "in 3 days").
func Parse(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	// Weekday phrases get explicit handling: "next" always lands in the
	// future, "this" stays within the current week even if already past,
	// "on" means the next occurrence including today.
	if t, ok := parseWeekday(s, now); ok {
		return t, nil
	}

	r, err := parser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
	}
	return r.Time, nil
}

func parseWeekday(s string, now time.Time) (time.Time, bool) {
	m := weekdayPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return time.Time{}, false
	}

	target := dayNames[m[2]]
	diff := int(target) - int(now.Weekday())

	switch m[1] {
	case "next":
		if diff <= 0 {
			diff += 7
		}
	case "on":
		if diff < 0 {
			diff += 7
		}
	}
	// "this" keeps diff as-is: this week's occurrence, past or future.

	day := now.AddDate(0, 0, diff)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()), true
}

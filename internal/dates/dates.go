// Package dates decides the authoritative log date for an entry. Agents are
// prone to replaying a stale default date from their session context, so a
// caller-supplied date is only trusted when it is close to today or when the
// user visibly typed a date themselves.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the canonical ISO form rows are keyed by.
const Layout = "2006-01-02"

// staleThresholdDays is how far a caller-supplied date may drift from today
// before it is replaced.
const staleThresholdDays = 3

// tokenRe matches an explicitly typed date: ISO or M/D/Y with a 2- or 4-digit
// year.
var tokenRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4})\b`)

// Today formats now's calendar day. The caller fixes the reference zone.
func Today(now time.Time) string {
	return now.Format(Layout)
}

// Resolve picks the ISO date for the entry and reports whether a newly
// created row should be inserted at the top of the sheet.
//
//  1. A date token typed in the free text wins outright and is never
//     overridden.
//  2. Otherwise the literal word "today" forces today's date and requests
//     top insertion so the fresh row stays visible under the header.
//  3. Otherwise a missing, unparseable, or stale candidate (≥3 days from
//     today) is replaced with today.
func Resolve(inputText, candidate string, now time.Time) (string, bool) {
	today := Today(now)

	if tok := tokenRe.FindString(inputText); tok != "" {
		if t, ok := Parse(tok); ok {
			return t.Format(Layout), false
		}
		if d, ok := Parse(candidate); ok {
			return d.Format(Layout), false
		}
		return today, false
	}

	if strings.Contains(strings.ToLower(inputText), "today") {
		return today, true
	}

	d, ok := Parse(candidate)
	if !ok || daysApart(d, now) >= staleThresholdDays {
		return today, false
	}
	return d.Format(Layout), false
}

// Parse reads YYYY-MM-DD or M/D/Y (2-digit years below 70 map to the 2000s,
// the rest to the 1900s). The zero time and false mean unparseable.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if parts := strings.Split(s, "-"); len(parts) == 3 {
		if t, ok := makeDate(parts[0], parts[1], parts[2], false); ok {
			return t, true
		}
	}

	if tok := tokenRe.FindString(s); strings.Contains(tok, "/") {
		parts := strings.Split(tok, "/")
		if t, ok := makeDate(parts[2], parts[0], parts[1], true); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func makeDate(ys, ms, ds string, windowYear bool) (time.Time, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(ds))
	if err != nil {
		return time.Time{}, false
	}
	if windowYear && y < 100 {
		if y < 70 {
			y += 2000
		} else {
			y += 1900
		}
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 30 becomes Mar 2); reject.
	if t.Day() != d || t.Month() != time.Month(m) || t.Year() != y {
		return time.Time{}, false
	}
	return t, true
}

func daysApart(d, now time.Time) int {
	a := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

package source

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts used in exported records.
const (
	layoutDot  = "2006.01.02"
	layoutDash = "2006-01-02"
	layoutTime = "2006-01-02 15:04"
)

var relativeDate = regexp.MustCompile(`(?i)(\d+)\s*(second|minute|min|hour|day|week|month|year)s?\s+ago`)

// ResolveRelativeDate converts "3 days ago" style strings to a YYYY-MM-DD date
// relative to now. A month counts as 30 days and a year as 365. Strings that are
// not relative are returned trimmed; empty input yields def.
func ResolveRelativeDate(s string, now time.Time, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	m := relativeDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return s
	}

	var d time.Duration
	switch strings.ToLower(m[2]) {
	case "second":
		d = time.Duration(n) * time.Second
	case "minute", "min":
		d = time.Duration(n) * time.Minute
	case "hour":
		d = time.Duration(n) * time.Hour
	case "day":
		d = time.Duration(n) * 24 * time.Hour
	case "week":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "month":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "year":
		d = time.Duration(n) * 365 * 24 * time.Hour
	}
	return now.Add(-d).Format(layoutDash)
}

// bloggerDatePattern matches "5 Mar 2024" style dates in Blogger snippets.
const bloggerDatePattern = `\d{1,2} [A-Za-z]{3} \d{4}`

var bloggerDate = regexp.MustCompile(bloggerDatePattern)

// NormalizeBloggerDate finds a "5 Mar 2024" style date in s and formats it
// as 2024.03.05. Without a match it returns def.
func NormalizeBloggerDate(s, def string) string {
	m := bloggerDate.FindString(s)
	if m == "" {
		return def
	}
	t, err := time.Parse("2 Jan 2006", m)
	if err != nil {
		return def
	}
	return t.Format(layoutDot)
}

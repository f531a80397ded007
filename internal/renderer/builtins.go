package renderer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Built-in placeholder names
const (
	VarTitle = "FOAM_TITLE"
	VarSlug  = "FOAM_SLUG"
	VarDate  = "FOAM_DATE"
)

// Title prompt shown when no working title was supplied
const (
	TitlePrompt  = "Enter a title for the new note"
	TitlePrefill = "Title of my New Note"
)

// Context carries the caller-supplied inputs for built-in values
type Context struct {
	// Title is the working title; empty means it must be asked for.
	Title string
	// Date drives the FOAM_DATE_* values. Zero means now.
	Date time.Time
	// DateFormat is the Go layout for FOAM_DATE.
	DateFormat string
}

func (c Context) date() time.Time {
	if c.Date.IsZero() {
		return time.Now()
	}
	return c.Date
}

var dateBuiltins = map[string]func(t time.Time) string{
	"FOAM_DATE_YEAR":             func(t time.Time) string { return strconv.Itoa(t.Year()) },
	"FOAM_DATE_YEAR_SHORT":       func(t time.Time) string { return t.Format("06") },
	"FOAM_DATE_MONTH":            func(t time.Time) string { return t.Format("01") },
	"FOAM_DATE_MONTH_NAME":       func(t time.Time) string { return t.Format("January") },
	"FOAM_DATE_MONTH_NAME_SHORT": func(t time.Time) string { return t.Format("Jan") },
	"FOAM_DATE_DATE":             func(t time.Time) string { return t.Format("02") },
	"FOAM_DATE_DAY_NAME":         func(t time.Time) string { return t.Format("Monday") },
	"FOAM_DATE_DAY_NAME_SHORT":   func(t time.Time) string { return t.Format("Mon") },
	"FOAM_DATE_HOUR":             func(t time.Time) string { return t.Format("15") },
	"FOAM_DATE_MINUTE":           func(t time.Time) string { return t.Format("04") },
	"FOAM_DATE_SECOND":           func(t time.Time) string { return t.Format("05") },
	"FOAM_DATE_SECONDS_UNIX":     func(t time.Time) string { return strconv.FormatInt(t.Unix(), 10) },
}

// IsBuiltin reports whether name is computed rather than declared
func IsBuiltin(name string) bool {
	switch name {
	case VarTitle, VarSlug, VarDate:
		return true
	}
	_, ok := dateBuiltins[name]
	return ok
}

// builtinValue computes name from the context and the values resolved so
// far. FOAM_TITLE only has a value when a working title was supplied.
func builtinValue(name string, rc Context, resolved map[string]string) (string, bool) {
	switch name {
	case VarTitle:
		if rc.Title == "" {
			return "", false
		}
		return rc.Title, true
	case VarSlug:
		title, ok := resolved[VarTitle]
		if !ok {
			title = rc.Title
		}
		if title == "" {
			return "", false
		}
		return Slugify(title), true
	case VarDate:
		layout := rc.DateFormat
		if layout == "" {
			layout = "2006-01-02"
		}
		return rc.date().Format(layout), true
	}
	if fn, ok := dateBuiltins[name]; ok {
		return fn(rc.date()), true
	}
	return "", false
}

// Slugify lower-cases s and joins its alphanumeric runs with dashes
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

// ParseDate interprets expr as an ISO date (2006-01-02) or a natural
// language expression such as "yesterday" or "next friday", relative to now.
func ParseDate(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return now, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", expr, now.Location()); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(expr, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", expr, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", expr)
	}
	return result.Time, nil
}

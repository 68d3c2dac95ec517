package analyzer

import (
	"regexp"
	"strconv"
	"time"

	"github.com/Twibooru/fancy-searchable/fault"
)

// now is a seam for tests; production callers never override it.
var now = time.Now

var isoPrefixRE = regexp.MustCompile(
	`^(\d{4})(?:-(\d{2})(?:-(\d{2})(?:[ T](\d{2})(?::(\d{2})(?::(\d{2}))?)?)?)?)?(Z|[+-]\d{2}:\d{2})?$`,
)

var relativeDateRE = regexp.MustCompile(
	`^(\d+) (second|minute|hour|day|week|fortnight|month|year)s? ago$`,
)

// dateFields is the NillableDateTime of spec §4.2.1a: any component past
// the year may be absent.
type dateFields struct {
	year          int
	month, day    *int
	hour, minute  *int
	sec           *int
	offsetSeconds *int
}

func (d dateFields) location() *time.Location {
	if d.offsetSeconds == nil {
		return time.UTC
	}
	return time.FixedZone("", *d.offsetSeconds)
}

func (d dateFields) rangeStart() time.Time {
	month, day, hour, minute, sec := 1, 1, 0, 0, 0
	if d.month != nil {
		month = *d.month
	}
	if d.day != nil {
		day = *d.day
	}
	if d.hour != nil {
		hour = *d.hour
	}
	if d.minute != nil {
		minute = *d.minute
	}
	if d.sec != nil {
		sec = *d.sec
	}
	return time.Date(d.year, time.Month(month), day, hour, minute, sec, 0, d.location())
}

// rangeEnd is the earliest instant strictly past every instant consistent
// with the given components (spec §4.2.1a range_end: the latest such
// instant, plus one second).
func (d dateFields) rangeEnd() time.Time {
	month := 12
	if d.month != nil {
		month = *d.month
	}
	day := daysInMonth(d.year, month)
	if d.day != nil {
		day = *d.day
	}
	hour, minute, sec := 23, 59, 59
	if d.hour != nil {
		hour = *d.hour
	}
	if d.minute != nil {
		minute = *d.minute
	}
	if d.sec != nil {
		sec = *d.sec
	}
	latest := time.Date(d.year, time.Month(month), day, hour, minute, sec, 0, d.location())
	return latest.Add(time.Second)
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// parseISODate parses spec §4.2.1a's lenient ISO-8601 prefix. It returns
// false when text does not match the pattern at all, distinguishing "not a
// date" (try the relative form next) from a recognized-but-invalid date.
func parseISODate(text string) (dateFields, bool) {
	m := isoPrefixRE.FindStringSubmatch(text)
	if m == nil {
		return dateFields{}, false
	}
	year, _ := strconv.Atoi(m[1])
	d := dateFields{year: year}
	if m[2] != "" {
		d.month = atoiPtr(m[2])
	}
	if m[3] != "" {
		d.day = atoiPtr(m[3])
	}
	if m[4] != "" {
		d.hour = atoiPtr(m[4])
	}
	if m[5] != "" {
		d.minute = atoiPtr(m[5])
	}
	if m[6] != "" {
		d.sec = atoiPtr(m[6])
	}
	if m[7] != "" {
		d.offsetSeconds = parseOffsetSeconds(m[7])
	}
	return d, true
}

func atoiPtr(s string) *int {
	v, _ := strconv.Atoi(s)
	return &v
}

func parseOffsetSeconds(s string) *int {
	if s == "Z" {
		zero := 0
		return &zero
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	hh, _ := strconv.Atoi(s[1:3])
	mm, _ := strconv.Atoi(s[4:6])
	secs := sign * (hh*3600 + mm*60)
	return &secs
}

var relativeUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
}

// relativeDateRange parses spec §4.2.1b's "N <unit> ago" form, returning
// (higher, lower) with higher playing range_end's role and lower range_start's.
func relativeDateRange(text string) (higher, lower time.Time, ok bool) {
	m := relativeDateRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	n, _ := strconv.Atoi(m[1])
	unit := m[2]
	origin := now().UTC()

	if unit == "month" || unit == "year" {
		delta := n
		if unit == "year" {
			delta = n * 12
		}
		higher = addMonthsClamped(origin, -delta)
		lower = addMonthsClamped(origin, -delta-unitMonths(unit))
		return higher, lower, true
	}

	d := relativeUnits[unit]
	if unit == "fortnight" {
		d = 14 * 24 * time.Hour
	}
	higher = origin.Add(-time.Duration(n) * d)
	lower = higher.Add(-d)
	return higher, lower, true
}

func unitMonths(unit string) int {
	if unit == "year" {
		return 12
	}
	return 1
}

// addMonthsClamped shifts t by delta months, clamping the day-of-month to
// the target month's length rather than rolling over (spec §4.2.1:
// "calendar-aware arithmetic ... clamped to month length").
func addMonthsClamped(t time.Time, delta int) time.Time {
	y, m, d := t.Year(), int(t.Month()), t.Day()
	total := y*12 + (m - 1) + delta
	ny := total / 12
	nm := total % 12
	if nm < 0 {
		nm += 12
		ny--
	}
	nm++
	if maxDay := daysInMonth(ny, nm); d > maxDay {
		d = maxDay
	}
	return time.Date(ny, time.Month(nm), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// dateBounds resolves text to a range against the op range-suffix (""
// meaning the default field:value form, or one of gt/gte/lt/lte/eq), per
// the shared mapping in spec §4.2.1 for both the ISO and relative forms.
func dateBounds(text, op string) (bounds, error) {
	if d, ok := parseISODate(text); ok {
		return applyDateSuffix(d.rangeStart(), d.rangeEnd(), op), nil
	}
	if higher, lower, ok := relativeDateRange(text); ok {
		return applyDateSuffix(lower, higher, op), nil
	}
	return bounds{}, fault.New(fault.ValueCode, "not a recognized date: "+text)
}

func applyDateSuffix(rangeStart, rangeEnd time.Time, op string) bounds {
	switch op {
	case "lt":
		return bounds{Lt: rangeStart}
	case "gte":
		return bounds{Gte: rangeStart}
	case "lte":
		return bounds{Lt: rangeEnd}
	case "gt":
		return bounds{Gte: rangeEnd}
	default: // "" or "eq"
		return bounds{Gte: rangeStart, Lt: rangeEnd}
	}
}

/*
Package attendance turns raw punch pairs into attendance rows.

PURPOSE:
  Everything between a raw "in"/"out" string pair and a stored attendance
  row lives here: clock parsing, shift lookup, the per-day calculation, the
  sandwich rule over an employee's sequence of days, and monthly summaries.

KEY CONCEPTS:
  - Clock: a parsed time of day; "no time" is a distinct outcome from midnight
  - Shift: a fixed shift with boundaries, or the open (boundary-less) shift
  - Calculator: one punch pair -> hours, overtime, late/early minutes, status
  - ApplySandwichRule: one employee's sorted rows -> reclassified rows

SEE ALSO:
  - generic/status.go: Status enumeration
  - service/attendance.go: Upload processing built on this package
*/
package attendance

import (
	"strings"
	"time"
)

// =============================================================================
// CLOCK - Parsed time of day
// =============================================================================

// Clock is a time of day. Seconds are kept but never affect minute math.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// Minutes is hour*60 + minute.
func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string {
	return time.Date(0, 1, 1, c.Hour, c.Minute, c.Second, 0, time.UTC).Format("15:04")
}

// Layouts are tried in order; the first that parses wins. Minutes and
// seconds are unpadded layout elements, so "9:5" and "09:05" both read.
var clockLayouts = []string{
	"15:4",
	"15:4:5",
	"3:4 PM",
	"3:4PM",
}

// ParseTime reads a punch string. The second result is false for empty or
// unparseable input ("no time"), which callers must keep distinct from a
// parsed midnight.
func ParseTime(s string) (Clock, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Clock{}, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, true
		}
	}
	return Clock{}, false
}

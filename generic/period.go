package generic

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// PERIOD - Inclusive range of calendar days
// =============================================================================

// Period is an inclusive day range [Start, End]. Attendance listings, leave
// filters and payroll aggregation all select rows by period.
type Period struct {
	Start Date
	End   Date
}

// NewPeriod returns ErrInvalidPeriod when end precedes start.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// Contains returns true if the day is within the period [Start, End]
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day in the period.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Len is the number of days in the period, inclusive of both ends.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// WorkingDays counts the days whose weekday name differs from weekOff.
func (p Period) WorkingDays(weekOff string) int {
	n := 0
	for _, d := range p.Days() {
		if d.WeekdayName() != weekOff {
			n++
		}
	}
	return n
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

func YearPeriod(year int) Period {
	return Period{Start: StartOfYear(year), End: EndOfYear(year)}
}

func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// =============================================================================
// PAY PERIOD - One calendar month of payroll
// =============================================================================

type PayPeriod struct {
	Year  int
	Month time.Month
}

// ParsePayPeriod accepts a month as its English name ("March", "mar") or its
// number ("3").
func ParsePayPeriod(month string, year int) (PayPeriod, error) {
	month = strings.TrimSpace(month)
	if year < 1 {
		return PayPeriod{}, &ValidationError{Field: "year", Message: "must be positive"}
	}
	if n, err := strconv.Atoi(month); err == nil {
		if n < 1 || n > 12 {
			return PayPeriod{}, &ValidationError{Field: "month", Message: fmt.Sprintf("%d is not a month", n)}
		}
		return PayPeriod{Year: year, Month: time.Month(n)}, nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(name, month) || (len(month) == 3 && strings.EqualFold(name[:3], month)) {
			return PayPeriod{Year: year, Month: m}, nil
		}
	}
	return PayPeriod{}, &ValidationError{Field: "month", Message: fmt.Sprintf("unknown month %q", month)}
}

func (pp PayPeriod) Period() Period { return MonthPeriod(pp.Year, pp.Month) }

func (pp PayPeriod) Before(other PayPeriod) bool {
	if pp.Year != other.Year {
		return pp.Year < other.Year
	}
	return pp.Month < other.Month
}

// String renders "March 2026".
func (pp PayPeriod) String() string {
	return fmt.Sprintf("%s %d", pp.Month, pp.Year)
}

// Slug renders "March_2026", the suffix of the period's payroll file name.
func (pp PayPeriod) Slug() string {
	return fmt.Sprintf("%s_%d", pp.Month, pp.Year)
}

package tabular

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// LENIENT PARSING - Bad input coerces to a safe default, never an error
// =============================================================================

// ParseFlag accepts yes/true/1/y in any case.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "y":
		return true
	}
	return false
}

// FormatFlag writes the form ParseFlag reads back.
func FormatFlag(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ParseAmount returns 0 for blank, malformed or negative input. Thousands
// separators and a leading currency marker are tolerated.
func ParseAmount(s string) decimal.Decimal {
	d := ParseSignedAmount(s)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseSignedAmount is ParseAmount for computed figures, where a negative
// value is kept.
func ParseSignedAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(s, "Rs.")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseCount reads a whole non-negative number; "3.0" is 3.
func ParseCount(s string) int {
	return int(ParseAmount(s).IntPart())
}

// FormatAmount writes two decimal places.
func FormatAmount(d decimal.Decimal) string { return d.StringFixed(2) }

var dateLayouts = []string{
	generic.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"02-Jan-2006",
	"01/02/2006",
}

// ParseDate accepts the layouts above and Excel serial day numbers.
func ParseDate(s string) (generic.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return generic.Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return generic.DateOf(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return generic.DateOf(t), true
		}
	}
	return generic.Date{}, false
}

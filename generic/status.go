package generic

import (
	"fmt"
	"strings"
)

// =============================================================================
// ATTENDANCE STATUS - Tagged enumeration
// =============================================================================

// StatusKind is the variant of an attendance status.
type StatusKind int

const (
	KindUnrecognized StatusKind = iota
	KindPresent
	KindAbsent
	KindSandwichAbsent
	KindHalfDay
	KindWeekOff
	KindHoliday
	KindOnLeave
	KindMissingPunch
)

// PunchSide records which punch is missing in a KindMissingPunch status.
type PunchSide int

const (
	MissingNone PunchSide = iota
	MissingBoth
	MissingIn
	MissingOut
)

// StatusCategory groups statuses for filtering and reporting.
type StatusCategory string

const (
	CategoryWorked       StatusCategory = "worked"
	CategoryAbsent       StatusCategory = "absent"
	CategoryOff          StatusCategory = "off"
	CategoryLeave        StatusCategory = "leave"
	CategoryMissingPunch StatusCategory = "missing_punch"
	CategoryOther        StatusCategory = "other"
)

// AttendanceStatus is comparable with ==. Labels of unrecognized statuses
// read from storage are kept verbatim so they survive a rewrite.
type AttendanceStatus struct {
	Kind    StatusKind
	Missing PunchSide
	raw     string
}

var (
	StatusPresent         = AttendanceStatus{Kind: KindPresent}
	StatusAbsent          = AttendanceStatus{Kind: KindAbsent}
	StatusSandwichAbsent  = AttendanceStatus{Kind: KindSandwichAbsent}
	StatusHalfDay         = AttendanceStatus{Kind: KindHalfDay}
	StatusWeekOff         = AttendanceStatus{Kind: KindWeekOff}
	StatusHoliday         = AttendanceStatus{Kind: KindHoliday}
	StatusOnLeave         = AttendanceStatus{Kind: KindOnLeave}
	StatusMissingPunch    = AttendanceStatus{Kind: KindMissingPunch, Missing: MissingBoth}
	StatusMissingInPunch  = AttendanceStatus{Kind: KindMissingPunch, Missing: MissingIn}
	StatusMissingOutPunch = AttendanceStatus{Kind: KindMissingPunch, Missing: MissingOut}
)

var statusLabels = map[AttendanceStatus]string{
	StatusPresent:         "Present",
	StatusAbsent:          "Absent",
	StatusSandwichAbsent:  "Absent (Sandwich)",
	StatusHalfDay:         "Half Day",
	StatusWeekOff:         "Week Off",
	StatusHoliday:         "Holiday",
	StatusOnLeave:         "On Leave",
	StatusMissingPunch:    "Missing Punch",
	StatusMissingInPunch:  "Missing IN Punch",
	StatusMissingOutPunch: "Missing OUT Punch",
}

// KnownStatuses lists every recognized status in display order.
func KnownStatuses() []AttendanceStatus {
	return []AttendanceStatus{
		StatusPresent, StatusAbsent, StatusSandwichAbsent, StatusHalfDay,
		StatusWeekOff, StatusHoliday, StatusOnLeave,
		StatusMissingPunch, StatusMissingInPunch, StatusMissingOutPunch,
	}
}

// ParseAttendanceStatus matches a label case-insensitively. The second result
// is false for unknown labels; the returned status then carries the label.
func ParseAttendanceStatus(label string) (AttendanceStatus, bool) {
	label = strings.TrimSpace(label)
	for s, l := range statusLabels {
		if strings.EqualFold(l, label) {
			return s, true
		}
	}
	return AttendanceStatus{Kind: KindUnrecognized, raw: label}, false
}

func (s AttendanceStatus) String() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s.raw
}

func (s AttendanceStatus) IsZero() bool { return s == AttendanceStatus{} }

func (s AttendanceStatus) IsMissingPunch() bool { return s.Kind == KindMissingPunch }

func (s AttendanceStatus) Category() StatusCategory {
	switch s.Kind {
	case KindPresent, KindHalfDay:
		return CategoryWorked
	case KindAbsent, KindSandwichAbsent:
		return CategoryAbsent
	case KindWeekOff, KindHoliday:
		return CategoryOff
	case KindOnLeave:
		return CategoryLeave
	case KindMissingPunch:
		return CategoryMissingPunch
	default:
		return CategoryOther
	}
}

func (s AttendanceStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *AttendanceStatus) UnmarshalText(b []byte) error {
	parsed, ok := ParseAttendanceStatus(string(b))
	if !ok {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown attendance status %q", string(b))}
	}
	*s = parsed
	return nil
}

// ParseStatusCategory accepts the category names used in filters.
func ParseStatusCategory(s string) (StatusCategory, bool) {
	switch c := StatusCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryWorked, CategoryAbsent, CategoryOff, CategoryLeave, CategoryMissingPunch, CategoryOther:
		return c, true
	}
	return "", false
}

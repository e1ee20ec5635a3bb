package attendance

import "github.com/warp/payroll-engine/generic"

// =============================================================================
// SHIFT RESOLUTION
// =============================================================================

// Shift is the boundary set a punch pair is measured against. An open shift
// has no boundaries: only elapsed time is computed.
type Shift struct {
	Name        string
	Open        bool
	StartMinute int
	EndMinute   int
}

// ResolveShift looks the name up among the configured fixed shifts by exact
// match. Unknown names and the "Open Shift" name resolve to an open shift.
func ResolveShift(name string, rules *generic.Rules) Shift {
	if name == generic.OpenShiftName {
		return OpenShift(name)
	}
	s, ok := rules.Shift(name)
	if !ok {
		return OpenShift(name)
	}
	return Shift{Name: s.Name, StartMinute: s.StartMinute, EndMinute: s.EndMinute}
}

// ResolveEmployeeShift honors the employee's open-shift flag before looking
// up the named shift.
func ResolveEmployeeShift(emp generic.Employee, rules *generic.Rules) Shift {
	if emp.OpenShift {
		return OpenShift(emp.Shift)
	}
	return ResolveShift(emp.Shift, rules)
}

func OpenShift(name string) Shift {
	return Shift{Name: name, Open: true}
}

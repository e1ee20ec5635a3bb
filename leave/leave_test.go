package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/generic/store"
	"github.com/warp/payroll-engine/leave"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) generic.Date {
	return generic.NewDate(year, month, day)
}

func newService(t *testing.T) (*leave.RequestService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveEmployees(context.Background(), []generic.Employee{
		{Code: "E001", Name: "Asha Rao", Status: generic.EmployeeActive},
	}))
	rs := leave.NewRequestService(mem, mem, nil)
	rs.Today = func() generic.Date { return date(2026, time.March, 2) }
	return rs, mem
}

func record(typ generic.LeaveType, from generic.Date, days int64, status generic.LeaveStatus) generic.LeaveRecord {
	return generic.LeaveRecord{
		Code: "E001", Type: typ, From: from, To: from.AddDays(int(days) - 1),
		Days: decimal.NewFromInt(days), Status: status,
	}
}

// =============================================================================
// BALANCE TESTS
// =============================================================================

func TestBalances_RejectedExcluded(t *testing.T) {
	// GIVEN: PL entitlement 12, two approved PL applications of 2 and 3 days,
	//        one rejected application of 3 days
	// WHEN: Computing the 2026 balance
	// THEN: taken=5, balance=7

	rules := factory.DefaultRules()
	records := []generic.LeaveRecord{
		record(generic.LeavePL, date(2026, time.January, 5), 2, generic.LeaveApproved),
		record(generic.LeavePL, date(2026, time.April, 6), 3, generic.LeaveApproved),
		record(generic.LeavePL, date(2026, time.June, 1), 3, generic.LeaveRejected),
	}

	balances := leave.Balances("E001", 2026, rules, records)
	require.Len(t, balances, 3)

	pl := balances[0]
	assert.Equal(t, generic.LeavePL, pl.Type)
	assert.True(t, pl.Entitled.Value.Equal(decimal.NewFromInt(12)))
	assert.True(t, pl.Taken.Value.Equal(decimal.NewFromInt(5)), "taken = %s", pl.Taken)
	assert.True(t, pl.Balance.Value.Equal(decimal.NewFromInt(7)), "balance = %s", pl.Balance)
}

func TestBalances_IgnoresPendingOtherYearsAndOtherEmployees(t *testing.T) {
	rules := factory.DefaultRules()
	other := record(generic.LeaveCL, date(2026, time.February, 2), 1, generic.LeaveApproved)
	other.Code = "E002"
	records := []generic.LeaveRecord{
		record(generic.LeaveCL, date(2026, time.February, 2), 2, generic.LeavePending),
		record(generic.LeaveCL, date(2025, time.December, 31), 2, generic.LeaveApproved),
		other,
	}

	for _, b := range leave.Balances("E001", 2026, rules, records) {
		assert.True(t, b.Taken.IsZero(), "%s taken = %s", b.Type, b.Taken)
		assert.True(t, b.Balance.Value.Equal(b.Entitled.Value))
	}
}

func TestBalances_NeverNegative(t *testing.T) {
	// GIVEN: SL entitlement 6 and 9 approved SL days
	// THEN: balance floors at zero
	rules := factory.DefaultRules()
	records := []generic.LeaveRecord{
		record(generic.LeaveSL, date(2026, time.May, 4), 9, generic.LeaveApproved),
	}

	sl := leave.Balances("E001", 2026, rules, records)[2]
	assert.Equal(t, generic.LeaveSL, sl.Type)
	assert.True(t, sl.Taken.Value.Equal(decimal.NewFromInt(9)))
	assert.True(t, sl.Balance.IsZero())
	assert.Equal(t, generic.UnitDays, sl.Balance.Unit)
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestApply_CreatesPendingWithInclusiveDays(t *testing.T) {
	rs, _ := newService(t)
	ctx := context.Background()

	rec, err := rs.Apply(ctx, leave.Application{
		Code: " e001 ", Type: "pl", From: "2026-03-10", To: "2026-03-12", Reason: "family",
	})
	require.NoError(t, err)

	assert.Equal(t, generic.EmployeeCode("E001"), rec.Code)
	assert.Equal(t, "Asha Rao", rec.Name)
	assert.Equal(t, generic.LeavePL, rec.Type)
	assert.True(t, rec.Days.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, generic.LeavePending, rec.Status)
	assert.Equal(t, "2026-03-02", rec.AppliedOn.String())
}

func TestApply_Rejections(t *testing.T) {
	rs, _ := newService(t)
	ctx := context.Background()

	_, err := rs.Apply(ctx, leave.Application{Code: "E001", Type: "XL", From: "2026-03-10", To: "2026-03-10"})
	assert.ErrorIs(t, err, generic.ErrValidation)

	_, err = rs.Apply(ctx, leave.Application{Code: "E001", Type: "CL", From: "2026-03-12", To: "2026-03-10"})
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, err = rs.Apply(ctx, leave.Application{Code: "E999", Type: "CL", From: "2026-03-10", To: "2026-03-10"})
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	_, err = rs.Apply(ctx, leave.Application{Type: "CL", From: "2026-03-10", To: "2026-03-10"})
	var verr *generic.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ecode", verr.Field)
}

func TestApproveThenReject_IsInvalidTransition(t *testing.T) {
	// GIVEN: A pending application
	// WHEN: Approved, then rejected
	// THEN: Approval succeeds; rejection fails and the record stays Approved

	rs, _ := newService(t)
	ctx := context.Background()
	rec, err := rs.Apply(ctx, leave.Application{Code: "E001", Type: "CL", From: "2026-03-10", To: "2026-03-10"})
	require.NoError(t, err)

	approved, err := rs.Approve(ctx, rec.ID())
	require.NoError(t, err)
	assert.Equal(t, generic.LeaveApproved, approved.Status)

	_, err = rs.Reject(ctx, rec.ID())
	var terr *generic.TransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, generic.LeaveApproved, terr.From)
	assert.Equal(t, generic.LeaveRejected, terr.To)

	got, err := rs.Get(ctx, rec.ID())
	require.NoError(t, err)
	assert.Equal(t, generic.LeaveApproved, got.Status)
}

func TestApply_DuplicateKey(t *testing.T) {
	rs, _ := newService(t)
	ctx := context.Background()
	app := leave.Application{Code: "E001", Type: "SL", From: "2026-04-01", To: "2026-04-02"}

	rec, err := rs.Apply(ctx, app)
	require.NoError(t, err)

	_, err = rs.Apply(ctx, app)
	assert.ErrorIs(t, err, generic.ErrDuplicateLeave)

	_, err = rs.Reject(ctx, rec.ID())
	require.NoError(t, err)

	again, err := rs.Apply(ctx, app)
	require.NoError(t, err)
	assert.Equal(t, generic.LeavePending, again.Status)
	assert.Equal(t, rec.ID(), again.ID())
}

func TestTransition_UnknownID(t *testing.T) {
	rs, _ := newService(t)
	_, err := rs.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, generic.ErrRecordNotFound)
}

func TestList_Filters(t *testing.T) {
	rs, _ := newService(t)
	ctx := context.Background()
	_, err := rs.Apply(ctx, leave.Application{Code: "E001", Type: "PL", From: "2026-03-10", To: "2026-03-11"})
	require.NoError(t, err)
	cl, err := rs.Apply(ctx, leave.Application{Code: "E001", Type: "CL", From: "2026-05-04", To: "2026-05-04"})
	require.NoError(t, err)
	_, err = rs.Approve(ctx, cl.ID())
	require.NoError(t, err)

	all, err := rs.List(ctx, leave.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := rs.List(ctx, leave.Filter{Status: generic.LeaveApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, generic.LeaveCL, approved[0].Type)

	march := generic.MonthPeriod(2026, time.March)
	inMarch, err := rs.List(ctx, leave.Filter{Period: &march})
	require.NoError(t, err)
	require.Len(t, inMarch, 1)
	assert.Equal(t, generic.LeavePL, inMarch[0].Type)
}

package domain

import "github.com/shopspring/decimal"

// LeaveBalance amounts arrive as decimal strings.
type LeaveBalance struct {
	LeaveTypeID    int64           `json:"leave_type_id"`
	LeaveTypeName  string          `json:"leave_type_name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Used           decimal.Decimal `json:"used"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// LeaveTotals sums a set of balances.
type LeaveTotals struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Used           decimal.Decimal `json:"used"`
	Remaining      decimal.Decimal `json:"remaining"`
}

// SumLeaveBalances adds up every balance column.
func SumLeaveBalances(balances []LeaveBalance) LeaveTotals {
	t := LeaveTotals{OpeningBalance: decimal.Zero, Used: decimal.Zero, Remaining: decimal.Zero}
	for _, b := range balances {
		t.OpeningBalance = t.OpeningBalance.Add(b.OpeningBalance)
		t.Used = t.Used.Add(b.Used)
		t.Remaining = t.Remaining.Add(b.Remaining)
	}
	return t
}

// LeaveRequestInput is an employee's request for time off.
type LeaveRequestInput struct {
	LeaveType int64  `json:"leave_type" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason,omitempty" validate:"max=1000"`
}

// LeaveRequest is the backend's view of a submitted request.
type LeaveRequest struct {
	ID        ID     `json:"id"`
	LeaveType int64  `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status,omitempty"`
}

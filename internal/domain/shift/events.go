package shift

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventShiftOpened       = "ShiftOpened"
	EventShiftClosed       = "ShiftClosed"
	EventShiftSaleRecorded = "ShiftSaleRecorded"
)

type ShiftOpened struct {
	ShiftID  string    `json:"shift_id"`
	StaffID  string    `json:"staff_id"`
	OpenedAt time.Time `json:"opened_at"`
}

type ShiftClosed struct {
	ShiftID    string          `json:"shift_id"`
	StaffID    string          `json:"staff_id"`
	TotalSales decimal.Decimal `json:"total_sales"`
	ClosedAt   time.Time       `json:"closed_at"`
}

type ShiftSaleRecorded struct {
	ShiftID    string          `json:"shift_id"`
	StaffID    string          `json:"staff_id"`
	Amount     decimal.Decimal `json:"amount"`
	TotalSales decimal.Decimal `json:"total_sales"`
	RecordedAt time.Time       `json:"recorded_at"`
}

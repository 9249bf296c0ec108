package shift

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/example/nova-commerce/internal/infrastructure/store"
	"github.com/example/nova-commerce/internal/logger"
)

const AggregateType = "Shift"

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftAlreadyActive = errors.New("staff member already has an active shift")
	ErrShiftClosed        = errors.New("shift is already closed")
	ErrStaffRequired      = errors.New("staff_id is required")
	ErrNegativeSale       = errors.New("sale amount must not be negative")
)

// Shift is a staff work session. TotalSales only grows while active and is
// frozen once closed.
type Shift struct {
	ID         string          `json:"id"`
	StaffID    string          `json:"staff_id"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    *time.Time      `json:"end_time,omitempty"`
	TotalSales decimal.Decimal `json:"total_sales"`
	Status     Status          `json:"status"`
}

func (s Shift) clone() Shift {
	out := s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	return out
}

// Ledger tracks shifts, newest first, with at most one active shift per
// staff id.
type Ledger struct {
	mu         sync.RWMutex
	shifts     []Shift
	active     map[string]string // staffID -> shiftID
	now        func() time.Time
	eventStore store.EventStoreInterface
	log        *logrus.Entry
}

func NewLedger(es store.EventStoreInterface, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		active:     make(map[string]string),
		now:        now,
		eventStore: es,
		log:        logger.For("shifts"),
	}
}

func (l *Ledger) indexOf(id string) int {
	for i, s := range l.shifts {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// nextID derives SHT-<unix millis>, bumping the millisecond on collision.
func (l *Ledger) nextID(t time.Time) string {
	ms := t.UnixMilli()
	for {
		id := fmt.Sprintf("SHT-%d", ms)
		if l.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

// Open starts a shift. If the staff member already has an active shift it
// is returned together with ErrShiftAlreadyActive.
func (l *Ledger) Open(ctx context.Context, staffID string) (Shift, error) {
	if staffID == "" {
		return Shift{}, ErrStaffRequired
	}

	l.mu.Lock()
	if id, ok := l.active[staffID]; ok {
		existing := l.shifts[l.indexOf(id)].clone()
		l.mu.Unlock()
		return existing, ErrShiftAlreadyActive
	}
	now := l.now()
	s := Shift{
		ID:         l.nextID(now),
		StaffID:    staffID,
		StartTime:  now,
		TotalSales: decimal.Zero,
		Status:     StatusActive,
	}
	l.shifts = append([]Shift{s}, l.shifts...)
	l.active[staffID] = s.ID
	l.mu.Unlock()

	event := ShiftOpened{ShiftID: s.ID, StaffID: staffID, OpenedAt: now}
	if _, err := l.eventStore.Append(ctx, s.ID, AggregateType, EventShiftOpened, event); err != nil {
		return Shift{}, fmt.Errorf("failed to record shift opened: %w", err)
	}
	l.log.WithFields(logrus.Fields{"shift_id": s.ID, "staff_id": staffID}).Info("shift opened")
	return s, nil
}

// Close ends a shift. TotalSales is left as is.
func (l *Ledger) Close(ctx context.Context, id string) (Shift, error) {
	l.mu.Lock()
	i := l.indexOf(id)
	if i < 0 {
		l.mu.Unlock()
		return Shift{}, fmt.Errorf("%w: %s", ErrShiftNotFound, id)
	}
	if l.shifts[i].Status == StatusClosed {
		l.mu.Unlock()
		return Shift{}, fmt.Errorf("%w: %s", ErrShiftClosed, id)
	}
	end := l.now()
	l.shifts[i].Status = StatusClosed
	l.shifts[i].EndTime = &end
	delete(l.active, l.shifts[i].StaffID)
	s := l.shifts[i].clone()
	l.mu.Unlock()

	event := ShiftClosed{ShiftID: s.ID, StaffID: s.StaffID, TotalSales: s.TotalSales, ClosedAt: end}
	if _, err := l.eventStore.Append(ctx, s.ID, AggregateType, EventShiftClosed, event); err != nil {
		return Shift{}, fmt.Errorf("failed to record shift closed: %w", err)
	}
	l.log.WithFields(logrus.Fields{
		"shift_id":    s.ID,
		"staff_id":    s.StaffID,
		"total_sales": s.TotalSales.String(),
	}).Info("shift closed")
	return s, nil
}

// RecordSale adds amount to the staff member's active shift. It reports
// false and changes nothing when no shift is active.
func (l *Ledger) RecordSale(ctx context.Context, staffID string, amount decimal.Decimal) (Shift, bool, error) {
	if amount.IsNegative() {
		return Shift{}, false, ErrNegativeSale
	}

	l.mu.Lock()
	id, ok := l.active[staffID]
	if !ok {
		l.mu.Unlock()
		return Shift{}, false, nil
	}
	i := l.indexOf(id)
	l.shifts[i].TotalSales = l.shifts[i].TotalSales.Add(amount)
	s := l.shifts[i].clone()
	l.mu.Unlock()

	event := ShiftSaleRecorded{
		ShiftID:    s.ID,
		StaffID:    staffID,
		Amount:     amount,
		TotalSales: s.TotalSales,
		RecordedAt: l.now(),
	}
	if _, err := l.eventStore.Append(ctx, s.ID, AggregateType, EventShiftSaleRecorded, event); err != nil {
		return Shift{}, false, fmt.Errorf("failed to record shift sale: %w", err)
	}
	return s, true, nil
}

// Active returns the staff member's active shift, if any.
func (l *Ledger) Active(staffID string) (Shift, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.active[staffID]
	if !ok {
		return Shift{}, false
	}
	return l.shifts[l.indexOf(id)].clone(), true
}

func (l *Ledger) Get(id string) (Shift, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexOf(id)
	if i < 0 {
		return Shift{}, fmt.Errorf("%w: %s", ErrShiftNotFound, id)
	}
	return l.shifts[i].clone(), nil
}

// List returns every shift, newest first.
func (l *Ledger) List() []Shift {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Shift, len(l.shifts))
	for i, s := range l.shifts {
		out[i] = s.clone()
	}
	return out
}

// ListByStaff returns one staff member's shifts, newest first.
func (l *Ledger) ListByStaff(staffID string) []Shift {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []Shift
	for _, s := range l.shifts {
		if s.StaffID == staffID {
			out = append(out, s.clone())
		}
	}
	return out
}

func (l *Ledger) Snapshot() []Shift {
	return l.List()
}

func (l *Ledger) Restore(shifts []Shift) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shifts = make([]Shift, len(shifts))
	l.active = make(map[string]string)
	for i, s := range shifts {
		l.shifts[i] = s.clone()
		if s.Status == StatusActive {
			l.active[s.StaffID] = s.ID
		}
	}
}

package taxperiod

import (
	"context"
	"math"
	"testing"
	"time"
)

type fakeStore struct {
	settings map[string]string
	rows     []TaxRow

	lastFrom time.Time
	lastTo   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[string]string)}
}

func (f *fakeStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	value, ok := f.settings[key]
	return value, ok, nil
}

func (f *fakeStore) UpsertSetting(_ context.Context, key, value string) error {
	f.settings[key] = value
	return nil
}

func (f *fakeStore) TaxRowsBetween(_ context.Context, from, to time.Time) ([]TaxRow, error) {
	f.lastFrom, f.lastTo = from, to
	out := make([]TaxRow, 0)
	for _, row := range f.rows {
		if !row.CreatedAt.Before(from) && row.CreatedAt.Before(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestActiveWindowQuarterFallback(t *testing.T) {
	now := time.Date(2025, time.May, 15, 10, 30, 0, 0, time.UTC)
	tracker := New(newFakeStore(), fixedNow(now))

	window, err := tracker.ActiveWindow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.Source != SourceDefault {
		t.Fatalf("expected default source, got %s", window.Source)
	}
	wantStart := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	if !window.Start.Equal(wantStart) || !window.End.Equal(wantEnd) {
		t.Fatalf("expected [%v, %v), got [%v, %v)", wantStart, wantEnd, window.Start, window.End)
	}
}

func TestActiveWindowConfiguredClampsMonthEnd(t *testing.T) {
	store := newFakeStore()
	store.settings[SettingKey] = "2025-01-31"
	tracker := New(store, fixedNow(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))

	window, err := tracker.ActiveWindow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.Source != SourceConfigured {
		t.Fatalf("expected configured source, got %s", window.Source)
	}
	wantEnd := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)
	if !window.End.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, window.End)
	}
}

func TestActiveWindowBadSettingFallsBack(t *testing.T) {
	store := newFakeStore()
	store.settings[SettingKey] = "not-a-date"
	now := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	tracker := New(store, fixedNow(now))

	window, err := tracker.ActiveWindow(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.Source != SourceDefault {
		t.Fatalf("expected fallback to quarter, got %s", window.Source)
	}
	if !window.Start.Equal(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", window.Start)
	}
}

func TestComputeKpi(t *testing.T) {
	now := time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	store.rows = []TaxRow{
		{Tax: 15, CreatedAt: time.Date(2025, time.April, 2, 12, 0, 0, 0, time.UTC)},
		{Tax: 8.48, CreatedAt: time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)},
		{Tax: math.NaN(), CreatedAt: time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC)},
		{Tax: 100, CreatedAt: time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC)}, // before window
		{Tax: 100, CreatedAt: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)},     // at end, excluded
	}
	tracker := New(store, fixedNow(now))

	kpi, err := tracker.ComputeKpi(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(kpi.TaxTotal-23.48) > 1e-9 {
		t.Fatalf("expected tax total 23.48, got %v", kpi.TaxTotal)
	}
	// 2025-05-15 to 2025-07-01 is 47 whole days.
	if kpi.DaysLeft != 47 {
		t.Fatalf("expected 47 days left, got %d", kpi.DaysLeft)
	}
}

func TestComputeKpiClosedWindow(t *testing.T) {
	store := newFakeStore()
	store.settings[SettingKey] = "2024-01-01"
	tracker := New(store, fixedNow(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))

	kpi, err := tracker.ComputeKpi(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kpi.DaysLeft != 0 {
		t.Fatalf("expected 0 days left for an expired window, got %d", kpi.DaysLeft)
	}
}

// Resetting the window must be visible on the very next KPI read.
func TestResetToTodayReadAfterWrite(t *testing.T) {
	now := time.Date(2025, time.June, 10, 14, 0, 0, 0, time.UTC)
	store := newFakeStore()
	tracker := New(store, fixedNow(now))

	window, err := tracker.ResetToToday(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	if !window.Start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, window.Start)
	}

	kpi, err := tracker.ComputeKpi(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kpi.Window.Source != SourceConfigured {
		t.Fatal("reset window must read back as configured")
	}
	if !kpi.Window.Start.Equal(wantStart) {
		t.Fatalf("expected window start %v after reset, got %v", wantStart, kpi.Window.Start)
	}
	if !kpi.Window.End.Equal(time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window end %v", kpi.Window.End)
	}
}

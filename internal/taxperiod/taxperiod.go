// Package taxperiod tracks the rolling 3-month VAT collection window and
// the tax collected inside it.
package taxperiod

import (
	"context"
	"math"
	"time"

	"workshop-backoffice-service/internal/dates"
)

// SettingKey is the app_settings key holding the active window start.
const SettingKey = "active_tax_start"

// Source tells configured window starts apart from the calendar-quarter
// fallback, so the silent default substitution stays visible.
type Source string

const (
	SourceConfigured Source = "configured"
	SourceDefault    Source = "default"
)

// Window is the half-open [Start, End) tax collection interval.
type Window struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Source Source    `json:"source"`
}

type Kpi struct {
	TaxTotal float64 `json:"taxTotal"`
	DaysLeft int     `json:"daysLeft"`
	Window   Window  `json:"window"`
}

// TaxRow is one ticket's tax contribution inside a candidate window.
type TaxRow struct {
	Tax       float64
	CreatedAt time.Time
}

// Store is the slice of the data layer the tracker needs. Reads after
// ResetToToday must observe the new setting immediately.
type Store interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	UpsertSetting(ctx context.Context, key, value string) error
	TaxRowsBetween(ctx context.Context, from, to time.Time) ([]TaxRow, error)
}

type Tracker struct {
	store Store
	now   func() time.Time
}

func New(store Store, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, now: now}
}

// ActiveWindow reads the persisted window start and extends it three
// calendar months, clamping to the last valid day of the target month.
// Absent or unparseable settings fall back to the current calendar quarter.
func (t *Tracker) ActiveWindow(ctx context.Context) (Window, error) {
	value, ok, err := t.store.GetSetting(ctx, SettingKey)
	if err != nil {
		return Window{}, err
	}
	if ok {
		if start, parseErr := parseStart(value); parseErr == nil {
			start = dates.StartOfDay(start)
			return Window{
				Start:  start,
				End:    dates.AddMonthsClamped(start, 3),
				Source: SourceConfigured,
			}, nil
		}
	}

	start := dates.QuarterStart(t.now())
	return Window{
		Start:  start,
		End:    dates.AddMonthsClamped(start, 3),
		Source: SourceDefault,
	}, nil
}

// ComputeKpi sums the tax collected on tickets created inside the active
// window, ignoring non-finite values, and counts whole days until the
// window closes.
func (t *Tracker) ComputeKpi(ctx context.Context) (Kpi, error) {
	window, err := t.ActiveWindow(ctx)
	if err != nil {
		return Kpi{}, err
	}

	rows, err := t.store.TaxRowsBetween(ctx, window.Start, window.End)
	if err != nil {
		return Kpi{}, err
	}

	var total float64
	for _, row := range rows {
		if math.IsNaN(row.Tax) || math.IsInf(row.Tax, 0) {
			continue
		}
		total += row.Tax
	}

	daysLeft := 0
	if remaining := window.End.Sub(t.now()); remaining > 0 {
		daysLeft = int(math.Ceil(remaining.Hours() / 24))
	}

	return Kpi{TaxTotal: total, DaysLeft: daysLeft, Window: window}, nil
}

// ResetToToday starts a fresh window at today's midnight. Callers see the
// new window on the next ComputeKpi without any caching in between.
func (t *Tracker) ResetToToday(ctx context.Context) (Window, error) {
	start := dates.StartOfDay(t.now())
	if err := t.store.UpsertSetting(ctx, SettingKey, start.Format("2006-01-02")); err != nil {
		return Window{}, err
	}
	return Window{
		Start:  start,
		End:    dates.AddMonthsClamped(start, 3),
		Source: SourceConfigured,
	}, nil
}

func parseStart(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{"2006-01-02", time.RFC3339, dates.SQLLiteralLayout} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

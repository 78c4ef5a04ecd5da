// Package reports aggregates ticket rows into the dashboard figures:
// period revenue, status buckets, cycle time and per-worker rollups. The
// rows arrive already filtered by the store; everything here is a pure
// reduction over them.
package reports

import (
	"fmt"
	"sort"
	"strings"
)

// Fixed status vocabulary in display order. CANCELLED is terminal.
const (
	StatusNew          = "NEW"
	StatusReview       = "REVIEW"
	StatusInProgress   = "IN_PROGRESS"
	StatusWaitingParts = "WAITING_PARTS"
	StatusReady        = "READY"
	StatusDelivered    = "DELIVERED"
	StatusCancelled    = "CANCELLED"
)

var StatusOrder = []string{
	StatusNew,
	StatusReview,
	StatusInProgress,
	StatusWaitingParts,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// CanonicalStatus matches a stored status against the vocabulary,
// case-insensitively. Unrecognized values report ok=false and are skipped
// by the bucketing, not treated as errors.
func CanonicalStatus(s string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, status := range StatusOrder {
		if upper == status {
			return status, true
		}
	}
	return "", false
}

// TicketRow is the slice of a ticket the aggregations need.
type TicketRow struct {
	ID         int64
	WorkerID   *int64
	WorkerName string
	Price      float64
	Discount   float64
	Status     string
	CreatedAt  string // naive storage literal
	UpdatedAt  string
	CycleHours *float64 // updated_at - created_at, resolved by the store
}

type Summary struct {
	// Revenue keeps the legacy formula sum(price - discount). price is
	// already net of discount, so this under-counts by the discount a
	// second time; see GrossRevenue. Preserved for report compatibility.
	Revenue float64 `json:"revenue"`
	// GrossRevenue is sum(price) and what the revenue arguably should be.
	GrossRevenue      float64        `json:"grossRevenue"`
	Tickets           int            `json:"tickets"`
	WaitingParts      int            `json:"waitingParts"`
	AvgCycleTimeHours *float64       `json:"avgCycleTimeHours"`
	ByStatus          map[string]int `json:"byStatus"`
}

// Summarize reduces the rows into the period summary. Cycle time averages
// only the rows with a non-negative duration; AvgCycleTimeHours is nil when
// none qualify.
func Summarize(rows []TicketRow) Summary {
	summary := Summary{ByStatus: make(map[string]int, len(StatusOrder))}
	for _, status := range StatusOrder {
		summary.ByStatus[status] = 0
	}

	var cycleSum float64
	var cycleCount int
	for _, row := range rows {
		summary.Revenue += row.Price - row.Discount
		summary.GrossRevenue += row.Price
		summary.Tickets++

		if status, ok := CanonicalStatus(row.Status); ok {
			summary.ByStatus[status]++
			if status == StatusWaitingParts {
				summary.WaitingParts++
			}
		}

		if row.CycleHours != nil && *row.CycleHours >= 0 {
			cycleSum += *row.CycleHours
			cycleCount++
		}
	}

	if cycleCount > 0 {
		avg := cycleSum / float64(cycleCount)
		summary.AvgCycleTimeHours = &avg
	}
	return summary
}

type WorkerRevenue struct {
	WorkerID   string  `json:"workerId"`
	WorkerName string  `json:"workerName"`
	Revenue    float64 `json:"revenue"`
}

// RevenueByWorker groups rows by worker and sums the legacy revenue
// formula per group. Rows with no worker land in the "unknown" bucket;
// missing display names fall back to "#<id>". Sorted descending by revenue.
func RevenueByWorker(rows []TicketRow) []WorkerRevenue {
	groups := make(map[string]*WorkerRevenue)
	order := make([]string, 0)

	for _, row := range rows {
		id := "unknown"
		if row.WorkerID != nil {
			id = fmt.Sprintf("%d", *row.WorkerID)
		}
		group, ok := groups[id]
		if !ok {
			name := strings.TrimSpace(row.WorkerName)
			if name == "" {
				name = "#" + id
			}
			group = &WorkerRevenue{WorkerID: id, WorkerName: name}
			groups[id] = group
			order = append(order, id)
		}
		group.Revenue += row.Price - row.Discount
	}

	out := make([]WorkerRevenue, 0, len(order))
	for _, id := range order {
		out = append(out, *groups[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

package reports

import (
	"math"
	"testing"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt64(v int64) *int64     { return &v }

func TestSummarizeRevenueKeepsLegacyFormula(t *testing.T) {
	rows := []TicketRow{
		{ID: 1, Price: 90, Discount: 10},
		{ID: 2, Price: 100, Discount: 0},
	}
	summary := Summarize(rows)
	if summary.Revenue != 180 {
		t.Fatalf("expected legacy revenue 180, got %v", summary.Revenue)
	}
	if summary.GrossRevenue != 190 {
		t.Fatalf("expected gross revenue 190, got %v", summary.GrossRevenue)
	}
	if summary.Tickets != 2 {
		t.Fatalf("expected 2 tickets, got %d", summary.Tickets)
	}
}

// Bucket counts over the vocabulary sum to the count of recognized rows;
// unrecognized statuses contribute to no bucket.
func TestStatusBucketsExhaustiveExclusive(t *testing.T) {
	rows := []TicketRow{
		{ID: 1, Status: "NEW"},
		{ID: 2, Status: "new"},
		{ID: 3, Status: " waiting_parts "},
		{ID: 4, Status: "DELIVERED"},
		{ID: 5, Status: "ARCHIVED"}, // not in vocabulary
		{ID: 6, Status: ""},
		{ID: 7, Status: "Cancelled"},
	}
	summary := Summarize(rows)

	total := 0
	for _, status := range StatusOrder {
		total += summary.ByStatus[status]
	}
	if total != 5 {
		t.Fatalf("expected 5 bucketed rows, got %d", total)
	}
	if summary.ByStatus[StatusNew] != 2 {
		t.Fatalf("expected 2 NEW, got %d", summary.ByStatus[StatusNew])
	}
	if summary.WaitingParts != 1 {
		t.Fatalf("expected 1 waiting parts, got %d", summary.WaitingParts)
	}
	if summary.Tickets != len(rows) {
		t.Fatalf("ticket count must include unrecognized rows, got %d", summary.Tickets)
	}
}

func TestAvgCycleTime(t *testing.T) {
	t.Run("ignores negative durations", func(t *testing.T) {
		rows := []TicketRow{
			{ID: 1, CycleHours: ptrFloat(10)},
			{ID: 2, CycleHours: ptrFloat(-4)}, // clock skew, skipped
			{ID: 3, CycleHours: ptrFloat(20)},
			{ID: 4}, // missing timestamps
		}
		summary := Summarize(rows)
		if summary.AvgCycleTimeHours == nil {
			t.Fatal("expected an average")
		}
		if math.Abs(*summary.AvgCycleTimeHours-15) > 1e-9 {
			t.Fatalf("expected 15, got %v", *summary.AvgCycleTimeHours)
		}
	})

	t.Run("nil when no valid rows", func(t *testing.T) {
		rows := []TicketRow{{ID: 1, CycleHours: ptrFloat(-1)}, {ID: 2}}
		if summary := Summarize(rows); summary.AvgCycleTimeHours != nil {
			t.Fatalf("expected nil average, got %v", *summary.AvgCycleTimeHours)
		}
	})
}

func TestRevenueByWorker(t *testing.T) {
	rows := []TicketRow{
		{ID: 1, WorkerID: ptrInt64(7), WorkerName: "Ahmed", Price: 100, Discount: 0},
		{ID: 2, WorkerID: ptrInt64(7), WorkerName: "Ahmed", Price: 50, Discount: 10},
		{ID: 3, WorkerID: ptrInt64(9), Price: 500, Discount: 0}, // name missing
		{ID: 4, Price: 30, Discount: 0},                         // no worker
	}
	out := RevenueByWorker(rows)
	if len(out) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(out))
	}
	if out[0].WorkerID != "9" || out[0].Revenue != 500 {
		t.Fatalf("expected worker 9 first with 500, got %+v", out[0])
	}
	if out[0].WorkerName != "#9" {
		t.Fatalf("expected fallback name #9, got %q", out[0].WorkerName)
	}
	if out[1].WorkerID != "7" || out[1].Revenue != 140 {
		t.Fatalf("expected worker 7 with 140, got %+v", out[1])
	}
	if out[2].WorkerID != "unknown" || out[2].Revenue != 30 {
		t.Fatalf("expected unknown bucket with 30, got %+v", out[2])
	}
}

func TestCanonicalStatus(t *testing.T) {
	if status, ok := CanonicalStatus("in_progress"); !ok || status != StatusInProgress {
		t.Fatalf("expected IN_PROGRESS, got %q ok=%v", status, ok)
	}
	if _, ok := CanonicalStatus("done"); ok {
		t.Fatal("expected unrecognized status to fail")
	}
}

package money

import (
	"math"
	"testing"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "plain", raw: "115", expected: 115},
		{name: "decimal", raw: "56.52", expected: 56.52},
		{name: "currency noise", raw: "SAR 1,250.75", expected: 1250.75},
		{name: "minus dropped", raw: "-40", expected: 40},
		{name: "two dots", raw: "1.2.3", expected: 0},
		{name: "empty", raw: "", expected: 0},
		{name: "letters only", raw: "abc", expected: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ToNumber(tc.raw); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in       float64
		expected float64
	}{
		{56.525, 56.53},
		{56.521, 56.52},
		{8.478, 8.48},
		{0, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.expected {
			t.Fatalf("Round2(%v): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

// Discounted totals always land in [0, total], whatever the operator typed.
func TestResolveDiscountBounds(t *testing.T) {
	cases := []struct {
		name      string
		total     float64
		discount  float64
		isPercent bool
	}{
		{name: "percent in range", total: 100, discount: 10, isPercent: true},
		{name: "percent over 100", total: 100, discount: 150, isPercent: true},
		{name: "negative percent", total: 100, discount: -20, isPercent: true},
		{name: "amount over total", total: 80, discount: 200, isPercent: false},
		{name: "negative amount", total: 80, discount: -5, isPercent: false},
		{name: "zero total", total: 0, discount: 50, isPercent: false},
		{name: "negative total", total: -10, discount: 5, isPercent: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			newTotal, amount := ResolveDiscount(tc.total, tc.discount, tc.isPercent)
			max := tc.total
			if max < 0 {
				max = 0
			}
			if newTotal < 0 || newTotal > max {
				t.Fatalf("new total %v outside [0, %v]", newTotal, max)
			}
			if amount < 0 || amount > max {
				t.Fatalf("discount %v outside [0, %v]", amount, max)
			}
		})
	}
}

// Network payments reconstruct the inclusive total from base within a cent;
// cash leaves the total untouched with zero tax.
func TestSplitTotalTaxLaw(t *testing.T) {
	totals := []float64{0, 1, 65, 90, 115, 999.99, 10000}
	for _, total := range totals {
		base, tax := SplitTotal(total, true, DefaultTaxRate)
		if diff := math.Abs(Round2(base*(1+DefaultTaxRate)) - total); diff > 0.01 {
			t.Fatalf("network total %v: base %v does not reconstruct (diff %v)", total, base, diff)
		}
		if tax != Round2(base*DefaultTaxRate) {
			t.Fatalf("network total %v: tax %v != base*rate", total, tax)
		}

		base, tax = SplitTotal(total, false, DefaultTaxRate)
		if tax != 0 || base != Round2(total) {
			t.Fatalf("cash total %v: expected base=%v tax=0, got base=%v tax=%v", total, Round2(total), base, tax)
		}
	}
}

func TestResolvePricingScenarios(t *testing.T) {
	cases := []struct {
		name      string
		total     float64
		discount  float64
		isPercent bool
		network   bool
		expected  Pricing
	}{
		{
			name:     "cash with percent discount",
			total:    100,
			discount: 10, isPercent: true, network: false,
			expected: Pricing{Base: 90, Tax: 0, Discount: 10},
		},
		{
			name:     "network no discount",
			total:    115,
			discount: 0, isPercent: false, network: true,
			expected: Pricing{Base: 100, Tax: 15, Discount: 0},
		},
		{
			name:     "network with amount discount",
			total:    115,
			discount: 50, isPercent: false, network: true,
			expected: Pricing{Base: 56.52, Tax: 8.48, Discount: 50},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolvePricing(tc.total, tc.discount, tc.isPercent, tc.network, DefaultTaxRate)
			if got != tc.expected {
				t.Fatalf("expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

// Switching the edit form between amount and percent display modes must
// resolve back to the same discounted total within a cent.
func TestEditViewRoundTrip(t *testing.T) {
	seeds := []struct {
		total    float64
		discount float64
		percent  bool
		network  bool
	}{
		{total: 100, discount: 10, percent: true, network: false},
		{total: 115, discount: 50, percent: false, network: true},
		{total: 345.75, discount: 12.5, percent: true, network: true},
		{total: 80, discount: 0, percent: false, network: false},
	}

	for _, seed := range seeds {
		stored := ResolvePricing(seed.total, seed.discount, seed.percent, seed.network, DefaultTaxRate)
		wantTotal, _ := ResolveDiscount(seed.total, seed.discount, seed.percent)

		for _, asPercent := range []bool{false, true} {
			form := EditView(stored.Base, stored.Tax, stored.Discount, asPercent)
			gotTotal, _ := ResolveDiscount(form.TotalInclusive, form.Discount, form.DiscountIsPercent)
			if math.Abs(gotTotal-wantTotal) > 0.01 {
				t.Fatalf("seed %+v asPercent=%v: round-trip total %v, want %v", seed, asPercent, gotTotal, wantTotal)
			}
		}
	}
}

func TestEditViewZeroTotal(t *testing.T) {
	form := EditView(0, 0, 0, true)
	if form.Discount != 0 || form.TotalInclusive != 0 {
		t.Fatalf("expected zeroed form, got %+v", form)
	}
}

func TestIsNetworkPayment(t *testing.T) {
	cases := []struct {
		method   string
		expected bool
	}{
		{"شبكة", true},
		{" شبكة ", true},
		{"Network", true},
		{"NETWORK", true},
		{"cash", false},
		{"كاش", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsNetworkPayment(tc.method, nil); got != tc.expected {
			t.Fatalf("IsNetworkPayment(%q): expected %v, got %v", tc.method, tc.expected, got)
		}
	}
}

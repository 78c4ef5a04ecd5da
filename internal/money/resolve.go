package money

// Pricing is what gets persisted on a ticket. Base excludes VAT and is
// already net of discount; Discount is the absolute amount subtracted,
// kept for audit and never reapplied; Tax is the VAT extracted from the
// discounted inclusive total.
type Pricing struct {
	Base     float64
	Tax      float64
	Discount float64
}

// ResolveDiscount applies a discount to a tax-inclusive total. If isPercent
// the input is clamped to [0, 100] and taken off the total; otherwise the
// amount is clamped to [0, total]. The returned new total can never go
// negative and the discount never exceeds the pre-discount total.
func ResolveDiscount(totalInclusive, discountInput float64, isPercent bool) (newTotal, amount float64) {
	total := totalInclusive
	if total < 0 {
		total = 0
	}
	d := discountInput
	if d < 0 {
		d = 0
	}
	if isPercent {
		d = ClampPercent(d) / 100 * total
	}
	d = ClampToTotal(d, total)
	return Round2(total - d), Round2(d)
}

// SplitTotal separates a discounted tax-inclusive total into base and tax.
// Network payments are VAT-inclusive by law: base = total / (1 + rate),
// tax = base * rate. Cash or unspecified methods carry no tax.
func SplitTotal(totalInclusive float64, networkPayment bool, taxRate float64) (base, tax float64) {
	t := totalInclusive
	if t < 0 {
		t = 0
	}
	if networkPayment {
		base = Round2(t / (1 + taxRate))
		return base, Round2(base * taxRate)
	}
	return Round2(t), 0
}

// ResolvePricing runs the full chain: discount resolution on the inclusive
// total entered by the operator, then the base/tax split for the payment
// method. The three outputs are the only way price, tax and discount are
// ever written together.
func ResolvePricing(totalInclusive, discountInput float64, isPercent bool, networkPayment bool, taxRate float64) Pricing {
	newTotal, amount := ResolveDiscount(totalInclusive, discountInput, isPercent)
	base, tax := SplitTotal(newTotal, networkPayment, taxRate)
	return Pricing{Base: base, Tax: tax, Discount: amount}
}

// EditForm pre-fills the ticket edit screen from stored values.
type EditForm struct {
	// TotalInclusive is the reconstructed pre-discount inclusive total.
	TotalInclusive float64
	// Discount is either the stored amount or its percentage of the
	// pre-discount total, depending on DiscountIsPercent.
	Discount          float64
	DiscountIsPercent bool
}

// EditView inverts ResolvePricing for display: the inclusive total after
// discount is price + tax, and adding the stored discount back gives the
// total the operator originally entered. Round-tripping through
// ResolvePricing converges within one rounding step.
func EditView(price, tax, storedDiscount float64, asPercent bool) EditForm {
	currentTotal := Round2(price + tax)
	preDiscount := Round2(currentTotal + storedDiscount)

	form := EditForm{TotalInclusive: preDiscount, DiscountIsPercent: asPercent}
	if asPercent {
		if preDiscount > 0 {
			form.Discount = Round2(storedDiscount / preDiscount * 100)
		}
		return form
	}
	form.Discount = storedDiscount
	return form
}

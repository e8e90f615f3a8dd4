package billing

// CalculatorConfig carries the fee and tax policy in basis points.
// Integer basis points keep the arithmetic exact; float percentages would
// reintroduce the rounding drift the ceiling policy exists to prevent.
type CalculatorConfig struct {
	// FeeBps is the processor fee in basis points (1.5% = 150).
	FeeBps int64 `env:"BILLING_FEE_BPS" envDefault:"150"`
	// FeeCap is the processor fee ceiling in minor currency units.
	FeeCap int64 `env:"BILLING_FEE_CAP" envDefault:"2000"`
	// VATBps is the tax rate in basis points, applied to base plus fee.
	VATBps int64 `env:"BILLING_VAT_BPS" envDefault:"750"`
}

// Amounts is a fully computed charge in minor currency units.
type Amounts struct {
	Base  int64
	Fee   int64
	VAT   int64
	Total int64
}

// Calculator computes invoice amounts. It is a pure function over its
// config; construct once and share.
type Calculator struct {
	cfg CalculatorConfig
}

// NewCalculator returns a Calculator with the given policy.
func NewCalculator(cfg CalculatorConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Compute derives fee, tax and total for a base price.
//
// The fee is a percentage of base, capped, then rounded up; the cap
// applies to the exact value before rounding. Tax is a percentage of base
// plus fee, rounded up on its own. The two ceilings are deliberately
// independent: the platform must never under-charge through rounding, and
// folding them into one ceiling on the sum would.
func (c *Calculator) Compute(base int64) Amounts {
	if base <= 0 {
		return Amounts{}
	}

	var fee int64
	if raw := base * c.cfg.FeeBps; raw > c.cfg.FeeCap*10000 {
		fee = c.cfg.FeeCap
	} else {
		fee = ceilDiv(raw, 10000)
	}

	vat := ceilDiv((base+fee)*c.cfg.VATBps, 10000)

	return Amounts{
		Base:  base,
		Fee:   fee,
		VAT:   vat,
		Total: base + fee + vat,
	}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

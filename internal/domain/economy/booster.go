package economy

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoostGrant is a recorded booster purchase.
type BoostGrant struct {
	Item      string
	CreatedAt time.Time
}

// Active reports whether the grant still applies at now. Unknown items never
// apply.
func (g BoostGrant) Active(now time.Time) bool {
	b, ok := BoosterFor(g.Item)
	if !ok {
		return false
	}
	return !g.CreatedAt.Before(now.Add(-b.Duration))
}

// BoostPercent sums the boost of every grant active at now.
func BoostPercent(grants []BoostGrant, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, g := range grants {
		if !g.Active(now) {
			continue
		}
		b, _ := BoosterFor(g.Item)
		total = total.Add(b.Percent)
	}
	return total
}

// PurchaseCommission is the referrer's share of a token purchase: half of
// its commission percent.
func PurchaseCommission(amount, percent decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() || !percent.IsPositive() {
		return decimal.Zero
	}
	return round2(amount.Mul(percent).Div(hundred).Div(decimal.NewFromInt(2)))
}

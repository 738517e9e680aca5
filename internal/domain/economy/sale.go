package economy

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSaleStart is when the token sale vesting clock started.
var DefaultSaleStart = time.Date(2024, time.July, 12, 16, 0, 0, 0, time.UTC)

type saleOption struct {
	multiplier decimal.Decimal
	vesting    time.Duration
}

// l1 unlocks at once; l2 and l3 pay more and vest linearly.
var saleOptions = map[string]saleOption{
	"l1": {multiplier: decimal.NewFromInt(1)},
	"l2": {multiplier: decimal.RequireFromString("1.25"), vesting: 15 * 24 * time.Hour},
	"l3": {multiplier: decimal.RequireFromString("1.5"), vesting: 31 * 24 * time.Hour},
}

type SaleInfo struct {
	Total    decimal.Decimal `json:"total"`
	Unlocked decimal.Decimal `json:"unlocked"`
	Claimed  decimal.Decimal `json:"claimed"`
}

// ComputeSaleInfo derives a player's token allocation from purchased amounts
// per option and what was already claimed. Vesting progress is clamped to
// [0, 1] and unlocked never goes below zero.
func ComputeSaleInfo(purchased map[string]decimal.Decimal, claimed decimal.Decimal, start, now time.Time) SaleInfo {
	total := decimal.Zero
	unlocked := decimal.Zero
	for item, amount := range purchased {
		opt, ok := saleOptions[item]
		if !ok {
			continue
		}
		allocation := amount.Mul(opt.multiplier)
		total = total.Add(allocation)
		unlocked = unlocked.Add(allocation.Mul(vestedFraction(opt.vesting, start, now)))
	}
	unlocked = unlocked.Sub(claimed)
	if unlocked.IsNegative() {
		unlocked = decimal.Zero
	}
	return SaleInfo{Total: round2(total), Unlocked: round2(unlocked), Claimed: round2(claimed)}
}

func vestedFraction(vesting time.Duration, start, now time.Time) decimal.Decimal {
	if vesting <= 0 {
		return decimal.NewFromInt(1)
	}
	elapsed := now.Sub(start)
	switch {
	case elapsed <= 0:
		return decimal.Zero
	case elapsed >= vesting:
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(elapsed / time.Second)).Div(decimal.NewFromInt(int64(vesting / time.Second)))
}

package economy

import (
	"time"

	"github.com/shopspring/decimal"
)

type Accrual struct {
	Balance          decimal.Decimal
	RawMaterial      decimal.Decimal
	Produced         decimal.Decimal
	EffectiveSeconds int64
}

// Reconcile integrates production from p.LastSnapshotAt up to asOf.
// Production stops at whichever binds first: elapsed time, free money
// storage, or remaining material. boostPercent scales the profit only.
func Reconcile(p Player, asOf time.Time, boostPercent decimal.Decimal) (Accrual, error) {
	capacity, err := Capacity(EntityMoneyStorage, p.MoneyStorageLevel)
	if err != nil {
		return Accrual{}, err
	}
	speed, err := Rate(EntityProductionRate, p.ProductionRateLevel)
	if err != nil {
		return Accrual{}, err
	}
	value, err := Rate(EntityUnitValue, p.UnitValueLevel)
	if err != nil {
		return Accrual{}, err
	}
	if !speed.IsPositive() || !value.IsPositive() {
		return Accrual{}, &ConfigError{Table: "rate", Index: p.ProductionRateLevel - 1}
	}

	balance := round2(p.Balance)
	material := round2(p.RawMaterial)
	out := Accrual{Balance: balance, RawMaterial: material, Produced: decimal.Zero}
	if balance.GreaterThanOrEqual(capacity) {
		return out, nil
	}

	elapsed := asOf.Sub(p.LastSnapshotAt).Milliseconds() / 1000
	if elapsed < 0 {
		elapsed = 0
	}

	perSecond := speed.Mul(value)
	tillFull := capacity.Sub(balance).Div(perSecond).Ceil()
	tillEmpty := material.Div(speed).Ceil()
	seconds := decimal.Min(tillFull, tillEmpty, decimal.NewFromInt(elapsed))

	profit := perSecond.Mul(seconds)
	if boostPercent.IsPositive() {
		profit = profit.Add(profit.Mul(boostPercent).Div(hundred))
	}

	next := balance.Add(profit)
	if next.GreaterThan(capacity) {
		next = capacity
	}
	next = round2(next)

	used := seconds.Mul(speed)
	left := decimal.Zero
	if material.GreaterThan(used) {
		left = round2(material.Sub(used))
	}

	out.Balance = next
	out.RawMaterial = left
	out.Produced = next.Sub(balance)
	out.EffectiveSeconds = seconds.IntPart()
	return out, nil
}

// DailyReward is one hour of unbounded production at the current levels.
func DailyReward(p Player) (decimal.Decimal, error) {
	return productionFor(p, 3600)
}

// TaskReward converts a task's rewarded minutes into currency.
func TaskReward(p Player, minutes int64) (decimal.Decimal, error) {
	if minutes <= 0 {
		return decimal.Zero, nil
	}
	return productionFor(p, minutes*60)
}

func productionFor(p Player, seconds int64) (decimal.Decimal, error) {
	speed, err := Rate(EntityProductionRate, p.ProductionRateLevel)
	if err != nil {
		return decimal.Decimal{}, err
	}
	value, err := Rate(EntityUnitValue, p.UnitValueLevel)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return round2(speed.Mul(value).Mul(decimal.NewFromInt(seconds))), nil
}

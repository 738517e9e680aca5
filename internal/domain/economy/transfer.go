package economy

import "github.com/shopspring/decimal"

// FreeCapacity is how much more currency the money storage can hold.
func FreeCapacity(p Player) (decimal.Decimal, error) {
	capacity, err := Capacity(EntityMoneyStorage, p.MoneyStorageLevel)
	if err != nil {
		return decimal.Decimal{}, err
	}
	free := capacity.Sub(p.Balance)
	if free.IsNegative() {
		return decimal.Zero, nil
	}
	return free, nil
}

// TransferFromBank moves as much of bank into the balance as storage and the
// lifetime allowance permit. The caller debits the returned amount from the
// bank; whatever is not moved stays there.
func TransferFromBank(p *Player, bank decimal.Decimal) (decimal.Decimal, error) {
	remaining := BankTransferLimit.Sub(p.UsedTransferAllowance)
	if !remaining.IsPositive() {
		return decimal.Zero, ErrLimitReached
	}
	free, err := FreeCapacity(*p)
	if err != nil {
		return decimal.Zero, err
	}
	if !free.IsPositive() {
		return decimal.Zero, ErrFullStorage
	}
	if !bank.IsPositive() {
		return decimal.Zero, ErrNotEnoughBalance
	}

	moved := round2(decimal.Min(free, bank, remaining))
	p.Balance = round2(p.Balance.Add(moved))
	p.UsedTransferAllowance = round2(p.UsedTransferAllowance.Add(moved))
	return moved, nil
}

// TransferFromTask moves task earnings into the balance up to free storage.
func TransferFromTask(p *Player) (decimal.Decimal, error) {
	free, err := FreeCapacity(*p)
	if err != nil {
		return decimal.Zero, err
	}
	if !free.IsPositive() {
		return decimal.Zero, ErrFullStorage
	}
	if !p.TaskBalance.IsPositive() {
		return decimal.Zero, ErrNotEnoughBalance
	}

	moved := round2(decimal.Min(free, p.TaskBalance))
	p.Balance = round2(p.Balance.Add(moved))
	p.TaskBalance = round2(p.TaskBalance.Sub(moved))
	return moved, nil
}

// Commission is the share of delta owed to a referrer at percent, rounded up
// to the next whole unit.
func Commission(delta, percent decimal.Decimal) decimal.Decimal {
	if !delta.IsPositive() || !percent.IsPositive() {
		return decimal.Zero
	}
	return delta.Mul(percent).Div(hundred).Ceil()
}

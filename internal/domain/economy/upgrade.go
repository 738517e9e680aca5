package economy

// LevelUp raises entity one level and charges its price from the balance.
// p must already be reconciled. On error p is left untouched.
func LevelUp(p *Player, entity Entity) error {
	level, err := p.Level(entity)
	if err != nil {
		return err
	}
	limit, err := MaxLevel(entity)
	if err != nil {
		return err
	}
	if level >= limit {
		return ErrMaxLevelReached
	}

	price, err := LevelUpPrice(entity, level+1)
	if err != nil {
		return err
	}
	if price.GreaterThan(p.Balance) {
		return ErrNotEnoughBalance
	}

	// The player must still be able to buy the cheapest restock afterwards,
	// otherwise production could stall for good.
	restock, err := PackFor(PackBase)
	if err != nil {
		return err
	}
	if p.Balance.Add(p.RawMaterial).Sub(price).LessThan(restock.Cost) {
		return ErrNotEnoughBalance
	}

	p.Balance = round2(p.Balance.Sub(price))
	p.setLevel(entity, level+1)
	if entity == EntityUnitValue {
		p.ProductionRateLevel = 1
	}
	return nil
}

// BuyMaterial spends currency on a material pack.
func BuyMaterial(p *Player, size PackSize) error {
	pack, err := PackFor(size)
	if err != nil {
		return err
	}
	capacity, err := Capacity(EntityMaterialStorage, p.MaterialStorageLevel)
	if err != nil {
		return err
	}
	if pack.Cost.GreaterThan(p.Balance) {
		return ErrNotEnoughBalance
	}
	if p.RawMaterial.Add(pack.Amount).GreaterThan(capacity) {
		return ErrFullStorage
	}

	p.Balance = round2(p.Balance.Sub(pack.Cost))
	p.RawMaterial = round2(p.RawMaterial.Add(pack.Amount))
	return nil
}

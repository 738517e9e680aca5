package economy

// Promote advances p exactly one rank when both thresholds of the next rank
// are met, paying the rank cost from the balance.
func Promote(p *Player) error {
	next, ok := NextRank(p.CurrentRank())
	if !ok {
		return ErrThresholdsNotMet
	}
	if p.Experience < next.Experience || p.Balance.LessThan(next.Cost) {
		return ErrThresholdsNotMet
	}
	p.Balance = round2(p.Balance.Sub(next.Cost))
	p.Rank = next.Rank
	return nil
}

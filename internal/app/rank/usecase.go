package rank

import (
	"context"
	"time"

	"printbank/internal/app/ledger"
	"printbank/internal/domain/economy"
)

type UseCase struct {
	Ledger ledger.Ledger
}

func (u UseCase) IncreaseRank(ctx context.Context, playerID string) (economy.Player, error) {
	return u.Ledger.Mutate(ctx, "increase_rank", playerID, func(_ context.Context, p *economy.Player, _ time.Time) error {
		return economy.Promote(p)
	})
}

// Ladder lists every rank with its thresholds.
func (u UseCase) Ladder() []economy.RankStep {
	return economy.RankLadder()
}

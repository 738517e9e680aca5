package upgrade

import (
	"context"
	"time"

	"printbank/internal/app/ledger"
	"printbank/internal/domain/economy"
)

type UseCase struct {
	Ledger ledger.Ledger
}

// LevelUp raises one entity of the player by a level. raw is the entity
// name as received from the caller.
func (u UseCase) LevelUp(ctx context.Context, playerID, raw string) (economy.Player, error) {
	entity, err := economy.ParseEntity(raw)
	if err != nil {
		return economy.Player{}, err
	}
	return u.Ledger.Mutate(ctx, "level_up", playerID, func(_ context.Context, p *economy.Player, _ time.Time) error {
		return economy.LevelUp(p, entity)
	})
}

func (u UseCase) BuyMaterial(ctx context.Context, playerID, raw string) (economy.Player, error) {
	pack, err := economy.ParsePack(raw)
	if err != nil {
		return economy.Player{}, err
	}
	return u.Ledger.Mutate(ctx, "buy_material", playerID, func(_ context.Context, p *economy.Player, _ time.Time) error {
		return economy.BuyMaterial(p, pack)
	})
}

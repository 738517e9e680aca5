package memory

import (
	"context"
	"sort"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type PlayerRepo struct {
	store *Store
}

func NewPlayerRepo(store *Store) PlayerRepo {
	return PlayerRepo{store: store}
}

func (r PlayerRepo) Create(ctx context.Context, p economy.Player) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.data.players[p.PlayerID]; exists {
		return ports.ErrConflict
	}
	r.store.data.players[p.PlayerID] = p
	return nil
}

func (r PlayerRepo) GetByPlayerID(ctx context.Context, playerID string) (economy.Player, error) {
	defer r.store.lock(ctx)()
	p, ok := r.store.data.players[playerID]
	if !ok {
		return economy.Player{}, ports.ErrPlayerNotFound
	}
	return p, nil
}

func (r PlayerRepo) SaveWithVersion(ctx context.Context, p economy.Player, expectedVersion int64) error {
	defer r.store.lock(ctx)()
	current, ok := r.store.data.players[p.PlayerID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.data.players[p.PlayerID] = p
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.data.players[p.PlayerID] = p
	return nil
}

func (r PlayerRepo) TopByTotal(ctx context.Context, limit int) ([]ports.LeaderboardEntry, error) {
	defer r.store.lock(ctx)()
	out := make([]ports.LeaderboardEntry, 0, len(r.store.data.players))
	for _, p := range r.store.data.players {
		out = append(out, ports.LeaderboardEntry{
			PlayerID: p.PlayerID,
			Total:    p.Balance.Add(p.TaskBalance),
			Rank:     p.CurrentRank(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

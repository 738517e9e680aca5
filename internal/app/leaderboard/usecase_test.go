package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/adapter/repo/memory"
	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type mapCache struct {
	entries map[string][]ports.LeaderboardEntry
	sets    int
}

func (c *mapCache) Get(key string) ([]ports.LeaderboardEntry, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(key string, entries []ports.LeaderboardEntry) {
	c.sets++
	c.entries[key] = entries
}

func (c *mapCache) Purge() {
	c.entries = map[string][]ports.LeaderboardEntry{}
}

func TestTop_ReadThrough(t *testing.T) {
	store := memory.NewStore()
	now := time.Now()
	for i, total := range []int64{50, 500, 5} {
		p := economy.NewPlayer(string(rune('a'+i)), now)
		p.Balance = decimal.NewFromInt(total)
		p.TaskBalance = decimal.NewFromInt(1)
		store.SeedPlayer(p)
	}
	cache := &mapCache{entries: map[string][]ports.LeaderboardEntry{}}
	uc := UseCase{Players: memory.NewPlayerRepo(store), Cache: cache, Limit: 2}
	ctx := context.Background()

	top, err := uc.Top(ctx)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].PlayerID != "b" || !top[0].Total.Equal(decimal.NewFromInt(501)) || top[1].PlayerID != "a" {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}

	rich := economy.NewPlayer("z", now)
	rich.Balance = decimal.NewFromInt(9999)
	store.SeedPlayer(rich)

	cached, _ := uc.Top(ctx)
	if cached[0].PlayerID != "b" || cache.sets != 1 {
		t.Fatalf("expected cached result, got %+v (sets=%d)", cached, cache.sets)
	}

	uc.Invalidate()
	fresh, _ := uc.Top(ctx)
	if fresh[0].PlayerID != "z" {
		t.Fatalf("expected refreshed leaderboard, got %+v", fresh)
	}
}

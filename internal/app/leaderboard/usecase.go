package leaderboard

import (
	"context"
	"errors"

	"printbank/internal/app/ports"
)

const (
	DefaultLimit = 300
	cacheKey     = "top"
)

var ErrInvalidRequest = errors.New("invalid leaderboard request")

// Cache is a keyed store whose entries expire on their own.
type Cache interface {
	Get(key string) ([]ports.LeaderboardEntry, bool)
	Set(key string, entries []ports.LeaderboardEntry)
	Purge()
}

type UseCase struct {
	Players ports.PlayerRepository
	Cache   Cache
	Limit   int
}

// Top returns the richest players by balance plus task balance. Results are
// served from the cache until it expires them.
func (u UseCase) Top(ctx context.Context) ([]ports.LeaderboardEntry, error) {
	if u.Players == nil {
		return nil, ErrInvalidRequest
	}
	if u.Cache != nil {
		if entries, ok := u.Cache.Get(cacheKey); ok {
			return entries, nil
		}
	}
	limit := u.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	entries, err := u.Players.TopByTotal(ctx, limit)
	if err != nil {
		return nil, err
	}
	if u.Cache != nil {
		u.Cache.Set(cacheKey, entries)
	}
	return entries, nil
}

func (u UseCase) Invalidate() {
	if u.Cache != nil {
		u.Cache.Purge()
	}
}

package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type AccountRepo struct {
	store *Store
}

func NewAccountRepo(store *Store) AccountRepo {
	return AccountRepo{store: store}
}

func (r AccountRepo) Create(ctx context.Context, a economy.Account) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.data.accounts[a.PlayerID]; exists {
		return ports.ErrConflict
	}
	r.store.data.accounts[a.PlayerID] = a
	return nil
}

func (r AccountRepo) GetByPlayerID(ctx context.Context, playerID string) (economy.Account, error) {
	defer r.store.lock(ctx)()
	a, ok := r.store.data.accounts[playerID]
	if !ok {
		return economy.Account{}, ports.ErrPlayerNotFound
	}
	return a, nil
}

func (r AccountRepo) Save(ctx context.Context, a economy.Account) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.data.accounts[a.PlayerID]; !ok {
		return ports.ErrPlayerNotFound
	}
	r.store.data.accounts[a.PlayerID] = a
	return nil
}

func (r AccountRepo) AddBankBalance(ctx context.Context, playerID string, delta decimal.Decimal) error {
	defer r.store.lock(ctx)()
	a, ok := r.store.data.accounts[playerID]
	if !ok {
		return ports.ErrPlayerNotFound
	}
	next := a.BankBalance.Add(delta).Round(2)
	if next.IsNegative() {
		return ports.ErrConflict
	}
	a.BankBalance = next
	r.store.data.accounts[playerID] = a
	return nil
}

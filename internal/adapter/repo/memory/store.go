package memory

import (
	"context"
	"maps"
	"sync"

	"printbank/internal/app/ports"
	"printbank/internal/domain/economy"
)

type Store struct {
	mu   sync.Mutex
	data snapshot
}

type snapshot struct {
	players      map[string]economy.Player
	accounts     map[string]economy.Account
	referrals    map[string]ports.ReferralRecord
	credits      map[string]ports.CommissionCredit
	creditOrder  []string
	transactions map[string]ports.TransactionRecord
	purchases    map[string]ports.PurchaseCommission
	tasks        map[string]ports.TaskRecord
	completions  map[string]ports.TaskCompletion
	settings     map[string]string
}

func NewStore() *Store {
	return &Store{data: snapshot{
		players:      make(map[string]economy.Player),
		accounts:     make(map[string]economy.Account),
		referrals:    make(map[string]ports.ReferralRecord),
		credits:      make(map[string]ports.CommissionCredit),
		transactions: make(map[string]ports.TransactionRecord),
		purchases:    make(map[string]ports.PurchaseCommission),
		tasks:        make(map[string]ports.TaskRecord),
		completions:  make(map[string]ports.TaskCompletion),
		settings:     make(map[string]string),
	}}
}

func (s snapshot) clone() snapshot {
	return snapshot{
		players:      maps.Clone(s.players),
		accounts:     maps.Clone(s.accounts),
		referrals:    maps.Clone(s.referrals),
		credits:      maps.Clone(s.credits),
		creditOrder:  append([]string(nil), s.creditOrder...),
		transactions: maps.Clone(s.transactions),
		purchases:    maps.Clone(s.purchases),
		tasks:        maps.Clone(s.tasks),
		completions:  maps.Clone(s.completions),
		settings:     maps.Clone(s.settings),
	}
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(*Store)
	return v != nil
}

// lock takes the store mutex unless ctx already runs inside a transaction,
// which holds it for its whole duration.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func pairKey(a, b string) string {
	return a + "::" + b
}

func (s *Store) SeedPlayer(p economy.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.players[p.PlayerID] = p
}

func (s *Store) SeedAccount(a economy.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.accounts[a.PlayerID] = a
}

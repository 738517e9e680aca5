package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"printbank/internal/app/ports"
)

type TransactionRepo struct {
	store *Store
}

func NewTransactionRepo(store *Store) TransactionRepo {
	return TransactionRepo{store: store}
}

func (r TransactionRepo) Insert(ctx context.Context, record ports.TransactionRecord) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.data.transactions[record.Hash]; exists {
		return ports.ErrConflict
	}
	r.store.data.transactions[record.Hash] = record
	return nil
}

func (r TransactionRepo) GetByHash(ctx context.Context, hash string) (ports.TransactionRecord, error) {
	defer r.store.lock(ctx)()
	rec, ok := r.store.data.transactions[hash]
	if !ok {
		return ports.TransactionRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r TransactionRepo) ListByPlayerSince(ctx context.Context, playerID string, since time.Time) ([]ports.TransactionRecord, error) {
	defer r.store.lock(ctx)()
	out := make([]ports.TransactionRecord, 0)
	for _, rec := range r.store.data.transactions {
		if rec.PlayerID == playerID && !rec.CreatedAt.Before(since) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type PurchaseCommissionRepo struct {
	store *Store
}

func NewPurchaseCommissionRepo(store *Store) PurchaseCommissionRepo {
	return PurchaseCommissionRepo{store: store}
}

func (r PurchaseCommissionRepo) Insert(ctx context.Context, record ports.PurchaseCommission) error {
	defer r.store.lock(ctx)()
	if _, exists := r.store.data.purchases[record.Hash]; exists {
		return ports.ErrConflict
	}
	r.store.data.purchases[record.Hash] = record
	return nil
}

func (r PurchaseCommissionRepo) SumByReferrer(ctx context.Context, referrerID string) (decimal.Decimal, error) {
	defer r.store.lock(ctx)()
	total := decimal.Zero
	for _, rec := range r.store.data.purchases {
		if rec.ReferrerID == referrerID {
			total = total.Add(rec.Bonus)
		}
	}
	return total, nil
}

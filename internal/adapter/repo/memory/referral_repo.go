package memory

import (
	"context"
	"sort"

	"printbank/internal/app/ports"
)

type ReferralRepo struct {
	store *Store
}

func NewReferralRepo(store *Store) ReferralRepo {
	return ReferralRepo{store: store}
}

func (r ReferralRepo) Exists(ctx context.Context, referrerID, referralID string) (bool, error) {
	defer r.store.lock(ctx)()
	_, ok := r.store.data.referrals[pairKey(referrerID, referralID)]
	return ok, nil
}

func (r ReferralRepo) Insert(ctx context.Context, record ports.ReferralRecord) error {
	defer r.store.lock(ctx)()
	k := pairKey(record.ReferrerID, record.ReferralID)
	if _, exists := r.store.data.referrals[k]; exists {
		return ports.ErrConflict
	}
	r.store.data.referrals[k] = record
	return nil
}

func (r ReferralRepo) ListByReferrer(ctx context.Context, referrerID string) ([]ports.ReferralRecord, error) {
	defer r.store.lock(ctx)()
	out := make([]ports.ReferralRecord, 0)
	for _, rec := range r.store.data.referrals {
		if rec.ReferrerID == referrerID && rec.ReferralID != referrerID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

package memory

import (
	"context"
	"time"

	"printbank/internal/app/ports"
)

type CommissionQueue struct {
	store *Store
}

func NewCommissionQueue(store *Store) CommissionQueue {
	return CommissionQueue{store: store}
}

func (q CommissionQueue) Enqueue(ctx context.Context, credits ...ports.CommissionCredit) error {
	defer q.store.lock(ctx)()
	for _, c := range credits {
		if _, exists := q.store.data.credits[c.ID]; exists {
			return ports.ErrConflict
		}
	}
	for _, c := range credits {
		if c.Status == "" {
			c.Status = ports.CreditPending
		}
		q.store.data.credits[c.ID] = c
		q.store.data.creditOrder = append(q.store.data.creditOrder, c.ID)
	}
	return nil
}

func (q CommissionQueue) ListPending(ctx context.Context, limit int) ([]ports.CommissionCredit, error) {
	defer q.store.lock(ctx)()
	out := make([]ports.CommissionCredit, 0)
	for _, id := range q.store.data.creditOrder {
		c := q.store.data.credits[id]
		if c.Status != ports.CreditPending {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (q CommissionQueue) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	defer q.store.lock(ctx)()
	c, ok := q.store.data.credits[id]
	if !ok {
		return ports.ErrNotFound
	}
	if c.Status != ports.CreditPending {
		return ports.ErrConflict
	}
	c.Status = ports.CreditDelivered
	c.DeliveredAt = &at
	q.store.data.credits[id] = c
	return nil
}

func (q CommissionQueue) MarkFailed(ctx context.Context, id, lastErr string, dead bool) error {
	defer q.store.lock(ctx)()
	c, ok := q.store.data.credits[id]
	if !ok {
		return ports.ErrNotFound
	}
	c.Attempts++
	c.LastError = lastErr
	if dead {
		c.Status = ports.CreditDead
	}
	q.store.data.credits[id] = c
	return nil
}

// Credit returns a queued credit by id.
func (q CommissionQueue) Credit(ctx context.Context, id string) (ports.CommissionCredit, error) {
	defer q.store.lock(ctx)()
	c, ok := q.store.data.credits[id]
	if !ok {
		return ports.CommissionCredit{}, ports.ErrNotFound
	}
	return c, nil
}

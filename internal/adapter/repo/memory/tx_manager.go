package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serializes transactions on the store mutex and restores the
// previous contents when fn fails.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	before := t.store.data.clone()
	if err := fn(context.WithValue(ctx, txKey, t.store)); err != nil {
		t.store.data = before
		return err
	}
	return nil
}

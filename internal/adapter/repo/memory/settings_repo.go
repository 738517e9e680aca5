package memory

import (
	"context"

	"printbank/internal/app/ports"
)

type SettingsRepo struct {
	store *Store
}

func NewSettingsRepo(store *Store) SettingsRepo {
	return SettingsRepo{store: store}
}

func (r SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	defer r.store.lock(ctx)()
	v, ok := r.store.data.settings[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return v, nil
}

func (r SettingsRepo) Set(ctx context.Context, key, value string) error {
	defer r.store.lock(ctx)()
	r.store.data.settings[key] = value
	return nil
}

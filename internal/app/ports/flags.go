package ports

import "context"

const (
	SettingGameEnabled = "is-game-enabled"

	GameEnabled  = "enabled"
	GameDisabled = "disabled"
)

// GameFlags answers whether gameplay mutations are currently allowed.
type GameFlags interface {
	GameEnabled(ctx context.Context) (bool, error)
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

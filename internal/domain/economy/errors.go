package economy

import (
	"errors"
	"fmt"
)

var (
	ErrNotEnoughBalance = errors.New("not enough balance")
	ErrFullStorage      = errors.New("storage is full")
	ErrMaxLevelReached  = errors.New("maximum level reached")
	ErrLimitReached     = errors.New("limit reached")
	ErrAlreadyClaimed   = errors.New("daily reward already claimed today")
	ErrThresholdsNotMet = errors.New("highest rank reached or conditions not met")
	ErrInvalidEntity    = errors.New("invalid entity")
	ErrInvalidPack      = errors.New("invalid material pack")
	ErrInvalidBooster   = errors.New("invalid booster")
	ErrConfiguration    = errors.New("economy configuration fault")
)

// ConfigError reports a lookup that fell outside a constants table. It is a
// data-integrity fault, never a player-facing outcome.
type ConfigError struct {
	Table string
	Index int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("economy configuration fault: %s has no value at %d", e.Table, e.Index)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func invalidEntity(entity Entity) error {
	return fmt.Errorf("%w: %q", ErrInvalidEntity, string(entity))
}

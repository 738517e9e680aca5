package flags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"printbank/internal/app/ports"
)

const DefaultRefreshEvery = 30 * time.Second

// Service answers the game-enabled question from the settings table and
// re-reads it at most once per RefreshEvery. When a refresh fails and a
// value was read before, the stale value is served.
type Service struct {
	Settings     ports.SettingsRepository
	RefreshEvery time.Duration
	Logger       *slog.Logger
	Now          func() time.Time

	mu       sync.Mutex
	loaded   bool
	enabled  bool
	loadedAt time.Time
}

func (s *Service) GameEnabled(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.loaded && now.Sub(s.loadedAt) < s.refreshEvery() {
		return s.enabled, nil
	}
	enabled, err := s.read(ctx)
	if err != nil {
		if s.loaded {
			s.logger().Warn("game flag refresh failed, serving cached value", "enabled", s.enabled, "err", err)
			return s.enabled, nil
		}
		return false, err
	}
	s.loaded, s.enabled, s.loadedAt = true, enabled, now
	return enabled, nil
}

// SetEnabled writes the flag through and drops the cached value.
func (s *Service) SetEnabled(ctx context.Context, enabled bool) error {
	if s.Settings == nil {
		return errors.New("flags: settings repository is required")
	}
	value := ports.GameDisabled
	if enabled {
		value = ports.GameEnabled
	}
	if err := s.Settings.Set(ctx, ports.SettingGameEnabled, value); err != nil {
		return fmt.Errorf("set %s: %w", ports.SettingGameEnabled, err)
	}
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
	s.logger().Info("game flag changed", "enabled", enabled)
	return nil
}

func (s *Service) read(ctx context.Context) (bool, error) {
	if s.Settings == nil {
		return true, nil
	}
	v, err := s.Settings.Get(ctx, ports.SettingGameEnabled)
	if errors.Is(err, ports.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", ports.SettingGameEnabled, err)
	}
	return v != ports.GameDisabled, nil
}

func (s *Service) refreshEvery() time.Duration {
	if s.RefreshEvery <= 0 {
		return DefaultRefreshEvery
	}
	return s.RefreshEvery
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

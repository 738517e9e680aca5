package flags

import (
	"context"
	"errors"
	"testing"
	"time"

	"printbank/internal/adapter/repo/memory"
	"printbank/internal/app/ports"
)

type countingSettings struct {
	ports.SettingsRepository
	reads int
	err   error
}

func (c *countingSettings) Get(ctx context.Context, key string) (string, error) {
	c.reads++
	if c.err != nil {
		return "", c.err
	}
	return c.SettingsRepository.Get(ctx, key)
}

func TestService_MissingSettingMeansEnabled(t *testing.T) {
	s := &Service{Settings: memory.NewSettingsRepo(memory.NewStore())}
	enabled, err := s.GameEnabled(context.Background())
	if err != nil {
		t.Fatalf("game enabled: %v", err)
	}
	if !enabled {
		t.Fatal("missing setting must mean enabled")
	}
}

func TestService_CachesUntilRefresh(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := memory.NewSettingsRepo(store)
	settings := &countingSettings{SettingsRepository: repo}
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s := &Service{Settings: settings, RefreshEvery: time.Minute, Now: func() time.Time { return now }}

	if _, err := s.GameEnabled(ctx); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if err := repo.Set(ctx, ports.SettingGameEnabled, ports.GameDisabled); err != nil {
		t.Fatalf("set: %v", err)
	}
	enabled, _ := s.GameEnabled(ctx)
	if !enabled || settings.reads != 1 {
		t.Fatalf("expected cached enabled after one read, got enabled=%v reads=%d", enabled, settings.reads)
	}

	now = now.Add(time.Minute)
	enabled, _ = s.GameEnabled(ctx)
	if enabled || settings.reads != 2 {
		t.Fatalf("expected refreshed disabled, got enabled=%v reads=%d", enabled, settings.reads)
	}
}

func TestService_SetEnabledInvalidates(t *testing.T) {
	ctx := context.Background()
	s := &Service{Settings: memory.NewSettingsRepo(memory.NewStore()), RefreshEvery: time.Hour}

	if enabled, _ := s.GameEnabled(ctx); !enabled {
		t.Fatal("expected enabled by default")
	}
	if err := s.SetEnabled(ctx, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if enabled, _ := s.GameEnabled(ctx); enabled {
		t.Fatal("disable must be visible immediately")
	}
	if err := s.SetEnabled(ctx, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if enabled, _ := s.GameEnabled(ctx); !enabled {
		t.Fatal("enable must be visible immediately")
	}
}

func TestService_ServesStaleOnRefreshError(t *testing.T) {
	ctx := context.Background()
	settings := &countingSettings{SettingsRepository: memory.NewSettingsRepo(memory.NewStore())}
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	s := &Service{Settings: settings, RefreshEvery: time.Second, Now: func() time.Time { return now }}

	if _, err := s.GameEnabled(ctx); err != nil {
		t.Fatalf("first read: %v", err)
	}
	settings.err = errors.New("db down")
	now = now.Add(time.Minute)
	enabled, err := s.GameEnabled(ctx)
	if err != nil || !enabled {
		t.Fatalf("expected stale enabled, got %v %v", enabled, err)
	}

	cold := &Service{Settings: &countingSettings{err: errors.New("db down")}}
	if _, err := cold.GameEnabled(ctx); err == nil {
		t.Fatal("first read failure must surface")
	}
}

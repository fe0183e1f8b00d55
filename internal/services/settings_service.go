package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"catty/internal/core"
)

// ErrSettingsLoading is returned when a save arrives before the initial load
// has completed. Without this guard a save triggered from default values
// could clobber the durable configuration.
var ErrSettingsLoading = errors.New("settings still loading")

// settingsStore is the slice of the repository the service needs.
type settingsStore interface {
	LoadGoalConfig(ctx context.Context) (core.GoalConfig, bool, error)
	SaveGoalConfig(ctx context.Context, g core.GoalConfig) error
}

// SettingsService owns the goal configuration: explicit load and save with a
// loaded flag gating writes. Consumers always receive a valid configuration;
// first use falls back to the defaults without persisting them.
type SettingsService struct {
	store settingsStore

	mu      sync.RWMutex
	current core.GoalConfig
	loaded  bool
}

func NewSettingsService(store settingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Load reads the durable configuration, falling back to defaults when
// nothing has been saved yet. It must complete before Save is allowed.
func (s *SettingsService) Load(ctx context.Context, today core.Date) (core.GoalConfig, error) {
	cfg, found, err := s.store.LoadGoalConfig(ctx)
	if err != nil {
		return core.GoalConfig{}, fmt.Errorf("load goal config: %w", err)
	}
	if !found {
		cfg = core.DefaultGoalConfig(today)
		slog.InfoContext(ctx, "No saved goal configuration, using defaults",
			"target_cents", cfg.Target.Cents,
			"period_days", cfg.PeriodDays)
	}

	s.mu.Lock()
	s.current = cfg
	s.loaded = true
	s.mu.Unlock()

	return cfg, nil
}

// Current returns the in-memory configuration, falling back to defaults when
// the initial load has not happened yet.
func (s *SettingsService) Current(today core.Date) core.GoalConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return core.DefaultGoalConfig(today)
	}
	return s.current
}

// Save validates and persists a new configuration. Rejected while the
// initial load is in flight and on invalid input; the previous configuration
// stays in effect either way.
func (s *SettingsService) Save(ctx context.Context, cfg core.GoalConfig) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		return ErrSettingsLoading
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := s.store.SaveGoalConfig(ctx, cfg); err != nil {
		return fmt.Errorf("save goal config: %w", err)
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	return nil
}

package services

import (
	"context"
	"slices"

	"ledger/internal/core"
)

// OwnerConfig returns the owner's settings, seeded with the default banks
// when nothing has been saved yet.
func (s *LedgerService) OwnerConfig(ctx context.Context, ownerID string) (core.OwnerConfig, error) {
	if ownerID == "" {
		return core.OwnerConfig{}, core.ErrEmptyOwner
	}
	cfg, found, err := s.owners.OwnerConfig(ctx, ownerID)
	if err != nil {
		return core.OwnerConfig{}, err
	}
	if !found {
		cfg = core.OwnerConfig{OwnerID: ownerID, Banks: slices.Clone(s.defaultBanks)}
	}
	return cfg, nil
}

// AddBank registers a bank for the owner. Adding an existing bank is a no-op.
func (s *LedgerService) AddBank(ctx context.Context, ownerID, name string) (core.OwnerConfig, error) {
	cfg, err := s.OwnerConfig(ctx, ownerID)
	if err != nil {
		return core.OwnerConfig{}, err
	}
	added, err := cfg.AddBank(name)
	if err != nil || !added {
		return cfg, err
	}
	if err := s.owners.SaveOwnerConfig(ctx, cfg); err != nil {
		return core.OwnerConfig{}, err
	}
	return cfg, nil
}

// RemoveBank unregisters a bank. Existing entries keep their bank name.
func (s *LedgerService) RemoveBank(ctx context.Context, ownerID, name string) (core.OwnerConfig, error) {
	cfg, err := s.OwnerConfig(ctx, ownerID)
	if err != nil {
		return core.OwnerConfig{}, err
	}
	if !cfg.RemoveBank(name) {
		return core.OwnerConfig{}, &core.NotFoundError{ID: name}
	}
	if err := s.owners.SaveOwnerConfig(ctx, cfg); err != nil {
		return core.OwnerConfig{}, err
	}
	return cfg, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"alliance-tracker/internal/constants"
	"alliance-tracker/internal/domain"
	"alliance-tracker/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RosterService struct {
	playerRepo *repository.PlayerRepository
	cache      *SnapshotCache
	logger     zerolog.Logger
}

func NewRosterService(playerRepo *repository.PlayerRepository, cache *SnapshotCache, logger zerolog.Logger) *RosterService {
	return &RosterService{playerRepo: playerRepo, cache: cache, logger: logger}
}

func (s *RosterService) List(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.playerRepo.List(ctx)
}

func (s *RosterService) Create(ctx context.Context, name string, battlegroup int) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now()
	player := &domain.Player{
		ID:          id,
		Name:        name,
		Battlegroup: normalizeBattlegroup(battlegroup),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.playerRepo.Upsert(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info().Str("player_id", player.ID).Str("name", player.Name).Msg("player created")
	s.cache.Invalidate(ctx)
	return player, nil
}

func (s *RosterService) Update(ctx context.Context, id, name string, battlegroup int) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.playerRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("player not found: %w", err)
	}

	player.Name = name
	player.Battlegroup = normalizeBattlegroup(battlegroup)
	player.UpdatedAt = time.Now()

	if err := s.playerRepo.Upsert(ctx, player); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return player, nil
}

func (s *RosterService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("player_id", id).Msg("player removed from roster")
	s.cache.Invalidate(ctx)
	return nil
}

// normalizeBattlegroup collapses anything outside the three valid group
// indexes into the unassigned sentinel.
func normalizeBattlegroup(bg int) int {
	if bg < 0 || bg >= domain.BattlegroupCount {
		return domain.BattlegroupUnassigned
	}
	return bg
}

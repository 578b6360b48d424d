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

type WarService struct {
	warRepo *repository.WarRepository
	cache   *SnapshotCache
	logger  zerolog.Logger
}

func NewWarService(warRepo *repository.WarRepository, cache *SnapshotCache, logger zerolog.Logger) *WarService {
	return &WarService{warRepo: warRepo, cache: cache, logger: logger}
}

func (s *WarService) List(ctx context.Context) ([]domain.War, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.warRepo.ListOrdered(ctx)
}

func (s *WarService) Get(ctx context.Context, id string) (*domain.War, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.warRepo.Get(ctx, id)
}

func (s *WarService) Create(ctx context.Context, war *domain.War) (*domain.War, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if war.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate nanoid: %w", err)
		}
		war.ID = id
	}
	if war.AllianceResult == "" {
		war.AllianceResult = domain.ResultPending
	}
	ensureBattlegroups(war)

	now := time.Now()
	war.CreatedAt = now
	war.UpdatedAt = now

	if err := s.warRepo.Create(ctx, war); err != nil {
		return nil, err
	}

	s.logger.Info().Str("war_id", war.ID).Str("name", war.Name).Msg("war created")
	s.cache.Invalidate(ctx)
	return war, nil
}

func (s *WarService) Update(ctx context.Context, war *domain.War) (*domain.War, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if war.AllianceResult == "" {
		war.AllianceResult = domain.ResultPending
	}
	ensureBattlegroups(war)
	war.UpdatedAt = time.Now()

	if err := s.warRepo.Update(ctx, war); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return war, nil
}

// Reorder resequences the season to the given id order. War numbers are
// positional, so this is the only way to move a war in the timeline short of
// a full import.
func (s *WarService) Reorder(ctx context.Context, ids []string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.warRepo.Reorder(ctx, ids); err != nil {
		return err
	}

	s.logger.Info().Int("wars", len(ids)).Msg("season reordered")
	s.cache.Invalidate(ctx)
	return nil
}

func (s *WarService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.warRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("war_id", id).Msg("war deleted")
	s.cache.Invalidate(ctx)
	return nil
}

// ensureBattlegroups pads a war out to its three battlegroups so stored
// records always conform to the shape the aggregator expects.
func ensureBattlegroups(war *domain.War) {
	for len(war.Battlegroups) < domain.BattlegroupCount {
		war.Battlegroups = append(war.Battlegroups, domain.Battlegroup{
			Number: len(war.Battlegroups) + 1,
		})
	}
	war.Battlegroups = war.Battlegroups[:domain.BattlegroupCount]
	for i := range war.Battlegroups {
		if war.Battlegroups[i].Number < 1 || war.Battlegroups[i].Number > domain.BattlegroupCount {
			war.Battlegroups[i].Number = i + 1
		}
	}
}

package service

import (
	"context"
	"fmt"

	"alliance-tracker/internal/analytics"
	"alliance-tracker/internal/constants"
	"alliance-tracker/internal/domain"
	"alliance-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SeasonService produces the derived season snapshot. The aggregation itself
// is pure; this layer only feeds it from storage and memoizes the result in
// the snapshot cache until the next roster or war mutation.
type SeasonService struct {
	warRepo    *repository.WarRepository
	playerRepo *repository.PlayerRepository
	cache      *SnapshotCache
	logger     zerolog.Logger
}

func NewSeasonService(warRepo *repository.WarRepository, playerRepo *repository.PlayerRepository, cache *SnapshotCache, logger zerolog.Logger) *SeasonService {
	return &SeasonService{warRepo: warRepo, playerRepo: playerRepo, cache: cache, logger: logger}
}

func (s *SeasonService) Analytics(ctx context.Context) (*analytics.SeasonAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if snapshot, ok := s.cache.Get(ctx); ok {
		s.logger.Debug().Msg("returning cached season snapshot")
		return snapshot, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	var wars []domain.War
	var players []domain.Player

	g.Go(func() error {
		var err error
		wars, err = s.warRepo.ListOrdered(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		players, err = s.playerRepo.List(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to load season data")
		return nil, fmt.Errorf("failed to load season data: %w", err)
	}

	snapshot := analytics.Compute(wars, players)
	s.logger.Info().
		Int("wars", snapshot.TotalWars).
		Int("players", len(snapshot.PlayerStats)).
		Int("total_fights", snapshot.TotalFights).
		Msg("season snapshot computed")

	s.cache.Set(ctx, snapshot)
	return snapshot, nil
}

func (s *SeasonService) PlayerStats(ctx context.Context, playerID string) (analytics.PlayerSeasonStats, error) {
	snapshot, err := s.Analytics(ctx)
	if err != nil {
		return analytics.PlayerSeasonStats{}, err
	}
	stats, ok := snapshot.PlayerByID(playerID)
	if !ok {
		return analytics.PlayerSeasonStats{}, fmt.Errorf("no season stats for player %s", playerID)
	}
	return stats, nil
}

func (s *SeasonService) BattlegroupStats(ctx context.Context, bgNumber int) ([]analytics.PlayerSeasonStats, error) {
	snapshot, err := s.Analytics(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.FilterByBattlegroup(bgNumber), nil
}

package service

import (
	"context"
	"fmt"

	"alliance-tracker/internal/constants"
	"alliance-tracker/internal/importer"
	"alliance-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// ImportService replaces the local season with the upstream export. Wars are
// swapped wholesale so their positions (and therefore war numbers) match the
// export order; roster entries are upserted, never deleted.
type ImportService struct {
	client     *importer.Client
	warRepo    *repository.WarRepository
	playerRepo *repository.PlayerRepository
	cache      *SnapshotCache
	logger     zerolog.Logger
}

func NewImportService(client *importer.Client, warRepo *repository.WarRepository, playerRepo *repository.PlayerRepository, cache *SnapshotCache, logger zerolog.Logger) *ImportService {
	return &ImportService{client: client, warRepo: warRepo, playerRepo: playerRepo, cache: cache, logger: logger}
}

type ImportResult struct {
	Players int `json:"players"`
	Wars    int `json:"wars"`
}

func (s *ImportService) Sync(ctx context.Context) (*ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ImportTimeout)
	defer cancel()

	if !s.client.Configured() {
		return nil, fmt.Errorf("import URL not configured")
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	export, err := s.client.FetchExport(apiCtx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch alliance export")
		return nil, fmt.Errorf("failed to fetch alliance export: %w", err)
	}

	s.logger.Info().
		Int("players", len(export.Players)).
		Int("wars", len(export.Wars)).
		Msg("alliance export fetched")

	if err := s.playerRepo.UpsertBatch(ctx, export.Players); err != nil {
		return nil, fmt.Errorf("failed to import roster: %w", err)
	}
	if err := s.warRepo.ReplaceAll(ctx, export.Wars); err != nil {
		return nil, fmt.Errorf("failed to import wars: %w", err)
	}

	s.cache.Invalidate(ctx)
	return &ImportResult{Players: len(export.Players), Wars: len(export.Wars)}, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alliance-tracker/internal/constants"
	"alliance-tracker/internal/domain"

	"github.com/rs/zerolog"
)

// WarRepository persists wars with the battlegroup tree as a JSON document
// column. The war's season position drives its war number; it is never stored
// on the war itself.
type WarRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewWarRepository(sqlDB *sql.DB, logger zerolog.Logger) *WarRepository {
	return &WarRepository{db: sqlDB, logger: logger}
}

func (r *WarRepository) Get(ctx context.Context, id string) (*domain.War, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, alliance_result, battlegroups, created_at, updated_at FROM wars WHERE id = ?`, id)
	return scanWar(row)
}

// ListOrdered returns the season's wars in position order; the index of each
// war in the result is its zero-based war number.
func (r *WarRepository) ListOrdered(ctx context.Context) ([]domain.War, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, alliance_result, battlegroups, created_at, updated_at
		 FROM wars ORDER BY position, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wars []domain.War
	for rows.Next() {
		war, err := scanWar(rows)
		if err != nil {
			return nil, err
		}
		wars = append(wars, *war)
	}
	return wars, rows.Err()
}

func (r *WarRepository) Create(ctx context.Context, war *domain.War) error {
	doc, err := json.Marshal(war.Battlegroups)
	if err != nil {
		return fmt.Errorf("failed to encode battlegroups: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO wars (id, name, alliance_result, position, battlegroups, created_at, updated_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM wars), ?, ?, ?)`,
		war.ID, war.Name, war.AllianceResult, string(doc), war.CreatedAt, war.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("war_id", war.ID).Msg("failed to insert war")
		return fmt.Errorf("failed to insert war %s: %w", war.ID, err)
	}
	return nil
}

func (r *WarRepository) Update(ctx context.Context, war *domain.War) error {
	doc, err := json.Marshal(war.Battlegroups)
	if err != nil {
		return fmt.Errorf("failed to encode battlegroups: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE wars SET name = ?, alliance_result = ?, battlegroups = ?, updated_at = ?
		WHERE id = ?`,
		war.Name, war.AllianceResult, string(doc), war.UpdatedAt, war.ID)
	if err != nil {
		return fmt.Errorf("failed to update war %s: %w", war.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *WarRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete war %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ErrInvalidOrder reports a reorder request that does not name every war
// exactly once.
var ErrInvalidOrder = errors.New("order must list every war exactly once")

// Reorder rewrites war positions to match the given id order, in one
// transaction. The list must cover the whole season: positions are war
// numbers, so a partial rewrite would silently renumber someone's history.
func (r *WarRepository) Reorder(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM wars`).Scan(&total); err != nil {
		return fmt.Errorf("failed to count wars: %w", err)
	}
	if total != len(ids) {
		return fmt.Errorf("%w: got %d ids for %d wars", ErrInvalidOrder, len(ids), total)
	}

	now := time.Now()
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidOrder, id)
		}
		seen[id] = struct{}{}

		res, err := tx.ExecContext(ctx,
			`UPDATE wars SET position = ?, updated_at = ? WHERE id = ?`, i+1, now, id)
		if err != nil {
			return fmt.Errorf("failed to reposition war %s: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: unknown id %s", ErrInvalidOrder, id)
		}
	}

	return tx.Commit()
}

// ReplaceAll swaps in an imported season: every existing war is dropped and
// the new list is written with positions matching its order.
func (r *WarRepository) ReplaceAll(ctx context.Context, wars []domain.War) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wars`); err != nil {
		return fmt.Errorf("failed to clear wars: %w", err)
	}

	now := time.Now()
	for i := 0; i < len(wars); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(wars) {
			end = len(wars)
		}

		for j, war := range wars[i:end] {
			doc, err := json.Marshal(war.Battlegroups)
			if err != nil {
				return fmt.Errorf("failed to encode battlegroups for war %s: %w", war.ID, err)
			}
			createdAt := war.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO wars (id, name, alliance_result, position, battlegroups, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				war.ID, war.Name, war.AllianceResult, i+j+1, string(doc), createdAt, now)
			if err != nil {
				return fmt.Errorf("failed to insert war %s: %w", war.ID, err)
			}
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWar(row rowScanner) (*domain.War, error) {
	var war domain.War
	var doc string
	if err := row.Scan(&war.ID, &war.Name, &war.AllianceResult, &doc, &war.CreatedAt, &war.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(doc), &war.Battlegroups); err != nil {
		return nil, fmt.Errorf("failed to decode battlegroups for war %s: %w", war.ID, err)
	}
	return &war, nil
}

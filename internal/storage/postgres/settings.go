package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSettingsStorage хранит единственную строку tracker_settings (id = 1)
type PostgresSettingsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsStorage(pool *pgxpool.Pool) *PostgresSettingsStorage {
	return &PostgresSettingsStorage{pool: pool}
}

func (s *PostgresSettingsStorage) GetSettings(ctx context.Context) (storage.Settings, bool, error) {
	const query = `
		SELECT show_kid_variants, sync_steps_from_health, push_weight_to_health,
		       cloud_sync_enabled, shared_rollups_enabled, updated_at
		FROM tracker_settings
		WHERE id = 1
	`

	var row storage.Settings
	err := s.pool.QueryRow(ctx, query).Scan(
		&row.ShowKidVariants,
		&row.SyncStepsFromHealth,
		&row.PushWeightToHealth,
		&row.CloudSyncEnabled,
		&row.SharedRollupsEnabled,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Settings{}, false, nil
		}
		return storage.Settings{}, false, err
	}

	return row, true, nil
}

func (s *PostgresSettingsStorage) UpsertSettings(ctx context.Context, in storage.Settings) (storage.Settings, error) {
	const query = `
		INSERT INTO tracker_settings (
			id, show_kid_variants, sync_steps_from_health, push_weight_to_health,
			cloud_sync_enabled, shared_rollups_enabled, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			show_kid_variants = EXCLUDED.show_kid_variants,
			sync_steps_from_health = EXCLUDED.sync_steps_from_health,
			push_weight_to_health = EXCLUDED.push_weight_to_health,
			cloud_sync_enabled = EXCLUDED.cloud_sync_enabled,
			shared_rollups_enabled = EXCLUDED.shared_rollups_enabled,
			updated_at = NOW()
		RETURNING show_kid_variants, sync_steps_from_health, push_weight_to_health,
		          cloud_sync_enabled, shared_rollups_enabled, updated_at
	`

	var out storage.Settings
	err := s.pool.QueryRow(ctx, query,
		in.ShowKidVariants,
		in.SyncStepsFromHealth,
		in.PushWeightToHealth,
		in.CloudSyncEnabled,
		in.SharedRollupsEnabled,
	).Scan(
		&out.ShowKidVariants,
		&out.SyncStepsFromHealth,
		&out.PushWeightToHealth,
		&out.CloudSyncEnabled,
		&out.SharedRollupsEnabled,
		&out.UpdatedAt,
	)
	return out, err
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage — Postgres реализация storage.Storage
type PostgresStorage struct {
	pool     *pgxpool.Pool
	entries  *PostgresEntriesStorage
	settings *PostgresSettingsStorage
}

// New создаёт PostgresStorage и засевает профили домохозяйства
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	ps := &PostgresStorage{
		pool:     pool,
		entries:  NewPostgresEntriesStorage(pool),
		settings: NewPostgresSettingsStorage(pool),
	}

	if err := ps.seedProfiles(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return ps, nil
}

// seedProfiles создаёт профили, если их ещё нет. Существующие строки не трогаем.
func (p *PostgresStorage) seedProfiles(ctx context.Context) error {
	const query = `
		INSERT INTO profiles (id, name, target_calories, target_water_oz, target_weight,
		                      starting_weight, is_primary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (id) DO NOTHING
	`

	now := time.Now()
	for i, prof := range storage.SeedProfiles() {
		_, err := p.pool.Exec(ctx, query,
			prof.ID,
			prof.Name,
			prof.TargetCalories,
			prof.TargetWaterOz,
			prof.TargetWeight,
			prof.StartingWeight,
			prof.IsPrimary,
			now.Add(time.Duration(i)*time.Millisecond),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

const profileColumns = `id, name, target_calories, target_water_oz, target_weight,
		       starting_weight, is_primary, created_at, updated_at`

func scanProfile(row pgx.Row) (storage.Profile, error) {
	var prof storage.Profile
	err := row.Scan(
		&prof.ID,
		&prof.Name,
		&prof.TargetCalories,
		&prof.TargetWaterOz,
		&prof.TargetWeight,
		&prof.StartingWeight,
		&prof.IsPrimary,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)
	return prof, err
}

func (p *PostgresStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []storage.Profile{}
	for rows.Next() {
		prof, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, prof)
	}

	return profiles, rows.Err()
}

func (p *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	prof, err := scanProfile(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &prof, nil
}

// UpdateProfile не меняет is_primary и created_at
func (p *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	const query = `
		UPDATE profiles
		SET name = $2, target_calories = $3, target_water_oz = $4,
		    target_weight = $5, starting_weight = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING is_primary, created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.TargetCalories,
		profile.TargetWaterOz,
		profile.TargetWeight,
		profile.StartingWeight,
	).Scan(&profile.IsPrimary, &profile.CreatedAt, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	return err
}

// SetPrimary переключает флаг в одной транзакции
func (p *PostgresStorage) SetPrimary(ctx context.Context, id uuid.UUID) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE profiles SET is_primary = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `UPDATE profiles SET is_primary = FALSE, updated_at = NOW() WHERE id <> $1 AND is_primary`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// EntryStorage methods - делегируем

func (p *PostgresStorage) GetOrCreateEntry(ctx context.Context, fresh storage.DayEntry) (storage.DayEntry, error) {
	return p.entries.GetOrCreateEntry(ctx, fresh)
}

func (p *PostgresStorage) UpdateEntry(ctx context.Context, fresh storage.DayEntry, mutate func(*storage.DayEntry)) (storage.DayEntry, error) {
	return p.entries.UpdateEntry(ctx, fresh, mutate)
}

// SettingsStorage methods - делегируем

func (p *PostgresStorage) GetSettings(ctx context.Context) (storage.Settings, bool, error) {
	return p.settings.GetSettings(ctx)
}

func (p *PostgresStorage) UpsertSettings(ctx context.Context, in storage.Settings) (storage.Settings, error) {
	return p.settings.UpsertSettings(ctx, in)
}

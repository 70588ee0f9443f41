package postgres

import (
	"context"
	"time"

	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEntriesStorage хранит записи в day_entries; (user_id, day) уникален.
type PostgresEntriesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresEntriesStorage(pool *pgxpool.Pool) *PostgresEntriesStorage {
	return &PostgresEntriesStorage{pool: pool}
}

const entryColumns = `id, user_id, day, weight, did_workout, meals_logged, steps, step_goal,
		       completed_meal_ids, water_ounces, notes, updated_at`

func (s *PostgresEntriesStorage) GetOrCreateEntry(ctx context.Context, fresh storage.DayEntry) (storage.DayEntry, error) {
	if err := insertFresh(ctx, s.pool, fresh); err != nil {
		return storage.DayEntry{}, err
	}

	query := `SELECT ` + entryColumns + ` FROM day_entries WHERE user_id = $1 AND day = $2::date`
	row, err := scanEntry(s.pool.QueryRow(ctx, query, fresh.UserID, storage.DayKey(fresh.Day)))
	if err != nil {
		return storage.DayEntry{}, err
	}
	row.Day = fresh.Day
	return row, nil
}

// UpdateEntry блокирует строку на время mutate, поэтому параллельные
// изменения одного дня применяются по очереди.
func (s *PostgresEntriesStorage) UpdateEntry(ctx context.Context, fresh storage.DayEntry, mutate func(*storage.DayEntry)) (storage.DayEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.DayEntry{}, err
	}
	defer tx.Rollback(ctx)

	if err := insertFresh(ctx, tx, fresh); err != nil {
		return storage.DayEntry{}, err
	}

	query := `SELECT ` + entryColumns + ` FROM day_entries WHERE user_id = $1 AND day = $2::date FOR UPDATE`
	row, err := scanEntry(tx.QueryRow(ctx, query, fresh.UserID, storage.DayKey(fresh.Day)))
	if err != nil {
		return storage.DayEntry{}, err
	}

	id := row.ID
	mutate(&row)
	row.ID, row.UserID, row.Day = id, fresh.UserID, fresh.Day
	row.UpdatedAt = time.Now()

	const update = `
		UPDATE day_entries
		SET weight = $2, did_workout = $3, meals_logged = $4, steps = $5, step_goal = $6,
		    completed_meal_ids = $7, water_ounces = $8, notes = $9, updated_at = $10
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, update,
		row.ID,
		row.Weight,
		row.DidWorkout,
		row.MealsLogged,
		row.Steps,
		row.StepGoal,
		mealIDs(row.CompletedMealIDs),
		row.WaterOunces,
		row.Notes,
		row.UpdatedAt,
	)
	if err != nil {
		return storage.DayEntry{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.DayEntry{}, err
	}
	return row, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// insertFresh добавляет строку, если её ещё нет
func insertFresh(ctx context.Context, db execer, fresh storage.DayEntry) error {
	const query = `
		INSERT INTO day_entries (id, user_id, day, weight, did_workout, meals_logged, steps,
		                         step_goal, completed_meal_ids, water_ounces, notes, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (user_id, day) DO NOTHING
	`

	id := fresh.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := db.Exec(ctx, query,
		id,
		fresh.UserID,
		storage.DayKey(fresh.Day),
		fresh.Weight,
		fresh.DidWorkout,
		fresh.MealsLogged,
		fresh.Steps,
		fresh.StepGoal,
		mealIDs(fresh.CompletedMealIDs),
		fresh.WaterOunces,
		fresh.Notes,
	)
	return err
}

func scanEntry(row pgx.Row) (storage.DayEntry, error) {
	var (
		e   storage.DayEntry
		ids []uuid.UUID
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Day,
		&e.Weight,
		&e.DidWorkout,
		&e.MealsLogged,
		&e.Steps,
		&e.StepGoal,
		&ids,
		&e.WaterOunces,
		&e.Notes,
		&e.UpdatedAt,
	)
	if len(ids) > 0 {
		e.CompletedMealIDs = ids
	}
	return e, err
}

// mealIDs keeps the column NOT NULL.
func mealIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}

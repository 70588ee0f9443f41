package dbmigrate

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Commands lists the goose commands the migrate tool accepts.
var Commands = []string{"up", "down", "status", "version", "redo", "reset"}

// Migrations returns the embedded migration files in apply order.
func Migrations() ([]string, error) {
	return fs.Glob(embedded, DefaultMigrationsDir+"/*.sql")
}

// Run executes a goose command. An empty migrationsDir uses the migrations
// embedded in the binary; otherwise files are read from disk.
func Run(command string, dbURL string, migrationsDir string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if !validCommand(command) {
		return fmt.Errorf("unknown migrate command %q", command)
	}

	if migrationsDir == "" {
		goose.SetBaseFS(embedded)
		migrationsDir = DefaultMigrationsDir
	} else {
		goose.SetBaseFS(nil)
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Run(command, db, migrationsDir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}

func validCommand(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}
	return false
}

package main

import (
	"flag"
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/dbmigrate"
)

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	direct := flag.Bool("require-direct", false, "only accept DATABASE_URL_DIRECT")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalf("usage: go run ./cmd/migrate [-dir path] [%s]", strings.Join(dbmigrate.Commands, "|"))
	}
	command := flag.Arg(0)

	cfg := config.Load()
	dbURL, source, warning, err := dbmigrate.SelectDatabaseURL(cfg, *direct)
	if err != nil {
		log.Fatal(err)
	}

	if warning != "" {
		log.Printf("WARN migrate: %s", warning)
	}
	if *dir == "" {
		log.Printf("migrate: command=%s using=%s migrations=embedded", command, source)
	} else {
		log.Printf("migrate: command=%s using=%s migrations=%s", command, source, *dir)
	}

	if err := dbmigrate.Run(command, dbURL, *dir); err != nil {
		log.Fatal(err)
	}

	log.Printf("migrate: %s completed successfully", command)
}

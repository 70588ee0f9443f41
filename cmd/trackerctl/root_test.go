package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/config"
	"github.com/fdg312/weight-tracker/internal/rollup"
	"github.com/fdg312/weight-tracker/internal/storage"
	"github.com/fdg312/weight-tracker/internal/storage/memory"
	"github.com/spf13/pflag"
)

// useMemory makes every run in the test share one in-memory store.
func useMemory(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_URL_POOLED", "")
	t.Setenv("DATABASE_URL_DIRECT", "")
	t.Setenv("TRACKER_TIME_ZONE", "UTC")

	store := memory.New()
	prev := openStore
	openStore = func(ctx context.Context, cfg *config.Config) (storage.Storage, error) { return store, nil }
	t.Cleanup(func() { openStore = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range append(rootCmd.Commands(), rootCmd) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	for _, name := range []string{"plan", "recipe", "week", "log"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %q in help output:\n%s", name, out)
		}
	}
}

func TestPlanCommand(t *testing.T) {
	useMemory(t)

	out, err := run(t, "plan", "--day", "Mon")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "Monday") || strings.Contains(out, "Tuesday") {
		t.Fatalf("expected only Monday:\n%s", out)
	}

	out, _ = run(t, "plan", "--day", "Sun")
	if !strings.Contains(out, "no meals planned") {
		t.Fatalf("expected empty Sunday without kid variants:\n%s", out)
	}

	out, _ = run(t, "plan", "--day", "Sun", "--kids")
	if strings.Contains(out, "no meals planned") || !strings.Contains(out, "[kids]") {
		t.Fatalf("expected kid meals on Sunday:\n%s", out)
	}

	if _, err := run(t, "plan", "--day", "Funday"); err == nil {
		t.Fatal("expected error for bad weekday")
	}
}

func TestRecipeCommand(t *testing.T) {
	useMemory(t)

	out, err := run(t, "recipe", catalog.SeedID("template", "mon-lunch").String())
	if err != nil {
		t.Fatalf("recipe: %v", err)
	}
	if !strings.Contains(out, "Mediterranean Power Salad") || !strings.Contains(out, "Ingredients:") {
		t.Fatalf("unexpected recipe output:\n%s", out)
	}

	out, err = run(t, "recipe", catalog.SeedID("template", "sat-dinner").String())
	if err != nil || !strings.Contains(out, "not available") {
		t.Fatalf("expected no details, err=%v out=%s", err, out)
	}

	if _, err := run(t, "recipe", "not-a-uuid"); err == nil {
		t.Fatal("expected error for bad id")
	}
}

func TestLogThenWeek(t *testing.T) {
	useMemory(t)

	if _, err := run(t, "log", "--user", "chris", "--date", "2025-06-10", "--weight", "196", "--workout"); err != nil {
		t.Fatalf("log: %v", err)
	}
	out, err := run(t, "log", "--user", "Chris", "--date", "2025-06-14", "--weight", "194.5", "--water-oz", "64", "--notes", "long walk")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(out, "194.5") || !strings.Contains(out, "long walk") {
		t.Fatalf("unexpected log output:\n%s", out)
	}

	if _, err := run(t, "log", "--user", "chris", "--date", "2025-06-14", "--weight", "heavy"); err == nil {
		t.Fatal("expected error for malformed weight")
	}

	out, err = run(t, "week", "--user", "chris", "--end", "2025-06-15", "--json")
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	var view rollup.WeekView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode week: %v\n%s", err, out)
	}
	if view.Rollup.Workouts != 1 || view.Rollup.WeightChange == nil || *view.Rollup.WeightChange != -1.5 {
		t.Fatalf("unexpected rollup: %+v", view.Rollup)
	}

	out, err = run(t, "week", "--end", "2025-06-15")
	if err != nil || !strings.Contains(out, "Chris, week ending 2025-06-15") {
		t.Fatalf("expected primary user table, err=%v out=%s", err, out)
	}

	if _, err := run(t, "week", "--user", "nobody"); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

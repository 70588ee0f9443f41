package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLoadSeed(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}

	templates := c.Templates()
	if len(templates) != 21 {
		t.Fatalf("expected 21 templates, got %d", len(templates))
	}
	if len(c.Recipes()) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(c.Recipes()))
	}

	perDay := make(map[Weekday][]MealType)
	for _, tpl := range templates {
		perDay[tpl.DayOfWeek] = append(perDay[tpl.DayOfWeek], tpl.MealType)
	}
	for _, day := range Weekdays {
		got := perDay[day]
		if len(got) != 3 || got[0] != Breakfast || got[1] != Lunch || got[2] != Dinner {
			t.Errorf("%s: expected Breakfast/Lunch/Dinner, got %v", day, got)
		}
	}
}

func TestSeedIDsAreStable(t *testing.T) {
	a := MustLoad()
	b := MustLoad()

	ta, tb := a.Templates(), b.Templates()
	for i := range ta {
		if ta[i].ID != tb[i].ID {
			t.Fatalf("template %d: ids differ across loads", i)
		}
	}
	if ta[0].ID != SeedID("template", "mon-breakfast") {
		t.Fatal("expected first template id derived from its key")
	}
}

func TestTemplateLookupReturnsCopy(t *testing.T) {
	c := MustLoad()
	first := c.Templates()[0]
	if first.RecipeID == nil {
		t.Fatal("expected Monday breakfast to link a recipe")
	}

	got, ok := c.Template(first.ID)
	if !ok {
		t.Fatal("expected template to be found")
	}
	*got.RecipeID = uuid.New()
	got.Title = "changed"

	again, _ := c.Template(first.ID)
	if again.Title != first.Title || *again.RecipeID != *first.RecipeID {
		t.Fatal("catalog was mutated through a returned copy")
	}

	if _, ok := c.Template(uuid.New()); ok {
		t.Fatal("expected unknown id to miss")
	}
}

func TestRecipeLookup(t *testing.T) {
	c := MustLoad()
	id := SeedID("recipe", "sheet-pan-chicken-tacos")

	r, ok := c.Recipe(id)
	if !ok {
		t.Fatal("expected taco recipe")
	}
	if r.Title != "Sheet-Pan Chicken Tacos" || r.Category != "Dinner" {
		t.Fatalf("unexpected recipe: %+v", r)
	}
	if _, ok := c.Recipe(uuid.New()); ok {
		t.Fatal("expected unknown recipe to miss")
	}
}

func TestWorkoutFor(t *testing.T) {
	c := MustLoad()
	if got := c.WorkoutFor(Mon); got.Title != "Upper body strength" {
		t.Fatalf("unexpected Monday workout: %+v", got)
	}
	if got := c.WorkoutFor(Weekday("Xyz")); got.Title != DefaultWorkout.Title {
		t.Fatalf("expected default workout, got %+v", got)
	}
}

func TestParseRejectsBrokenSeeds(t *testing.T) {
	cases := map[string]string{
		"bad weekday": `
templates:
  - {key: a, day: Funday, meal: Lunch, title: A}
`,
		"bad meal type": `
templates:
  - {key: a, day: Mon, meal: Brunch, title: A}
`,
		"unknown recipe": `
templates:
  - {key: a, day: Mon, meal: Lunch, title: A, recipe: nope}
`,
		"duplicate template": `
templates:
  - {key: a, day: Mon, meal: Lunch, title: A}
  - {key: a, day: Tue, meal: Lunch, title: B}
`,
		"not yaml": "templates: [",
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(src)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	src := `
recipes:
  - {key: soup, title: Soup}
templates:
  - {key: mon-dinner, day: Mon, meal: Dinner, title: Soup night, recipe: soup}
`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(c.Templates()) != 1 {
		t.Fatalf("expected 1 template, got %d", len(c.Templates()))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWeekdayHelpers(t *testing.T) {
	// 2025-06-10 was a Tuesday.
	if got := WeekdayOf(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)); got != Tue {
		t.Fatalf("expected Tue, got %s", got)
	}
	if got := WeekdayOf(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)); got != Sun {
		t.Fatalf("expected Sun, got %s", got)
	}

	d, err := ParseWeekday("saturday")
	if err != nil || d != Sat {
		t.Fatalf("expected Sat, got %s (%v)", d, err)
	}
	if _, err := ParseWeekday("someday"); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
	if Sat.FullName() != "Saturday" {
		t.Fatalf("unexpected full name %s", Sat.FullName())
	}
}

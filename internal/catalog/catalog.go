// Package catalog is the immutable household reference data: the weekly meal
// plan, its recipes and the daily workout suggestions.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidWeekday   = errors.New("invalid weekday")
	ErrTemplateNotFound = errors.New("meal template not found")
	ErrRecipeNotFound   = errors.New("recipe not found")
)

//go:embed seed.yaml
var defaultSeed []byte

// namespace roots the deterministic ids of seeded rows, so a template keeps
// its id across restarts and persisted completion sets stay valid.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fdg312/weight-tracker"))

// SeedID derives the stable id of a seeded row.
func SeedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(kind+":"+key))
}

// Catalog is built once and never mutated; accessors hand out copies.
type Catalog struct {
	templates  []MealTemplate
	templateAt map[uuid.UUID]int
	recipes    []Recipe
	recipeAt   map[uuid.UUID]int
	workouts   map[Weekday]WorkoutPlan
}

// Load parses the embedded seed.
func Load() (*Catalog, error) {
	return Parse(defaultSeed)
}

// MustLoad is Load for process start, where a broken embedded seed is a build defect.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded seed: %v", err))
	}
	return c
}

// LoadFile parses a seed override from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse builds a catalog from seed YAML and validates its references.
func Parse(data []byte) (*Catalog, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	c := &Catalog{
		templateAt: make(map[uuid.UUID]int, len(seed.Templates)),
		recipeAt:   make(map[uuid.UUID]int, len(seed.Recipes)),
		workouts:   make(map[Weekday]WorkoutPlan, len(seed.Workouts)),
	}

	recipeKeys := make(map[string]uuid.UUID, len(seed.Recipes))
	for i, r := range seed.Recipes {
		if r.Key == "" || r.Title == "" {
			return nil, fmt.Errorf("recipe[%d]: key and title are required", i)
		}
		if _, dup := recipeKeys[r.Key]; dup {
			return nil, fmt.Errorf("recipe[%d]: duplicate key %q", i, r.Key)
		}
		id := SeedID("recipe", r.Key)
		recipeKeys[r.Key] = id
		c.recipeAt[id] = len(c.recipes)
		c.recipes = append(c.recipes, Recipe{
			ID:           id,
			Title:        r.Title,
			Category:     r.Category,
			Ingredients:  r.Ingredients,
			Instructions: r.Instructions,
			Notes:        r.Notes,
		})
	}

	for i, t := range seed.Templates {
		if t.Key == "" || t.Title == "" {
			return nil, fmt.Errorf("template[%d]: key and title are required", i)
		}
		day := Weekday(t.Day)
		if !day.Valid() {
			return nil, fmt.Errorf("template[%d]: %w %q", i, ErrInvalidWeekday, t.Day)
		}
		meal := MealType(t.Meal)
		if !meal.Valid() {
			return nil, fmt.Errorf("template[%d]: invalid meal type %q", i, t.Meal)
		}

		id := SeedID("template", t.Key)
		if _, dup := c.templateAt[id]; dup {
			return nil, fmt.Errorf("template[%d]: duplicate key %q", i, t.Key)
		}

		tpl := MealTemplate{
			ID:            id,
			DayOfWeek:     day,
			MealType:      meal,
			Title:         t.Title,
			Description:   t.Description,
			IsJillVariant: t.Jill,
			IsKidVariant:  t.Kid,
		}
		if t.Recipe != "" {
			recipeID, ok := recipeKeys[t.Recipe]
			if !ok {
				return nil, fmt.Errorf("template[%d]: unknown recipe %q", i, t.Recipe)
			}
			tpl.RecipeID = &recipeID
		}

		c.templateAt[id] = len(c.templates)
		c.templates = append(c.templates, tpl)
	}

	for i, w := range seed.Workouts {
		day := Weekday(w.Day)
		if !day.Valid() {
			return nil, fmt.Errorf("workout[%d]: %w %q", i, ErrInvalidWeekday, w.Day)
		}
		c.workouts[day] = WorkoutPlan{DayOfWeek: day, Title: w.Title, Detail: w.Detail}
	}

	return c, nil
}

// Templates returns every template in declaration order.
func (c *Catalog) Templates() []MealTemplate {
	out := make([]MealTemplate, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.clone()
	}
	return out
}

// Template looks up a template by id.
func (c *Catalog) Template(id uuid.UUID) (MealTemplate, bool) {
	i, ok := c.templateAt[id]
	if !ok {
		return MealTemplate{}, false
	}
	return c.templates[i].clone(), true
}

// Recipes returns every recipe in declaration order.
func (c *Catalog) Recipes() []Recipe {
	out := make([]Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Recipe looks up a recipe by id.
func (c *Catalog) Recipe(id uuid.UUID) (Recipe, bool) {
	i, ok := c.recipeAt[id]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[i], true
}

// WorkoutFor returns the suggested session for a day, or DefaultWorkout.
func (c *Catalog) WorkoutFor(day Weekday) WorkoutPlan {
	if w, ok := c.workouts[day]; ok {
		return w
	}
	w := DefaultWorkout
	w.DayOfWeek = day
	return w
}

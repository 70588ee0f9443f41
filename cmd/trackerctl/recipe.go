package main

import (
	"errors"
	"fmt"

	"github.com/fdg312/weight-tracker/internal/mealplan"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recipeCmd = &cobra.Command{
	Use:   "recipe <template-id>",
	Short: "Show the recipe linked to a meal template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid template id %q", args[0])
		}

		return withApp(cmd.Context(), func(a *app) error {
			resp, err := a.meals.Recipe(id)
			if errors.Is(err, mealplan.ErrTemplateNotFound) {
				return fmt.Errorf("no meal template %s", id)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s %s)\n", resp.Template.Title, resp.Template.DayOfWeek, resp.Template.MealType)
			if !resp.DetailsAvailable {
				fmt.Fprintln(out, "Recipe details not available.")
				return nil
			}
			fmt.Fprintf(out, "\n%s\n", resp.Recipe.Title)
			fmt.Fprintf(out, "\nIngredients:\n%s\n", resp.Recipe.Ingredients)
			fmt.Fprintf(out, "\nInstructions:\n%s\n", resp.Recipe.Instructions)
			if resp.Recipe.Notes != "" {
				fmt.Fprintf(out, "\nNotes: %s\n", resp.Recipe.Notes)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(recipeCmd)
}

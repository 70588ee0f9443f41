package main

import (
	"fmt"

	"github.com/fdg312/weight-tracker/internal/catalog"
	"github.com/fdg312/weight-tracker/internal/mealplan"
	"github.com/spf13/cobra"
)

var (
	planDay  string
	planKids bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the weekly meal plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		var only catalog.Weekday
		if planDay != "" {
			d, err := catalog.ParseWeekday(planDay)
			if err != nil {
				return fmt.Errorf("invalid --day %q (expected Mon..Sun)", planDay)
			}
			only = d
		}

		return withApp(cmd.Context(), func(a *app) error {
			var kids *bool
			if cmd.Flags().Changed("kids") {
				kids = &planKids
			}
			plan := a.meals.Plan(cmd.Context(), kids)

			out := cmd.OutOrStdout()
			for _, day := range plan.Days {
				if only != "" && day.Day != only {
					continue
				}
				printDay(cmd, day)
			}
			if plan.ShowKidVariants {
				fmt.Fprintln(out, "(kid variants shown)")
			}
			return nil
		})
	},
}

func printDay(cmd *cobra.Command, day mealplan.DayPlan) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", day.FullName)
	if len(day.Meals) == 0 {
		fmt.Fprintln(out, "  no meals planned")
	}
	for _, m := range day.Meals {
		tag := ""
		if m.IsKidVariant {
			tag = " [kids]"
		} else if m.IsJillVariant {
			tag = " [Jill]"
		}
		recipe := ""
		if m.RecipeID != nil {
			recipe = " *"
		}
		fmt.Fprintf(out, "  %-9s %s%s%s\n", m.MealType, m.Title, tag, recipe)
		fmt.Fprintf(out, "            id %s\n", m.ID)
	}
	if day.Workout.Title != "" {
		fmt.Fprintf(out, "  workout   %s\n", day.Workout.Title)
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planDay, "day", "", "Only this weekday (Mon..Sun)")
	planCmd.Flags().BoolVar(&planKids, "kids", false, "Show kid variants (default: household setting)")
}

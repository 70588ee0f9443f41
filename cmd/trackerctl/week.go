package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	weekUser string
	weekEnd  string
	weekJSON bool
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the seven-day rollup ending on a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			ctx := cmd.Context()
			p, err := a.resolveUser(ctx, weekUser)
			if err != nil {
				return err
			}
			end, err := a.parseDate("end", weekEnd)
			if err != nil {
				return err
			}

			view, err := a.rollups.Week(ctx, p.ID, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if weekJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			fmt.Fprintf(out, "%s, week ending %s\n", view.Name, view.End)
			fmt.Fprintf(out, "%-10s %-3s %7s %8s %6s %6s %8s\n", "date", "day", "weight", "workout", "meals", "water", "steps")
			for _, d := range view.Days {
				fmt.Fprintf(out, "%-10s %-3s %7s %8s %6s %6.0f %8d\n",
					d.Date, d.Weekday, formatWeight(d.Weight), yesNo(d.DidWorkout), yesNo(d.MealsLogged), d.WaterOunces, d.Steps)
			}
			r := view.Rollup
			fmt.Fprintf(out, "Workouts: %d | Meals logged: %d | Avg water: %.1f oz | Weight change: %s | From start: %s\n",
				r.Workouts, r.MealsLogged, r.AverageWater, formatChange(r.WeightChange), formatChange(view.WeightFromStart))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
	weekCmd.Flags().StringVar(&weekUser, "user", "", "Profile name or id (default primary)")
	weekCmd.Flags().StringVar(&weekEnd, "end", "", "Last day YYYY-MM-DD (default today)")
	weekCmd.Flags().BoolVar(&weekJSON, "json", false, "Print JSON")
}

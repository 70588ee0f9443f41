package main

import (
	"errors"
	"fmt"

	"github.com/fdg312/weight-tracker/internal/entries"
	"github.com/spf13/cobra"
)

var (
	logUser    string
	logDate    string
	logWeight  string
	logWorkout bool
	logWater   float64
	logSteps   int
	logNotes   string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record values in a day entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var patch entries.Patch
		if flags.Changed("weight") {
			patch.WeightText = &logWeight
		}
		if flags.Changed("workout") {
			patch.DidWorkout = &logWorkout
		}
		if flags.Changed("water-oz") {
			patch.WaterOunces = &logWater
		}
		if flags.Changed("steps") {
			patch.Steps = &logSteps
		}
		if flags.Changed("notes") {
			patch.Notes = &logNotes
		}

		return withApp(cmd.Context(), func(a *app) error {
			ctx := cmd.Context()
			p, err := a.resolveUser(ctx, logUser)
			if err != nil {
				return err
			}
			day, err := a.parseDate("date", logDate)
			if err != nil {
				return err
			}

			e, err := a.repo.Apply(ctx, p.ID, day, patch)
			if errors.Is(err, entries.ErrInvalidWeight) {
				return fmt.Errorf("invalid --weight %q", logWeight)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", p.Name, entries.ToDTO(e).Date)
			fmt.Fprintf(out, "Weight: %s lb | Workout: %s | Water: %.0f oz | Steps: %d/%d\n",
				formatWeight(e.Weight), yesNo(e.DidWorkout), e.WaterOunces, e.Steps, e.StepGoal)
			if e.Notes != nil {
				fmt.Fprintf(out, "Notes: %s\n", *e.Notes)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().StringVar(&logUser, "user", "", "Profile name or id (default primary)")
	logCmd.Flags().StringVar(&logDate, "date", "", "Date YYYY-MM-DD (default today)")
	logCmd.Flags().StringVar(&logWeight, "weight", "", "Weight in pounds; empty clears")
	logCmd.Flags().BoolVar(&logWorkout, "workout", false, "Mark the workout done")
	logCmd.Flags().Float64Var(&logWater, "water-oz", 0, "Water in ounces")
	logCmd.Flags().IntVar(&logSteps, "steps", 0, "Step count")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "Notes; empty clears")
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skufu/vitalcalc/internal/calc"
	"github.com/Skufu/vitalcalc/internal/labs"
	"github.com/Skufu/vitalcalc/internal/registry"
	"github.com/Skufu/vitalcalc/internal/symptoms"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, a.registry.List())
			}
			for _, info := range a.registry.List() {
				fmt.Fprintf(out, "%-18s %s\n", info.Name, info.Description)
			}
			return nil
		},
	}
}

func (a *app) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval [calculator] [file|-]",
		Short: "Run a calculator on JSON input",
		Long: `Reads a JSON object from the file, or from stdin when the file is "-" or
omitted, runs the named calculator and prints the JSON result.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				input []byte
				err   error
			)
			if len(args) == 1 || args[1] == "-" {
				input, err = io.ReadAll(cmd.InOrStdin())
			} else {
				input, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			result, err := a.registry.Eval(args[0], input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) bmrCmd() *cobra.Command {
	var (
		in       calc.TDEEInput
		sex      string
		units    string
		formula  string
		activity string
	)
	cmd := &cobra.Command{
		Use:   "bmr",
		Short: "Basal metabolic rate, and TDEE when --activity is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Sex = calc.Sex(sex)
			in.Units = calc.Units(units)
			in.Formula = calc.BMRFormula(formula)
			out := cmd.OutOrStdout()
			if activity == "" {
				res, err := a.eval("bmr", in.BMRInput)
				if err != nil {
					return err
				}
				if a.asJSON {
					return printJSON(out, res)
				}
				r := res.(calc.BMRResult)
				fmt.Fprintf(out, "BMR (%s): %d kcal/day\n", r.Formula, r.BMR)
				return nil
			}
			in.Activity = calc.ActivityLevel(activity)
			res, err := a.eval("tdee", in)
			if err != nil {
				return err
			}
			if a.asJSON {
				return printJSON(out, res)
			}
			r := res.(calc.TDEEResult)
			fmt.Fprintf(out, "BMR: %d kcal/day\nTDEE (x%g): %d kcal/day\n", r.BMR, r.Multiplier, r.TDEE)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&sex, "sex", "", "male or female")
	f.IntVar(&in.Age, "age", 0, "Age in years")
	f.Float64Var(&in.Weight, "weight", 0, "Body weight (kg, or lb with --units imperial)")
	f.Float64Var(&in.Height, "height", 0, "Height (cm, or in with --units imperial)")
	f.StringVar(&units, "units", "", "metric (default) or imperial")
	f.StringVar(&formula, "formula", "", "mifflin_st_jeor (default), harris_benedict or katch_mcardle")
	f.Float64Var(&in.BodyFat, "body-fat", 0, "Body fat percentage for katch_mcardle")
	f.StringVar(&activity, "activity", "", "sedentary, light, moderate, active or very_active")
	return cmd
}

func (a *app) zonesCmd() *cobra.Command {
	var in calc.HeartRateInput
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Karvonen heart rate training zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eval("heart-rate-zones", in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, res)
			}
			r := res.(calc.HeartRateResult)
			fmt.Fprintf(out, "Max HR %d, resting %d, reserve %d\n", r.MaxHR, r.RestingHR, r.Reserve)
			for _, z := range r.Zones {
				fmt.Fprintf(out, "%-10s %3d-%3d%%  %3d-%3d bpm  %s\n", z.Name, z.MinPercent, z.MaxPercent, z.MinBPM, z.MaxBPM, z.Purpose)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&in.Age, "age", 0, "Age in years")
	cmd.Flags().IntVar(&in.RestingHR, "resting", 0, "Resting heart rate")
	cmd.Flags().IntVar(&in.MaxHR, "max", 0, "Measured maximum heart rate (default 220 - age)")
	return cmd
}

func (a *app) sleepCmd() *cobra.Command {
	var (
		wake, bed string
		cycles    []int
	)
	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Bedtimes for a wake-up time, or wake times for a bedtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := calc.SleepInput{Mode: calc.WakeAt, Time: wake, Cycles: cycles}
			switch {
			case wake != "" && bed != "":
				return fmt.Errorf("give either --wake or --bed")
			case bed != "":
				in.Mode, in.Time = calc.BedAt, bed
			}
			res, err := a.eval("sleep", in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, res)
			}
			r := res.(calc.SleepResult)
			verb := "go to bed at"
			if r.Mode == calc.BedAt {
				verb = "wake up at"
			}
			for _, o := range r.Options {
				fmt.Fprintf(out, "%s %s  (%d cycles, %.1f h)\n", verb, o.Time, o.Cycles, o.Hours)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&wake, "wake", "", "Wake-up time HH:MM")
	cmd.Flags().StringVar(&bed, "bed", "", "Bedtime HH:MM")
	cmd.Flags().IntSliceVar(&cycles, "cycles", nil, "Sleep cycles to plan for (default 6,5,4)")
	return cmd
}

func (a *app) bpCmd() *cobra.Command {
	var in calc.BloodPressureInput
	cmd := &cobra.Command{
		Use:   "bp",
		Short: "Blood pressure category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eval("blood-pressure", in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, res)
			}
			r := res.(calc.BloodPressureResult)
			fmt.Fprintf(out, "%d/%d mmHg: %s\n%s\n", r.Systolic, r.Diastolic, r.Category, r.Advice)
			return nil
		},
	}
	cmd.Flags().IntVar(&in.Systolic, "systolic", 0, "Systolic pressure (mmHg)")
	cmd.Flags().IntVar(&in.Diastolic, "diastolic", 0, "Diastolic pressure (mmHg)")
	cmd.Flags().IntVar(&in.Pulse, "pulse", 0, "Pulse (bpm)")
	return cmd
}

func (a *app) labCmd() *cobra.Command {
	var gender string
	cmd := &cobra.Command{
		Use:   "lab [test] [value]",
		Short: "Interpret one lab value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("value %q is not a number", args[1])
			}
			res, err := a.eval("lab", registry.LabInput{TestID: args[0], Value: &value, Gender: gender})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, res)
			}
			r := res.(labs.Result)
			fmt.Fprintf(out, "%s: %s\n%s\n", r.Name, r.Status, r.Interpretation)
			for _, line := range r.Recommendations {
				fmt.Fprintf(out, "  - %s\n", line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gender, "gender", "", "male or female, for sex-specific ranges")
	return cmd
}

func (a *app) symptomsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "symptoms [symptom...]",
		Short: "Conditions that match a set of symptoms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.eval("symptoms", symptoms.CheckInput{Symptoms: args, Limit: limit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.asJSON {
				return printJSON(out, res)
			}
			r := res.(symptoms.CheckResult)
			if r.Urgent {
				labels := make([]string, len(r.Emergency))
				for i, s := range r.Emergency {
					labels[i] = s.Label
				}
				fmt.Fprintf(out, "SEEK EMERGENCY CARE: %s\n", strings.Join(labels, ", "))
			}
			if len(r.Matches) == 0 {
				fmt.Fprintln(out, "No matching conditions.")
			}
			for _, m := range r.Matches {
				fmt.Fprintf(out, "%5.1f%%  %s (%s)\n", m.MatchPercentage*100, m.Condition.Name, m.Condition.Severity)
			}
			fmt.Fprintln(out, r.Disclaimer)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of conditions (default 5)")
	return cmd
}

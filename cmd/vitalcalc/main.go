package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/vitalcalc/internal/catalog"
	"github.com/Skufu/vitalcalc/internal/logging"
	"github.com/Skufu/vitalcalc/internal/registry"
	"github.com/Skufu/vitalcalc/internal/risk"
)

// app holds what every command needs once flags are parsed.
type app struct {
	verbose     bool
	dataDir     string
	denominator string
	asJSON      bool

	logger   *zap.Logger
	registry *registry.Registry
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "vitalcalc",
		Short: "Health calculators, lab interpretation and symptom matching",
		Long: `vitalcalc runs the same calculators as the HTTP API from the command line.

Every calculator takes JSON through "eval"; the most common ones also have
flag-driven shortcuts.

Example:
  vitalcalc bmr --sex male --age 30 --weight 70 --height 175
  echo '{"systolic":128,"diastolic":82}' | vitalcalc eval blood-pressure -`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory of YAML tables overriding the built-in catalog")
	root.PersistentFlags().StringVar(&a.denominator, "risk-denominator", string(risk.DenominatorAnswered), "Risk maximum over answered or all factors")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print shortcut results as JSON")

	root.AddCommand(
		a.listCmd(),
		a.evalCmd(),
		a.bmrCmd(),
		a.zonesCmd(),
		a.sleepCmd(),
		a.bpCmd(),
		a.labCmd(),
		a.symptomsCmd(),
	)
	return root
}

func (a *app) setup() error {
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	var err error
	a.logger, err = logging.New(level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	d, err := risk.ParseDenominator(a.denominator)
	if err != nil {
		return err
	}
	cat, err := catalog.Load(a.dataDir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	a.logger.Debug("catalog loaded", zap.String("dir", a.dataDir), zap.String("digest", cat.Digest()))
	a.registry = registry.New(catalog.NewHolder(cat), d)
	return nil
}

// eval runs a calculator on a Go value marshalled to JSON.
func (a *app) eval(name string, in any) (any, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("eval", zap.String("calculator", name), zap.ByteString("input", raw))
	return a.registry.Eval(name, raw)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"time"

	"github.com/rmera/gommff/chemjson"
	"github.com/rmera/gommff/internal/config"
	"github.com/rmera/gommff/internal/logging"
	"github.com/rmera/gommff/opt"
	"github.com/spf13/cobra"
)

func newMinimizer(cfg *config.Config) *opt.Minimizer {
	return &opt.Minimizer{
		GradTol: cfg.Minimizer.GradTol,
		MaxIter: cfg.Minimizer.MaxIter,
		Workers: cfg.Minimizer.Workers,
	}
}

func newMinimizeCmd(a *app) *cobra.Command {
	var (
		outPath string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "minimize SYSTEM",
		Short: "Minimize the energy of a system",
		Long: `Minimizes the energy of a system with L-BFGS. The minimized system is
written to the file given with --out (.zst and .gz are compressed).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, coords, err := loadSystem(cmd, args[0])
			if err != nil {
				return err
			}
			ff := &S.ForceField
			e0 := ff.Energy(coords)
			start := time.Now()
			res, err := newMinimizer(a.cfg).Minimize(ff, coords)
			if err != nil {
				return fmt.Errorf("minimization failed: %w", err)
			}
			a.log.Info("minimization complete",
				logging.Float64("initial_energy", e0),
				logging.Float64("final_energy", res.Energy),
				logging.Float64("grad_norm", res.GradNorm),
				logging.Int("iterations", res.Iterations),
				logging.String("status", res.Status),
				logging.Duration("elapsed", time.Since(start)),
			)
			if outPath != "" {
				if err := chemjson.WriteFile(outPath, chemjson.NewSystem(ff, res.Coords, S.Comment)); err != nil {
					return fmt.Errorf("failed to write %s: %w", outPath, err)
				}
			}
			out := cmd.OutOrStdout()
			if asJSON {
				r := &chemjson.Report{
					Energy:     res.Energy,
					Terms:      termMap(ff.Terms(res.Coords)),
					GradNorm:   res.GradNorm,
					Iterations: res.Iterations,
					Status:     res.Status,
				}
				return r.Send(out)
			}
			fmt.Fprintf(out, "Energy %.5f -> %.5f kcal/mol, gradient norm %.2e, %d iterations (%s)\n", e0, res.Energy, res.GradNorm, res.Iterations, res.Status)
			if outPath != "" {
				fmt.Fprintf(out, "Wrote %s\n", outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Output file for the minimized system")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON report")
	return cmd
}

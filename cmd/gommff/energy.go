package main

import (
	"fmt"
	"math"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/chemjson"
	"github.com/rmera/gommff/geo"
	"github.com/rmera/gommff/internal/logging"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

func newEnergyCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "energy SYSTEM",
		Short: "Print the energy of a system, term by term",
		Long:  `Reads a system (JSON, "-" for the standard input) and prints its energy breakdown, in kcal/mol.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, coords, err := loadSystem(cmd, args[0])
			if err != nil {
				return err
			}
			b := S.ForceField.Terms(coords)
			a.log.Debug("energy evaluated", logging.String("system", args[0]), logging.Int("terms", S.ForceField.Len()), logging.Float64("energy", b.Total()))
			if asJSON {
				r := &chemjson.Report{Energy: b.Total(), Terms: termMap(b)}
				return r.Send(cmd.OutOrStdout())
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON report")
	return cmd
}

func newGradientCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		check   bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "gradient SYSTEM",
		Short: "Print the analytical gradient of the energy of a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, coords, err := loadSystem(cmd, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Minimizer.Workers
			}
			ff := &S.ForceField
			grad := make([]geo.Vec[float64], coords.NVecs())
			e := ff.ParallelGradient(coords, grad, workers)
			flat := make([]float64, 0, 3*len(grad))
			for _, g := range grad {
				flat = append(flat, g[:]...)
			}
			norm := floats.Norm(flat, 2)
			out := cmd.OutOrStdout()
			if check {
				num := mmff.NumericalGradient(ff.Energy, coords, 0)
				var maxdev float64
				for i := range num {
					for j := 0; j < 3; j++ {
						maxdev = math.Max(maxdev, math.Abs(num[i][j]-grad[i][j]))
					}
				}
				a.log.Info("gradient check", logging.Float64("max_deviation", maxdev))
				if !asJSON {
					fmt.Fprintf(out, "Largest deviation from the numerical gradient: %.3e\n", maxdev)
				}
			}
			if asJSON {
				r := &chemjson.Report{Energy: e, GradNorm: norm, Gradient: make([][3]float64, len(grad))}
				for i, g := range grad {
					r.Gradient[i] = g
				}
				return r.Send(out)
			}
			fmt.Fprintf(out, "Energy %12.5f kcal/mol\n", e)
			for i, g := range grad {
				fmt.Fprintf(out, "%5d %12.5f %12.5f %12.5f\n", i, g[0], g[1], g[2])
			}
			fmt.Fprintf(out, "Norm  %12.5f kcal/mol/A\n", norm)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON report")
	cmd.Flags().BoolVar(&check, "check", false, "Compare with a numerical gradient")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of concurrent workers")
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/rmera/gommff/chemjson"
	"github.com/rmera/gommff/chemplot"
	"github.com/rmera/gommff/confsearch"
	"github.com/rmera/gommff/internal/config"
	"github.com/rmera/gommff/opt"
	"github.com/rmera/gommff/traj/stf"
	"github.com/spf13/cobra"
)

func searchOptions(cfg *config.Config, a *app) (confsearch.Options, error) {
	sc := cfg.Search
	//fail early on a bad optimizer name.
	if _, err := opt.New(sc.Optimizer, sc.Iterations, sc.Population, sc.Seed); err != nil {
		return confsearch.Options{}, err
	}
	return confsearch.Options{
		Trials: sc.Trials,
		Optimizer: func(seed int64) opt.Optimizer {
			o, _ := opt.New(sc.Optimizer, sc.Iterations, sc.Population, seed)
			return o
		},
		Seed:      sc.Seed,
		Minimizer: newMinimizer(cfg),
		EnergyTol: cfg.Duplicates.EnergyTol,
		AngleTol:  cfg.Duplicates.AngleTol,
		Logger:    a.log.Named("search"),
	}, nil
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		outPath   string
		plotPath  string
		asJSON    bool
		trials    int
		optimizer string
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "search SYSTEM",
		Short: "Run a conformer search",
		Long: `Runs a conformer search over the rotatable bonds of a system. The unique,
minimized conformers are written, lowest energy first, to the STF trajectory
given with --out (.stf, .stz or .str).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, coords, err := loadSystem(cmd, args[0])
			if err != nil {
				return err
			}
			cfg := *a.cfg
			if cmd.Flags().Changed("trials") {
				cfg.Search.Trials = trials
			}
			if cmd.Flags().Changed("optimizer") {
				cfg.Search.Optimizer = optimizer
			}
			if cmd.Flags().Changed("seed") {
				cfg.Search.Seed = seed
			}
			o, err := searchOptions(&cfg, a)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ens, err := confsearch.Search(ctx, &S.ForceField, coords, o)
			if err != nil && ens == nil {
				return fmt.Errorf("conformer search failed: %w", err)
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if outPath != "" {
				if err := writeEnsemble(outPath, ens, S.Comment); err != nil {
					return err
				}
			}
			if plotPath != "" && ens.Len() > 0 {
				if err := chemplot.EnsembleEnergies(ens, "Conformers", plotPath); err != nil {
					return fmt.Errorf("failed to plot the ensemble: %w", err)
				}
			}
			out := cmd.OutOrStdout()
			if asJSON {
				r := &chemjson.Report{RunID: ens.RunID, Energies: ens.Energies(), Iterations: ens.Trials}
				if l := ens.Lowest(); l != nil {
					r.Energy = l.Energy
				}
				r.Status = fmt.Sprintf("%d conformers, %d duplicates, %d failed", ens.Len(), ens.Duplicates, ens.Failed)
				return r.Send(out)
			}
			mean, std := ens.Stats()
			fmt.Fprintf(out, "Run %s: %d conformers from %d trials (%d duplicates, %d failed)\n", ens.RunID, ens.Len(), ens.Trials, ens.Duplicates, ens.Failed)
			for i, c := range ens.Conformers {
				fmt.Fprintf(out, "%4d %12.5f %9.5f\n", i, c.Energy, c.Energy-ens.Conformers[0].Energy)
			}
			if ens.Len() > 0 {
				fmt.Fprintf(out, "Mean energy %.5f, standard deviation %.5f kcal/mol\n", mean, std)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Output STF trajectory for the conformers")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Plot the relative conformer energies to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON report")
	cmd.Flags().IntVar(&trials, "trials", 20, "Number of search trials")
	cmd.Flags().StringVar(&optimizer, "optimizer", "mayfly", "Torsion-space optimizer: mayfly, random")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	return cmd
}

// writeEnsemble writes the conformers of E, with their energies, to the STF file name.
func writeEnsemble(name string, E *confsearch.Ensemble, comment string) error {
	if E.Len() == 0 {
		return fmt.Errorf("no conformers to write")
	}
	header := map[string]string{
		"run":        E.RunID,
		"conformers": strconv.Itoa(E.Len()),
	}
	if comment != "" {
		header["comment"] = comment
	}
	w, err := stf.NewWriter(name, E.Conformers[0].Coords.NVecs(), header)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	for _, c := range E.Conformers {
		if err := w.WNextEnergy(c.Coords, c.Energy); err != nil {
			w.Close()
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return w.Close()
}

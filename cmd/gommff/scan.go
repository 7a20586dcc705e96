package main

import (
	"fmt"

	"github.com/rmera/gommff/chemjson"
	"github.com/rmera/gommff/chemplot"
	"github.com/rmera/gommff/confsearch"
	"github.com/rmera/gommff/internal/logging"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		torsion  int
		steps    int
		plotPath string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "scan SYSTEM",
		Short: "Scan the energy along a torsion",
		Long: `Rigidly rotates the atoms on one side of the central bond of a torsion
of the system, from -180 to 180 degrees, and prints the energy at each step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			S, coords, err := loadSystem(cmd, args[0])
			if err != nil {
				return err
			}
			ff := &S.ForceField
			if torsion < 0 || torsion >= len(ff.Torsions) {
				return fmt.Errorf("torsion %d out of range, the system has %d torsions", torsion, len(ff.Torsions))
			}
			if !cmd.Flags().Changed("steps") {
				steps = a.cfg.Scan.Steps
			}
			t := ff.Torsions[torsion]
			drivers, err := confsearch.Drivers(ff, coords.NVecs())
			if err != nil {
				return err
			}
			var d *confsearch.Driver
			for i := range drivers {
				if drivers[i].Around(t) {
					d = &drivers[i]
					break
				}
			}
			if d == nil {
				return fmt.Errorf("the central bond of torsion %d (%d-%d) is not rotatable", torsion, t.J, t.K)
			}
			points, err := confsearch.Scan(ff, coords, t, *d, steps)
			if err != nil {
				return err
			}
			minima := localMinima(points)
			a.log.Info("torsion scan complete", logging.Int("torsion", torsion), logging.Int("steps", steps), logging.Int("minima", len(minima)))
			if plotPath != "" {
				title := fmt.Sprintf("Torsion %d-%d-%d-%d", t.I, t.J, t.K, t.L)
				if err := chemplot.TorsionProfile(points, minima, title, plotPath); err != nil {
					return fmt.Errorf("failed to plot the scan: %w", err)
				}
			}
			out := cmd.OutOrStdout()
			if asJSON {
				r := &chemjson.Report{Energy: ff.Energy(coords)}
				for _, p := range points {
					r.Angles = append(r.Angles, p.Angle)
					r.Energies = append(r.Energies, p.Energy)
				}
				return r.Send(out)
			}
			for i, p := range points {
				mark := ""
				if isMin(minima, i) {
					mark = " *"
				}
				fmt.Fprintf(out, "%8.2f %12.5f%s\n", p.Angle, p.Energy, mark)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&torsion, "torsion", 0, "Index of the torsion to scan")
	cmd.Flags().IntVar(&steps, "steps", 36, "Number of scan points")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Plot the energy profile to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON report")
	return cmd
}

// localMinima returns the indexes of the points lower than both neighbors.
// The scan is periodic.
func localMinima(points []confsearch.ScanPoint) []int {
	n := len(points)
	if n < 3 {
		return nil
	}
	var ret []int
	for i, p := range points {
		prev := points[(i+n-1)%n].Energy
		next := points[(i+1)%n].Energy
		if p.Energy < prev && p.Energy < next {
			ret = append(ret, i)
		}
	}
	return ret
}

func isMin(minima []int, i int) bool {
	for _, m := range minima {
		if m == i {
			return true
		}
	}
	return false
}

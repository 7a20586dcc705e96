package main

import (
	"fmt"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/chemjson"
	"github.com/rmera/gommff/v3"
	"github.com/spf13/cobra"
)

// loadSystem reads the system in name, or from the standard input if
// name is "-".
func loadSystem(cmd *cobra.Command, name string) (*chemjson.System, *v3.Matrix, error) {
	var S *chemjson.System
	var err error
	if name == "-" {
		S, err = chemjson.Decode(cmd.InOrStdin())
	} else {
		S, err = chemjson.ReadFile(name)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read system %s: %w", name, err)
	}
	coords, err := S.Matrix()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid coordinates in %s: %w", name, err)
	}
	return S, coords, nil
}

// termMap returns the energy breakdown as a map, for the JSON reports.
func termMap(b mmff.Breakdown[float64]) map[string]float64 {
	return map[string]float64{
		"bond":          b.Bond,
		"angle":         b.Angle,
		"stretchbend":   b.StretchBend,
		"oopbend":       b.OopBend,
		"torsion":       b.Torsion,
		"vdw":           b.VdW,
		"electrostatic": b.Electrostatic,
		"total":         b.Total(),
	}
}

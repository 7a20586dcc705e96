package main

import (
	"fmt"

	"github.com/rmera/gommff/internal/config"
	"github.com/rmera/gommff/internal/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// app holds the state shared by all the subcommands.
type app struct {
	cfgPath  string
	logLevel string
	cfg      *config.Config
	log      logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gommff",
		Short: "MMFF94 energies, gradients and conformer searches",
		Long: `gommff evaluates MMFF94-style force fields for already parameterized
systems (JSON files, see the chemjson package), minimizes them, scans torsions
and runs conformer searches with duplicate removal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides the configuration")

	root.AddCommand(
		newEnergyCmd(a),
		newGradientCmd(a),
		newMinimizeCmd(a),
		newSearchCmd(a),
		newScanCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if _, ok := logging.ParseLevel(a.logLevel); !ok {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}
		cfg.Log.Level = a.logLevel
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(log)
	a.cfg = cfg
	a.log = log.Named("gommff")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gommff version %s\n", version)
		},
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SridharX3/Earthquake-Visualizer/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "earthquake-visualizer",
	Short: "Browse recent earthquakes in the terminal",
	Long: "Loads earthquakes from the USGS GeoJSON feeds, filters them by magnitude and date, " +
		"and shows them as a list beside a world map. Selecting an event in either view highlights it in both.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		logCfg := cfg.Log
		if !cmd.HasParent() && logCfg.File == "" {
			// The TUI owns the terminal, so its logs go next to the database
			logCfg.File = filepath.Join(filepath.Dir(cfg.Store.Path), "earthquake-visualizer.log")
		}

		l, err := config.NewLogger(logCfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		zap.ReplaceGlobals(l)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./earthquake-visualizer.yaml or ~/.config/earthquake-visualizer/)")
	addFilterFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

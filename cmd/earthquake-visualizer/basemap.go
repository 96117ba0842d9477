package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SridharX3/Earthquake-Visualizer/internal/basemap"
)

var basemapCmd = &cobra.Command{
	Use:   "basemap",
	Short: "Manage the world map outline",
}

var basemapProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Download the land outline used by the map view",
	RunE: func(cmd *cobra.Command, _ []string) error {
		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			source = cfg.Basemap.SourceURL
		}

		needs, err := basemap.NeedsProvisioning(cfg.Store.Path)
		if err != nil {
			return eris.Wrap(err, "basemap provision")
		}
		if !needs {
			fmt.Fprintln(os.Stderr, "Basemap already provisioned.")
			return nil
		}

		progress := make(chan string)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range progress {
				fmt.Fprintln(cmd.OutOrStdout(), msg)
			}
		}()

		err = basemap.Provision(cmd.Context(), cfg.Store.Path, source, progress)
		close(progress)
		<-done
		if err != nil {
			return eris.Wrap(err, "basemap provision")
		}

		logger.Info("basemap provisioned", zap.String("db", cfg.Store.Path), zap.String("source", source))
		return nil
	},
}

func init() {
	basemapProvisionCmd.Flags().String("source", "", "zip archive with a land shapefile (default from config)")

	basemapCmd.AddCommand(basemapProvisionCmd)
	rootCmd.AddCommand(basemapCmd)
}

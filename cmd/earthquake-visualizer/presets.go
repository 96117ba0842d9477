package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SridharX3/Earthquake-Visualizer/internal/database"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
	"github.com/SridharX3/Earthquake-Visualizer/internal/presets"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved filters",
	Long:  "Commands for saving, listing and deleting named filter configurations.",
}

// -- presets list --

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved filters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		repo, err := openPresets()
		if err != nil {
			return err
		}

		saved, err := repo.List()
		if err != nil {
			return eris.Wrap(err, "presets list")
		}
		if len(saved) == 0 {
			fmt.Fprintln(os.Stderr, "No saved filters.")
			return nil
		}

		formatPresetList(cmd.OutOrStdout(), saved)
		return nil
	},
}

// -- presets save --

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a filter under a name",
	Long:  "Saves the filter described by the flags. With --days the window is recomputed each time the preset is loaded.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openPresets()
		if err != nil {
			return err
		}

		f, windowDays, err := filterFromFlags(cmd, cfg, repo, time.Now())
		if err != nil {
			return err
		}

		p := models.SavedFilter{Name: args[0], Filter: f, WindowDays: windowDays}
		if err := repo.Save(&p); err != nil {
			return eris.Wrap(err, "presets save")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (id %d)\n", p.Name, p.ID)
		return nil
	},
}

// -- presets delete --

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openPresets()
		if err != nil {
			return err
		}
		if err := repo.Delete(args[0]); err != nil {
			return eris.Wrap(err, "presets delete")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", args[0])
		return nil
	},
}

func init() {
	addFilterFlags(presetsSaveCmd)

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsSaveCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}

func openPresets() (*presets.Repository, error) {
	if err := database.EnsureUserSchema(cfg.Store.Path); err != nil {
		return nil, err
	}
	return presets.NewRepository(cfg.Store.Path), nil
}

// formatPresetList writes a tabular list of saved filters to out.
func formatPresetList(out io.Writer, saved []models.SavedFilter) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tFEED\tMAGNITUDE\tRANGE")
	_, _ = fmt.Fprintln(w, "----\t----\t---------\t-----")

	for _, p := range saved {
		rng := "-"
		switch {
		case p.WindowDays > 0:
			rng = fmt.Sprintf("last %d days", p.WindowDays)
		case p.Filter.FeedType == models.FeedCustom:
			rng = p.Filter.StartDate.UTC().Format(models.DateLayout) + " to " + p.Filter.EndDate.UTC().Format(models.DateLayout)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%.1f-%.1f\t%s\n",
			p.Name,
			p.Filter.FeedType,
			p.Filter.MinMagnitude,
			p.Filter.MaxMagnitude,
			rng,
		)
	}
	_ = w.Flush()
}

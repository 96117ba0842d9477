package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SridharX3/Earthquake-Visualizer/internal/database"
	"github.com/SridharX3/Earthquake-Visualizer/internal/loader"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
	"github.com/SridharX3/Earthquake-Visualizer/internal/presets"
	"github.com/SridharX3/Earthquake-Visualizer/internal/usgs"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Load earthquakes once and print them",
	Long:  "Runs a single load with the same filters as the viewer and prints the result as a table, JSON or YAML.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		now := time.Now()

		var repo *presets.Repository
		if name, _ := cmd.Flags().GetString("preset"); name != "" {
			if err := database.EnsureUserSchema(cfg.Store.Path); err != nil {
				return err
			}
			repo = presets.NewRepository(cfg.Store.Path)
		}

		f, _, err := filterFromFlags(cmd, cfg, repo, now)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt("limit")

		st := newLoader(cfg, f, nil, nil, logger).Load(cmd.Context(), f)
		if st.Result.Phase == loader.PhaseFailed {
			fmt.Fprintln(os.Stderr, usgs.UserMessage(st.Result.Err))
			return eris.Wrap(st.Result.Err, "fetch")
		}

		quakes := st.Result.Records
		if limit > 0 && len(quakes) > limit {
			quakes = quakes[:limit]
		}
		if len(quakes) == 0 && format == "table" {
			fmt.Fprintln(os.Stderr, "No earthquakes found.")
			return nil
		}

		return writeQuakes(cmd.OutOrStdout(), quakes, format, now)
	},
}

func init() {
	addFilterFlags(fetchCmd)
	fetchCmd.Flags().String("format", "table", "output format: table, json or yaml")
	fetchCmd.Flags().Int("limit", 0, "max number of earthquakes to print (0 for all)")

	rootCmd.AddCommand(fetchCmd)
}

// quakeRecord is the serialized form of one earthquake
type quakeRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Magnitude    float64   `json:"magnitude" yaml:"magnitude"`
	Place        string    `json:"place" yaml:"place"`
	Time         time.Time `json:"time" yaml:"time"`
	Latitude     float64   `json:"latitude" yaml:"latitude"`
	Longitude    float64   `json:"longitude" yaml:"longitude"`
	DepthKm      *float64  `json:"depth_km,omitempty" yaml:"depth_km,omitempty"`
	Significance int       `json:"significance" yaml:"significance"`
	Alert        string    `json:"alert,omitempty" yaml:"alert,omitempty"`
	Tsunami      bool      `json:"tsunami" yaml:"tsunami"`
	URL          string    `json:"url,omitempty" yaml:"url,omitempty"`
}

func toRecord(q models.Earthquake) quakeRecord {
	r := quakeRecord{
		ID:           q.ID,
		Magnitude:    q.Magnitude,
		Place:        q.Place,
		Time:         q.Time.UTC(),
		Latitude:     q.Coordinates.Latitude,
		Longitude:    q.Coordinates.Longitude,
		Significance: q.Significance,
		Alert:        q.Alert.OrElse(""),
		Tsunami:      q.Tsunami,
		URL:          q.URL,
	}
	if d, ok := q.Depth.Get(); ok {
		r.DepthKm = &d
	}
	return r
}

// writeQuakes prints quakes in the requested format
func writeQuakes(out io.Writer, quakes []models.Earthquake, format string, now time.Time) error {
	switch format {
	case "table":
		formatQuakeTable(out, quakes, now)
		return nil
	case "json", "yaml":
		records := make([]quakeRecord, len(quakes))
		for i, q := range quakes {
			records[i] = toRecord(q)
		}
		if format == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	default:
		return eris.Errorf("unknown format %q", format)
	}
}

// placeWidth is the widest PLACE cell in the table, in terminal cells
const placeWidth = 40

// formatQuakeTable writes a tabular list of earthquakes to out.
func formatQuakeTable(out io.Writer, quakes []models.Earthquake, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MAG\tPLACE\tWHEN\tDEPTH_KM\tTSUNAMI\tID")
	_, _ = fmt.Fprintln(w, "---\t-----\t----\t--------\t-------\t--")

	for _, q := range quakes {
		place := ansi.Truncate(q.Place, placeWidth, "...")
		tsunami := ""
		if q.Tsunami {
			tsunami = "yes"
		}

		_, _ = fmt.Fprintf(w, "%.1f\t%s\t%s\t%s\t%s\t%s\n",
			q.Magnitude,
			place,
			humanize.RelTime(q.Time, now, "ago", "from now"),
			q.DepthLabel(),
			tsunami,
			q.ID,
		)
	}
	_ = w.Flush()
}

package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SridharX3/Earthquake-Visualizer/internal/config"
	"github.com/SridharX3/Earthquake-Visualizer/internal/loader"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
	"github.com/SridharX3/Earthquake-Visualizer/internal/observability"
	"github.com/SridharX3/Earthquake-Visualizer/internal/presets"
	"github.com/SridharX3/Earthquake-Visualizer/internal/selection"
	"github.com/SridharX3/Earthquake-Visualizer/internal/usgs"
)

// addFilterFlags registers the flags that shape the first load
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("feed", "", "preset feed: all_day, significant_day or 4.5_day")
	cmd.Flags().Float64("min", 0, "minimum magnitude")
	cmd.Flags().Float64("max", 0, "maximum magnitude")
	cmd.Flags().String("start", "", "custom range start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "custom range end date (YYYY-MM-DD)")
	cmd.Flags().Int("days", 0, "custom range covering the last N days")
	cmd.Flags().String("preset", "", "name of a saved filter to load")
}

// filterFromFlags builds the requested filter on top of the configured one.
// The int result is the relative window in days, or 0.
func filterFromFlags(cmd *cobra.Command, c *config.Config, repo *presets.Repository, now time.Time) (models.Filter, int, error) {
	f := c.InitialFilter(now)
	windowDays := 0
	flags := cmd.Flags()

	if name, _ := flags.GetString("preset"); name != "" {
		if repo == nil {
			return models.Filter{}, 0, eris.New("saved filters are unavailable")
		}
		saved, err := repo.Get(name)
		if err != nil {
			return models.Filter{}, 0, eris.Wrapf(err, "load preset %q", name)
		}
		f = saved.Resolve(now)
		windowDays = saved.WindowDays
	}

	if flags.Changed("feed") {
		name, _ := flags.GetString("feed")
		feed, err := models.ParseFeedType(name)
		if err != nil || feed == models.FeedCustom {
			return models.Filter{}, 0, eris.Errorf("unknown feed %q", name)
		}
		f = f.WithFeed(feed)
		windowDays = 0
	}

	if flags.Changed("min") || flags.Changed("max") {
		lo, hi := f.MinMagnitude, f.MaxMagnitude
		if flags.Changed("min") {
			lo, _ = flags.GetFloat64("min")
		}
		if flags.Changed("max") {
			hi, _ = flags.GetFloat64("max")
		}
		if lo > hi {
			return models.Filter{}, 0, eris.Errorf("minimum magnitude %v exceeds maximum %v", lo, hi)
		}
		f = f.WithMagnitude(lo, hi)
	}

	if days, _ := flags.GetInt("days"); days > 0 {
		if days > models.MaxRangeDays {
			return models.Filter{}, 0, models.ErrRangeTooLong
		}
		f = f.WithDateRange(now.AddDate(0, 0, -days), now)
		windowDays = days
	}

	start, _ := flags.GetString("start")
	end, _ := flags.GetString("end")
	if start != "" || end != "" {
		s, err := models.ParseDate(start)
		if err != nil {
			return models.Filter{}, 0, eris.Wrap(err, "start date")
		}
		e, err := models.ParseDate(end)
		if err != nil {
			return models.Filter{}, 0, eris.Wrap(err, "end date")
		}
		if err := models.ValidateDateRange(s, e, now); err != nil {
			return models.Filter{}, 0, err
		}
		f = f.WithDateRange(s, e)
		windowDays = 0
	}

	return f, windowDays, nil
}

// newLoader wires the USGS client and loader from the configuration
func newLoader(c *config.Config, initial models.Filter, sel *selection.Coordinator, metrics *observability.Metrics, log *zap.Logger) *loader.Loader {
	client := usgs.NewClient(usgs.ClientConfig{
		Timeout:   c.Feed.Timeout,
		UserAgent: c.Feed.UserAgent,
		RateLimit: c.Feed.RateLimit,
		Burst:     c.Feed.Burst,
	}, log)

	return loader.New(client, initial, loader.Options{
		Endpoints: usgs.Endpoints{SummaryURL: c.Feed.SummaryURL, QueryURL: c.Feed.QueryURL},
		Selection: sel,
		Metrics:   metrics,
		Logger:    log,
		Timeout:   c.Feed.Timeout,
	})
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SridharX3/Earthquake-Visualizer/internal/database"
	"github.com/SridharX3/Earthquake-Visualizer/internal/observability"
	"github.com/SridharX3/Earthquake-Visualizer/internal/presets"
	"github.com/SridharX3/Earthquake-Visualizer/internal/selection"
	"github.com/SridharX3/Earthquake-Visualizer/internal/ui"
)

const shutdownTimeout = 5 * time.Second

// runTUI starts the interactive viewer, plus the metrics server when configured
func runTUI(cmd *cobra.Command, _ []string) error {
	now := time.Now()

	var repo *presets.Repository
	if err := database.EnsureUserSchema(cfg.Store.Path); err != nil {
		logger.Warn("saved filters disabled", zap.Error(err))
	} else {
		repo = presets.NewRepository(cfg.Store.Path)
	}

	initial, windowDays, err := filterFromFlags(cmd, cfg, repo, now)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	sel := selection.New()
	l := newLoader(cfg, initial, sel, metrics, logger)

	model := ui.NewModel(ui.Options{
		Loader:         l,
		Selection:      sel,
		Presets:        repo,
		WindowDays:     windowDays,
		Logger:         logger,
		DBPath:         cfg.Store.Path,
		BasemapEnabled: cfg.Basemap.Enabled,
		BasemapURL:     cfg.Basemap.SourceURL,
	})
	defer model.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		srv := observability.NewServer(cfg.Metrics.Addr, logger)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return eris.Wrap(err, "run application")
		}
		return nil
	})

	return g.Wait()
}

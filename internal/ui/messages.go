package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SridharX3/Earthquake-Visualizer/internal/basemap"
	"github.com/SridharX3/Earthquake-Visualizer/internal/loader"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
	"github.com/SridharX3/Earthquake-Visualizer/internal/presets"
	"github.com/SridharX3/Earthquake-Visualizer/internal/selection"
)

// Message types for async operations

// loadRequestedMsg asks the model to begin a load for filter
type loadRequestedMsg struct {
	filter models.Filter
}

// loadCompletedMsg carries the outcome of one loader run
type loadCompletedMsg struct {
	completion loader.Completion
}

// selectionMsg relays a selection event from the coordinator
type selectionMsg struct {
	event selection.Event
}

// provisioningStartedMsg hands the model the channels of a running provision
type provisioningStartedMsg struct {
	progressChan <-chan string
	resultChan   <-chan error
}

type provisionStatusMsg string

type provisionResultMsg struct {
	err error
}

// basemapLoadedMsg is sent once the land outline has been read from disk
type basemapLoadedMsg struct {
	basemap *basemap.Basemap
	err     error
}

type presetsFetchedMsg struct {
	presets []models.SavedFilter
	err     error
}

type presetSavedMsg struct {
	preset *models.SavedFilter
	err    error
}

type presetDeletedMsg struct {
	name string
	err  error
}

// requestLoad emits a loadRequestedMsg so the load begins inside Update
func requestLoad(f models.Filter) tea.Cmd {
	return func() tea.Msg {
		return loadRequestedMsg{filter: f}
	}
}

// runLoad performs the request for t. Superseded runs come back as stale
// completions and are discarded by the loader.
func runLoad(l *loader.Loader, t loader.Ticket) tea.Cmd {
	return func() tea.Msg {
		return loadCompletedMsg{completion: l.Run(context.Background(), t)}
	}
}

// waitForSelection blocks until the coordinator publishes the next event
func waitForSelection(ch <-chan selection.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return selectionMsg{event: ev}
	}
}

// initiateProvisioning starts the basemap download in the background
func initiateProvisioning(dbPath, sourceURL string) tea.Cmd {
	return func() tea.Msg {
		progress := make(chan string, 8)
		result := make(chan error, 1)

		go func() {
			defer close(progress)
			result <- basemap.Provision(context.Background(), dbPath, sourceURL, progress)
		}()

		return provisioningStartedMsg{progressChan: progress, resultChan: result}
	}
}

func waitForProvisionStatus(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return provisionStatusMsg(status)
	}
}

func waitForProvisionResult(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return provisionResultMsg{err: <-ch}
	}
}

func loadBasemap(dbPath string) tea.Cmd {
	return func() tea.Msg {
		b, err := basemap.Load(dbPath)
		return basemapLoadedMsg{basemap: b, err: err}
	}
}

func fetchPresets(r *presets.Repository) tea.Cmd {
	return func() tea.Msg {
		list, err := r.List()
		return presetsFetchedMsg{presets: list, err: err}
	}
}

func savePreset(r *presets.Repository, p models.SavedFilter) tea.Cmd {
	return func() tea.Msg {
		if err := r.Save(&p); err != nil {
			return presetSavedMsg{err: err}
		}
		return presetSavedMsg{preset: &p}
	}
}

func deletePreset(r *presets.Repository, name string) tea.Cmd {
	return func() tea.Msg {
		return presetDeletedMsg{name: name, err: r.Delete(name)}
	}
}

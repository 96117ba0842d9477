package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

func newDateInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = len(models.DateLayout)
	ti.Width = 12
	ti.SetValue(value)
	return ti
}

// openDateForm shows the custom range inputs prefilled from the current filter
func (m Model) openDateForm() (tea.Model, tea.Cmd) {
	start, end := m.filter.StartDate, m.filter.EndDate
	if m.filter.FeedType != models.FeedCustom {
		d := models.DefaultFilter(m.clock.Now())
		start, end = d.StartDate, d.EndDate
	}

	m.startInput = newDateInput("YYYY-MM-DD", start.UTC().Format(models.DateLayout))
	m.endInput = newDateInput("YYYY-MM-DD", end.UTC().Format(models.DateLayout))
	m.startInput.Focus()
	m.dateFocus = 0
	m.dateErr = nil
	m.mode = modeDates
	return m, textinput.Blink
}

// updateDateForm edits the range. Invalid input stays in the form and never
// reaches the loader.
func (m Model) updateDateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.dateFocus = 1 - m.dateFocus
		if m.dateFocus == 0 {
			m.endInput.Blur()
			m.startInput.Focus()
		} else {
			m.startInput.Blur()
			m.endInput.Focus()
		}
		return m, textinput.Blink

	case "enter":
		f, err := m.submitDates()
		if err != nil {
			m.dateErr = err
			return m, nil
		}
		m.mode = modeBrowse
		m.windowDays = 0
		return m.beginLoad(f)
	}

	if m.dateFocus == 0 {
		m.startInput, cmd = m.startInput.Update(msg)
	} else {
		m.endInput, cmd = m.endInput.Update(msg)
	}
	m.dateErr = nil
	return m, cmd
}

func (m Model) submitDates() (models.Filter, error) {
	start, err := models.ParseDate(m.startInput.Value())
	if err != nil {
		return models.Filter{}, err
	}
	end, err := models.ParseDate(m.endInput.Value())
	if err != nil {
		return models.Filter{}, err
	}
	if err := models.ValidateDateRange(start, end, m.clock.Now()); err != nil {
		return models.Filter{}, err
	}
	return m.filter.WithDateRange(start, end), nil
}

func (m Model) viewDateForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Custom Date Range"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Start: ") + m.startInput.View() + "\n")
	b.WriteString(labelStyle.Render("End:   ") + m.endInput.View() + "\n")
	if m.dateErr != nil {
		b.WriteString("\n" + errorStyle.Render(m.dateErr.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("tab: switch field • enter: apply • esc: cancel"))
	return sectionBoxStyle.Render(b.String())
}

// openSaveForm asks for a name for the current filter
func (m Model) openSaveForm() (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.Placeholder = "Name this filter"
	ti.CharLimit = 64
	ti.Width = 30
	ti.Focus()

	m.nameInput = ti
	m.saveErr = nil
	m.mode = modeSaveName
	return m, textinput.Blink
}

func (m Model) updateSaveForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		p := models.SavedFilter{
			Name:       strings.TrimSpace(m.nameInput.Value()),
			Filter:     m.filter,
			WindowDays: m.windowDays,
		}
		return m, savePreset(m.presets, p)
	}

	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) viewSaveForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Save Filter"))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(describeFilter(m.filter, m.windowDays)) + "\n\n")
	b.WriteString(m.nameInput.View() + "\n")
	if m.saveErr != nil {
		b.WriteString("\n" + errorStyle.Render(m.saveErr.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("enter: save • esc: cancel"))
	return sectionBoxStyle.Render(b.String())
}

// updatePresetPicker loads or deletes the highlighted saved filter
func (m Model) updatePresetPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		item, ok := m.presetList.SelectedItem().(presetItem)
		if !ok {
			return m, nil
		}
		m.mode = modeBrowse
		m.windowDays = item.preset.WindowDays
		return m.beginLoad(item.preset.Resolve(m.clock.Now()))
	case "d", "x":
		if item, ok := m.presetList.SelectedItem().(presetItem); ok {
			return m, deletePreset(m.presets, item.preset.Name)
		}
		return m, nil
	}

	m.presetList, cmd = m.presetList.Update(msg)
	return m, cmd
}

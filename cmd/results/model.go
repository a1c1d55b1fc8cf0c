package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tickerlab/stratbench/internal/report"
)

// Application states.
const (
	StateRunSelect = iota
	StateRunDetail
)

// Model is the main Bubble Tea model for the results browser.
type Model struct {
	state     int
	dir       string
	runsTable table.Model
	runs      []RunEntry
	selected  int
	err       error
	width     int
	height    int
}

// NewModel creates a new Model browsing the given results directory.
func NewModel(dir string) Model {
	return Model{
		state:     StateRunSelect,
		dir:       dir,
		runsTable: NewRunsTable(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return loadRuns(m.dir)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.runsTable.SetWidth(msg.Width)
		m.runsTable.SetHeight(msg.Height - 6)
		return m, nil

	case RunsLoadedMsg:
		m.runs = msg.Runs
		m.runsTable = UpdateRunsRows(m.runsTable, msg.Runs)
		return m, nil

	case LoadErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateRunSelect:
		return m.updateRunSelect(msg)
	case StateRunDetail:
		return m.updateRunDetail(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == StateRunDetail {
		m.state = StateRunSelect
	}

	return m, nil
}

func (m Model) updateRunSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if len(m.runs) > 0 && m.runsTable.Cursor() < len(m.runs) {
				m.selected = m.runsTable.Cursor()
				m.state = StateRunDetail
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.runsTable, cmd = m.runsTable.Update(msg)
	return m, cmd
}

func (m Model) updateRunDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// loadRuns returns a command that scans the results directory for run
// subdirectories and parses each summary.yaml. Directories without a
// readable summary are skipped.
func loadRuns(dir string) tea.Cmd {
	return func() tea.Msg {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		runs := make([]RunEntry, 0, len(entries))

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			doc, err := report.ReadSummaryYAML(filepath.Join(dir, entry.Name(), "summary.yaml"))
			if err != nil {
				continue
			}

			// Run directories are named <symbol>_<strategy>.
			_, strategyName, _ := strings.Cut(entry.Name(), "_")

			runs = append(runs, RunEntry{
				Dir:      entry.Name(),
				Strategy: strategyName,
				Summary:  doc,
			})
		}

		sort.Slice(runs, func(i, j int) bool { return runs[i].Dir < runs[j].Dir })

		return RunsLoadedMsg{Runs: runs}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateRunSelect:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Backtest Results - %s", m.dir)))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		if len(m.runs) == 0 {
			s.WriteString("No runs found.\n")
		} else {
			s.WriteString(m.runsTable.View())
			s.WriteString("\n")
		}

		s.WriteString(HelpStyle.Render("↑/↓: navigate | Enter: open | q: quit"))

	case StateRunDetail:
		run := m.runs[m.selected]
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Run Detail - %s", run.Dir)))
		s.WriteString("\n\n")
		s.WriteString(RenderRunDetail(run))
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Esc: back | q: quit"))
	}

	return s.String()
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-screener/internal/screener"
)

// Application states.
const (
	StateInstrumentSelect = iota
	StateSignalTable
)

// Model is the Bubble Tea model of the signal browser.
type Model struct {
	state          int
	signals        *screener.SignalTable
	location       *time.Location
	instrumentList list.Model
	signalTable    table.Model
	instrument     string
	width          int
	height         int
}

// NewModel creates a browser over a finished signal table.
func NewModel(signals *screener.SignalTable, loc *time.Location) Model {
	if loc == nil {
		loc = time.UTC
	}

	return Model{
		state:          StateInstrumentSelect,
		signals:        signals,
		location:       loc,
		instrumentList: NewInstrumentList(signals),
		signalTable:    NewSignalTable(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
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
		m.instrumentList.SetSize(msg.Width, msg.Height-4)
		m.signalTable.SetWidth(msg.Width)
		m.signalTable.SetHeight(msg.Height - 6)

		return m, nil
	}

	switch m.state {
	case StateInstrumentSelect:
		return m.updateInstrumentSelect(msg)
	case StateSignalTable:
		return m.updateSignalTable(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == StateSignalTable {
		m.state = StateInstrumentSelect
		m.instrument = ""
	}

	return m, nil
}

func (m Model) updateInstrumentSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.instrumentList.SelectedItem().(listItem); ok {
			m.instrument = item.name
			columns, rows := InstrumentTable(m.signals, item.name, m.location)

			// rows must never be wider than the columns being installed
			m.signalTable.SetRows(nil)
			m.signalTable.SetColumns(columns)
			m.signalTable.SetRows(rows)
			m.signalTable.GotoTop()
			m.state = StateSignalTable

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.instrumentList, cmd = m.instrumentList.Update(msg)

	return m, cmd
}

func (m Model) updateSignalTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.signalTable, cmd = m.signalTable.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateInstrumentSelect:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Signal Screener - %d rows", m.signals.Len())))
		s.WriteString("\n\n")
		s.WriteString(m.instrumentList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, q to quit"))

	case StateSignalTable:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Signals - %s (%s)", m.instrument, m.location)))
		s.WriteString("\n\n")

		if m.signals.Len() == 0 {
			s.WriteString("No rows\n")
		} else {
			s.WriteString(m.signalTable.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("q: quit | Esc: back | newest first"))
	}

	return s.String()
}

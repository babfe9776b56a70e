package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-screener/internal/screener"
)

// listItem implements list.Item for the instrument picker.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// Instruments returns the instruments of the table in column order.
func Instruments(signals *screener.SignalTable) []string {
	var instruments []string

	seen := make(map[string]bool)

	for _, key := range signals.Keys() {
		if !seen[key.Instrument] {
			seen[key.Instrument] = true
			instruments = append(instruments, key.Instrument)
		}
	}

	return instruments
}

// NewInstrumentList creates the instrument picker. Each entry summarizes the
// latest row of that instrument.
func NewInstrumentList(signals *screener.SignalTable) list.Model {
	instruments := Instruments(signals)
	items := make([]list.Item, 0, len(instruments))

	for _, instrument := range instruments {
		items = append(items, listItem{name: instrument, description: latestSummary(signals, instrument)})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Instrument"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

func latestSummary(signals *screener.SignalTable, instrument string) string {
	if signals.Len() == 0 {
		return "no rows"
	}

	last := signals.Len() - 1
	summary := ""

	for _, column := range signals.Columns {
		if column.Key.Instrument != instrument {
			continue
		}

		if summary != "" {
			summary += "  "
		}

		summary += fmt.Sprintf("%s %s", column.Key.Indicator, FormatSignal(column.Signals[last]))
	}

	return summary
}

// NewSignalTable creates the table showing one instrument's signals.
func NewSignalTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{{Title: "Time", Width: 25}}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// InstrumentTable lays out the columns of one instrument as a time by
// indicator grid, newest row first.
func InstrumentTable(signals *screener.SignalTable, instrument string, loc *time.Location) ([]table.Column, []table.Row) {
	columns := []table.Column{{Title: "Time", Width: 25}}

	var picked []screener.Column

	for _, column := range signals.Columns {
		if column.Key.Instrument != instrument {
			continue
		}

		picked = append(picked, column)
		columns = append(columns, table.Column{Title: string(column.Key.Indicator), Width: columnWidth(column)})
	}

	rows := make([]table.Row, 0, signals.Len())

	for i := signals.Len() - 1; i >= 0; i-- {
		row := make(table.Row, 0, len(picked)+1)
		row = append(row, signals.Index[i].In(loc).Format(time.RFC3339))

		for _, column := range picked {
			row = append(row, FormatSignal(column.Signals[i]))
		}

		rows = append(rows, row)
	}

	return columns, rows
}

func columnWidth(column screener.Column) int {
	width := max(len(column.Key.Indicator)+2, 8)

	for _, s := range column.Signals {
		if b, ok := s.Band(); ok {
			width = max(width, len(b)+2)
		}
	}

	return width
}

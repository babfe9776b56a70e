package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-screener/internal/screener"
	"github.com/rxtech-lab/argo-screener/internal/types"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	buyStyle     = cellStyle.Foreground(lipgloss.Color("42"))
	sellStyle    = cellStyle.Foreground(lipgloss.Color("203"))
	missingStyle = cellStyle.Faint(true)
)

// RenderTail renders the last n rows of the table for the terminal. Columns
// are labelled "instrument/indicator"; not computed cells show as "-".
func RenderTail(signals *screener.SignalTable, n int, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	tail := signals.Tail(n)

	headers := make([]string, 0, len(tail.Columns)+1)
	headers = append(headers, "timestamp")

	for _, key := range tail.Keys() {
		headers = append(headers, fmt.Sprintf("%s/%s", key.Instrument, key.Indicator))
	}

	rows := make([][]string, tail.Len())
	cells := make([][]types.Signal, tail.Len())

	for i, ts := range tail.Index {
		row := tail.Row(i)
		cells[i] = row

		rows[i] = make([]string, 0, len(row)+1)
		rows[i] = append(rows[i], ts.In(loc).Format(time.RFC3339))

		for _, cell := range row {
			rows[i] = append(rows[i], displayValue(cell))
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			if col == 0 || row < 0 || row >= len(cells) {
				return cellStyle
			}

			return signalStyle(cells[row][col-1])
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d of %d rows\n", tail.Len(), signals.Len())

	return b.String()
}

func displayValue(s types.Signal) string {
	if !s.IsComputed() {
		return "-"
	}

	return s.String()
}

func signalStyle(s types.Signal) lipgloss.Style {
	d, ok := s.Direction()
	if !ok {
		if s.IsComputed() {
			return cellStyle
		}

		return missingStyle
	}

	switch d {
	case types.DirectionBuy:
		return buyStyle
	case types.DirectionSell:
		return sellStyle
	default:
		return cellStyle
	}
}

// cellValue is the typed spreadsheet value of a cell: an int for directions,
// the label for trend bands and nil for not computed cells.
func cellValue(s types.Signal) any {
	if d, ok := s.Direction(); ok {
		return int(d)
	}

	if b, ok := s.Band(); ok {
		return string(b)
	}

	return nil
}

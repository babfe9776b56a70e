package screener

import (
	"time"

	"github.com/rxtech-lab/argo-screener/internal/types"
)

// ColumnKey addresses one column of the signal table.
type ColumnKey struct {
	Instrument string
	Indicator  types.IndicatorType
}

// Column is the signal series of one (instrument, indicator) pair. It has
// exactly one cell per index timestamp.
type Column struct {
	Key     ColumnKey
	Signals []types.Signal
}

// SignalTable is the result of a run: a shared time index and one column per
// requested pair, ordered by instrument and then by indicator.
type SignalTable struct {
	Index   []time.Time
	Columns []Column
}

// Len returns the number of rows.
func (t *SignalTable) Len() int {
	return len(t.Index)
}

// Column looks up the column of a pair.
func (t *SignalTable) Column(instrument string, indicator types.IndicatorType) (Column, bool) {
	for _, c := range t.Columns {
		if c.Key.Instrument == instrument && c.Key.Indicator == indicator {
			return c, true
		}
	}

	return Column{}, false
}

// Keys returns the column keys in table order.
func (t *SignalTable) Keys() []ColumnKey {
	keys := make([]ColumnKey, len(t.Columns))
	for i, c := range t.Columns {
		keys[i] = c.Key
	}

	return keys
}

// Row returns the cells at row i in column order.
func (t *SignalTable) Row(i int) []types.Signal {
	row := make([]types.Signal, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Signals[i]
	}

	return row
}

// Tail returns a table holding only the last n rows. The columns share
// storage with t.
func (t *SignalTable) Tail(n int) *SignalTable {
	if n < 0 {
		n = 0
	}

	start := max(t.Len()-n, 0)
	tail := &SignalTable{
		Index:   t.Index[start:],
		Columns: make([]Column, len(t.Columns)),
	}

	for i, c := range t.Columns {
		tail.Columns[i] = Column{Key: c.Key, Signals: c.Signals[start:]}
	}

	return tail
}

// In returns a copy of the table with the index converted to loc.
func (t *SignalTable) In(loc *time.Location) *SignalTable {
	index := make([]time.Time, len(t.Index))
	for i, ts := range t.Index {
		index[i] = ts.In(loc)
	}

	return &SignalTable{Index: index, Columns: t.Columns}
}

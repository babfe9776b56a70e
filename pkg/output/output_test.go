package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-screener/internal/screener"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
)

type OutputTestSuite struct {
	suite.Suite
	table   *screener.SignalTable
	kolkata *time.Location
	dir     string
}

func TestOutputSuite(t *testing.T) {
	suite.Run(t, new(OutputTestSuite))
}

func (suite *OutputTestSuite) SetupTest() {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	suite.Require().NoError(err)

	suite.kolkata = kolkata
	suite.dir = suite.T().TempDir()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.table = &screener.SignalTable{
		Index: []time.Time{start, start.Add(time.Hour)},
		Columns: []screener.Column{
			{
				Key: screener.ColumnKey{Instrument: "EURUSD=X", Indicator: types.IndicatorTypeRSI},
				Signals: []types.Signal{
					types.NotComputed(),
					types.DirectionSignal(types.DirectionSell),
				},
			},
			{
				Key: screener.ColumnKey{Instrument: "EURUSD=X", Indicator: types.IndicatorTypeADX},
				Signals: []types.Signal{
					types.NotComputed(),
					types.BandSignal(types.TrendBandStrongTrend),
				},
			},
			{
				Key: screener.ColumnKey{Instrument: "USDJPY=X", Indicator: types.IndicatorTypeRSI},
				Signals: []types.Signal{
					types.DirectionSignal(types.DirectionBuy),
					types.DirectionSignal(types.DirectionNeutral),
				},
			},
		},
	}
}

func (suite *OutputTestSuite) readCSV(path string) [][]string {
	file, err := os.Open(path)
	suite.Require().NoError(err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	suite.Require().NoError(err)

	return records
}

func (suite *OutputTestSuite) TestRecordsMultiHeader() {
	records := Records(suite.table, HeaderMulti, time.UTC)

	suite.Equal([][]string{
		{"ticker", "EURUSD=X", "EURUSD=X", "USDJPY=X"},
		{"indicator", "rsi", "adx", "rsi"},
		{"2024-03-01T00:00:00Z", "", "", "1"},
		{"2024-03-01T01:00:00Z", "-1", "strong trend", "0"},
	}, records)
}

func (suite *OutputTestSuite) TestRecordsFlatHeader() {
	records := Records(suite.table, HeaderFlat, time.UTC)

	suite.Equal([]string{"timestamp", "EURUSD=X/rsi", "EURUSD=X/adx", "USDJPY=X/rsi"}, records[0])
	suite.Len(records, 3)
}

func (suite *OutputTestSuite) TestRecordsInZone() {
	records := Records(suite.table, HeaderFlat, suite.kolkata)

	suite.Equal("2024-03-01T05:30:00+05:30", records[1][0])
	suite.Equal("2024-03-01T06:30:00+05:30", records[2][0])
}

func (suite *OutputTestSuite) TestCSVWriter() {
	path := filepath.Join(suite.dir, "nested", "signals.csv")

	writer, err := NewTableWriter(path, HeaderMulti, time.UTC)
	suite.Require().NoError(err)
	suite.IsType(&CSVWriter{}, writer)

	suite.Require().NoError(writer.Write(suite.table))
	suite.Equal(Records(suite.table, HeaderMulti, time.UTC), suite.readCSV(path))

	entries, err := os.ReadDir(filepath.Dir(path))
	suite.Require().NoError(err)
	suite.Len(entries, 1)
}

func (suite *OutputTestSuite) TestCSVWriterOverwrites() {
	path := filepath.Join(suite.dir, "signals.csv")
	suite.Require().NoError(os.WriteFile(path, []byte("stale"), 0o644))

	suite.Require().NoError(NewCSVWriter(path, HeaderFlat, time.UTC).Write(suite.table))

	records := suite.readCSV(path)
	suite.Equal("timestamp", records[0][0])
}

func (suite *OutputTestSuite) TestWriteFailureLeavesNoFile() {
	blocker := filepath.Join(suite.dir, "blocker")
	suite.Require().NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	path := filepath.Join(blocker, "signals.csv")
	err := NewCSVWriter(path, HeaderMulti, time.UTC).Write(suite.table)

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeOutputWriteFailed))
	suite.NoFileExists(path)
}

func (suite *OutputTestSuite) TestReplaceFileRemovesTemporaryOnError() {
	path := filepath.Join(suite.dir, "signals.csv")

	err := replaceFile(path, func(string) error {
		return errors.New(errors.ErrCodeOutputWriteFailed, "boom")
	})

	suite.Error(err)
	suite.NoFileExists(path)

	entries, err := os.ReadDir(suite.dir)
	suite.Require().NoError(err)
	suite.Empty(entries)
}

func (suite *OutputTestSuite) TestXLSXWriter() {
	path := filepath.Join(suite.dir, "signals.xlsx")

	writer, err := NewTableWriter(path, HeaderMulti, suite.kolkata)
	suite.Require().NoError(err)
	suite.IsType(&XLSXWriter{}, writer)
	suite.Require().NoError(writer.Write(suite.table))

	workbook, err := excelize.OpenFile(path)
	suite.Require().NoError(err)
	defer workbook.Close()

	rows, err := workbook.GetRows(SheetName)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 4)

	suite.Equal([]string{"ticker", "EURUSD=X", "EURUSD=X", "USDJPY=X"}, rows[0])
	suite.Equal([]string{"indicator", "rsi", "adx", "rsi"}, rows[1])
	suite.Equal([]string{"2024-03-01T05:30:00+05:30", "", "", "1"}, rows[2])
	suite.Equal([]string{"2024-03-01T06:30:00+05:30", "-1", "strong trend", "0"}, rows[3])

	cellType, err := workbook.GetCellType(SheetName, "B4")
	suite.Require().NoError(err)
	suite.NotEqual(excelize.CellTypeSharedString, cellType)
}

func (suite *OutputTestSuite) TestNewTableWriterErrors() {
	_, err := NewTableWriter("", HeaderMulti, time.UTC)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = NewTableWriter("out.csv", HeaderStyle("stacked"), time.UTC)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *OutputTestSuite) TestNewTableWriterDefaults() {
	writer, err := NewTableWriter("out.CSV", "", nil)
	suite.Require().NoError(err)

	csvWriter, ok := writer.(*CSVWriter)
	suite.Require().True(ok)
	suite.Equal(HeaderMulti, csvWriter.header)
	suite.Equal(time.UTC, csvWriter.location)
}

func (suite *OutputTestSuite) TestRenderTail() {
	rendered := RenderTail(suite.table, 1, time.UTC)

	suite.Contains(rendered, "EURUSD=X/rsi")
	suite.Contains(rendered, "USDJPY=X/rsi")
	suite.Contains(rendered, "2024-03-01T01:00:00Z")
	suite.NotContains(rendered, "2024-03-01T00:00:00Z")
	suite.Contains(rendered, "strong trend")
	suite.True(strings.HasSuffix(rendered, "1 of 2 rows\n"))
}

func (suite *OutputTestSuite) TestRenderTailNotComputed() {
	rendered := RenderTail(suite.table, 5, nil)

	suite.Contains(rendered, "-")
	suite.Contains(rendered, "2 of 2 rows")
}

func (suite *OutputTestSuite) TestCellValue() {
	suite.Equal(-1, cellValue(types.DirectionSignal(types.DirectionSell)))
	suite.Equal("sideways", cellValue(types.BandSignal(types.TrendBandSideways)))
	suite.Nil(cellValue(types.NotComputed()))
}

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
)

// MissingMarkers are the cell values read as missing
var MissingMarkers = []string{"", "NA", "NaN", "nan", "N/A", "null"}

// Loader reads race result files into a Table
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load reads path with the default loader
func Load(ctx context.Context, path string) (*Table, error) {
	return NewLoader(nil).Load(ctx, path)
}

// Load reads a delimited file with a header row and the five expected
// columns in any order. Every failure is an INPUT error.
func (l *Loader) Load(ctx context.Context, path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewInputError(fmt.Sprintf("cannot read %s", path), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Drop a UTF-8 BOM written by spreadsheet exports
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.NewInputError(fmt.Sprintf("%s is empty", path), nil)
	}

	delim, err := SniffDelimiter(data)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			appErr.WithContext("path", path)
		}
		return nil, err
	}

	table, err := l.parse(data, delim)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			appErr.WithContext("path", path)
		}
		return nil, err
	}

	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", path),
		slog.String("delimiter", delimiterName(delim)),
		slog.Any("columns", table.columns),
		slog.Int("rows", table.Len()),
		slog.Int("complete_rows", len(table.Complete(FactorRiderClass, FactorStageClass))))

	return table, nil
}

// parse builds the Table from raw bytes split on delim
func (l *Loader) parse(data []byte, delim rune) (*Table, error) {
	sniffed := delim
	if delim == ' ' {
		normalized, err := normalizeWhitespace(data)
		if err != nil {
			return nil, err
		}
		data = normalized
		delim = '\t'
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(MissingMarkers),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return nil, apperrors.NewInputError("malformed table", df.Err)
	}

	columns := make([]string, 0, df.Ncol())
	for _, name := range df.Names() {
		columns = append(columns, strings.TrimSpace(name))
	}
	if err := checkSchema(columns); err != nil {
		return nil, err
	}
	if df.Nrow() == 0 {
		return nil, apperrors.NewInputError("no data rows after header", nil)
	}

	cells := make(map[string][]string, len(columns))
	for i, name := range df.Names() {
		cells[columns[i]] = df.Col(name).Records()
	}

	rows := make([]Observation, df.Nrow())
	for i := range rows {
		points, err := parsePoints(cells[ColumnPoints][i])
		if err != nil {
			// +2 for the header and 1-based numbering
			return nil, apperrors.NewInputError(fmt.Sprintf("row %d: invalid points value %q", i+2, cells[ColumnPoints][i]), err)
		}
		rows[i] = Observation{
			Rider:      cleanLevel(cells[ColumnRider][i]),
			RiderClass: cleanLevel(cells[ColumnRiderClass][i]),
			Stage:      cleanLevel(cells[ColumnStage][i]),
			Points:     points,
			StageClass: cleanLevel(cells[ColumnStageClass][i]),
		}
	}

	return &Table{rows: rows, columns: columns, delimiter: sniffed}, nil
}

// checkSchema requires exactly the expected columns, in any order
func checkSchema(columns []string) error {
	got := append([]string(nil), columns...)
	want := append([]string(nil), ExpectedColumns...)
	sort.Strings(got)
	sort.Strings(want)

	match := len(got) == len(want)
	for i := 0; match && i < len(got); i++ {
		match = got[i] == want[i]
	}
	if !match {
		return apperrors.NewInputError(
			fmt.Sprintf("header %v does not match the expected columns %v", columns, ExpectedColumns), nil).
			WithContext("columns", columns)
	}
	return nil
}

// isMissing reports whether a cell holds one of the missing markers
func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	for _, m := range MissingMarkers {
		if v == m {
			return true
		}
	}
	return false
}

// cleanLevel trims a categorical cell and maps missing markers to ""
func cleanLevel(v string) string {
	if isMissing(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// parsePoints parses a numeric cell; missing markers become NaN
func parsePoints(v string) (float64, error) {
	if isMissing(v) {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("non-finite value")
	}
	return f, nil
}

func delimiterName(r rune) string {
	switch r {
	case '\t':
		return "tab"
	case ' ':
		return "whitespace"
	default:
		return string(r)
	}
}

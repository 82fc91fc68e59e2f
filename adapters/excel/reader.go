package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mvextras/domain/dataset"
	"mvextras/internal"
	"mvextras/internal/errors"
	"mvextras/ports"

	"github.com/xuri/excelize/v2"
)

// AttributesSheet is the optional workbook sheet carrying attribute metadata. Its header
// row names the columns name, type, unit and description.
const AttributesSheet = "attributes"

var _ ports.DatasetReader = (*DataReader)(nil)

// DataReader handles reading Excel and CSV files into datasets
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{logger: logger.Named("excel")}
}

// ReadDataset reads the first sheet of an xlsx workbook, or a CSV file, into a dataset.
// The first row holds attribute names. Attribute types come from the attributes sheet when
// present and are inferred from the values otherwise.
func (r *DataReader) ReadDataset(ctx context.Context, path string, policy dataset.EmptyStringPolicy) (*dataset.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.DataSourceError(path, err)
	}

	start := time.Now()
	var (
		rows [][]string
		meta map[string]dataset.Attribute
		err  error
	)
	switch fileType(path) {
	case "csv":
		rows, err = readCSV(path)
	default:
		rows, meta, err = readWorkbook(path)
	}
	if err != nil {
		return nil, errors.DataSourceError(path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) < 1 || len(rows[0]) == 0 {
		return nil, errors.DataSourceError(path, fmt.Errorf("file has no header row"))
	}

	ds := buildDataset(datasetName(path), rows, meta, policy)
	r.logger.Debug("read %s: %d attributes, %d cases in %s",
		filepath.Base(path), len(ds.Attributes), ds.CaseCount(), time.Since(start))
	return ds, nil
}

func fileType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return "csv"
	}
	return "xlsx"
}

func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func readWorkbook(path string) ([][]string, map[string]dataset.Attribute, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	var dataSheet string
	hasMeta := false
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, AttributesSheet) {
			hasMeta = true
			continue
		}
		if dataSheet == "" {
			dataSheet = name
		}
	}
	if dataSheet == "" {
		return nil, nil, fmt.Errorf("workbook has no data sheet")
	}

	rows, err := f.GetRows(dataSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", dataSheet, err)
	}
	if !hasMeta {
		return rows, nil, nil
	}

	metaRows, err := f.GetRows(AttributesSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", AttributesSheet, err)
	}
	return rows, parseAttributeSheet(metaRows), nil
}

func parseAttributeSheet(rows [][]string) map[string]dataset.Attribute {
	if len(rows) == 0 {
		return nil
	}
	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	meta := make(map[string]dataset.Attribute, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, "name")
		if name == "" {
			continue
		}
		meta[name] = dataset.Attribute{
			Name:        name,
			Type:        cell(row, "type"),
			Unit:        cell(row, "unit"),
			Description: cell(row, "description"),
		}
	}
	return meta
}

func buildDataset(name string, rows [][]string, meta map[string]dataset.Attribute, policy dataset.EmptyStringPolicy) *dataset.Dataset {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	data := rows[1:]

	attrs := make([]dataset.Attribute, len(headers))
	for j, h := range headers {
		if a, ok := meta[h]; ok {
			attrs[j] = a
			continue
		}
		attrs[j] = dataset.Attribute{Name: h, Type: InferType(columnValues(data, j))}
	}

	raw := make([]dataset.RawCase, len(data))
	for i, row := range data {
		values := make(map[string]any, len(headers))
		for j, h := range headers {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			values[h] = cell
		}
		raw[i] = dataset.RawCase{ID: strconv.Itoa(i + 1), Values: values}
	}

	ds := dataset.NewDataset(name, attrs, raw, policy)
	ds.Title = name
	return ds
}

func columnValues(rows [][]string, j int) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if j < len(row) {
			out = append(out, strings.TrimSpace(row[j]))
		} else {
			out = append(out, "")
		}
	}
	return out
}

// InferType returns "numeric" when every non-empty cell parses as a finite number,
// "checkbox" for true/false columns and "categorical" otherwise. A column with no
// non-empty cells is categorical.
func InferType(cells []string) string {
	numeric, boolean, seen := true, true, 0
	for _, c := range cells {
		if c == "" {
			continue
		}
		seen++
		if f, err := strconv.ParseFloat(c, 64); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			numeric = false
		}
		if l := strings.ToLower(c); l != "true" && l != "false" {
			boolean = false
		}
	}
	switch {
	case seen == 0:
		return "categorical"
	case numeric:
		return "numeric"
	case boolean:
		return "checkbox"
	default:
		return "categorical"
	}
}

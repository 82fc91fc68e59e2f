package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"mvextras/domain/stats"
	"mvextras/internal/errors"
	"mvextras/ports"

	"github.com/xuri/excelize/v2"
)

var _ ports.ResultWriter = (*DataWriter)(nil)

// DataWriter exports result tables as xlsx or CSV, chosen by file extension
type DataWriter struct{}

// NewDataWriter creates a new result writer
func NewDataWriter() *DataWriter {
	return &DataWriter{}
}

type column[T any] struct {
	header string
	value  func(T) any
}

var associationColumns = []column[stats.AssociationRecord]{
	{"TableName", func(r stats.AssociationRecord) any { return r.TableName }},
	{"Predictor", func(r stats.AssociationRecord) any { return r.Predictor }},
	{"Response", func(r stats.AssociationRecord) any { return r.Response }},
	{"correlation", func(r stats.AssociationRecord) any { return r.Correlation }},
	{"correlationType", func(r stats.AssociationRecord) any { return string(r.CorrelationType) }},
	{"nNeitherMissing", func(r stats.AssociationRecord) any { return r.NNeitherMissing }},
	{"nCases", func(r stats.AssociationRecord) any { return r.NCases }},
	{"nBlanks1", func(r stats.AssociationRecord) any { return r.NBlanks1 }},
	{"nBlanks2", func(r stats.AssociationRecord) any { return r.NBlanks2 }},
	{"correlBlanks", func(r stats.AssociationRecord) any { return r.CorrelBlanks }},
	{"CI_low95", func(r stats.AssociationRecord) any { return r.CILow95 }},
	{"CI_high95", func(r stats.AssociationRecord) any { return r.CIHigh95 }},
	{"p_value", func(r stats.AssociationRecord) any { return r.PValue }},
	{"correlation_incl_missing", func(r stats.AssociationRecord) any { return r.CorrelationInclMissing }},
	{"p_value_incl_missing", func(r stats.AssociationRecord) any { return r.PValueInclMissing }},
	{"date", func(r stats.AssociationRecord) any { return r.Date }},
	{"type1", func(r stats.AssociationRecord) any { return r.Type1 }},
	{"unit1", func(r stats.AssociationRecord) any { return r.Unit1 }},
	{"type2", func(r stats.AssociationRecord) any { return r.Type2 }},
	{"unit2", func(r stats.AssociationRecord) any { return r.Unit2 }},
	{"description1", func(r stats.AssociationRecord) any { return r.Description1 }},
	{"description2", func(r stats.AssociationRecord) any { return r.Description2 }},
	{"table_order_Predictor", func(r stats.AssociationRecord) any { return r.TableOrderPredictor }},
	{"table_order_Response", func(r stats.AssociationRecord) any { return r.TableOrderResponse }},
}

var regressionColumns = []column[stats.RegressionRow]{
	{"run_id", func(r stats.RegressionRow) any { return r.RunID }},
	{"TableName", func(r stats.RegressionRow) any { return r.TableName }},
	{"Response", func(r stats.RegressionRow) any { return r.Response }},
	{"Term", func(r stats.RegressionRow) any { return r.Term }},
	{"coefficient", func(r stats.RegressionRow) any { return r.Coefficient }},
	{"r_squared", func(r stats.RegressionRow) any { return r.RSquared }},
	{"adj_r_squared", func(r stats.RegressionRow) any { return r.AdjRSquared }},
	{"sigma", func(r stats.RegressionRow) any { return r.Sigma }},
	{"df", func(r stats.RegressionRow) any { return r.DegreesFreedom }},
	{"residual_df", func(r stats.RegressionRow) any { return r.ResidualDF }},
	{"n_used", func(r stats.RegressionRow) any { return r.NObservationsUsed }},
	{"n_total", func(r stats.RegressionRow) any { return r.NObservationsTotal }},
	{"converged", func(r stats.RegressionRow) any { return r.Converged }},
	{"iterations", func(r stats.RegressionRow) any { return r.IterationsUsed }},
	{"note", func(r stats.RegressionRow) any { return r.Note }},
	{"formula", func(r stats.RegressionRow) any { return r.Formula }},
	{"predictors_attempted", func(r stats.RegressionRow) any { return r.PredictorsAttempted }},
	{"n_terms_attempted", func(r stats.RegressionRow) any { return r.NTermsAttempted }},
	{"predictors_used", func(r stats.RegressionRow) any { return r.PredictorsUsed }},
	{"n_terms_used", func(r stats.RegressionRow) any { return r.NTermsUsed }},
	{"date", func(r stats.RegressionRow) any { return r.Date }},
}

// WriteAssociations writes one row per record under the JSON contract headers
func (w *DataWriter) WriteAssociations(path string, records []stats.AssociationRecord) error {
	return writeTable(path, "associations", associationColumns, records)
}

// WriteRegression writes one row per regression term
func (w *DataWriter) WriteRegression(path string, rows []stats.RegressionRow) error {
	return writeTable(path, "regression", regressionColumns, rows)
}

func writeTable[T any](path, sheet string, cols []column[T], items []T) error {
	table := make([][]any, 0, len(items)+1)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.header
	}
	table = append(table, header)
	for _, item := range items {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = cellValue(c.value(item))
		}
		table = append(table, row)
	}

	var err error
	if fileType(path) == "csv" {
		err = writeCSV(path, table)
	} else {
		err = writeWorkbook(path, sheet, table)
	}
	if err != nil {
		return errors.DataSourceError(path, err)
	}
	return nil
}

// cellValue renders unset stats as blank cells and undefined ones as NaN text.
func cellValue(v any) any {
	switch x := v.(type) {
	case stats.Stat:
		if !x.IsSet() {
			return nil
		}
		f, _ := x.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return x.String()
		}
		return f
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	default:
		return v
	}
}

func writeWorkbook(path, sheet string, table [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return f.SaveAs(path)
}

func writeCSV(path string, table [][]any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	out := csv.NewWriter(file)
	for _, row := range table {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = csvField(v)
		}
		if err := out.Write(record); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func csvField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

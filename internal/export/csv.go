package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"familybudget/internal/core"
)

// Row type labels used in the tabular export.
const (
	TypeFixedExpense    = "Fixed Expense"
	TypeVariableExpense = "Variable Expense"
	TypeIncome          = "Income"
)

var csvHeader = []string{"Date", "Type", "Category", "Description", "Amount", "Notes"}

// WriteCSV flattens all record kinds into one spreadsheet-friendly table.
// Income rows carry the source in the category column.
func WriteCSV(w io.Writer, fixed, variable, income []core.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	writeRows := func(records []core.Record, rowType string) error {
		for _, r := range records {
			category := r.Category
			if rowType == TypeIncome {
				category = r.Source
				if category == "" {
					category = "Income"
				}
			} else if category == "" {
				category = "Uncategorized"
			}

			date := ""
			if t, ok := r.BucketTime(); ok {
				date = t.Format("02/01/2006")
			}

			row := []string{
				date,
				rowType,
				category,
				r.Description,
				strconv.FormatFloat(r.Amount.Float(), 'f', 2, 64),
				r.Notes,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		return nil
	}

	if err := writeRows(fixed, TypeFixedExpense); err != nil {
		return err
	}
	if err := writeRows(variable, TypeVariableExpense); err != nil {
		return err
	}
	if err := writeRows(income, TypeIncome); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// CSVSummary is what a tabular import reports back. Rows are counted, not
// stored; the user is expected to verify the data by hand.
type CSVSummary struct {
	RowCount int `json:"rowCount"`
}

// ReadCSV superficially validates a tabular import: the header must carry
// Date and Amount columns. Row contents are not interpreted.
func ReadCSV(r io.Reader) (CSVSummary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return CSVSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	hasDate, hasAmount := false, false
	for _, col := range header {
		switch col {
		case "Date":
			hasDate = true
		case "Amount":
			hasAmount = true
		}
	}
	if !hasDate || !hasAmount {
		return CSVSummary{}, errors.New("csv must contain Date and Amount columns")
	}

	count := 0
	for {
		_, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return CSVSummary{}, fmt.Errorf("read csv row: %w", err)
		}
		count++
	}
	return CSVSummary{RowCount: count}, nil
}

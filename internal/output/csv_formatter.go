package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/estax/internal/domain"
)

// CSVFormatter writes one row per worksheet line followed by the decision.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.WorksheetResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Line", "Amount", "Description"}); err != nil {
		return nil, err
	}
	for _, l := range domain.WorksheetLineOrder {
		if err := w.Write([]string{l.Label(), result.FormatLine(l), describe(result, l)}); err != nil {
			return nil, err
		}
	}
	rows := [][]string{
		{"RequirePayments", strconv.FormatBool(result.Decision.RequirePayments), result.Decision.Reason},
	}
	for _, m := range result.MissingInputs {
		rows = append(rows, []string{"MissingInput", m, ""})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), w.Error()
}

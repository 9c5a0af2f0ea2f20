// Package forms maps computed 1040-ES figures onto the field identifiers of a
// fillable document. It never touches the document itself; the output is a
// field -> value assignment list plus diagnostics for the fields it could not place.
package forms

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
)

// WorksheetPage is the page namespace of the Estimated Tax Worksheet fields.
const WorksheetPage = 8

// PageFieldID returns the fillable field identifier for field n on a page,
// e.g. topmostSubform[0].Page8[0].f8_6[0].
func PageFieldID(page, n int) string {
	return fmt.Sprintf("topmostSubform[0].Page%d[0].f%d_%d[0]", page, page, n)
}

// worksheetFields is the exact table: worksheet lines occupy f8_1 through f8_22 in line order.
var worksheetFields = func() map[string]domain.Line {
	m := make(map[string]domain.Line, len(domain.WorksheetLineOrder))
	for i, l := range domain.WorksheetLineOrder {
		m[PageFieldID(WorksheetPage, i+1)] = l
	}
	return m
}()

// WorksheetFieldID returns the exact field identifier of a worksheet line.
func WorksheetFieldID(l domain.Line) (string, bool) {
	for i, ol := range domain.WorksheetLineOrder {
		if ol == l {
			return PageFieldID(WorksheetPage, i+1), true
		}
	}
	return "", false
}

// WorksheetFieldIDs lists the 22 exact identifiers in line order.
func WorksheetFieldIDs() []string {
	ids := make([]string, len(domain.WorksheetLineOrder))
	for i := range domain.WorksheetLineOrder {
		ids[i] = PageFieldID(WorksheetPage, i+1)
	}
	return ids
}

package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/estax/internal/domain"
)

// HTMLFormatter produces a printable HTML worksheet.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/worksheet.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("worksheet").Funcs(template.FuncMap{
	"curr": domain.FormatCurrency,
}).Parse(htmlTemplateSource))

type htmlLine struct {
	Label       string
	Amount      string
	Description string
}

func (h HTMLFormatter) Format(result *domain.WorksheetResult) ([]byte, error) {
	var buf bytes.Buffer
	lines := make([]htmlLine, 0, len(domain.WorksheetLineOrder))
	for _, l := range domain.WorksheetLineOrder {
		lines = append(lines, htmlLine{Label: l.Label(), Amount: result.FormatLine(l), Description: describe(result, l)})
	}
	data := struct {
		*domain.WorksheetResult
		Lines       []htmlLine
		Assumptions []string
	}{result, lines, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

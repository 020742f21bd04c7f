package output

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"assistant-client/internal/formatter"
)

// Заголовки колонок конспекта
var summaryHeader = []string{"Key Concepts & Definitions", "Relevance & Curiosity"}

// SummaryTable печатает конспект в виде таблицы из двух колонок
type SummaryTable struct {
	w     io.Writer
	table *tablewriter.Table
}

// NewSummaryTable создает таблицу конспекта
func NewSummaryTable(w io.Writer) *SummaryTable {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNormal,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
				ColMaxWidths: tw.CellWidth{Global: 50},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
	)
	return &SummaryTable{w: w, table: table}
}

// Rows раскладывает ячейки конспекта по строкам таблицы.
// Лимиты и заглушки те же, что у HTML: их выбирает formatter.Cells.
func Rows(s *formatter.StructuredSummary, opts formatter.Options) [][]string {
	return rows(formatter.New(opts).Cells(s))
}

func rows(cells formatter.Cells) [][]string {
	n := max(len(cells.Concepts), len(cells.Relevance))
	out := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := []string{"", ""}
		if i < len(cells.Concepts) {
			row[0] = cells.Concepts[i]
		}
		if i < len(cells.Relevance) {
			row[1] = cells.Relevance[i]
		}
		out = append(out, row)
	}
	return out
}

// Render печатает заголовок конспекта, таблицу и строки саммари под ней
func (t *SummaryTable) Render(s *formatter.StructuredSummary, opts formatter.Options) error {
	cells := formatter.New(opts).Cells(s)

	if _, err := io.WriteString(t.w, "\n"+s.Title+"\n\n"); err != nil {
		return err
	}

	t.table.Header(summaryHeader)
	if err := t.table.Bulk(rows(cells)); err != nil {
		return err
	}
	if err := t.table.Render(); err != nil {
		return err
	}

	if len(cells.Summary) == 0 {
		return nil
	}
	if _, err := io.WriteString(t.w, "\nSummary\n"); err != nil {
		return err
	}
	for _, line := range cells.Summary {
		if _, err := io.WriteString(t.w, "  "+line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// PlainText достает читаемый текст из HTML результата: абзацы, заголовки и пункты списков на отдельных строках
func PlainText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(lineBreaks.Replace(markup)))
	if err != nil {
		return "", err
	}

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

var lineBreaks = strings.NewReplacer(
	"<br>", "\n",
	"<br/>", "\n",
	"</p>", "</p>\n",
	"</h1>", "</h1>\n",
	"</h2>", "</h2>\n",
	"</h3>", "</h3>\n",
	"</h4>", "</h4>\n",
	"</div>", "</div>\n",
	"<li>", "<li>\n• ",
)

package formatter

import (
	"html"
	"strings"
)

// Лимиты пунктов в ячейках таблицы и в блоке саммари
const (
	MaxConceptItems   = 3
	MaxSummaryLines   = 5
	MaxRelevanceItems = 2
)

// Cells - содержимое таблицы конспекта после применения лимитов и заглушек
type Cells struct {
	Concepts             []string
	ConceptsPlaceholder  bool
	Relevance            []string
	RelevancePlaceholder bool
	Summary              []string
}

// Cells выбирает пункты для ячеек: до 3 понятий, до 2 пунктов релевантности,
// иначе заглушка. Строки саммари идут отдельным блоком под таблицей.
func (f *Formatter) Cells(s *StructuredSummary) Cells {
	var c Cells

	c.Concepts = limit(s.KeyConcepts, MaxConceptItems)
	if len(c.Concepts) == 0 {
		c.Concepts = []string{f.opts.ConceptsPlaceholder}
		c.ConceptsPlaceholder = true
	}

	c.Relevance = limit(s.Relevance, MaxRelevanceItems)
	if len(c.Relevance) == 0 {
		c.Relevance = []string{f.opts.RelevancePlaceholder}
		c.RelevancePlaceholder = true
	}

	c.Summary = limit(s.Summary, MaxSummaryLines)
	return c
}

func limit(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// FormatReadingResult форматирует ответ саммаризатора PDF в HTML-таблицу
func (f *Formatter) FormatReadingResult(text string) string {
	return f.RenderSummary(f.ParseReading(text))
}

// FormatStructuredData рендерит structured_data без распознавания формата
func (f *Formatter) FormatStructuredData(data StructuredData) string {
	return f.RenderSummary(f.FromStructuredData(data))
}

// FromStructuredData переводит structured_data в саммари
func (f *Formatter) FromStructuredData(data StructuredData) *StructuredSummary {
	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = f.opts.DefaultTitle
	}
	return &StructuredSummary{
		Title:       title,
		KeyConcepts: splitItems(string(data.KeyConcepts)),
		Relevance:   splitItems(string(data.Relevance)),
		Source:      SourceStructured,
	}
}

// RenderSummary строит блок с заголовком, таблицей из двух колонок и саммари под ней
func (f *Formatter) RenderSummary(s *StructuredSummary) string {
	cells := f.Cells(s)

	var b strings.Builder

	b.WriteString(`<div class="reading-summary-table">`)
	b.WriteString(`<h3><i class="fas fa-book"></i> `)
	b.WriteString(html.EscapeString(s.Title))
	b.WriteString(`</h3>`)
	b.WriteString(`<table class="summary-table">`)
	b.WriteString(`<thead><tr>`)
	b.WriteString(`<th><i class="fas fa-lightbulb"></i> Key Concepts &amp; Definitions</th>`)
	b.WriteString(`<th><i class="fas fa-heart"></i> Relevance &amp; Curiosity</th>`)
	b.WriteString(`</tr></thead>`)
	b.WriteString(`<tbody><tr>`)

	b.WriteString(`<td class="concepts-cell">`)
	if cells.ConceptsPlaceholder {
		writeItems(&b, "concept-item placeholder", cells.Concepts)
	} else {
		writeItems(&b, "concept-item", cells.Concepts)
	}
	b.WriteString(`</td>`)

	b.WriteString(`<td class="relevance-cell">`)
	if cells.RelevancePlaceholder {
		writeItems(&b, "relevance-item placeholder", cells.Relevance)
	} else {
		writeItems(&b, "relevance-item", cells.Relevance)
	}
	b.WriteString(`</td>`)

	b.WriteString(`</tr></tbody></table>`)

	if len(cells.Summary) > 0 {
		b.WriteString(`<div class="summary-section"><h4>Summary</h4>`)
		for _, line := range cells.Summary {
			b.WriteString(`<p>`)
			b.WriteString(html.EscapeString(line))
			b.WriteString(`</p>`)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}

func writeItems(b *strings.Builder, class string, items []string) {
	for _, item := range items {
		b.WriteString(`<div class="`)
		b.WriteString(class)
		b.WriteString(`">`)
		b.WriteString(strings.ReplaceAll(html.EscapeString(item), "\n", "<br>"))
		b.WriteString(`</div>`)
	}
}

// FormatError возвращает блок с сообщением об ошибке
func FormatError(message string) string {
	return `<div class="error-message"><i class="fas fa-exclamation-triangle"></i> <strong>Error:</strong> ` +
		html.EscapeString(message) + `</div>`
}

var defaultFormatter = New(DefaultOptions())

// FormatReadingResult форматирует ответ в режиме чтения со стандартными заглушками
func FormatReadingResult(text string) string {
	return defaultFormatter.FormatReadingResult(text)
}

// ParseReading разбирает ответ со стандартными заглушками
func ParseReading(text string) *StructuredSummary {
	return defaultFormatter.ParseReading(text)
}

package formatter

import "fmt"

// Source показывает, какой уровень разбора построил саммари
type Source string

const (
	SourceJSON       Source = "json"
	SourceTable      Source = "table"
	SourceText       Source = "text"
	SourceStructured Source = "structured"
)

const (
	DefaultTitle                = "Reading Summary"
	DefaultConceptsPlaceholder  = "Key concepts will be extracted from the reading"
	DefaultRelevancePlaceholder = "Relevant to Livia's interests in AI and education"
	DefaultMissingConcepts      = "No key concepts provided"
	DefaultMissingRelevance     = "No relevance information provided"
)

// StructuredSummary представляет разобранный результат чтения
type StructuredSummary struct {
	Title       string   `json:"title"`
	KeyConcepts []string `json:"key_concepts"`
	Relevance   []string `json:"relevance"`
	Summary     []string `json:"summary,omitempty"`
	Source      Source   `json:"source"`
}

// StructuredData - уже структурированный ответ /api/summarize
type StructuredData struct {
	Title       string     `json:"title"`
	KeyConcepts TextOrList `json:"key_concepts"`
	Relevance   TextOrList `json:"relevance"`
}

// TextOrList - поле, которое бэкенд присылает строкой или массивом строк.
// Массив склеивается через перевод строки, каждый элемент становится отдельным пунктом.
type TextOrList string

// UnmarshalJSON принимает строку, массив строк или null
func (t *TextOrList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	s, ok := stringOrList(data)
	if !ok {
		return fmt.Errorf("ожидается строка или массив строк, получено: %s", data)
	}
	*t = TextOrList(s)
	return nil
}

// Options задает тексты-заглушки для рендера
type Options struct {
	DefaultTitle         string
	ConceptsPlaceholder  string
	RelevancePlaceholder string
}

// DefaultOptions возвращает стандартные заглушки
func DefaultOptions() Options {
	return Options{
		DefaultTitle:         DefaultTitle,
		ConceptsPlaceholder:  DefaultConceptsPlaceholder,
		RelevancePlaceholder: DefaultRelevancePlaceholder,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DefaultTitle == "" {
		o.DefaultTitle = d.DefaultTitle
	}
	if o.ConceptsPlaceholder == "" {
		o.ConceptsPlaceholder = d.ConceptsPlaceholder
	}
	if o.RelevancePlaceholder == "" {
		o.RelevancePlaceholder = d.RelevancePlaceholder
	}
	return o
}

// Formatter форматирует ответы бэкенда с заданными заглушками
type Formatter struct {
	opts Options
}

// New создает форматтер
func New(opts Options) *Formatter {
	return &Formatter{opts: opts.withDefaults()}
}

// Options возвращает опции с подставленными значениями по умолчанию
func (f *Formatter) Options() Options {
	return f.opts
}

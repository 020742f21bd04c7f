package formatter

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	jsonBlockRe   = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	fenceRe       = regexp.MustCompile("```[A-Za-z]*")
	separatorRe   = regexp.MustCompile(`^[\s|:\-]+$`)
	brRe          = regexp.MustCompile(`(?i)<br\s*/?>`)
	periodDashRe  = regexp.MustCompile(`\.\s*[-–]\s*`)
	dashOnlyRe    = regexp.MustCompile(`^[\s*\-–]+$`)
	bulletRe      = regexp.MustCompile(`^[\s•*\-–]+`)
	titlePrefixRe = regexp.MustCompile(`^.*[:\-]\s*`)
)

// фразы заголовка таблицы, по которым распознается строка с пайпами
var tableHeaderPhrases = []string{
	"key concept",
	"relevance & curiosity",
	"relevance and curiosity",
}

// ParseReading определяет формат ответа и строит саммари.
// Порядок: JSON в блоке ```json, строка таблицы через пайпы, поиск по ключевым словам.
func (f *Formatter) ParseReading(text string) *StructuredSummary {
	if summary, ok := f.parseJSONBlock(text); ok {
		return summary
	}
	if summary, ok := f.parsePipeTable(text); ok {
		return summary
	}
	return f.parseKeywords(text)
}

// parseJSONBlock извлекает объект из ```json блока, если в тексте есть article_title
func (f *Formatter) parseJSONBlock(text string) (*StructuredSummary, bool) {
	if !strings.Contains(text, "```json") || !strings.Contains(text, "article_title") {
		return nil, false
	}

	match := jsonBlockRe.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match[1]), &fields); err != nil {
		return nil, false
	}

	title, ok := stringOrList(fields["article_title"])
	if !ok || strings.TrimSpace(title) == "" {
		title = f.opts.DefaultTitle
	}

	concepts, ok := stringOrList(fields["key_concepts"])
	if !ok || strings.TrimSpace(concepts) == "" {
		concepts = DefaultMissingConcepts
	}

	relevance, ok := stringOrList(fields["relevance"])
	if !ok || strings.TrimSpace(relevance) == "" {
		relevance = DefaultMissingRelevance
	}

	return &StructuredSummary{
		Title:       strings.TrimSpace(title),
		KeyConcepts: []string{strings.TrimSpace(concepts)},
		Relevance:   []string{strings.TrimSpace(relevance)},
		Source:      SourceJSON,
	}, true
}

// stringOrList принимает строку или массив строк (склеивается через перевод строки)
func stringOrList(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "\n"), true
	}

	return "", false
}

// parsePipeTable разбирает первую строку данных таблицы вида "Title | concepts | relevance"
func (f *Formatter) parsePipeTable(text string) (*StructuredSummary, bool) {
	if !strings.Contains(text, "|") || !isTableHeader(text) {
		return nil, false
	}

	cleaned := fenceRe.ReplaceAllString(text, "")

	// заголовком считается только первая строка с пайпами и фразой заголовка,
	// фраза в ячейке данных строку не пропускает
	var row string
	headerSeen := false
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") || separatorRe.MatchString(line) {
			continue
		}
		if !headerSeen && isTableHeader(line) {
			headerSeen = true
			continue
		}
		row = line
		break
	}
	if row == "" {
		return nil, false
	}

	fields := splitRow(row)
	if len(fields) < 3 {
		return nil, false
	}

	title := fields[0]
	if title == "" {
		title = f.opts.DefaultTitle
	}

	return &StructuredSummary{
		Title:       title,
		KeyConcepts: splitItems(fields[1]),
		Relevance:   splitItems(fields[2]),
		Source:      SourceTable,
	}, true
}

func isTableHeader(s string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range tableHeaderPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// splitRow делит строку по пайпам; пустые ячейки от внешних пайпов отбрасываются
func splitRow(row string) []string {
	parts := strings.Split(row, "|")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		fields = append(fields, strings.TrimSpace(p))
	}

	if strings.HasPrefix(row, "|") && len(fields) > 0 && fields[0] == "" {
		fields = fields[1:]
	}
	if strings.HasSuffix(row, "|") && len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

// splitItems делит ячейку на пункты по "*", переводу строки, <br> и тире после точки
func splitItems(raw string) []string {
	s := brRe.ReplaceAllString(raw, "\n")
	s = periodDashRe.ReplaceAllString(s, ".\n")

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '*' || r == '\n'
	})

	var items []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || dashOnlyRe.MatchString(p) {
			continue
		}
		p = strings.TrimSpace(bulletRe.ReplaceAllString(p, ""))
		if p == "" {
			continue
		}
		items = append(items, p)
	}
	return items
}

type section int

const (
	sectionSummary section = iota
	sectionConcepts
	sectionRelevance
)

// parseKeywords - последний уровень: классификация строк по ключевым словам.
// Проверки идут строго в порядке: name/title, concept/definition, relevant/interest, summary/overview.
func (f *Formatter) parseKeywords(text string) *StructuredSummary {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	result := &StructuredSummary{
		Title:  f.opts.DefaultTitle,
		Source: SourceText,
	}

	current := sectionSummary
	for _, line := range lines {
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "name") || strings.Contains(lower, "title"):
			if title := strings.TrimSpace(titlePrefixRe.ReplaceAllString(line, "")); title != "" {
				result.Title = title
			}
		case strings.Contains(lower, "concept") || strings.Contains(lower, "definition"):
			current = sectionConcepts
			if utf8.RuneCountInString(line) > 20 {
				result.KeyConcepts = append(result.KeyConcepts, line)
			}
		case strings.Contains(lower, "relevant") || strings.Contains(lower, "interest"):
			current = sectionRelevance
			if utf8.RuneCountInString(line) > 20 {
				result.Relevance = append(result.Relevance, line)
			}
		case strings.Contains(lower, "summary") || strings.Contains(lower, "overview"):
			current = sectionSummary
		default:
			if utf8.RuneCountInString(line) <= 10 {
				continue
			}
			switch current {
			case sectionConcepts:
				result.KeyConcepts = append(result.KeyConcepts, line)
			case sectionRelevance:
				result.Relevance = append(result.Relevance, line)
			default:
				result.Summary = append(result.Summary, line)
			}
		}
	}

	if len(result.KeyConcepts) == 0 && len(result.Relevance) == 0 {
		result.Summary = result.Summary[:0]
		for _, line := range lines {
			if utf8.RuneCountInString(line) > 10 {
				result.Summary = append(result.Summary, line)
			}
		}
	}

	return result
}

package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func cellTexts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func TestParseReading_JSONBlock(t *testing.T) {
	text := "Here is the summary:\n```json\n{\n" +
		`"article_title": "The Future of AI in Education",` + "\n" +
		`"key_concepts": "AIEd uses AI to enhance learning",` + "\n" +
		`"relevance": "Connects to learning design"` +
		"\n}\n```\nThanks!"

	summary := ParseReading(text)

	assert.Equal(t, SourceJSON, summary.Source)
	assert.Equal(t, "The Future of AI in Education", summary.Title)
	assert.Equal(t, []string{"AIEd uses AI to enhance learning"}, summary.KeyConcepts)
	assert.Equal(t, []string{"Connects to learning design"}, summary.Relevance)
}

func TestFormatReadingResult_JSONListConcepts(t *testing.T) {
	text := "```json\n" + `{"article_title": "Learning Analytics", "key_concepts": ["Personalized learning", "Learning analytics", "Equity", "Access"], "relevance": "Useful for K-12 work"}` + "\n```"

	doc := parseHTML(t, FormatReadingResult(text))

	assert.Contains(t, doc.Find("h3").Text(), "Learning Analytics")
	concepts := doc.Find(".concepts-cell").Text()
	for _, item := range []string{"Personalized learning", "Learning analytics", "Equity", "Access"} {
		assert.Contains(t, concepts, item)
	}
	assert.Equal(t, 3, doc.Find(".concepts-cell br").Length())
	assert.Contains(t, doc.Find(".relevance-cell").Text(), "Useful for K-12 work")
}

func TestParseReading_JSONDefaults(t *testing.T) {
	text := "```json\n" + `{"article_title": ""}` + "\n```"

	summary := ParseReading(text)

	assert.Equal(t, SourceJSON, summary.Source)
	assert.Equal(t, DefaultTitle, summary.Title)
	assert.Equal(t, []string{DefaultMissingConcepts}, summary.KeyConcepts)
	assert.Equal(t, []string{DefaultMissingRelevance}, summary.Relevance)
}

func TestParseReading_PipeRow(t *testing.T) {
	text := "Name | Key Concepts & Definitions | Relevance & Curiosity\n" +
		"---|---|---\n" +
		"Title | c1 * c2 | r1 * r2"

	summary := ParseReading(text)

	require.Equal(t, SourceTable, summary.Source)
	assert.Equal(t, "Title", summary.Title)
	assert.Equal(t, []string{"c1", "c2"}, summary.KeyConcepts)
	assert.Equal(t, []string{"r1", "r2"}, summary.Relevance)

	doc := parseHTML(t, FormatReadingResult(text))
	assert.Equal(t, []string{"c1", "c2"}, cellTexts(doc, ".concepts-cell .concept-item"))
	assert.Equal(t, []string{"r1", "r2"}, cellTexts(doc, ".relevance-cell .relevance-item"))
}

func TestParseReading_PipeRowMarkdownTable(t *testing.T) {
	text := "```markdown\n" +
		"| Name | Key Concepts & Definitions | Relevance & Curiosity |\n" +
		"|------|------|------|\n" +
		"| Equity in EdTech | - Access gap. - Digital divide<br>** | * Fits marginalized communities |\n" +
		"```"

	summary := ParseReading(text)

	require.Equal(t, SourceTable, summary.Source)
	assert.Equal(t, "Equity in EdTech", summary.Title)
	assert.Equal(t, []string{"Access gap.", "Digital divide"}, summary.KeyConcepts)
	assert.Equal(t, []string{"Fits marginalized communities"}, summary.Relevance)
}

func TestParseReading_PipeRowHeaderPhraseInDataRow(t *testing.T) {
	text := "Name | Key Concepts & Definitions | Relevance & Curiosity\n" +
		"---|---|---\n" +
		"Scaffolding | Key concept: ZPD * support | r1 * r2\n" +
		"Other | x * y | z"

	summary := ParseReading(text)

	require.Equal(t, SourceTable, summary.Source)
	assert.Equal(t, "Scaffolding", summary.Title)
	assert.Equal(t, []string{"Key concept: ZPD", "support"}, summary.KeyConcepts)
	assert.Equal(t, []string{"r1", "r2"}, summary.Relevance)
}

func TestSplitItems_DashAfterPeriod(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "A.-B", want: []string{"A.", "B"}},
		{raw: "A. - B", want: []string{"A.", "B"}},
		{raw: "A.– B", want: []string{"A.", "B"}},
		{raw: "well-known idea", want: []string{"well-known idea"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, splitItems(tt.raw))
		})
	}
}

func TestParseReading_PipeRowTooFewFieldsFallsThrough(t *testing.T) {
	text := "Key concepts | relevance & curiosity\nonly | two"

	summary := ParseReading(text)

	assert.Equal(t, SourceText, summary.Source)
}

func TestParseReading_Keywords(t *testing.T) {
	text := strings.Join([]string{
		"Title: Culturally Responsive Design",
		"Key concepts and definitions of the chapter",
		"Co-design means building with the community",
		"short",
		"This is relevant to Livia's work on equity",
		"Connects to career readiness programs",
		"Overview",
		"A general remark about the whole chapter",
	}, "\n")

	summary := ParseReading(text)

	assert.Equal(t, SourceText, summary.Source)
	assert.Equal(t, "Culturally Responsive Design", summary.Title)
	assert.Equal(t, []string{
		"Key concepts and definitions of the chapter",
		"Co-design means building with the community",
	}, summary.KeyConcepts)
	assert.Equal(t, []string{
		"This is relevant to Livia's work on equity",
		"Connects to career readiness programs",
	}, summary.Relevance)
	assert.Equal(t, []string{"A general remark about the whole chapter"}, summary.Summary)
}

func TestParseReading_TitleTakesPrecedenceOverOtherKeywords(t *testing.T) {
	summary := ParseReading("Concept name: Scaffolding")

	assert.Equal(t, "Scaffolding", summary.Title)
	assert.Empty(t, summary.KeyConcepts)
}

func TestParseReading_ProseBecomesSummary(t *testing.T) {
	text := "The chapter walks through three case studies.\nok\nEach one ends with reflection questions."

	summary := ParseReading(text)

	assert.Empty(t, summary.KeyConcepts)
	assert.Empty(t, summary.Relevance)
	assert.Equal(t, []string{
		"The chapter walks through three case studies.",
		"Each one ends with reflection questions.",
	}, summary.Summary)

	doc := parseHTML(t, FormatReadingResult(text))
	assert.Equal(t, []string{DefaultConceptsPlaceholder}, cellTexts(doc, ".concepts-cell .placeholder"))
	assert.Equal(t, []string{DefaultRelevancePlaceholder}, cellTexts(doc, ".relevance-cell .placeholder"))
	assert.Equal(t, "Summary", doc.Find(".summary-section h4").Text())
	assert.Equal(t, []string{
		"The chapter walks through three case studies.",
		"Each one ends with reflection questions.",
	}, cellTexts(doc, ".summary-section p"))
	assert.Zero(t, doc.Find(".summary-table .summary-section").Length())
}

func TestFormatReadingResult_UnstructuredShowsPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		summary []string
	}{
		{name: "empty", text: ""},
		{name: "short lines", text: "hello\nworld"},
		{name: "bare pipes", text: "|||"},
		{name: "unterminated json", text: "```json\n{"},
		{
			name: "long prose",
			text: "The chapter discusses several case studies at length.\nEach one ends with a short reflection.",
			summary: []string{
				"The chapter discusses several case studies at length.",
				"Each one ends with a short reflection.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out string
			require.NotPanics(t, func() { out = FormatReadingResult(tt.text) })

			doc := parseHTML(t, out)
			assert.Equal(t, DefaultTitle, strings.TrimSpace(doc.Find("h3").Text()))
			assert.Equal(t, []string{DefaultConceptsPlaceholder}, cellTexts(doc, ".concepts-cell .placeholder"))
			assert.Equal(t, []string{DefaultRelevancePlaceholder}, cellTexts(doc, ".relevance-cell .placeholder"))
			assert.Equal(t, tt.summary, cellTexts(doc, ".summary-section p"))
		})
	}
}

func TestFormatReadingResult_SummaryLinesLimited(t *testing.T) {
	var lines []string
	for _, l := range []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh"} {
		lines = append(lines, "This is the "+l+" line of prose")
	}

	doc := parseHTML(t, FormatReadingResult(strings.Join(lines, "\n")))

	assert.Equal(t, lines[:MaxSummaryLines], cellTexts(doc, ".summary-section p"))
}

func TestRenderSummary_NoSummarySection(t *testing.T) {
	out := New(DefaultOptions()).RenderSummary(&StructuredSummary{
		Title:       "T",
		KeyConcepts: []string{"a"},
		Relevance:   []string{"b"},
	})

	assert.NotContains(t, out, "summary-section")
}

func TestCells(t *testing.T) {
	f := New(Options{ConceptsPlaceholder: "no concepts", RelevancePlaceholder: "no relevance"})

	tests := []struct {
		name    string
		summary *StructuredSummary
		want    Cells
	}{
		{
			name:    "limits",
			summary: &StructuredSummary{KeyConcepts: []string{"a", "b", "c", "d"}, Relevance: []string{"x", "y", "z"}},
			want:    Cells{Concepts: []string{"a", "b", "c"}, Relevance: []string{"x", "y"}},
		},
		{
			name:    "placeholders with summary",
			summary: &StructuredSummary{Summary: []string{"s1", "s2"}},
			want: Cells{
				Concepts:             []string{"no concepts"},
				ConceptsPlaceholder:  true,
				Relevance:            []string{"no relevance"},
				RelevancePlaceholder: true,
				Summary:              []string{"s1", "s2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Cells(tt.summary))
		})
	}
}

func TestFormatReadingResult_BrokenJSONMatchesFallback(t *testing.T) {
	for _, body := range []string{
		"Name | Key Concepts | Relevance & Curiosity\nReading | a * b | c",
		"Title: Some Reading\nKey concepts are worth listing here\nThis is relevant to her interests",
	} {
		broken := "```json\n{\"article_title\": \"x\", \"key_concepts\": }\n```\n" + body

		f := New(DefaultOptions())
		fallback, ok := f.parsePipeTable(broken)
		if !ok {
			fallback = f.parseKeywords(broken)
		}

		assert.NotEqual(t, SourceJSON, f.ParseReading(broken).Source)
		assert.Equal(t, f.RenderSummary(fallback), f.FormatReadingResult(broken))
	}
}

func TestFormatReadingResult_Limits(t *testing.T) {
	text := "Name | Key Concepts | Relevance & Curiosity\nT | a * b * c * d * e | r1 * r2 * r3"

	doc := parseHTML(t, FormatReadingResult(text))

	assert.Equal(t, []string{"a", "b", "c"}, cellTexts(doc, ".concept-item"))
	assert.Equal(t, []string{"r1", "r2"}, cellTexts(doc, ".relevance-item"))
}

func TestFormatReadingResult_EscapesText(t *testing.T) {
	text := "Name | Key Concepts | Relevance & Curiosity\n<script>x</script> | a | b"

	out := FormatReadingResult(text)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestNew_CustomPlaceholders(t *testing.T) {
	f := New(Options{RelevancePlaceholder: "Ties to my research"})

	doc := parseHTML(t, f.FormatReadingResult("nothing"))

	assert.Equal(t, []string{"Ties to my research"}, cellTexts(doc, ".relevance-cell .placeholder"))
	assert.Equal(t, []string{DefaultConceptsPlaceholder}, cellTexts(doc, ".concepts-cell .placeholder"))
}

func TestFormatStructuredData(t *testing.T) {
	f := New(DefaultOptions())

	summary := f.FromStructuredData(StructuredData{
		Title:       "Reading 4",
		KeyConcepts: "• Scaffolding\n• Zone of proximal development",
		Relevance:   "",
	})

	assert.Equal(t, SourceStructured, summary.Source)
	assert.Equal(t, []string{"Scaffolding", "Zone of proximal development"}, summary.KeyConcepts)
	assert.Empty(t, summary.Relevance)

	doc := parseHTML(t, f.FormatStructuredData(StructuredData{KeyConcepts: "x"}))
	assert.Equal(t, DefaultTitle, strings.TrimSpace(doc.Find("h3").Text()))
}

func TestTextOrList_UnmarshalJSON(t *testing.T) {
	var data StructuredData
	require.NoError(t, json.Unmarshal([]byte(`{"title":"T","key_concepts":["a","b"],"relevance":"r"}`), &data))

	assert.Equal(t, TextOrList("a\nb"), data.KeyConcepts)
	assert.Equal(t, TextOrList("r"), data.Relevance)
	assert.Equal(t, []string{"a", "b"}, New(DefaultOptions()).FromStructuredData(data).KeyConcepts)

	require.NoError(t, json.Unmarshal([]byte(`{"key_concepts":null}`), &data))
	assert.Empty(t, data.KeyConcepts)

	assert.Error(t, json.Unmarshal([]byte(`{"key_concepts":42}`), &data))
}

func TestFormatResult_Interview(t *testing.T) {
	out := FormatResult("# H1\n**bold** and *italic*\n- item1\n- item2")

	doc := parseHTML(t, out)
	assert.Equal(t, "H1", doc.Find("h1").Text())
	assert.Equal(t, "bold", doc.Find("strong").Text())
	assert.Equal(t, "italic", doc.Find("em").Text())
	assert.Equal(t, 1, doc.Find("ul").Length())
	assert.Equal(t, []string{"item1", "item2"}, cellTexts(doc, "ul > li"))
	assert.Equal(t, 1, strings.Count(out, "<ul>"))
}

func TestFormatResult_HeadersAndParagraphs(t *testing.T) {
	out := FormatResult("## Questions\n### 1. Tell me about yourself\nFirst line\nsecond line\n\nNew paragraph")

	doc := parseHTML(t, out)
	assert.Equal(t, "Questions", doc.Find("h2").Text())
	assert.Equal(t, "1. Tell me about yourself", doc.Find("h3").Text())
	assert.Contains(t, out, "First line<br>second line</p><p>New paragraph")
	assert.NotContains(t, out, "</h2><br>")
}

func TestFormatResult_SeparateListsStaySeparate(t *testing.T) {
	out := FormatResult("- a\n- b\n\ntext\n\n- c")

	assert.Equal(t, 2, strings.Count(out, "<ul>"))
}

func TestFormatResult_UnterminatedBoldDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { FormatResult("**never closed\nnext *line") })
}

func TestFormatError(t *testing.T) {
	doc := parseHTML(t, FormatError("Network error. Please try again."))

	assert.Equal(t, 1, doc.Find(".error-message").Length())
	assert.Contains(t, doc.Text(), "Network error. Please try again.")
}

package formatter

import (
	"html"
	"regexp"
	"strings"
)

var (
	h3Re         = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Re         = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Re         = regexp.MustCompile(`(?m)^# (.*)$`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	listItemRe   = regexp.MustCompile(`(?m)^- (.*)$`)
	listLineRe   = regexp.MustCompile(`(?m)^<li>.*</li>$`)
	adjacentUlRe = regexp.MustCompile(`</ul>\n<ul>`)
	paragraphRe  = regexp.MustCompile(`\n[ \t]*\n`)
	breakAfterRe = regexp.MustCompile(`(</h[1-3]>|</ul>)<br>`)
	breakBeforRe = regexp.MustCompile(`<br>(<h[1-3]>|<ul>)`)
)

// FormatResult превращает markdown-подобный ответ интервьюера в HTML.
// Замены независимы и идут по порядку; результат не гарантирует корректную вложенность.
func FormatResult(text string) string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = html.EscapeString(s)

	s = h3Re.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Re.ReplaceAllString(s, "<h2>$1</h2>")
	s = h1Re.ReplaceAllString(s, "<h1>$1</h1>")

	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")

	s = listItemRe.ReplaceAllString(s, "<li>$1</li>")
	s = listLineRe.ReplaceAllString(s, "<ul>$0</ul>")
	s = adjacentUlRe.ReplaceAllString(s, "")

	s = paragraphRe.ReplaceAllString(s, "</p><p>")
	s = strings.ReplaceAll(s, "\n", "<br>")

	s = breakAfterRe.ReplaceAllString(s, "$1")
	s = breakBeforRe.ReplaceAllString(s, "$1")

	return "<p>" + s + "</p>"
}

// FormatResult форматирует ответ в режиме интервью
func (f *Formatter) FormatResult(text string) string {
	return FormatResult(text)
}

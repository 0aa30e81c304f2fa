package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled regex patterns for the rule chain, in application order.
var (
	// Headings: exact marker count, one physical line each
	headingPatterns = [6]*regexp.Regexp{
		regexp.MustCompile(`(?m)^# (.*)$`),
		regexp.MustCompile(`(?m)^## (.*)$`),
		regexp.MustCompile(`(?m)^### (.*)$`),
		regexp.MustCompile(`(?m)^#### (.*)$`),
		regexp.MustCompile(`(?m)^##### (.*)$`),
		regexp.MustCompile(`(?m)^###### (.*)$`),
	}

	// Emphasis: double markers before single markers
	boldStarPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderscorePattern = regexp.MustCompile(`__(.+?)__`)
	italicStarPattern     = regexp.MustCompile(`\*([^*\s][^*\n]*?)\*`)
	italicUnderPattern    = regexp.MustCompile(`_([^_\s][^_\n]*?)_`)

	// Links and images share a shape; group 1 holds the image marker
	linkPattern  = regexp.MustCompile(`(!?)\[(.*?)\]\((.*?)\)`)
	imagePattern = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)

	// List items: bullet or single-digit ordered marker followed by a blank
	bulletItemPattern  = regexp.MustCompile(`(?m)^[ \t]*[*-][ \t](.*)$`)
	orderedItemPattern = regexp.MustCompile(`(?m)^[ \t]*\d\.[ \t](.*)$`)

	// Code: fenced blocks before inline spans
	fencedCodePattern = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")

	// Line-oriented block rules
	blockquotePattern = regexp.MustCompile(`^> (.*)$`)
	tableRowPattern   = regexp.MustCompile(`\|(.+)\|`)
	blockStartPattern = regexp.MustCompile(`^</?(?:h[1-6]|ul|ol|li|pre|blockquote|hr|table|tr|td|th|p|div)[\s/>]`)

	// List coalescing
	adjacentItemsPattern = regexp.MustCompile(`</li>\s*<li>`)
	itemRunPattern       = regexp.MustCompile(`(<li>.*</li>)`)
	adjacentListsPattern = regexp.MustCompile(`</ul>\s*<ul>`)
)

const (
	linkTemplate  = `<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`
	imageTemplate = `<img src="${2}" alt="${1}" />`
	hrTag         = "<hr />"
	hrMarker      = "---"
)

// Render converts note markdown to an HTML fragment.
// It never fails: constructs that match no rule pass through as literal text.
// Safe for concurrent use.
func Render(source string) string {
	if source == "" {
		return ""
	}

	out := NormalizeLineEndings(source)
	out = renderHeadings(out)
	out = renderEmphasis(out)
	out = renderLinks(out)
	out = imagePattern.ReplaceAllString(out, imageTemplate)
	out = renderListItems(out)
	code := fencedLines(out)
	out = renderCode(out)
	out = renderLines(out, code)
	return coalesceLists(out)
}

func renderHeadings(s string) string {
	for i, p := range headingPatterns {
		level := i + 1
		s = p.ReplaceAllString(s, fmt.Sprintf("<h%d>${1}</h%d>", level, level))
	}
	return s
}

func renderEmphasis(s string) string {
	s = boldStarPattern.ReplaceAllString(s, "<strong>${1}</strong>")
	s = boldUnderscorePattern.ReplaceAllString(s, "<strong>${1}</strong>")
	s = italicStarPattern.ReplaceAllString(s, "<em>${1}</em>")
	return italicUnderPattern.ReplaceAllString(s, "<em>${1}</em>")
}

// renderLinks rewrites [label](url) into anchors. Matches carrying the
// image marker are copied through untouched for the image rule.
func renderLinks(s string) string {
	matches := linkPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		if m[3] > m[2] {
			continue
		}
		b.WriteString(s[last:m[0]])
		fmt.Fprintf(&b, linkTemplate, s[m[6]:m[7]], s[m[4]:m[5]])
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func renderListItems(s string) string {
	s = bulletItemPattern.ReplaceAllString(s, "<li>${1}</li>")
	return orderedItemPattern.ReplaceAllString(s, "<li>${1}</li>")
}

func renderCode(s string) string {
	s = fencedCodePattern.ReplaceAllString(s, "<pre><code>${1}</code></pre>")
	return inlineCodePattern.ReplaceAllString(s, "<code>${1}</code>")
}

// fencedLines reports, by line index, which lines fall inside a fenced code
// block: every line after the one holding the opening fence, up to and
// including the line holding the closing fence. The code rules add no
// newlines, so the indexes still hold after renderCode.
func fencedLines(s string) map[int]bool {
	matches := fencedCodePattern.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return nil
	}

	code := make(map[int]bool)
	line, pos := 0, 0
	for _, m := range matches {
		line += strings.Count(s[pos:m[0]], "\n")
		last := line + strings.Count(s[m[0]:m[1]], "\n")
		for i := line + 1; i <= last; i++ {
			code[i] = true
		}
		line, pos = last, m[1]
	}
	return code
}

// sourceLine is one physical line during the line-oriented pass.
type sourceLine struct {
	text string
	code bool // inside a fenced block; left verbatim
}

// renderLines applies the blockquote, rule, table and paragraph rules one
// line at a time. Lines listed in code are never rewritten.
func renderLines(s string, code map[int]bool) string {
	raw := strings.Split(s, "\n")
	lines := make([]sourceLine, len(raw))

	for i, text := range raw {
		if !code[i] {
			text = renderBlockLine(text)
		}
		lines[i] = sourceLine{text: text, code: code[i]}
	}

	lines = groupTableRows(lines)

	out := make([]string, len(lines))
	for i, l := range lines {
		if l.code {
			out[i] = l.text
			continue
		}
		out[i] = wrapParagraph(l.text)
	}
	return strings.Join(out, "\n")
}

func renderBlockLine(text string) string {
	text = blockquotePattern.ReplaceAllString(text, "<blockquote>${1}</blockquote>")
	if text == hrMarker {
		return hrTag
	}
	return renderTableRow(text)
}

// renderTableRow turns the outermost |...| span of a line into a row.
// Text around the span is kept.
func renderTableRow(text string) string {
	loc := tableRowPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}

	var b strings.Builder
	b.WriteString(text[:loc[0]])
	b.WriteString("<tr>")
	for _, cell := range strings.Split(text[loc[2]:loc[3]], "|") {
		b.WriteString("<td>")
		b.WriteString(strings.TrimSpace(cell))
		b.WriteString("</td>")
	}
	b.WriteString("</tr>")
	b.WriteString(text[loc[1]:])
	return b.String()
}

func isTableRow(l sourceLine) bool {
	return !l.code && strings.HasPrefix(l.text, "<tr>") && strings.HasSuffix(l.text, "</tr>")
}

// groupTableRows joins runs of two or more row lines into a single table line.
func groupTableRows(lines []sourceLine) []sourceLine {
	grouped := make([]sourceLine, 0, len(lines))
	for i := 0; i < len(lines); {
		j := i
		for j < len(lines) && isTableRow(lines[j]) {
			j++
		}
		if j-i < 2 {
			grouped = append(grouped, lines[i])
			i++
			continue
		}

		var b strings.Builder
		b.WriteString("<table>")
		for _, row := range lines[i:j] {
			b.WriteString(row.text)
		}
		b.WriteString("</table>")
		grouped = append(grouped, sourceLine{text: b.String()})
		i = j
	}
	return grouped
}

func wrapParagraph(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if blockStartPattern.MatchString(text) {
		return text
	}
	return "<p>" + text + "</p>"
}

// coalesceLists merges adjacent items and wraps each run in one <ul>.
func coalesceLists(s string) string {
	s = adjacentItemsPattern.ReplaceAllString(s, "</li><li>")
	s = itemRunPattern.ReplaceAllString(s, "<ul>${1}</ul>")
	return adjacentListsPattern.ReplaceAllString(s, "")
}

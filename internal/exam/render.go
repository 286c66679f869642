package exam

import (
	"net/url"
	"regexp"
	"strings"
)

// ElementKind discriminates structural elements.
type ElementKind string

const (
	ElementParagraph   ElementKind = "paragraph"
	ElementTable       ElementKind = "table"
	ElementRule        ElementKind = "rule"
	ElementCheckbox    ElementKind = "checkbox"
	ElementImageSearch ElementKind = "image_search"
)

// Span is a run of text with optional strong emphasis.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Element is one renderable unit of display content, in original line order.
// Only the fields for its kind are meaningful. Elements are derived on every
// render and never stored.
type Element struct {
	Kind ElementKind `json:"kind"`

	// paragraph and checkbox
	Spans         []Span `json:"spans,omitempty"`
	QuestionStart bool   `json:"questionStart,omitempty"` // numbered item, gets extra separation above
	Indented      bool   `json:"indented,omitempty"`      // checkbox indent (two levels only)
	Checked       bool   `json:"checked,omitempty"`       // parsed but rendered same as unchecked

	// table; Rows[0] is the header row
	Rows      [][]string `json:"rows,omitempty"`
	Matching  bool       `json:"matching,omitempty"`  // matching exercise, second column is the answer area
	Blueprint bool       `json:"blueprint,omitempty"` // kisi-kisi table, rendered with a tinted background

	// image-search callout; excluded from printed/exported output
	Keyword   string `json:"keyword,omitempty"`
	SearchURL string `json:"searchUrl,omitempty"`
}

var (
	svgBlockPattern      = regexp.MustCompile(`(?s)\[---SVG_START---\].*?\[---SVG_END---\]`)
	checkboxPattern      = regexp.MustCompile(`(?i)^(\s*)(\[ ?\]|\[x\]|\( ?\))\s*(.*)`)
	imageSearchPattern   = regexp.MustCompile(`\[IMAGE_GOOGLE:\s*(.*?)\]`)
	questionStartPattern = regexp.MustCompile(`^\d+[.)]`)
	separatorCellPattern = regexp.MustCompile(`^[\s\-:]+$`)
	boldSpanPattern      = regexp.MustCompile(`\*\*.*?\*\*`)
)

// ParseSpans splits text into verbatim and **bold** runs.
func ParseSpans(text string) []Span {
	var spans []Span
	last := 0
	for _, loc := range boldSpanPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]+2 : loc[1]-2], Bold: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// ParseElements decomposes display content into structural elements with a
// single line-sequential pass. Embedded vector-graphic blocks are excluded
// before the pass; graphics rendering is out of scope here.
func ParseElements(content string) []Element {
	var elements []Element
	for _, segment := range svgBlockPattern.Split(content, -1) {
		elements = append(elements, parseSegment(segment)...)
	}
	return elements
}

// ImageSearchURL builds the outbound image-search link for a keyword.
func ImageSearchURL(keyword string) string {
	return "https://www.google.com/search?tbm=isch&q=" + url.QueryEscape(keyword)
}

func parseSegment(segment string) []Element {
	var out []Element

	// Table accumulation state machine: outside-table until a pipe-prefixed
	// line, back outside on the first non-pipe line or segment end, emitting
	// the accumulated rows as one table at the transition. At most one table
	// is open at a time.
	inTable := false
	var tableRows [][]string
	flush := func() {
		if len(tableRows) > 0 {
			out = append(out, makeTable(tableRows))
		}
		inTable = false
		tableRows = nil
	}

	for _, line := range strings.Split(segment, "\n") {
		clean := strings.TrimSpace(line)

		if strings.HasPrefix(clean, "|") {
			inTable = true
			cells := splitTableCells(clean)
			if !isSeparatorRow(cells) {
				tableRows = append(tableRows, cells)
			}
			continue
		}
		if inTable {
			flush()
			// The line that closes a table renders as a plain paragraph;
			// a blank closing line is swallowed.
			if clean != "" {
				out = append(out, Element{Kind: ElementParagraph, Spans: ParseSpans(line)})
			}
			continue
		}

		// A stray separator token inside a displayed segment becomes a
		// prominent rule, distinct from the top-level section split.
		if strings.Contains(clean, "---SEPARATOR") {
			out = append(out, Element{Kind: ElementRule})
			continue
		}

		if m := checkboxPattern.FindStringSubmatch(line); m != nil {
			out = append(out, Element{
				Kind:     ElementCheckbox,
				Spans:    ParseSpans(m[3]),
				Indented: len(m[1]) > 0,
				Checked:  strings.EqualFold(m[2], "[x]"),
			})
			continue
		}

		if m := imageSearchPattern.FindStringSubmatch(clean); m != nil {
			keyword := strings.TrimSpace(m[1])
			out = append(out, Element{
				Kind:      ElementImageSearch,
				Keyword:   keyword,
				SearchURL: ImageSearchURL(keyword),
			})
			continue
		}

		out = append(out, Element{
			Kind:          ElementParagraph,
			Spans:         ParseSpans(line),
			QuestionStart: questionStartPattern.MatchString(line),
		})
	}
	flush()
	return out
}

// splitTableCells derives cells from a pipe row, trimming each cell and
// discarding the empty leading/trailing cells produced by the row's own
// outer pipes.
func splitTableCells(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isSeparatorRow reports whether the row is a markdown header-separator row
// (every cell made of dashes, colons and spaces). Such rows are discarded,
// never rendered.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !separatorCellPattern.MatchString(c) {
			return false
		}
	}
	return true
}

func makeTable(rows [][]string) Element {
	header := strings.ToLower(strings.Join(rows[0], " "))
	return Element{
		Kind: ElementTable,
		Rows: rows,
		Matching: strings.Contains(header, "premis") ||
			strings.Contains(header, "jodoh") ||
			strings.Contains(header, "matching"),
		Blueprint: strings.Contains(header, "cp/tp") ||
			strings.Contains(header, "materi pokok") ||
			strings.Contains(header, "kisi-kisi"),
	}
}

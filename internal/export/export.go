// Package export renders a projected exam view as a Word-compatible HTML
// document. Word opens HTML carrying the Office namespaces as a native
// document, so no OOXML writer is needed.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/edutools-id/bikinsoal/internal/exam"
)

const contentType = "application/msword"

// docHeader carries the Office namespaces and the print layout: A4 with
// standard 2.54cm margins, Arial 11pt body, bordered tables.
const docHeader = `<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'><head><meta charset='utf-8'><title>Dokumen Soal</title><style>@page { size: A4; margin: 2.54cm; } body { font-family: 'Arial', sans-serif; font-size: 11pt; line-height: 1.5; color: #000000; } h1, h2, h3, h4 { margin-top: 15pt; margin-bottom: 5pt; } table { width: 100%; border-collapse: collapse; margin-bottom: 12pt; } td, th { border: 1px solid #000000; padding: 5pt; vertical-align: top; font-size: 10pt; } th { background-color: #f0f0f0; font-weight: bold; }</style></head><body>`

const docFooter = `</body></html>`

// Document is a ready-to-download export.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Filename returns the fixed download name for a view mode.
func Filename(mode exam.ViewMode) string {
	switch mode {
	case exam.ViewStudent:
		return "naskah-soal-siswa.doc"
	case exam.ViewBlueprint:
		return "kisi-kisi.doc"
	default:
		return "paket-soal-lengkap.doc"
	}
}

// Build projects a raw result for one view mode and renders it as a Word
// document. Interactive elements (image-search links) are omitted; the
// leading BOM keeps Word from misreading the UTF-8 body.
func Build(raw string, mode exam.ViewMode) Document {
	content := exam.ProjectRaw(raw, mode)
	elements := exam.ParseElements(content)

	var sb strings.Builder
	sb.WriteString("\ufeff")
	sb.WriteString(docHeader)
	for _, el := range elements {
		renderElement(&sb, el)
	}
	sb.WriteString(docFooter)

	return Document{
		Filename:    Filename(mode),
		ContentType: contentType,
		Data:        []byte(sb.String()),
	}
}

func renderElement(sb *strings.Builder, el exam.Element) {
	switch el.Kind {
	case exam.ElementTable:
		renderTable(sb, el)
	case exam.ElementRule:
		sb.WriteString("<hr>")
	case exam.ElementCheckbox:
		style := ""
		if el.Indented {
			style = " style='margin-left: 24pt'"
		}
		fmt.Fprintf(sb, "<p%s>&#9744; %s</p>", style, renderSpans(el.Spans))
	case exam.ElementImageSearch:
		// Outbound search links have no place on paper.
	default:
		if len(el.Spans) == 0 {
			sb.WriteString("<p>&nbsp;</p>")
			return
		}
		style := ""
		if el.QuestionStart {
			style = " style='margin-top: 12pt'"
		}
		fmt.Fprintf(sb, "<p%s>%s</p>", style, renderSpans(el.Spans))
	}
}

func renderTable(sb *strings.Builder, el exam.Element) {
	tableStyle := ""
	if el.Blueprint {
		tableStyle = " style='background-color: #faf5ff'"
	}
	fmt.Fprintf(sb, "<table%s>", tableStyle)
	for i, row := range el.Rows {
		sb.WriteString("<tr>")
		for j, cell := range row {
			tag := "td"
			style := ""
			if i == 0 {
				tag = "th"
			} else if el.Matching && !el.Blueprint && j == 1 {
				// The matching area stays visually empty for students.
				style = " style='color: #999999'"
			}
			fmt.Fprintf(sb, "<%s%s>%s</%s>", tag, style, renderSpans(exam.ParseSpans(cell)), tag)
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
}

func renderSpans(spans []exam.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Bold {
			sb.WriteString("<strong>" + html.EscapeString(s.Text) + "</strong>")
		} else {
			sb.WriteString(html.EscapeString(s.Text))
		}
	}
	return sb.String()
}

package export

import (
	"strings"
	"testing"

	"github.com/edutools-id/bikinsoal/internal/exam"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		mode exam.ViewMode
		want string
	}{
		{exam.ViewStudent, "naskah-soal-siswa.doc"},
		{exam.ViewBlueprint, "kisi-kisi.doc"},
		{exam.ViewTeacher, "paket-soal-lengkap.doc"},
	}
	for _, tt := range tests {
		if got := Filename(tt.mode); got != tt.want {
			t.Errorf("Filename(%s) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestBuildDocumentFrame(t *testing.T) {
	doc := Build("1. Soal pertama", exam.ViewStudent)

	body := string(doc.Data)
	if !strings.HasPrefix(body, "\ufeff") {
		t.Error("document missing UTF-8 BOM")
	}
	for _, want := range []string{
		"xmlns:o='urn:schemas-microsoft-com:office:office'",
		"xmlns:w='urn:schemas-microsoft-com:office:word'",
		"@page { size: A4; margin: 2.54cm; }",
		"font-family: 'Arial', sans-serif; font-size: 11pt",
		"<p style='margin-top: 12pt'>1. Soal pertama</p>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if doc.ContentType != "application/msword" {
		t.Errorf("content type = %q", doc.ContentType)
	}
	if doc.Filename != "naskah-soal-siswa.doc" {
		t.Errorf("filename = %q", doc.Filename)
	}
}

func TestBuildTableAndBold(t *testing.T) {
	raw := "**Petunjuk**\n| Hewan | Kaki |\n| --- | --- |\n| Ayam | 2 |"
	body := string(Build(raw, exam.ViewStudent).Data)

	for _, want := range []string{
		"<strong>Petunjuk</strong>",
		"<th>Hewan</th><th>Kaki</th>",
		"<td>Ayam</td><td>2</td>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(body, "---") {
		t.Error("markdown separator row leaked into export")
	}
}

func TestBuildOmitsImageLinks(t *testing.T) {
	raw := "1. Perhatikan gambar.\n[IMAGE_GOOGLE: fotosintesis]\n2. Lanjut."
	body := string(Build(raw, exam.ViewStudent).Data)

	if strings.Contains(body, "google.com/search") {
		t.Error("image-search link leaked into export")
	}
	if strings.Contains(body, "IMAGE_GOOGLE") {
		t.Error("image directive leaked into export")
	}
	if !strings.Contains(body, "2. Lanjut.") {
		t.Error("content after image directive missing")
	}
}

func TestBuildProjectsMode(t *testing.T) {
	raw := "1. Soal\n" + exam.Separator + "\n## KUNCI JAWABAN\n1. A"

	student := string(Build(raw, exam.ViewStudent).Data)
	if strings.Contains(student, "KUNCI JAWABAN") {
		t.Error("answer key leaked into student export")
	}

	teacher := string(Build(raw, exam.ViewTeacher).Data)
	if !strings.Contains(teacher, "KUNCI JAWABAN") {
		t.Error("teacher export missing answer key")
	}
}

func TestBuildEscapesHTML(t *testing.T) {
	body := string(Build("1. Apakah 2 < 3 & 5 > 4?", exam.ViewStudent).Data)
	if !strings.Contains(body, "2 &lt; 3 &amp; 5 &gt; 4") {
		t.Error("text content not escaped")
	}
}

func TestBuildCheckbox(t *testing.T) {
	body := string(Build("[ ] Pilihan A\n   [x] Pilihan B", exam.ViewStudent).Data)
	if !strings.Contains(body, "&#9744; Pilihan A") {
		t.Error("checkbox line missing")
	}
	if !strings.Contains(body, "<p style='margin-left: 24pt'>&#9744; Pilihan B</p>") {
		t.Error("indented checkbox not offset")
	}
}

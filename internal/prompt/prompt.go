// Package prompt assembles the system instruction and user prompts sent to
// the model. The generation prompt is bilingual: every conditional block has
// an Indonesian and an English variant, chosen by the request language.
package prompt

import (
	"fmt"
	"strings"

	"github.com/edutools-id/bikinsoal/internal/catalog"
	"github.com/edutools-id/bikinsoal/internal/model"
)

// SystemInstruction is the fixed system prompt. It carries the output
// contract: student and teacher halves separated by the section delimiter,
// blueprint first in the teacher half.
const SystemInstruction = `
Kamu adalah "BIKIN SOAL CEPAT" — Sistem Asesmen Profesional untuk Guru Indonesia.

TUGAS UTAMA:
Membuat paket soal, instrumen penilaian, dan analisis kompetensi yang sangat akurat dan profesional.

ATURAN OUTPUT CRITICAL (WAJIB DIPATUHI - HARGA MATI):
1. **PEMISAHAN OUTPUT:** Kamu WAJIB menggunakan delimiter "[---SEPARATOR_STUDENT_TEACHER---]" untuk memisahkan Bagian Siswa dan Bagian Guru.
2. **BAGIAN 1 (VERSI SISWA):**
   - HANYA berisi Naskah Soal Ujian.
   - **WAJIB:** Tampilkan SEMUA soal sesuai jenisnya. Untuk soal Menjodohkan, tampilkan TABEL MATCHING (tabel soal menjodohkan) di sini sebagai bagian dari naskah soal.
   - **DILARANG KERAS / STRICTLY FORBIDDEN:** Menulis Kunci Jawaban, Pembahasan, Kisi-Kisi, atau Tabel Analisis di bagian ini.
3. **BAGIAN 2 (VERSI GURU):**
   - HANYA boleh muncul SETELAH delimiter separator.
   - WAJIB DIAWALI dengan Tabel Kisi-Kisi Penulisan Soal (BLUEPRINT) yang SANGAT LENGKAP.
   - Dilanjutkan dengan Kunci Jawaban & Pembahasan.

FORMAT SOAL MENJODOHKAN (WAJIB DI BAGIAN SISWA):
Gunakan tabel markdown dengan 3 kolom:
| Pernyataan / Premis | Area Menjodohkan | Pilihan Jawaban |
| :--- | :---: | :--- |
| 1. [Isi Premis] | ......... | A. [Isi Jawaban] |
| 2. [Isi Premis] | ......... | B. [Isi Jawaban] |

FORMAT KISI-KISI (WAJIB DI BAGIAN GURU - SETELAH SEPARATOR):
Kisi-kisi harus berupa Tabel Markdown dengan 7 kolom standar profesional:
| No | CP/TP | Materi Pokok | Indikator Soal | Level Kognitif | Bentuk Soal | No Soal |
`

// Uploaded reference text is clipped so one large file cannot crowd the
// actual instructions out of the context window.
const maxReferenceChars = 15000

const defaultQuestionsPerType = 5

// Builder renders generation prompts. It needs the catalog to resolve
// regulation-basis and distribution-preset ids into their display labels,
// which are embedded verbatim in the prompt.
type Builder struct {
	cat *catalog.Catalog
}

func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{cat: cat}
}

// Generate renders the full user prompt for a generation request.
func (b *Builder) Generate(req model.QuestionRequest) string {
	english := req.IsEnglish()

	regulasi := b.regulasiInstruction(req)
	material := materialContext(req, english)
	kompetensi := kompetensiInstruction(req, english)
	breakdown := breakdownString(req, english)
	dist := b.distributionLabel(req.DistribusiMode)

	var sb strings.Builder
	if english {
		fmt.Fprintf(&sb, "Create a **PROFESSIONAL EXAM PAPER** based on this specific context:\n\n%s\n%s\n\n", regulasi, material)
		fmt.Fprintf(&sb, "Competency: %s\n", kompetensi)
		fmt.Fprintf(&sb, "Language: %s | Level: %s (%s)\n", req.Language, req.Jenjang, req.Kelas)
		fmt.Fprintf(&sb, "Breakdown: %s | Difficulty Distribution: %s | Target Level: %s\n\n", breakdown, dist, req.Level)
	} else {
		fmt.Fprintf(&sb, "Buatkan **PAKET SOAL UJIAN PROFESIONAL** dengan konteks spesifik berikut:\n\n%s\n%s\n\n", regulasi, material)
		fmt.Fprintf(&sb, "Kompetensi: %s\n", kompetensi)
		fmt.Fprintf(&sb, "Bahasa: %s | Jenjang: %s (%s)\n", req.Language, req.Jenjang, req.Kelas)
		fmt.Fprintf(&sb, "Rincian: %s | Distribusi Kesulitan: %s | Target Level: %s\n\n", breakdown, dist, req.Level)
	}

	sb.WriteString(optionsInstruction(req, english))
	sb.WriteString(stimulusInstruction(req, english))
	sb.WriteString(mathInstruction(req, english))
	sb.WriteString(imageInstruction(req, english))
	sb.WriteString(visualInstructions(english))

	answerKey := answerKeyInstruction(req, english)
	if english {
		sb.WriteString("\n**STRICT OUTPUT STRUCTURE:**\n")
		sb.WriteString("1. **PART 1: STUDENT SECTION** -> Questions ONLY. Check again: Do they match the core topic?\n")
		sb.WriteString("2. **SEPARATOR**: \"[---SEPARATOR_STUDENT_TEACHER---]\"\n")
		fmt.Fprintf(&sb, "3. **PART 2: TEACHER SECTION** -> Detailed Blueprint (First) then Answer Keys (%s).\n", answerKey)
	} else {
		sb.WriteString("\n**STRUKTUR OUTPUT (WAJIB):**\n")
		sb.WriteString("1. **BAGIAN 1: VERSI SISWA** -> HANYA naskah soal. Pastikan kembali: Apakah semua soal sudah sesuai topik utama di atas?\n")
		sb.WriteString("2. **SEPARATOR**: \"[---SEPARATOR_STUDENT_TEACHER---]\"\n")
		fmt.Fprintf(&sb, "3. **BAGIAN 2: VERSI GURU** -> Kisi-kisi (Blueprint) Detail paling atas, lalu Kunci Jawaban & Pembahasan (%s).\n", answerKey)
	}
	return sb.String()
}

// Refine renders the refinement prompt. The action tag is embedded as-is;
// the model is instructed to keep the two-section structure so the result
// can be split and projected like a fresh generation.
func Refine(action model.RefineAction, original string) string {
	return fmt.Sprintf("Refine this content based on: %s.\n\nOriginal: %s\n\nMaintain [Student Section] [Separator] [Teacher Section] structure.", action, original)
}

func (b *Builder) regulasiInstruction(req model.QuestionRequest) string {
	label := "Sekolah Umum"
	if req.RegulasiBasis != "" {
		label = b.cat.RegulasiLabel(req.RegulasiBasis)
	}
	detail := "Anda wajib mengikuti standar kompetensi nasional CP 046 secara ketat."
	if req.RegulasiBasis == "MADRASAH_KMA1503_KBC" {
		detail = `Anda wajib menyisipkan nilai-nilai "Kurikulum Berbasis Cinta" (KBC) yang menekankan kasih sayang, karakter santun, dan nilai religius moderat dalam stimulus atau soal.`
	}
	return fmt.Sprintf("**BASIS REGULASI & KURIKULUM (WAJIB DIIKUTI):** %s.\n%s", label, detail)
}

func (b *Builder) distributionLabel(mode model.DistribusiMode) string {
	for _, p := range b.cat.DistribusiPresets {
		if p.ID == string(mode) {
			return p.Label
		}
	}
	return "Proporsional"
}

func breakdownString(req model.QuestionRequest, english bool) string {
	unit := "butir"
	if english {
		unit = "items"
	}
	parts := make([]string, 0, len(req.JenisSoal))
	for _, jenis := range req.JenisSoal {
		qty := req.JumlahPerJenis[jenis]
		if qty == 0 {
			qty = defaultQuestionsPerType
		}
		parts = append(parts, fmt.Sprintf("%d %s %s", qty, unit, jenis))
	}
	return strings.Join(parts, ", ")
}

func kompetensiInstruction(req model.QuestionRequest, english bool) string {
	manual := req.KompetensiMode == model.KompetensiManual
	if english {
		if manual {
			return fmt.Sprintf("adhering to these specific Competency Standards (CP/TP): %q", req.KompetensiManual)
		}
		return "automatically using the most relevant Learning Objectives (CP/TP) for this grade level."
	}
	if manual {
		return fmt.Sprintf("berdasarkan Capaian Pembelajaran (CP) / Tujuan Pembelajaran (TP) spesifik ini: %q", req.KompetensiManual)
	}
	return "menentukan secara otomatis Capaian Pembelajaran (CP) dan Tujuan Pembelajaran (TP) yang paling relevan dengan kurikulum nasional."
}

// optionLetters renders "A, B, C" style lists for the option-count rule.
func optionLetters(n int) string {
	letters := make([]string, n)
	for i := range letters {
		letters[i] = string(rune('A' + i))
	}
	return strings.Join(letters, ", ")
}

func optionsInstruction(req model.QuestionRequest, english bool) string {
	n := req.JumlahOpsi
	if n == 0 {
		n = 4
	}
	if english {
		return fmt.Sprintf("**ANSWER OPTIONS RULE:** For Multiple Choice questions, you MUST provide **%d OPTIONS (%s)**.\n", n, optionLetters(n))
	}
	return fmt.Sprintf("**ATURAN OPSI JAWABAN:** Untuk soal Pilihan Ganda, WAJIB sediakan **%d OPSI (%s)**.\n", n, optionLetters(n))
}

func stimulusInstruction(req model.QuestionRequest, english bool) string {
	if !req.UseStimulus {
		return ""
	}
	per := req.SoalPerStimulus
	if per == 0 {
		per = 3
	}
	if english {
		return fmt.Sprintf("MANDATORY STIMULUS USE. Every %d questions must be preceded by ONE Stimulus.\n", per)
	}
	return fmt.Sprintf("WAJIB GUNAKAN STIMULUS. Setiap %d soal harus didahului oleh SATU Stimulus.\n", per)
}

// mathInstruction emits the topic lock for mathematics content. Numeracy
// assessments count as math regardless of the subject field.
func mathInstruction(req model.QuestionRequest, english bool) string {
	mapel := strings.ToLower(req.Mapel)
	isMath := strings.Contains(mapel, "matematika") || strings.Contains(mapel, "math")
	for _, j := range req.JenisSoal {
		if strings.Contains(strings.ToLower(j), "numerasi") {
			isMath = true
		}
	}
	if !isMath {
		return ""
	}
	if english {
		return fmt.Sprintf(`**STRICT MATH TOPIC RULE:**
You MUST focus ONLY on %q and %q.
DO NOT generate unrelated math topics (e.g., if the topic is Statistics, DO NOT generate Geometry/Algebra).
Use plain text only (no LaTeX).
`, req.Topik, req.SubElemen)
	}
	return fmt.Sprintf(`**ATURAN KETAT MATERI MATEMATIKA:**
Anda WAJIB fokus HANYA pada materi %q dan %q.
DILARANG KERAS membuat soal di luar topik tersebut (Misal: jika topik adalah STATISTIKA/DATA, dilarang membuat soal Aljabar, Geometri, atau Akar).
Gunakan TEKS BIASA (Plain Text), jangan gunakan LaTeX.
`, req.Topik, req.SubElemen)
}

func imageInstruction(req model.QuestionRequest, english bool) string {
	if !req.EnableImageMode || req.ImageQuantity <= 0 {
		return ""
	}
	if english {
		return fmt.Sprintf(`**MANDATORY IMAGE MODE (GOOGLE SEARCH):**
For %d questions, you MUST provide optimized Google Search Keywords in this format: [IMAGE_GOOGLE: Keyword]
`, req.ImageQuantity)
	}
	return fmt.Sprintf(`**WAJIB MODE GAMBAR (PENCARIAN GOOGLE):**
Untuk %d soal, Anda WAJIB menyediakan kata kunci pencarian Google yang efektif dengan format: [IMAGE_GOOGLE: Kata Kunci]
`, req.ImageQuantity)
}

func visualInstructions(english bool) string {
	if english {
		return `**VISUAL FORMAT RULES (FOR STUDENT SECTION):**
- **MATCHING (MATCHING)**: Use a 3-column Markdown Table.
  HEADERS: | Premise / Question | Matching Area | Answer Options |
  CELLS: | 1. [Text] | ......... | A. [Text] |
`
	}
	return `**ATURAN FORMAT VISUAL (WAJIB DI BAGIAN SISWA):**
- **MENJODOHKAN (MATCHING)**: Gunakan Tabel Markdown 3 kolom.
  HEADER: | Pernyataan / Premis | Area Menjodohkan | Pilihan Jawaban |
  ISI: | 1. [Teks] | ......... | A. [Teks] |
- **BENAR / SALAH**: Tabel Markdown | Pernyataan | Benar | Salah |.
`
}

func answerKeyInstruction(req model.QuestionRequest, english bool) string {
	if req.AnswerKeyDetail == model.AnswerKeySimple {
		if english {
			return "Provide ONLY a simple list of Answer Keys."
		}
		return "Hanya sediakan Tabel Kunci Jawaban Ringkas."
	}
	if english {
		return "Provide Comprehensive Answer Keys and Explanations."
	}
	return "Sertakan Kunci Jawaban lengkap dengan Pembahasan."
}

// materialContext pins the prompt to the subject and topic, optionally with
// the uploaded reference text appended.
func materialContext(req model.QuestionRequest, english bool) string {
	sub := strings.ToUpper(req.SubElemen)
	var ctx string
	if english {
		if sub == "" {
			sub = "Focus on Core Topic"
		}
		ctx = fmt.Sprintf(`**STRICT SUBJECT CONTEXT (TOP PRIORITY):**
Subject: %s
Core Topic: %s
Sub-topic/Element: %s

**CRITICAL RULE:** Do NOT deviate from this topic. Every single question must be related to this topic.`,
			req.Mapel, strings.ToUpper(req.Topik), sub)
	} else {
		if sub == "" {
			sub = "Sesuai dengan Topik Utama"
		}
		ctx = fmt.Sprintf(`**KONTEKS MATERI WAJIB (PRIORITAS UTAMA):**
Mata Pelajaran: %s
Topik Utama: %s
Sub-materi/Elemen: %s

**PERINTAH KETAT:** DILARANG melenceng dari topik di atas. Seluruh butir soal WAJIB relevan dengan topik ini.`,
			req.Mapel, strings.ToUpper(req.Topik), sub)
	}
	if req.UploadedText != "" {
		ref := req.UploadedText
		if len(ref) > maxReferenceChars {
			ref = ref[:maxReferenceChars]
		}
		ctx += "\n**REFERENCE TEXT (MUST USE CONTENT FROM HERE):** " + ref
	}
	return ctx
}

package exam

import (
	"regexp"
	"strings"
)

// ViewMode selects which projection of a split response is displayed.
type ViewMode string

const (
	ViewStudent   ViewMode = "STUDENT"
	ViewTeacher   ViewMode = "TEACHER"
	ViewBlueprint ViewMode = "BLUEPRINT"
)

// IsValidViewMode checks a mode tag against the closed set.
func IsValidViewMode(m string) bool {
	switch ViewMode(m) {
	case ViewStudent, ViewTeacher, ViewBlueprint:
		return true
	}
	return false
}

const (
	// TeacherBanner separates the student paper from the answer key in the
	// combined teacher view.
	TeacherBanner = "\n\n--- 🔒 ANSWER KEY, BLUEPRINT & TEACHER GUIDELINES / KUNCI & KISI-KISI ---\n\n"
	// BlueprintBanner heads the blueprint (kisi-kisi) view.
	BlueprintBanner = "## 📋 DOKUMEN KISI-KISI PENULISAN SOAL (BLUEPRINT)\n\n"
	// BlueprintMissing is returned when the response has no teacher half to
	// cleave a blueprint out of.
	BlueprintMissing = "⚠️ Maaf, kisi-kisi tidak ditemukan."
)

// answerKeyPattern locates the first answer-key heading inside the teacher
// half. Matching is line-anchored and tolerates leading markdown decoration.
var answerKeyPattern = regexp.MustCompile(
	`(?i)(?:^|\n)\s*(?:[-=_*#]*\s*)?(?:KUNCI\s+JAWABAN|ANSWER\s+KEYS?|PEMBAHASAN|JAWABAN\s+DAN\s+PEMBAHASAN)`)

// forbiddenPatterns are teacher-only headings that must never leak into the
// student view. The generator is instructed to keep them out of the student
// half; this filter is the second line of defense. The list only covers the
// known Indonesian/English phrasings, so a miss fails open: more content is
// shown, nothing crashes.
var forbiddenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:^|\n)\s*(?:[-=_*#]*\s*)?(?:TABEL\s+)?KISI[-\s]?KISI`),
	regexp.MustCompile(`(?i)(?:^|\n)\s*(?:[-=_*#]*\s*)?KUNCI\s+JAWABAN`),
	regexp.MustCompile(`(?i)(?:^|\n)\s*(?:[-=_*#]*\s*)?PEMBAHASAN`),
	regexp.MustCompile(`(?i)(?:^|\n)\s*(?:[-=_*#]*\s*)?BLUEPRINT`),
}

// Project derives the display content for one view mode from the split
// sections. It is a pure function: callers recompute it whenever the raw
// result or the mode changes.
func Project(student, teacher string, mode ViewMode) string {
	switch mode {
	case ViewTeacher:
		// No banner without content behind it.
		if teacher == "" {
			return student
		}
		return student + TeacherBanner + teacher
	case ViewBlueprint:
		if teacher == "" {
			return BlueprintMissing
		}
		if loc := answerKeyPattern.FindStringIndex(teacher); loc != nil {
			return BlueprintBanner + strings.TrimSpace(teacher[:loc[0]])
		}
		return BlueprintBanner + teacher
	default:
		earliest := -1
		for _, p := range forbiddenPatterns {
			if loc := p.FindStringIndex(student); loc != nil && (earliest < 0 || loc[0] < earliest) {
				earliest = loc[0]
			}
		}
		if earliest >= 0 {
			return student[:earliest]
		}
		return student
	}
}

// ProjectRaw splits a raw result and projects it in one step.
func ProjectRaw(raw string, mode ViewMode) string {
	student, teacher := SplitSections(raw)
	return Project(student, teacher, mode)
}

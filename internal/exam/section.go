package exam

import "strings"

// Separator is the literal token the model is instructed to emit between the
// student-facing and teacher-facing halves of one response.
const Separator = "[---SEPARATOR_STUDENT_TEACHER---]"

// SplitSections cuts a raw model response at the first occurrence of the
// separator token. The student half is always defined; the teacher half is
// empty when the token never appears. A missing token is a degraded but
// valid response, not an error.
func SplitSections(raw string) (student, teacher string) {
	idx := strings.Index(raw, Separator)
	if idx < 0 {
		return raw, ""
	}
	return raw[:idx], raw[idx+len(Separator):]
}

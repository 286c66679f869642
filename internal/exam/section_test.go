package exam

import "testing"

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantStudent string
		wantTeacher string
	}{
		{"empty", "", "", ""},
		{"no separator", "Soal 1. Apa itu fotosintesis?", "Soal 1. Apa itu fotosintesis?", ""},
		{"separator present", "siswa\n" + Separator + "\nguru", "siswa\n", "\nguru"},
		{"separator at start", Separator + "guru saja", "", "guru saja"},
		{"separator at end", "siswa saja" + Separator, "siswa saja", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student, teacher := SplitSections(tt.raw)
			if student != tt.wantStudent {
				t.Errorf("student = %q, want %q", student, tt.wantStudent)
			}
			if teacher != tt.wantTeacher {
				t.Errorf("teacher = %q, want %q", teacher, tt.wantTeacher)
			}
		})
	}
}

func TestSplitSectionsReconstructs(t *testing.T) {
	// With exactly one separator, student + separator + teacher must
	// reconstruct the raw input byte for byte.
	raws := []string{
		"a" + Separator + "b",
		"Q1. Hitunglah.\n\n" + Separator + "\n## KUNCI JAWABAN\n1. A",
		Separator,
	}
	for _, raw := range raws {
		student, teacher := SplitSections(raw)
		if got := student + Separator + teacher; got != raw {
			t.Errorf("reconstruction mismatch:\n got %q\nwant %q", got, raw)
		}
	}
}

func TestSplitSectionsFirstOccurrenceOnly(t *testing.T) {
	raw := "siswa" + Separator + "guru-1" + Separator + "guru-2"
	student, teacher := SplitSections(raw)
	if student != "siswa" {
		t.Errorf("student = %q", student)
	}
	// Everything after the first separator belongs to the teacher half,
	// including the stray second token.
	if teacher != "guru-1"+Separator+"guru-2" {
		t.Errorf("teacher = %q", teacher)
	}
}

package question

import (
	"reflect"
	"testing"
)

func TestSubjectVariants(t *testing.T) {
	cases := []struct {
		name string
		want []string
	}{
		{"English Language", []string{"english language", "english-language", "english_language", "englishlanguage", "english"}},
		{"Mathematics", []string{"mathematics", "math", "maths"}},
		{"Further Mathematics", []string{"further mathematics", "further-mathematics", "further_mathematics", "furthermathematics", "further", "fm"}},
		{"Physics", []string{"physics"}},
	}
	for _, tc := range cases {
		got := SubjectVariants(tc.name)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SubjectVariants(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSubjectVariantsNoDuplicates(t *testing.T) {
	for _, subject := range append(SubjectsFor(ExamJAMB), SubjectsFor(ExamWAEC)...) {
		seen := map[string]struct{}{}
		for _, v := range SubjectVariants(subject) {
			if _, dup := seen[v]; dup {
				t.Errorf("%q: duplicate variant %q", subject, v)
			}
			seen[v] = struct{}{}
		}
	}
}

func TestSubjectsFor(t *testing.T) {
	jamb := SubjectsFor(ExamJAMB)
	waec := SubjectsFor(ExamWAEC)
	if len(jamb) == 0 || len(waec) == 0 {
		t.Fatal("empty national catalogs")
	}
	if jamb[0] != SubjectEnglish || waec[0] != SubjectEnglish {
		t.Error("catalogs must lead with the core language subject")
	}
	if SubjectsFor(ExamCommonEntrance) != nil {
		t.Error("entrance exam has no fixed catalog")
	}
}

func TestParseExamType(t *testing.T) {
	if et, err := ParseExamType(" JAMB "); err != nil || et != ExamJAMB {
		t.Errorf("ParseExamType(JAMB) = %v, %v", et, err)
	}
	if _, err := ParseExamType("gce"); err == nil {
		t.Error("unknown exam type accepted")
	}
	if ExamCommonEntrance.National() {
		t.Error("common-entrance must not be national")
	}
}

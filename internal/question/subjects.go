package question

import (
	"strings"
	"time"
)

// SubjectEnglish is the core-language subject: JAMB composes 60 questions
// for it instead of the usual 40.
const SubjectEnglish = "English Language"

// IsEnglish matches the core-language subject case-insensitively.
func IsEnglish(subject string) bool {
	return strings.EqualFold(strings.TrimSpace(subject), SubjectEnglish)
}

var jambSubjects = []string{
	SubjectEnglish,
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"Economics",
	"Commerce",
	"Accounting",
	"Government",
	"Literature in English",
	"Christian Religious Studies",
	"Islamic Religious Studies",
	"Geography",
	"Agricultural Science",
	"Computer Studies",
}

var waecSubjects = []string{
	SubjectEnglish,
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"Economics",
	"Commerce",
	"Accounting",
	"Government",
	"Literature in English",
	"Christian Religious Studies",
	"Islamic Religious Studies",
	"Geography",
	"Agricultural Science",
	"Further Mathematics",
	"Technical Drawing",
	"Civic Education",
	"Computer Studies",
	"French",
	"Yoruba",
	"Igbo",
	"Hausa",
}

// SubjectsFor returns the subject catalog for a national exam type.
// Common-entrance subjects are whatever the local store holds.
func SubjectsFor(examType ExamType) []string {
	switch examType {
	case ExamJAMB:
		return append([]string(nil), jambSubjects...)
	case ExamWAEC:
		return append([]string(nil), waecSubjects...)
	}
	return nil
}

// synonyms maps a normalized subject name to the shorthand spellings the
// question-bank service is known to answer under.
var synonyms = map[string][]string{
	"english language":      {"english", "english-language", "english_language"},
	"mathematics":           {"mathematics", "math", "maths"},
	"further mathematics":   {"further-mathematics", "furthermathematics", "fm"},
	"literature-in-english": {"literature", "literature-in-english"},
	"literature in english": {"literature", "literature-in-english"},
}

// SubjectVariants lists the spelling variants to try, in order, when asking
// the remote bank for a subject. The first variant that yields questions
// wins.
func SubjectVariants(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	fields := strings.Fields(lower)
	joined := strings.Join(fields, " ")

	var out []string
	seen := map[string]struct{}{}
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	add(joined)
	add(strings.Join(fields, "-"))
	add(strings.Join(fields, "_"))
	add(strings.Join(fields, ""))
	if len(fields) > 0 {
		add(fields[0])
	}
	for _, s := range synonyms[joined] {
		add(s)
	}
	return out
}

// Years lists selectable past-question years, newest first.
func Years(startYear int) []int {
	current := time.Now().Year()
	years := make([]int, 0, current-startYear+1)
	for y := current; y >= startYear; y-- {
		years = append(years, y)
	}
	return years
}

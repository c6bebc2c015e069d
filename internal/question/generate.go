package question

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Synthetic last-resort question sets. Deterministic in structure: a fixed
// count per exam type, cyclic templates parameterized by subject, and a
// 25-year synthetic year range. The subject slug in the ID marks the
// content as generated rather than authentic.

const (
	jambGeneratedCount      = 60
	waecGeneratedObjectives = 50
	waecGeneratedEssays     = 10
)

var generatedYears = yearsDescending(2024, 2000)

func yearsDescending(from, to int) []int {
	ys := make([]int, 0, from-to+1)
	for y := from; y >= to; y-- {
		ys = append(ys, y)
	}
	return ys
}

type objectiveTemplate struct {
	text        string
	options     Options
	answer      string
	explanation string
}

type essayTemplate struct {
	text   string
	answer string
}

func objectiveTemplates(subject string) []objectiveTemplate {
	return []objectiveTemplate{
		{
			text:        fmt.Sprintf("What is a fundamental concept in %s?", subject),
			options:     Options{A: "Definition A", B: "Definition B", C: "Definition C", D: "Definition D"},
			answer:      "a",
			explanation: fmt.Sprintf("Choose the most accurate definition of %s", subject),
		},
		{
			text:        fmt.Sprintf("Which statement best describes %s?", subject),
			options:     Options{A: "Statement A", B: "Statement B", C: "Statement C", D: "Statement D"},
			answer:      "b",
			explanation: fmt.Sprintf("Best description of %s", subject),
		},
		{
			text:        fmt.Sprintf("Which example is most related to %s?", subject),
			options:     Options{A: "Example A", B: "Example B", C: "Example C", D: "Example D"},
			answer:      "c",
			explanation: fmt.Sprintf("Choose the example that best demonstrates %s", subject),
		},
		{
			text:        fmt.Sprintf("How is %s applied in everyday life?", subject),
			options:     Options{A: "Application A", B: "Application B", C: "Application C", D: "Application D"},
			answer:      "d",
			explanation: fmt.Sprintf("Practical application of %s", subject),
		},
		{
			text:        fmt.Sprintf("Identify the correct relationship in %s.", subject),
			options:     Options{A: "Relation A", B: "Relation B", C: "Relation C", D: "Relation D"},
			answer:      "a",
			explanation: "Choose the correct relationship",
		},
	}
}

func essayTemplates(subject string) []essayTemplate {
	return []essayTemplate{
		{
			text:   fmt.Sprintf("Discuss the importance of %s in society.", subject),
			answer: fmt.Sprintf("A structured essay discussing the importance of %s in society.", subject),
		},
		{
			text:   fmt.Sprintf("Write an essay on challenges facing %s and suggest solutions.", subject),
			answer: fmt.Sprintf("An essay outlining challenges and suggesting practical solutions for %s.", subject),
		},
		{
			text:   fmt.Sprintf("Explain the fundamental principles of %s.", subject),
			answer: fmt.Sprintf("A detailed explanation of the core principles of %s.", subject),
		},
		{
			text:   fmt.Sprintf("Evaluate recent developments in %s.", subject),
			answer: fmt.Sprintf("An evaluative essay on recent developments in %s.", subject),
		},
		{
			text:   fmt.Sprintf("Describe a practical experiment or project related to %s.", subject),
			answer: fmt.Sprintf("A description of a practical project or experiment with steps and expected outcomes for %s.", subject),
		},
	}
}

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func subjectSlug(subject string) string {
	return strings.ToUpper(strings.Trim(slugPattern.ReplaceAllString(subject, "-"), "-"))
}

// Generate produces the synthetic fallback set for a national exam type:
// 60 objective questions for JAMB, 50 objective plus 10 essay for WAEC.
// Common-entrance has no generator and yields nil.
func Generate(examType ExamType, subject string) []Question {
	switch examType {
	case ExamJAMB:
		return generateObjectives(examType, subject, jambGeneratedCount,
			func(i int) string { return fmt.Sprintf("JAMB-%s-%03d", subjectSlug(subject), i+1) }, 0)
	case ExamWAEC:
		slug := subjectSlug(subject)
		qs := generateObjectives(examType, subject, waecGeneratedObjectives,
			func(i int) string { return fmt.Sprintf("WAEC-%s-OBJ-%03d", slug, i+1) }, 0)
		return append(qs, generateEssays(examType, subject, waecGeneratedEssays,
			func(i int) string { return fmt.Sprintf("WAEC-%s-ESS-%03d", slug, i+1) }, waecGeneratedObjectives)...)
	}
	return nil
}

func generateObjectives(examType ExamType, subject string, count int, id func(int) string, numberOffset int) []Question {
	templates := objectiveTemplates(subject)
	now := time.Now().Unix()
	qs := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		t := templates[i%len(templates)]
		opts := t.options
		qs = append(qs, Question{
			ID:            id(i),
			Subject:       subject,
			ExamType:      examType,
			Kind:          KindObjective,
			Number:        numberOffset + i + 1,
			Text:          t.text,
			Year:          generatedYears[i*len(generatedYears)/count],
			Options:       &opts,
			CorrectAnswer: t.answer,
			Explanation:   t.explanation,
			CreatedAt:     now,
		})
	}
	return qs
}

func generateEssays(examType ExamType, subject string, count int, id func(int) string, numberOffset int) []Question {
	templates := essayTemplates(subject)
	now := time.Now().Unix()
	qs := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		t := templates[i%len(templates)]
		qs = append(qs, Question{
			ID:          id(i),
			Subject:     subject,
			ExamType:    examType,
			Kind:        KindEssay,
			Number:      numberOffset + i + 1,
			Text:        t.text,
			Year:        generatedYears[i*len(generatedYears)/count],
			Explanation: "Essay questions are evaluated based on content, organization, grammar, vocabulary, and adherence to the question requirements.",
			EssayAnswer: t.answer,
			CreatedAt:   now,
		})
	}
	return qs
}

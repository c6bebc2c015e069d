package question

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Normalize maps an upstream question-bank payload of unknown shape into
// canonical Question records. The bank answers in several documented
// shapes: a bare array, {data: [...]}, {data: {...single...}},
// {questions: [...]}, or {data: {questions: [...]}}. Entries that cannot
// be mapped are dropped individually; a totally unrecognized shape yields
// an empty slice.
func Normalize(payload any, examType ExamType) []Question {
	raw := unwrap(payload)
	if len(raw) == 0 {
		return nil
	}

	out := make([]Question, 0, len(raw))
	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		q, ok := mapEntry(m, examType, i)
		if !ok {
			continue
		}
		out = append(out, q)
	}
	return out
}

func unwrap(payload any) []any {
	switch v := payload.(type) {
	case nil:
		return nil
	case []any:
		return v
	case map[string]any:
		if arr, ok := v["data"].([]any); ok {
			return arr
		}
		if inner, ok := v["data"].(map[string]any); ok {
			if arr, ok := inner["questions"].([]any); ok {
				return arr
			}
			if _, ok := inner["question"]; ok {
				return []any{inner}
			}
		}
		if arr, ok := v["questions"].([]any); ok {
			return arr
		}
	}
	return nil
}

func mapEntry(m map[string]any, examType ExamType, index int) (Question, bool) {
	text := firstString(m, "question", "questionText", "text")
	if text == "" {
		return Question{}, false
	}

	subject := firstString(m, "subject", "category", "subject_name")
	if subject == "" {
		subject = "Unknown"
	}

	kind := Kind(firstString(m, "questionType", "type"))
	if kind != KindEssay {
		kind = KindObjective
	}

	id := firstString(m, "id")
	if id == "" {
		if n, ok := asInt(m["id"]); ok {
			id = strconv.Itoa(n)
		}
	}
	if id == "" {
		slug := strings.ReplaceAll(subject, " ", "-")
		id = fmt.Sprintf("%s-%s-%d", strings.ToUpper(string(examType)), slug, index+1)
	}

	number := index + 1
	if n, ok := asInt(firstPresent(m, "number", "questionNumber")); ok {
		number = n
	}

	year := time.Now().Year()
	if y, ok := asInt(firstPresent(m, "examyear", "year")); ok && y > 0 {
		year = y
	}

	q := Question{
		ID:          id,
		Subject:     subject,
		ExamType:    examType,
		Kind:        kind,
		Number:      number,
		Text:        text,
		Year:        year,
		Explanation: firstString(m, "explanation", "solution", "hint"),
		EssayAnswer: firstString(m, "essay_answer", "sample_answer", "essayAnswer"),
		CreatedAt:   time.Now().Unix(),
	}
	if q.Explanation == "" {
		q.Explanation = "No explanation available."
	}

	if kind == KindObjective {
		q.Options = mapOptions(firstPresent(m, "option", "options", "choices"))
		if q.Options == nil {
			q.Options = &Options{}
		}
		ans := strings.ToLower(firstString(m, "answer", "correct_answer", "correctAnswer"))
		if !validKey(ans) {
			ans = OptionKeys[0]
		}
		q.CorrectAnswer = ans
	}
	return q, true
}

func mapOptions(v any) *Options {
	switch o := v.(type) {
	case map[string]any:
		return &Options{
			A: optString(o, "a", "A", 0),
			B: optString(o, "b", "B", 1),
			C: optString(o, "c", "C", 2),
			D: optString(o, "d", "D", 3),
		}
	case []any:
		var opts Options
		fields := []*string{&opts.A, &opts.B, &opts.C, &opts.D}
		for i, f := range fields {
			if i < len(o) {
				if s, ok := o[i].(string); ok {
					*f = s
				}
			}
		}
		return &opts
	}
	return nil
}

func optString(m map[string]any, lower, upper string, idx int) string {
	if s, ok := m[lower].(string); ok && s != "" {
		return s
	}
	if s, ok := m[upper].(string); ok && s != "" {
		return s
	}
	// some providers key options by numeric index
	if s, ok := m[strconv.Itoa(idx)].(string); ok {
		return s
	}
	return ""
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

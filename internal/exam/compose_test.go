package exam

import (
	"fmt"
	"testing"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

func makePool(et question.ExamType, subject string, objective, essay int) SubjectPool {
	var qs []question.Question
	for i := 0; i < objective; i++ {
		qs = append(qs, question.Question{
			ID: fmt.Sprintf("%s-obj-%d", subject, i), Subject: subject, ExamType: et,
			Kind: question.KindObjective, Text: fmt.Sprintf("obj %d", i),
			Options: &question.Options{A: "a", B: "b", C: "c", D: "d"}, CorrectAnswer: "a",
		})
	}
	for i := 0; i < essay; i++ {
		qs = append(qs, question.Question{
			ID: fmt.Sprintf("%s-ess-%d", subject, i), Subject: subject, ExamType: et,
			Kind: question.KindEssay, Text: fmt.Sprintf("essay %d", i),
		})
	}
	return SubjectPool{Subject: subject, Questions: qs}
}

func TestComposeJAMBTargets(t *testing.T) {
	pools := []SubjectPool{
		makePool(question.ExamJAMB, "English Language", 100, 0),
		makePool(question.ExamJAMB, "Physics", 100, 0),
		makePool(question.ExamJAMB, "Chemistry", 25, 0),
	}
	paper := Compose(question.ExamJAMB, pools, NewShuffler(1))

	counts := map[string]int{}
	for _, q := range paper {
		counts[q.Subject]++
	}
	if counts["English Language"] != 60 {
		t.Errorf("English = %d, want 60", counts["English Language"])
	}
	if counts["Physics"] != 40 {
		t.Errorf("Physics = %d, want 40", counts["Physics"])
	}
	// short pools are taken whole, never padded
	if counts["Chemistry"] != 25 {
		t.Errorf("Chemistry = %d, want min(40, 25)", counts["Chemistry"])
	}
	if len(paper) != 125 {
		t.Errorf("paper = %d, want 125", len(paper))
	}
}

func TestComposeWAECFullPool(t *testing.T) {
	pools := []SubjectPool{makePool(question.ExamWAEC, "Biology", 80, 20)}
	paper := Compose(question.ExamWAEC, pools, NewShuffler(7))

	if len(paper) != 60 {
		t.Fatalf("paper = %d, want exactly 60", len(paper))
	}
	var objective, essay int
	for _, q := range paper {
		if q.Kind == question.KindEssay {
			essay++
		} else {
			objective++
		}
	}
	if objective != 50 || essay != 10 {
		t.Errorf("mix = %d objective + %d essay, want 50 + 10", objective, essay)
	}
}

func TestComposeWAECTopUpFromRemainder(t *testing.T) {
	// 10 objective + 15 essay: quotas give 10 + 10, top-up adds the 5
	// leftover essays, final length is the whole 25-item pool
	pools := []SubjectPool{makePool(question.ExamWAEC, "Commerce", 10, 15)}
	paper := Compose(question.ExamWAEC, pools, NewShuffler(3))

	if len(paper) != 25 {
		t.Fatalf("paper = %d, want 25", len(paper))
	}
	seen := map[string]struct{}{}
	for _, q := range paper {
		if _, dup := seen[q.ID]; dup {
			t.Fatalf("question %s selected twice", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
}

func TestComposeWAECNeverExceedsSixty(t *testing.T) {
	pools := []SubjectPool{makePool(question.ExamWAEC, "Government", 200, 50)}
	if paper := Compose(question.ExamWAEC, pools, NewShuffler(11)); len(paper) != 60 {
		t.Fatalf("paper = %d, want 60", len(paper))
	}
}

func TestComposeEntrancePassThrough(t *testing.T) {
	pool := makePool(question.ExamCommonEntrance, "Quantitative Reasoning", 30, 0)
	paper := Compose(question.ExamCommonEntrance, []SubjectPool{pool}, NewShuffler(5))

	if len(paper) != 30 {
		t.Fatalf("paper = %d, want the untouched 30-question pool", len(paper))
	}
	for i, q := range paper {
		if q.ID != pool.Questions[i].ID {
			t.Fatal("entrance paper was reordered")
		}
	}
}

func TestComposeDeterministicForSeed(t *testing.T) {
	pools := []SubjectPool{makePool(question.ExamJAMB, "Physics", 100, 0)}
	a := Compose(question.ExamJAMB, pools, NewShuffler(42))
	b := Compose(question.ExamJAMB, pools, NewShuffler(42))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("order diverges at %d for the same seed", i)
		}
	}
}

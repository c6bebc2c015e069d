package exam

import (
	"math/rand"

	"github.com/prepdesk/prepdesk-cbt/internal/question"
)

// Format targets. WAEC sits a single subject as a 50 objective + 10 essay
// mix; JAMB sits English at 60 questions and every other subject at 40.
const (
	jambCoreTarget     = 60
	jambElectiveTarget = 40
	waecTarget         = 60
	waecObjectiveQuota = 50
	waecEssayQuota     = 10
)

// Shuffler randomizes question order. The production shuffler wraps
// math/rand; tests inject a seeded one to make composition deterministic.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type randShuffler struct{ r *rand.Rand }

func (s randShuffler) Shuffle(n int, swap func(i, j int)) { s.r.Shuffle(n, swap) }

// NewShuffler returns a Shuffler seeded from seed; pass a fixed seed for
// reproducible composition.
func NewShuffler(seed int64) Shuffler {
	return randShuffler{r: rand.New(rand.NewSource(seed))}
}

// SubjectPool pairs a subject with its sourced working set.
type SubjectPool struct {
	Subject   string
	Questions []question.Question
}

// Compose applies the per-format selection rules to the sourced pools and
// returns the final ordered question list for a session. It is pure given
// its inputs and the shuffler.
func Compose(examType question.ExamType, pools []SubjectPool, sh Shuffler) []question.Question {
	var out []question.Question
	for _, p := range pools {
		out = append(out, composeSubject(examType, p, sh)...)
	}
	// National sessions get one final shuffle across the whole paper so
	// subjects (and objective/essay items) interleave.
	if examType.National() {
		shuffle(out, sh)
	}
	return out
}

func composeSubject(examType question.ExamType, p SubjectPool, sh Shuffler) []question.Question {
	switch examType {
	case question.ExamJAMB:
		target := jambElectiveTarget
		if question.IsEnglish(p.Subject) {
			target = jambCoreTarget
		}
		pool := shuffledCopy(p.Questions, sh)
		return truncate(pool, target)
	case question.ExamWAEC:
		return composeWAEC(p.Questions, sh)
	default:
		// common-entrance: the pool is the paper, untouched
		return append([]question.Question(nil), p.Questions...)
	}
}

// composeWAEC selects up to 50 objective and 10 essay items, tops up to 60
// from whatever remains, and shuffles once more so the kinds interleave.
// Short pools are returned whole, never padded.
func composeWAEC(pool []question.Question, sh Shuffler) []question.Question {
	var objective, essay []question.Question
	for _, q := range pool {
		if q.Kind == question.KindEssay {
			essay = append(essay, q)
		} else {
			objective = append(objective, q)
		}
	}

	selected := truncate(shuffledCopy(objective, sh), waecObjectiveQuota)
	selected = append(selected, truncate(shuffledCopy(essay, sh), waecEssayQuota)...)

	if len(selected) < waecTarget {
		chosen := make(map[string]struct{}, len(selected))
		for _, q := range selected {
			chosen[q.ID] = struct{}{}
		}
		var rest []question.Question
		for _, q := range pool {
			if _, ok := chosen[q.ID]; !ok {
				rest = append(rest, q)
			}
		}
		rest = shuffledCopy(rest, sh)
		selected = append(selected, truncate(rest, waecTarget-len(selected))...)
	}

	shuffle(selected, sh)
	return truncate(selected, waecTarget)
}

func shuffledCopy(qs []question.Question, sh Shuffler) []question.Question {
	out := append([]question.Question(nil), qs...)
	shuffle(out, sh)
	return out
}

func shuffle(qs []question.Question, sh Shuffler) {
	sh.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
}

func truncate(qs []question.Question, n int) []question.Question {
	if len(qs) > n {
		return qs[:n]
	}
	return qs
}

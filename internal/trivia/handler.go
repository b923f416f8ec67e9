package trivia

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// Verdict is the result of judging one submission against an open question.
type Verdict int

const (
	// Inapplicable means the message did not look like an answer attempt;
	// it is not counted and does not close the question.
	Inapplicable Verdict = iota
	Incorrect
	Correct
)

// AnswerMatcher decides whether a normalized short-answer submission matches
// the acceptable answer set. The default is exact matching after
// normalization; packs that need fuzzier matching can supply their own.
type AnswerMatcher func(submission string, acceptable []string) bool

// ExactMatcher matches a normalized submission against any normalized entry
// of the acceptable set.
func ExactMatcher(submission string, acceptable []string) bool {
	for _, a := range acceptable {
		if submission == normalizeAnswer(a) {
			return true
		}
	}
	return false
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// questionHandler wraps one question with its judging state for the lifetime
// of a single ask. The resolved flag is the only field mutated after
// construction and uses CAS semantics so racing producers settle on exactly
// one outcome.
type questionHandler struct {
	question domain.Question
	matcher  AnswerMatcher
	resolved atomic.Bool
}

func newQuestionHandler(q domain.Question, matcher AnswerMatcher) *questionHandler {
	if matcher == nil {
		matcher = ExactMatcher
	}
	return &questionHandler{question: q, matcher: matcher}
}

// markResolved closes the question. It returns true for exactly one caller.
func (h *questionHandler) markResolved() bool {
	return h.resolved.CompareAndSwap(false, true)
}

func (h *questionHandler) isResolved() bool {
	return h.resolved.Load()
}

// check judges a submission. A resolved question short-circuits to
// Inapplicable: the answer arrived after the question closed.
func (h *questionHandler) check(sub domain.Submission) Verdict {
	if h.isResolved() {
		return Inapplicable
	}

	switch h.question.Kind {
	case domain.KindMultipleChoice:
		return h.checkChoice(sub)
	case domain.KindShortAnswer, domain.KindMediaID:
		return h.checkAnswerSet(sub)
	default:
		return Inapplicable
	}
}

// checkChoice treats a numeric, in-range index as an answer attempt;
// anything else was not aimed at the question.
func (h *questionHandler) checkChoice(sub domain.Submission) Verdict {
	idx, err := strconv.Atoi(strings.TrimSpace(sub.Text))
	if err != nil {
		return Inapplicable
	}
	if idx < 0 || idx >= len(h.question.Choices) {
		return Inapplicable
	}
	if idx == h.question.CorrectChoice {
		return Correct
	}
	return Incorrect
}

func (h *questionHandler) checkAnswerSet(sub domain.Submission) Verdict {
	text := normalizeAnswer(sub.Text)
	if text == "" {
		return Inapplicable
	}
	if h.matcher(text, h.question.AcceptableAnswers) {
		return Correct
	}
	// Any non-empty message during the open window counts as an attempt.
	return Incorrect
}

// displayAnswer is the correct-answer text carried on question-end events.
func (h *questionHandler) displayAnswer() string {
	q := h.question
	switch q.Kind {
	case domain.KindMultipleChoice:
		if q.CorrectChoice >= 0 && q.CorrectChoice < len(q.Choices) {
			return q.Choices[q.CorrectChoice].Text
		}
		return ""
	default:
		if len(q.AcceptableAnswers) > 0 {
			return q.AcceptableAnswers[0]
		}
		return ""
	}
}

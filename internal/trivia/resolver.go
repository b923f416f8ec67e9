package trivia

import (
	"context"
	"time"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// OutcomeKind classifies how a question resolved.
type OutcomeKind int

const (
	// OutcomeWin means somebody answered correctly within the window.
	OutcomeWin OutcomeKind = iota
	// OutcomeTimeout means the window elapsed with no correct answer.
	OutcomeTimeout
	// OutcomeAborted means the round was cancelled mid-question.
	OutcomeAborted
)

// Outcome is the single result of resolving one question.
type Outcome struct {
	Kind OutcomeKind
	Win  *domain.Win
}

// resolve drains submissions for one question until a correct answer, the
// timer, or cancellation wins the race. It is the only consumer of the
// submission channel, so correctness checks are serialized in arrival order;
// the handler's resolved flag is still a CAS gate so a producer that loses
// the race can never double-resolve.
//
// Incorrect submissions fire OnAnswerIncorrect as they are judged and count
// toward the win's incorrect-attempt total. Inapplicable submissions are
// dropped without notification. Everything observed after resolution is
// inapplicable: the question already closed.
func resolve(ctx context.Context, h *questionHandler, duration time.Duration, subs <-chan domain.Submission, listener Listener) Outcome {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	incorrect := 0
	for {
		select {
		case <-ctx.Done():
			h.markResolved()
			return Outcome{Kind: OutcomeAborted}

		case <-timer.C:
			h.markResolved()
			return Outcome{Kind: OutcomeTimeout}

		case sub, ok := <-subs:
			if !ok {
				h.markResolved()
				return Outcome{Kind: OutcomeAborted}
			}
			switch h.check(sub) {
			case Correct:
				if !h.markResolved() {
					continue
				}
				listener.OnAnswerCorrect(AnswerCorrectEvent{SubmissionRef: sub.Ref})
				return Outcome{
					Kind: OutcomeWin,
					Win: &domain.Win{
						WinnerID:          sub.ParticipantID,
						PointsAwarded:     h.question.PointsOrDefault(),
						IncorrectAttempts: incorrect,
						WinningSubmission: sub,
					},
				}
			case Incorrect:
				incorrect++
				listener.OnAnswerIncorrect(AnswerIncorrectEvent{SubmissionRef: sub.Ref})
			case Inapplicable:
				// Not an answer attempt; ignore.
			}
		}
	}
}

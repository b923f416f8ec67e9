package trivia

import (
	"github.com/google/uuid"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// Listener receives a session's ordered lifecycle events. All callbacks are
// invoked from the session's own goroutine; implementations must not block or
// the round stalls on the next suspension point.
type Listener interface {
	OnRoundStart(RoundStartEvent)
	OnRoundEnd(RoundEndEvent)
	OnRoundAbort(RoundAbortEvent)

	OnMultipleChoiceQuestionStart(MultipleChoiceQuestionStartEvent)
	OnMultipleChoiceQuestionEnd(MultipleChoiceQuestionEndEvent)

	OnShortAnswerQuestionStart(ShortAnswerQuestionStartEvent)
	OnShortAnswerQuestionEnd(ShortAnswerQuestionEndEvent)

	OnMediaIDQuestionStart(MediaIDQuestionStartEvent)
	OnMediaIDQuestionEnd(MediaIDQuestionEndEvent)

	OnAnswerCorrect(AnswerCorrectEvent)
	OnAnswerIncorrect(AnswerIncorrectEvent)
}

// RoundStartEvent announces a round before its first question.
type RoundStartEvent struct {
	Metadata          domain.PackMetadata
	DifficultyName    string
	StartingInSeconds int
	HasAudio          bool
}

// RoundEndEvent closes a completed round with the final scoreboard.
type RoundEndEvent struct {
	Scores []ScoreEntry
	// MaxScore lets renderers mark every entry tied at the top.
	MaxScore int
}

// RoundAbortEvent closes a cancelled round. No scoreboard is emitted; the
// round was aborted, not completed.
type RoundAbortEvent struct{}

// QuestionStartEvent carries the fields shared by every question kind.
type QuestionStartEvent struct {
	QuestionNumber     int
	TotalQuestions     int
	MaxDurationSeconds int
	Points             int
	Text               string
}

// QuestionEndEvent carries the fields shared by every question end. Win is
// nil when the question timed out unresolved.
type QuestionEndEvent struct {
	Win *domain.Win
}

type MultipleChoiceQuestionStartEvent struct {
	QuestionStartEvent
	Choices []domain.Choice
}

type MultipleChoiceQuestionEndEvent struct {
	QuestionEndEvent
	CorrectChoice domain.Choice
	CorrectIndex  int
}

type ShortAnswerQuestionStartEvent struct {
	QuestionStartEvent
}

type ShortAnswerQuestionEndEvent struct {
	QuestionEndEvent
	AcceptableAnswer string
}

type MediaIDQuestionStartEvent struct {
	QuestionStartEvent
	MediaRef string
}

type MediaIDQuestionEndEvent struct {
	QuestionEndEvent
	AcceptableAnswer string
}

// AnswerCorrectEvent marks the winning submission of a question.
type AnswerCorrectEvent struct {
	SubmissionRef uuid.UUID
}

// AnswerIncorrectEvent marks a submission judged incorrect while the
// question was still open.
type AnswerIncorrectEvent struct {
	SubmissionRef uuid.UUID
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty names a tier of questions within a pack.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the known tiers in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty resolves a user-supplied difficulty name, case-insensitively.
// An empty name yields the medium default.
func ParseDifficulty(name string) (Difficulty, error) {
	if strings.TrimSpace(name) == "" {
		return DifficultyMedium, nil
	}
	for _, d := range Difficulties {
		if strings.EqualFold(name, string(d)) {
			return d, nil
		}
	}
	return "", ErrUnknownDifficulty
}

// QuestionKind tags the judging variant of a question.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindShortAnswer    QuestionKind = "short_answer"
	KindMediaID        QuestionKind = "media_id"
)

// Choice is one selectable option of a multiple-choice question.
type Choice struct {
	Text string `json:"text"`
}

// Question is an immutable pack entry. Kind determines which of the
// kind-specific fields are meaningful: Choices/CorrectChoice for
// multiple-choice, AcceptableAnswers for short-answer and media
// identification, MediaRef for media identification.
type Question struct {
	ID                 string       `json:"id"`
	Kind               QuestionKind `json:"kind"`
	Text               string       `json:"text"`
	Points             int          `json:"points"` // defaults to 1 if zero
	MaxDurationSeconds int          `json:"maxDurationSeconds,omitempty"`
	Difficulty         Difficulty   `json:"difficulty"`
	MediaRef           string       `json:"mediaRef,omitempty"`
	Choices            []Choice     `json:"choices,omitempty"`
	CorrectChoice      int          `json:"correctChoice,omitempty"`
	AcceptableAnswers  []string     `json:"acceptableAnswers,omitempty"`
}

// PointsOrDefault returns the question's point value, or 1 when unset.
func (q Question) PointsOrDefault() int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}

// PackMetadata describes a trivia pack for display purposes.
type PackMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HasAudio    bool   `json:"hasAudio,omitempty"`
}

// Pack is an ordered bank of questions plus its metadata.
type Pack struct {
	Metadata  PackMetadata `json:"metadata"`
	Questions []Question   `json:"questions"`
}

// Submission is one channel message observed while a question is open.
// Ref identifies the underlying chat message so renderers can react to it.
type Submission struct {
	ParticipantID string
	Text          string
	SubmittedAt   time.Time
	Ref           uuid.UUID
}

// Win is the resolved outcome of a question that somebody answered correctly.
type Win struct {
	WinnerID          string
	PointsAwarded     int
	IncorrectAttempts int
	WinningSubmission Submission
}

package http

import (
	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
	"github.com/lijamez/tonbot-plugin-trivia/internal/trivia"
)

// channelListener adapts a session's lifecycle events into outbound frames
// for every connection in the channel. Broadcasts never block, so the
// session goroutine cannot stall on a slow client.
type channelListener struct {
	hub *channelHub
}

type roundStartFrame struct {
	Pack              domain.PackMetadata `json:"pack"`
	Difficulty        string              `json:"difficulty"`
	StartingInSeconds int                 `json:"startingInSeconds"`
	HasAudio          bool                `json:"hasAudio"`
}

type questionStartFrame struct {
	Kind               string   `json:"kind"`
	QuestionNumber     int      `json:"questionNumber"`
	TotalQuestions     int      `json:"totalQuestions"`
	MaxDurationSeconds int      `json:"maxDurationSeconds"`
	Points             int      `json:"points"`
	Text               string   `json:"text"`
	Choices            []string `json:"choices,omitempty"`
	MediaRef           string   `json:"mediaRef,omitempty"`
}

type winFrame struct {
	WinnerID          string `json:"winnerId"`
	PointsAwarded     int    `json:"pointsAwarded"`
	IncorrectAttempts int    `json:"incorrectAttempts"`
	WinningText       string `json:"winningText"`
}

type questionEndFrame struct {
	Kind          string    `json:"kind"`
	Win           *winFrame `json:"win,omitempty"`
	CorrectAnswer string    `json:"correctAnswer"`
}

type answerFrame struct {
	SubmissionRef string `json:"submissionRef"`
}

type scoreFrame struct {
	ParticipantID string `json:"participantId"`
	Points        int    `json:"points"`
	// Top marks every entry tied at the round's highest score.
	Top bool `json:"top"`
}

type roundEndFrame struct {
	Scores []scoreFrame `json:"scores"`
}

func (l *channelListener) OnRoundStart(e trivia.RoundStartEvent) {
	l.hub.broadcast(outboundMessage{Type: "roundStart", Payload: roundStartFrame{
		Pack:              e.Metadata,
		Difficulty:        e.DifficultyName,
		StartingInSeconds: e.StartingInSeconds,
		HasAudio:          e.HasAudio,
	}})
}

func (l *channelListener) OnRoundEnd(e trivia.RoundEndEvent) {
	scores := make([]scoreFrame, 0, len(e.Scores))
	for _, entry := range e.Scores {
		scores = append(scores, scoreFrame{
			ParticipantID: entry.ParticipantID,
			Points:        entry.Points,
			Top:           len(e.Scores) > 0 && entry.Points == e.MaxScore,
		})
	}
	l.hub.broadcast(outboundMessage{Type: "roundEnd", Payload: roundEndFrame{Scores: scores}})
}

func (l *channelListener) OnRoundAbort(trivia.RoundAbortEvent) {
	l.hub.broadcast(outboundMessage{Type: "roundAbort", Payload: struct{}{}})
}

func (l *channelListener) OnMultipleChoiceQuestionStart(e trivia.MultipleChoiceQuestionStartEvent) {
	choices := make([]string, 0, len(e.Choices))
	for _, c := range e.Choices {
		choices = append(choices, c.Text)
	}
	l.hub.broadcast(outboundMessage{Type: "questionStart", Payload: questionStartFrame{
		Kind:               string(domain.KindMultipleChoice),
		QuestionNumber:     e.QuestionNumber,
		TotalQuestions:     e.TotalQuestions,
		MaxDurationSeconds: e.MaxDurationSeconds,
		Points:             e.Points,
		Text:               e.Text,
		Choices:            choices,
	}})
}

func (l *channelListener) OnMultipleChoiceQuestionEnd(e trivia.MultipleChoiceQuestionEndEvent) {
	l.hub.broadcast(outboundMessage{Type: "questionEnd", Payload: questionEndFrame{
		Kind:          string(domain.KindMultipleChoice),
		Win:           winFrameOf(e.Win),
		CorrectAnswer: e.CorrectChoice.Text,
	}})
}

func (l *channelListener) OnShortAnswerQuestionStart(e trivia.ShortAnswerQuestionStartEvent) {
	l.hub.broadcast(outboundMessage{Type: "questionStart", Payload: questionStartFrame{
		Kind:               string(domain.KindShortAnswer),
		QuestionNumber:     e.QuestionNumber,
		TotalQuestions:     e.TotalQuestions,
		MaxDurationSeconds: e.MaxDurationSeconds,
		Points:             e.Points,
		Text:               e.Text,
	}})
}

func (l *channelListener) OnShortAnswerQuestionEnd(e trivia.ShortAnswerQuestionEndEvent) {
	l.hub.broadcast(outboundMessage{Type: "questionEnd", Payload: questionEndFrame{
		Kind:          string(domain.KindShortAnswer),
		Win:           winFrameOf(e.Win),
		CorrectAnswer: e.AcceptableAnswer,
	}})
}

func (l *channelListener) OnMediaIDQuestionStart(e trivia.MediaIDQuestionStartEvent) {
	l.hub.broadcast(outboundMessage{Type: "questionStart", Payload: questionStartFrame{
		Kind:               string(domain.KindMediaID),
		QuestionNumber:     e.QuestionNumber,
		TotalQuestions:     e.TotalQuestions,
		MaxDurationSeconds: e.MaxDurationSeconds,
		Points:             e.Points,
		Text:               e.Text,
		MediaRef:           e.MediaRef,
	}})
}

func (l *channelListener) OnMediaIDQuestionEnd(e trivia.MediaIDQuestionEndEvent) {
	l.hub.broadcast(outboundMessage{Type: "questionEnd", Payload: questionEndFrame{
		Kind:          string(domain.KindMediaID),
		Win:           winFrameOf(e.Win),
		CorrectAnswer: e.AcceptableAnswer,
	}})
}

func (l *channelListener) OnAnswerCorrect(e trivia.AnswerCorrectEvent) {
	l.hub.broadcast(outboundMessage{Type: "answerCorrect", Payload: answerFrame{SubmissionRef: e.SubmissionRef.String()}})
}

func (l *channelListener) OnAnswerIncorrect(e trivia.AnswerIncorrectEvent) {
	l.hub.broadcast(outboundMessage{Type: "answerIncorrect", Payload: answerFrame{SubmissionRef: e.SubmissionRef.String()}})
}

func winFrameOf(win *domain.Win) *winFrame {
	if win == nil {
		return nil
	}
	return &winFrame{
		WinnerID:          win.WinnerID,
		PointsAwarded:     win.PointsAwarded,
		IncorrectAttempts: win.IncorrectAttempts,
		WinningText:       win.WinningSubmission.Text,
	}
}

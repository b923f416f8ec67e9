package trivia

import (
	"context"
	"sync"
	"time"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// recordingListener captures lifecycle events for assertions and exposes a
// signal channel so tests can sequence submissions against question starts.
type recordingListener struct {
	mu        sync.Mutex
	names     []string
	starts    []QuestionStartEvent
	ends      []QuestionEndEvent
	roundEnd  *RoundEndEvent
	aborted   bool
	correct   []AnswerCorrectEvent
	incorrect []AnswerIncorrectEvent

	signals chan string
}

func newRecordingListener() *recordingListener {
	return &recordingListener{signals: make(chan string, 64)}
}

func (l *recordingListener) record(name string) {
	l.mu.Lock()
	l.names = append(l.names, name)
	l.mu.Unlock()
	select {
	case l.signals <- name:
	default:
	}
}

func (l *recordingListener) waitFor(name string, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		select {
		case got := <-l.signals:
			if got == name {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func (l *recordingListener) eventNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

func (l *recordingListener) OnRoundStart(RoundStartEvent) { l.record("roundStart") }

func (l *recordingListener) OnRoundEnd(e RoundEndEvent) {
	l.mu.Lock()
	l.roundEnd = &e
	l.mu.Unlock()
	l.record("roundEnd")
}

func (l *recordingListener) OnRoundAbort(RoundAbortEvent) {
	l.mu.Lock()
	l.aborted = true
	l.mu.Unlock()
	l.record("roundAbort")
}

func (l *recordingListener) OnMultipleChoiceQuestionStart(e MultipleChoiceQuestionStartEvent) {
	l.mu.Lock()
	l.starts = append(l.starts, e.QuestionStartEvent)
	l.mu.Unlock()
	l.record("mcStart")
}

func (l *recordingListener) OnMultipleChoiceQuestionEnd(e MultipleChoiceQuestionEndEvent) {
	l.mu.Lock()
	l.ends = append(l.ends, e.QuestionEndEvent)
	l.mu.Unlock()
	l.record("mcEnd")
}

func (l *recordingListener) OnShortAnswerQuestionStart(e ShortAnswerQuestionStartEvent) {
	l.mu.Lock()
	l.starts = append(l.starts, e.QuestionStartEvent)
	l.mu.Unlock()
	l.record("saStart")
}

func (l *recordingListener) OnShortAnswerQuestionEnd(e ShortAnswerQuestionEndEvent) {
	l.mu.Lock()
	l.ends = append(l.ends, e.QuestionEndEvent)
	l.mu.Unlock()
	l.record("saEnd")
}

func (l *recordingListener) OnMediaIDQuestionStart(e MediaIDQuestionStartEvent) {
	l.mu.Lock()
	l.starts = append(l.starts, e.QuestionStartEvent)
	l.mu.Unlock()
	l.record("mediaStart")
}

func (l *recordingListener) OnMediaIDQuestionEnd(e MediaIDQuestionEndEvent) {
	l.mu.Lock()
	l.ends = append(l.ends, e.QuestionEndEvent)
	l.mu.Unlock()
	l.record("mediaEnd")
}

func (l *recordingListener) OnAnswerCorrect(e AnswerCorrectEvent) {
	l.mu.Lock()
	l.correct = append(l.correct, e)
	l.mu.Unlock()
	l.record("answerCorrect")
}

func (l *recordingListener) OnAnswerIncorrect(e AnswerIncorrectEvent) {
	l.mu.Lock()
	l.incorrect = append(l.incorrect, e)
	l.mu.Unlock()
	l.record("answerIncorrect")
}

// stubPacks is a minimal in-test PackRepository.
type stubPacks struct {
	packs map[string]domain.Pack
}

func (s *stubPacks) GetPack(_ context.Context, name string) (domain.Pack, error) {
	if p, ok := s.packs[name]; ok {
		return p, nil
	}
	return domain.Pack{}, domain.ErrPackNotFound
}

func (s *stubPacks) ListPacks(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(s.packs))
	for name := range s.packs {
		names = append(names, name)
	}
	return names, nil
}

package trivia

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// Config tunes round behavior. Zero values fall back to the defaults below.
type Config struct {
	// MaxQuestions caps the number of questions per round; the round asks
	// min(MaxQuestions, matching bank entries).
	MaxQuestions int
	// QuestionDuration is the answer window for questions that do not carry
	// their own duration.
	QuestionDuration time.Duration
	// StartDelay is the pause between the round-start announcement and the
	// first question.
	StartDelay time.Duration
	// Matcher overrides short-answer matching; nil means exact matching
	// after normalization.
	Matcher AnswerMatcher
}

const (
	defaultMaxQuestions     = 10
	defaultQuestionDuration = 30 * time.Second
	defaultStartDelay       = 3 * time.Second

	// submissionBuffer absorbs bursts of channel messages between resolver
	// reads; overflow is dropped rather than blocking the transport.
	submissionBuffer = 128
)

func (c Config) withDefaults() Config {
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = defaultMaxQuestions
	}
	if c.QuestionDuration <= 0 {
		c.QuestionDuration = defaultQuestionDuration
	}
	if c.StartDelay <= 0 {
		c.StartDelay = defaultStartDelay
	}
	return c
}

// SessionKey identifies the channel a round is bound to.
type SessionKey struct {
	GuildID   string
	ChannelID string
}

// Session drives one trivia round for one channel. All state is owned by the
// session's run goroutine; the submission channel is the only path in.
type Session struct {
	key        SessionKey
	cfg        Config
	metadata   domain.PackMetadata
	difficulty domain.Difficulty
	questions  []domain.Question
	listener   Listener
	scores     *scoreboard

	cancel context.CancelFunc
	done   chan struct{}

	mu   sync.Mutex
	subs chan domain.Submission // non-nil only while a question is open
}

func newSession(key SessionKey, pack domain.Pack, difficulty domain.Difficulty, listener Listener, cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()
	questions := selectQuestions(pack, difficulty, cfg.MaxQuestions)
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return &Session{
		key:        key,
		cfg:        cfg,
		metadata:   pack.Metadata,
		difficulty: difficulty,
		questions:  questions,
		listener:   listener,
		scores:     newScoreboard(),
		done:       make(chan struct{}),
	}, nil
}

// selectQuestions filters the bank by difficulty (case-insensitive) and
// truncates to the configured maximum, keeping bank order.
func selectQuestions(pack domain.Pack, difficulty domain.Difficulty, max int) []domain.Question {
	selected := make([]domain.Question, 0, max)
	for _, q := range pack.Questions {
		if !strings.EqualFold(string(q.Difficulty), string(difficulty)) {
			continue
		}
		selected = append(selected, q)
		if len(selected) == max {
			break
		}
	}
	return selected
}

// Submit feeds a channel message into the currently open question. Messages
// arriving between questions are dropped, as are bursts beyond the buffer.
func (s *Session) Submit(sub domain.Submission) {
	s.mu.Lock()
	ch := s.subs
	s.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- sub:
	default:
	}
}

// Done is closed when the session terminates, by completion or cancellation.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) setSubs(ch chan domain.Submission) {
	s.mu.Lock()
	s.subs = ch
	s.mu.Unlock()
}

// run is the round state machine. It owns the scoreboard and makes every
// listener call; nothing here runs concurrently with itself.
func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	s.listener.OnRoundStart(RoundStartEvent{
		Metadata:          s.metadata,
		DifficultyName:    string(s.difficulty),
		StartingInSeconds: int(s.cfg.StartDelay / time.Second),
		HasAudio:          s.metadata.HasAudio,
	})

	select {
	case <-time.After(s.cfg.StartDelay):
	case <-ctx.Done():
		s.listener.OnRoundAbort(RoundAbortEvent{})
		return
	}

	total := len(s.questions)
	for i, q := range s.questions {
		handler := newQuestionHandler(q, s.cfg.Matcher)
		duration := s.cfg.QuestionDuration
		if q.MaxDurationSeconds > 0 {
			duration = time.Duration(q.MaxDurationSeconds) * time.Second
		}

		// Open the window before announcing the question so an answer sent
		// the instant the announcement lands cannot be dropped.
		subs := make(chan domain.Submission, submissionBuffer)
		s.setSubs(subs)
		s.emitQuestionStart(handler, i+1, total, duration)

		outcome := resolve(ctx, handler, duration, subs, s.listener)
		s.setSubs(nil)

		if outcome.Kind == OutcomeAborted {
			s.listener.OnRoundAbort(RoundAbortEvent{})
			return
		}
		if outcome.Kind == OutcomeWin {
			s.scores.credit(outcome.Win.WinnerID, outcome.Win.PointsAwarded)
		}
		s.emitQuestionEnd(handler, outcome.Win)
	}

	entries, max := s.scores.snapshot()
	s.listener.OnRoundEnd(RoundEndEvent{Scores: entries, MaxScore: max})
}

func (s *Session) emitQuestionStart(h *questionHandler, number, total int, duration time.Duration) {
	base := QuestionStartEvent{
		QuestionNumber:     number,
		TotalQuestions:     total,
		MaxDurationSeconds: int(duration / time.Second),
		Points:             h.question.PointsOrDefault(),
		Text:               h.question.Text,
	}
	switch h.question.Kind {
	case domain.KindMultipleChoice:
		s.listener.OnMultipleChoiceQuestionStart(MultipleChoiceQuestionStartEvent{
			QuestionStartEvent: base,
			Choices:            h.question.Choices,
		})
	case domain.KindShortAnswer:
		s.listener.OnShortAnswerQuestionStart(ShortAnswerQuestionStartEvent{QuestionStartEvent: base})
	case domain.KindMediaID:
		s.listener.OnMediaIDQuestionStart(MediaIDQuestionStartEvent{
			QuestionStartEvent: base,
			MediaRef:           h.question.MediaRef,
		})
	}
}

func (s *Session) emitQuestionEnd(h *questionHandler, win *domain.Win) {
	base := QuestionEndEvent{Win: win}
	switch h.question.Kind {
	case domain.KindMultipleChoice:
		s.listener.OnMultipleChoiceQuestionEnd(MultipleChoiceQuestionEndEvent{
			QuestionEndEvent: base,
			CorrectChoice:    domain.Choice{Text: h.displayAnswer()},
			CorrectIndex:     h.question.CorrectChoice,
		})
	case domain.KindShortAnswer:
		s.listener.OnShortAnswerQuestionEnd(ShortAnswerQuestionEndEvent{
			QuestionEndEvent: base,
			AcceptableAnswer: h.displayAnswer(),
		})
	case domain.KindMediaID:
		s.listener.OnMediaIDQuestionEnd(MediaIDQuestionEndEvent{
			QuestionEndEvent: base,
			AcceptableAnswer: h.displayAnswer(),
		})
	}
}

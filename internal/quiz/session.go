package quiz

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/timu/internal/bank"
)

var (
	ErrOutOfRange    = errors.New("question index out of range")
	ErrEndOfSequence = errors.New("already at the last question")
	ErrCompleted     = errors.New("session already completed")
	ErrNotStarted    = errors.New("session not started")
	ErrLocked        = errors.New("question already checked")
)

// State is the lifecycle phase of a session.
type State int

const (
	StateLoading    State = iota // Waiting for the bank
	StateInProgress              // Serving questions
	StateCompleted               // Scored; terminal
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Session is one attempt at one category. It is created fresh for every
// attempt and never reused.
type Session struct {
	// ID is the UUID for this session.
	ID string

	// Category is the bank this session draws from.
	Category bank.Category

	// Mode decides whether questions are scored one by one or at the end.
	Mode bank.Mode

	// StartedAt is when the questions became available.
	StartedAt time.Time

	questions []bank.Question
	answers   map[int]Answer
	checked   map[int]bool
	current   int
	state     State
	result    *ScoreResult
}

// NewSession creates a session in the loading state. An empty mode
// falls back to staged.
func NewSession(cat bank.Category, mode bank.Mode) *Session {
	if mode == "" {
		mode = bank.ModeStaged
	}
	return &Session{
		ID:       uuid.New().String(),
		Category: cat,
		Mode:     mode,
		answers:  make(map[int]Answer),
		checked:  make(map[int]bool),
		state:    StateLoading,
	}
}

// Start installs the question sequence and moves the session to
// in-progress. The sequence is fixed from here on.
func (s *Session) Start(questions []bank.Question) error {
	if s.state != StateLoading {
		return errors.New("session already started")
	}
	s.questions = questions
	s.current = 0
	s.state = StateInProgress
	s.StartedAt = time.Now()
	return nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State { return s.state }

// Completed reports whether the session has been scored.
func (s *Session) Completed() bool { return s.state == StateCompleted }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// Questions returns the question sequence. Callers must not modify it.
func (s *Session) Questions() []bank.Question { return s.questions }

// CurrentIndex returns the position of the displayed question.
func (s *Session) CurrentIndex() int { return s.current }

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool { return s.current >= len(s.questions)-1 }

// CurrentQuestion returns the displayed question, or ErrOutOfRange when
// the sequence is empty.
func (s *Session) CurrentQuestion() (bank.Question, error) {
	if s.state == StateLoading {
		return bank.Question{}, ErrNotStarted
	}
	if s.current < 0 || s.current >= len(s.questions) {
		return bank.Question{}, ErrOutOfRange
	}
	return s.questions[s.current], nil
}

// RecordAnswer overwrites the answer for index. The shape of a is not
// checked against the question kind; a mismatched shape scores as wrong.
func (s *Session) RecordAnswer(index int, a Answer) error {
	switch s.state {
	case StateLoading:
		return ErrNotStarted
	case StateCompleted:
		return ErrCompleted
	}
	if index < 0 || index >= len(s.questions) {
		return ErrOutOfRange
	}
	if s.checked[index] {
		return ErrLocked
	}
	s.answers[index] = a
	return nil
}

// Answer returns the recorded answer for index.
func (s *Session) Answer(index int) (Answer, bool) {
	a, ok := s.answers[index]
	return a, ok
}

// AnsweredCount returns how many questions hold a response.
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.answers {
		if a.Answered() {
			n++
		}
	}
	return n
}

// Advance moves to the next question. At the last question it returns
// ErrEndOfSequence and leaves the index unchanged.
func (s *Session) Advance() error {
	switch s.state {
	case StateLoading:
		return ErrNotStarted
	case StateCompleted:
		return ErrCompleted
	}
	if s.current >= len(s.questions)-1 {
		return ErrEndOfSequence
	}
	s.current++
	return nil
}

// Check scores a single question immediately and locks its answer.
// Used by instant-mode sessions.
func (s *Session) Check(index int) (bool, error) {
	switch s.state {
	case StateLoading:
		return false, ErrNotStarted
	case StateCompleted:
		return false, ErrCompleted
	}
	if index < 0 || index >= len(s.questions) {
		return false, ErrOutOfRange
	}
	s.checked[index] = true
	return Evaluate(s.questions[index], s.answers[index]), nil
}

// Checked reports whether index has been scored by Check.
func (s *Session) Checked(index int) bool { return s.checked[index] }

// CorrectSoFar counts correct answers among checked questions.
func (s *Session) CorrectSoFar() int {
	n := 0
	for i := range s.checked {
		if Evaluate(s.questions[i], s.answers[i]) {
			n++
		}
	}
	return n
}

// Finish scores the whole session and marks it completed. Calling it
// again returns the same result.
func (s *Session) Finish() (ScoreResult, error) {
	if s.state == StateLoading {
		return ScoreResult{}, ErrNotStarted
	}
	if s.result == nil {
		res := Summarize(s.questions, s.answers, s.Category.ScorePerQuestion)
		s.result = &res
		s.state = StateCompleted
	}
	return *s.result, nil
}

// Result returns the score once the session is completed.
func (s *Session) Result() (ScoreResult, bool) {
	if s.result == nil {
		return ScoreResult{}, false
	}
	return *s.result, true
}

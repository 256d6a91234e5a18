package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/timu/internal/bank"
)

var (
	// ErrBusy is returned when a category is selected while another load
	// is still pending.
	ErrBusy = errors.New("a question bank is still loading")

	// ErrUnknownCategory is returned for a category id that is not
	// configured.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoSession is returned by session commands when no session is
	// active.
	ErrNoSession = errors.New("no active session")
)

// Feedback is the instant verdict on one checked question.
type Feedback struct {
	Correct  bool
	Expected string
	Given    string
}

// SectionResult is the score of one completed category.
type SectionResult struct {
	Category bank.Category
	Result   ScoreResult
}

// View is the render model handed to the presentation layer after every
// command.
type View struct {
	SessionID     string
	Category      bank.Category
	Mode          bank.Mode
	State         State
	Index         int
	Total         int
	Question      *bank.Question
	Answer        Answer
	Locked        bool
	AnsweredCount int
	CorrectSoFar  int
	Feedback      *Feedback
	Result        *ScoreResult
	Pending       *Token
}

// IsLast reports whether the view shows the final question.
func (v View) IsLast() bool { return v.Total > 0 && v.Index >= v.Total-1 }

// Options configures a Runner.
type Options struct {
	Loader     bank.Loader
	Categories []bank.Category

	// Mixed, when set, is the combined category drawing from every bank
	// in Categories. Its File and Kind are ignored.
	Mixed *bank.Category

	Logger *zap.Logger
}

// Runner owns the active session and translates user commands into
// session operations. Exactly one session is active at a time.
type Runner struct {
	loader     bank.Loader
	categories []bank.Category
	mixed      *bank.Category
	log        *zap.Logger
	timers     *Timers

	mu       sync.Mutex
	loading  bool
	session  *Session
	feedback *Feedback
	pending  *Token
	cache    map[string][]bank.Question
	sections map[string]ScoreResult
}

// NewRunner creates a runner with no active session.
func NewRunner(opts Options) *Runner {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		loader:     opts.Loader,
		categories: opts.Categories,
		mixed:      opts.Mixed,
		log:        log,
		timers:     NewTimers(),
		cache:      make(map[string][]bank.Question),
		sections:   make(map[string]ScoreResult),
	}
}

// Timers exposes the timer set so the presentation layer can arm the
// preparation countdown.
func (r *Runner) Timers() *Timers { return r.timers }

// Categories returns the configured categories in menu order, followed
// by the combined category when enabled.
func (r *Runner) Categories() []bank.Category {
	out := append([]bank.Category(nil), r.categories...)
	if r.mixed != nil {
		out = append(out, *r.mixed)
	}
	return out
}

// Category looks up a category by id.
func (r *Runner) Category(id string) (bank.Category, bool) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, true
		}
	}
	if r.mixed != nil && r.mixed.ID == id {
		return *r.mixed, true
	}
	return bank.Category{}, false
}

// Loading reports whether a bank fetch is pending.
func (r *Runner) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// OnCategorySelected discards the current session, cancels every pending
// timer, loads the category's bank and starts a fresh session over a
// random subset. On failure no session is active.
func (r *Runner) OnCategorySelected(ctx context.Context, id string) (View, error) {
	cat, ok := r.Category(id)
	if !ok {
		return View{}, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}

	r.mu.Lock()
	if r.loading {
		r.mu.Unlock()
		return View{}, ErrBusy
	}
	r.loading = true
	r.discardLocked()
	r.mu.Unlock()

	questions, err := r.bankFor(ctx, cat)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		r.log.Warn("bank load failed", zap.String("category", cat.ID), zap.Error(err))
		return View{}, err
	}

	selected := bank.SelectSubset(questions, cat.Count)
	if len(selected) == 0 {
		return View{}, fmt.Errorf("category %s has no questions: %w", cat.ID, ErrOutOfRange)
	}

	s := NewSession(cat, cat.Mode)
	if err := s.Start(selected); err != nil {
		return View{}, err
	}
	r.session = s
	r.timers.Reset(s.ID)

	r.log.Info("session started",
		zap.String("session_id", s.ID),
		zap.String("category", cat.ID),
		zap.String("mode", string(s.Mode)),
		zap.Int("questions", s.Len()))

	return r.viewLocked(), nil
}

// bankFor returns the full bank for cat, loading it on first use. The
// combined category merges every configured bank.
func (r *Runner) bankFor(ctx context.Context, cat bank.Category) ([]bank.Question, error) {
	if r.mixed == nil || cat.ID != r.mixed.ID {
		return r.cached(ctx, cat)
	}
	banks := make([][]bank.Question, 0, len(r.categories))
	for _, c := range r.categories {
		qs, err := r.cached(ctx, c)
		if err != nil {
			return nil, err
		}
		banks = append(banks, qs)
	}
	return bank.Merge(banks...), nil
}

func (r *Runner) cached(ctx context.Context, cat bank.Category) ([]bank.Question, error) {
	r.mu.Lock()
	qs, ok := r.cache[cat.ID]
	r.mu.Unlock()
	if ok {
		return qs, nil
	}
	if r.loader == nil {
		return nil, fmt.Errorf("no bank loader configured")
	}
	qs, err := r.loader.Load(ctx, cat)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[cat.ID] = qs
	r.mu.Unlock()
	return qs, nil
}

// OnAnswerChanged records a for the current question.
func (r *Runner) OnAnswerChanged(a Answer) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return View{}, ErrNoSession
	}
	if err := r.session.RecordAnswer(r.session.CurrentIndex(), a); err != nil {
		return r.viewLocked(), err
	}
	return r.viewLocked(), nil
}

// OnAdvance moves to the next question. Any pending auto-advance is
// cancelled first.
func (r *Runner) OnAdvance() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return View{}, ErrNoSession
	}
	r.cancelAdvanceLocked()
	if err := r.session.Advance(); err != nil {
		return r.viewLocked(), err
	}
	r.feedback = nil
	return r.viewLocked(), nil
}

// OnSubmit scores the session. Staged sessions are finished as a whole.
// Instant sessions check the current question and arm the auto-advance
// timer; the returned view carries its token in Pending.
func (r *Runner) OnSubmit() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return View{}, ErrNoSession
	}
	s := r.session

	if s.Mode != bank.ModeInstant {
		r.finishLocked()
		return r.viewLocked(), nil
	}

	idx := s.CurrentIndex()
	if s.Checked(idx) {
		return r.viewLocked(), ErrLocked
	}
	q, err := s.CurrentQuestion()
	if err != nil {
		return r.viewLocked(), err
	}
	correct, err := s.Check(idx)
	if err != nil {
		return r.viewLocked(), err
	}
	a, _ := s.Answer(idx)
	r.feedback = &Feedback{Correct: correct, Expected: q.ExpectedAnswer(), Given: Format(q, a)}

	tok := r.timers.Arm(TimerAdvance)
	r.pending = &tok
	return r.viewLocked(), nil
}

// OnAutoAdvance handles a fired auto-advance timer. A stale token is
// ignored and reported with ok == false.
func (r *Runner) OnAutoAdvance(tok Token) (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil || !r.timers.Fire(tok) {
		r.log.Debug("stale timer dropped",
			zap.Stringer("kind", tok.Kind),
			zap.String("session_id", tok.Session),
			zap.Uint64("seq", tok.Seq))
		return r.viewLocked(), false
	}
	r.pending = nil
	r.stepLocked()
	return r.viewLocked(), true
}

// OnContinue skips the remaining feedback delay.
func (r *Runner) OnContinue() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return View{}, ErrNoSession
	}
	if r.pending == nil {
		return r.viewLocked(), nil
	}
	r.cancelAdvanceLocked()
	r.stepLocked()
	return r.viewLocked(), nil
}

// Abandon discards the current session and cancels every timer.
func (r *Runner) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != nil {
		r.log.Info("session abandoned", zap.String("session_id", r.session.ID))
	}
	r.discardLocked()
}

// Current returns the view of the active session.
func (r *Runner) Current() (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return View{}, false
	}
	return r.viewLocked(), true
}

// NextCategory returns the category that follows id in menu order. The
// combined category has no successor.
func (r *Runner) NextCategory(id string) (bank.Category, bool) {
	for i, c := range r.categories {
		if c.ID == id && i+1 < len(r.categories) {
			return r.categories[i+1], true
		}
	}
	return bank.Category{}, false
}

// Sections returns the latest result of every completed category, in
// menu order.
func (r *Runner) Sections() []SectionResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []SectionResult
	for _, c := range r.Categories() {
		if res, ok := r.sections[c.ID]; ok {
			out = append(out, SectionResult{Category: c, Result: res})
		}
	}
	return out
}

// GrandTotal sums the scores of every completed category.
func (r *Runner) GrandTotal() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, res := range r.sections {
		total += res.TotalScore()
	}
	return total
}

// stepLocked moves past a checked question, finishing the session after
// the last one.
func (r *Runner) stepLocked() {
	r.feedback = nil
	if err := r.session.Advance(); errors.Is(err, ErrEndOfSequence) {
		r.finishLocked()
	}
}

func (r *Runner) finishLocked() {
	s := r.session
	wasDone := s.Completed()
	res, err := s.Finish()
	if err != nil {
		return
	}
	r.cancelAdvanceLocked()
	if wasDone {
		return
	}
	r.sections[s.Category.ID] = res
	r.log.Info("session finished",
		zap.String("session_id", s.ID),
		zap.String("category", s.Category.ID),
		zap.Int("correct", res.CorrectCount),
		zap.Int("total", res.TotalCount),
		zap.Int("score", res.TotalScore()))
}

func (r *Runner) cancelAdvanceLocked() {
	r.timers.Cancel(TimerAdvance)
	r.pending = nil
}

func (r *Runner) discardLocked() {
	r.session = nil
	r.feedback = nil
	r.pending = nil
	r.timers.Reset("")
}

func (r *Runner) viewLocked() View {
	s := r.session
	if s == nil {
		return View{}
	}
	idx := s.CurrentIndex()
	v := View{
		SessionID:     s.ID,
		Category:      s.Category,
		Mode:          s.Mode,
		State:         s.State(),
		Index:         idx,
		Total:         s.Len(),
		Locked:        s.Checked(idx),
		AnsweredCount: s.AnsweredCount(),
		CorrectSoFar:  s.CorrectSoFar(),
		Feedback:      r.feedback,
		Pending:       r.pending,
	}
	if q, err := s.CurrentQuestion(); err == nil {
		v.Question = &q
	}
	v.Answer, _ = s.Answer(idx)
	if res, ok := s.Result(); ok {
		v.Result = &res
	}
	return v
}

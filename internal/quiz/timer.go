package quiz

import "sync"

// TimerKind identifies one of the delayed continuations a session uses.
type TimerKind int

const (
	// TimerCountdown drives the preparation countdown before a session.
	TimerCountdown TimerKind = iota

	// TimerAdvance moves to the next question after instant feedback.
	TimerAdvance
)

func (k TimerKind) String() string {
	switch k {
	case TimerCountdown:
		return "countdown"
	case TimerAdvance:
		return "advance"
	}
	return "unknown"
}

// Token names one scheduled continuation. The presentation layer carries
// it in its tick message and hands it back when the tick fires; a token
// that is no longer live is ignored.
type Token struct {
	Kind    TimerKind
	Session string
	Seq     uint64
}

// Timers tracks the live token for each timer kind. Arming a kind
// supersedes its previous token; resetting to a new session supersedes
// all of them.
type Timers struct {
	mu      sync.Mutex
	session string
	seq     uint64
	live    map[TimerKind]uint64
}

// NewTimers creates an empty timer set.
func NewTimers() *Timers {
	return &Timers{live: make(map[TimerKind]uint64)}
}

// Reset cancels every pending timer and binds the set to session.
func (t *Timers) Reset(session string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = session
	clear(t.live)
}

// Session returns the id the timers are currently bound to.
func (t *Timers) Session() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Arm issues a fresh token for kind, cancelling any earlier one.
func (t *Timers) Arm(kind TimerKind) Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.live[kind] = t.seq
	return Token{Kind: kind, Session: t.session, Seq: t.seq}
}

// Cancel drops the pending token for kind, if any.
func (t *Timers) Cancel(kind TimerKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.live, kind)
}

// Pending reports whether kind has a live token.
func (t *Timers) Pending(kind TimerKind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.live[kind]
	return ok
}

// Live reports whether tok is still the current token for its kind,
// without consuming it. Countdown ticks use this to keep one token across
// several ticks.
func (t *Timers) Live(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.liveLocked(tok)
}

// Fire consumes tok. It returns false when tok was cancelled, superseded,
// or belongs to another session.
func (t *Timers) Fire(tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.liveLocked(tok) {
		return false
	}
	delete(t.live, tok.Kind)
	return true
}

func (t *Timers) liveLocked(tok Token) bool {
	if tok.Session != t.session {
		return false
	}
	seq, ok := t.live[tok.Kind]
	return ok && seq == tok.Seq
}

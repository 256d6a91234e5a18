package bank

import "fmt"

// Kind is the question type. It determines both rendering and the
// evaluation rule applied by the scorer.
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindFillInBlank    Kind = "fill-in-blank"
	KindTrueFalse      Kind = "true-false"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindFillInBlank, KindTrueFalse:
		return true
	}
	return false
}

// Fixed true/false labels. A choice index of 0 selects the first label,
// 1 the second.
const (
	LabelTrue  = "正确"
	LabelFalse = "错误"
)

// TrueFalseLabels lists the two labels in choice order.
var TrueFalseLabels = []string{LabelTrue, LabelFalse}

// Question is one normalized quiz item. Its position is implicit: the
// index it occupies in a sequence.
type Question struct {
	// Text is the prompt shown to the user.
	Text string

	// Kind is the question type.
	Kind Kind

	// Options is populated only for multiple-choice questions and is
	// never empty for them.
	Options []string

	// CorrectIndex is the zero-based index into Options of the correct
	// option. Only meaningful for multiple-choice questions; letter answers
	// ("A", "B", ...) are converted to this index at load time.
	CorrectIndex int

	// Answer is the expected text for fill-in-blank questions, or one of
	// LabelTrue / LabelFalse for true/false questions.
	Answer string
}

// Choices returns the selectable labels for choice-based questions:
// the options for multiple-choice, the fixed pair for true/false, and nil
// for fill-in-blank.
func (q Question) Choices() []string {
	switch q.Kind {
	case KindMultipleChoice:
		return q.Options
	case KindTrueFalse:
		return TrueFalseLabels
	}
	return nil
}

// ExpectedAnswer renders the correct answer for display.
func (q Question) ExpectedAnswer() string {
	if q.Kind == KindMultipleChoice {
		if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
			return fmt.Sprintf("%s. %s", OptionLetter(q.CorrectIndex), q.Options[q.CorrectIndex])
		}
		return OptionLetter(q.CorrectIndex)
	}
	return q.Answer
}

// OptionLetter returns the display letter for a zero-based option index.
func OptionLetter(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// Mode selects how a category's session is scored.
type Mode string

const (
	// ModeStaged scores the whole session once, when the user submits at
	// the end.
	ModeStaged Mode = "staged"

	// ModeInstant scores each question as soon as it is submitted and
	// auto-advances after a short feedback delay.
	ModeInstant Mode = "instant"
)

// MixedID is the reserved category id of the combined session that draws
// from every configured bank.
const MixedID = "mixed"

// Category describes one question bank and how a session over it runs.
type Category struct {
	ID               string
	Name             string
	File             string
	Kind             Kind
	Count            int
	ScorePerQuestion int
	Mode             Mode
}

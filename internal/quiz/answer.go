package quiz

import (
	"strings"

	"github.com/abhisek/timu/internal/bank"
)

// Answer is a user's raw response to one question. Choice-based
// questions record an option index, fill-in-blank questions record text.
// The zero value means unanswered.
type Answer struct {
	choice   int
	text     string
	isText   bool
	answered bool
}

// Choice records an option index (multiple-choice or true/false, where 0
// is the first label).
func Choice(i int) Answer {
	return Answer{choice: i, answered: true}
}

// Text records free text for a fill-in-blank question.
func Text(s string) Answer {
	return Answer{text: s, isText: true, answered: true}
}

// Answered reports whether the answer holds a response.
func (a Answer) Answered() bool { return a.answered }

// ChoiceIndex returns the recorded option index and whether the answer
// is a choice.
func (a Answer) ChoiceIndex() (int, bool) {
	return a.choice, a.answered && !a.isText
}

// TextValue returns the recorded text and whether the answer is text.
func (a Answer) TextValue() (string, bool) {
	return a.text, a.answered && a.isText
}

// Format renders an answer to q for display.
func Format(q bank.Question, a Answer) string {
	if !a.answered {
		return "未作答"
	}
	if s, ok := a.TextValue(); ok {
		if strings.TrimSpace(s) == "" {
			return "未作答"
		}
		return s
	}
	i, _ := a.ChoiceIndex()
	choices := q.Choices()
	if i < 0 || i >= len(choices) {
		return bank.OptionLetter(i)
	}
	if q.Kind == bank.KindMultipleChoice {
		return bank.OptionLetter(i) + ". " + choices[i]
	}
	return choices[i]
}

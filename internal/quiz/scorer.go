package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/timu/internal/bank"
)

// Evaluate reports whether a is a correct answer to q. An unanswered
// question, or an answer of the wrong shape for the question's kind, is
// simply wrong.
//
// Rules:
//   - multiple-choice: the chosen index equals the correct index
//   - fill-in-blank: lower(trim(answer)) equals lower(expected)
//   - true/false: choice 0 means LabelTrue, 1 means LabelFalse; the label
//     must equal the stored one
func Evaluate(q bank.Question, a Answer) bool {
	switch q.Kind {
	case bank.KindMultipleChoice:
		i, ok := a.ChoiceIndex()
		return ok && i == q.CorrectIndex

	case bank.KindFillInBlank:
		s, ok := a.TextValue()
		return ok && strings.ToLower(strings.TrimSpace(s)) == strings.ToLower(q.Answer)

	case bank.KindTrueFalse:
		i, ok := a.ChoiceIndex()
		if !ok || i < 0 || i >= len(bank.TrueFalseLabels) {
			return false
		}
		return bank.TrueFalseLabels[i] == q.Answer
	}
	return false
}

// Miss is a question that was answered wrongly or left unanswered.
type Miss struct {
	Index    int
	Question bank.Question
	Answer   Answer
}

// ScoreResult is the outcome of evaluating a session.
type ScoreResult struct {
	CorrectCount     int
	TotalCount       int
	ScorePerQuestion int
	WrongAnswers     []Miss
}

// TotalScore is CorrectCount * ScorePerQuestion. There is no partial credit.
func (r ScoreResult) TotalScore() int {
	return r.CorrectCount * r.ScorePerQuestion
}

// MaxScore is the score for a perfect session.
func (r ScoreResult) MaxScore() int {
	return r.TotalCount * r.ScorePerQuestion
}

// Accuracy is CorrectCount / TotalCount, or 0 for an empty session.
func (r ScoreResult) Accuracy() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalCount)
}

// AccuracyPercent formats the accuracy for display, e.g. "60.00%".
func (r ScoreResult) AccuracyPercent() string {
	return fmt.Sprintf("%.2f%%", r.Accuracy()*100)
}

// Summarize evaluates every question in order. answers maps question
// index to the recorded answer; absent entries are unanswered.
func Summarize(questions []bank.Question, answers map[int]Answer, scorePerQuestion int) ScoreResult {
	res := ScoreResult{
		TotalCount:       len(questions),
		ScorePerQuestion: scorePerQuestion,
	}
	for i, q := range questions {
		a := answers[i]
		if Evaluate(q, a) {
			res.CorrectCount++
			continue
		}
		res.WrongAnswers = append(res.WrongAnswers, Miss{Index: i, Question: q, Answer: a})
	}
	return res
}

package play

import (
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/router"
	"github.com/abhisek/timu/internal/screen"
	"github.com/abhisek/timu/internal/screens/results"
	"github.com/abhisek/timu/internal/ui/components"
	"github.com/abhisek/timu/internal/ui/layout"
)

// DefaultFeedbackDelay is used when no delay is configured.
const DefaultFeedbackDelay = 1500 * time.Millisecond

// advanceMsg is sent when the feedback delay after an instant check ends.
type advanceMsg struct {
	tok quiz.Token
}

// PlayScreen presents the questions of the active session one at a time.
type PlayScreen struct {
	runner        *quiz.Runner
	view          quiz.View
	feedbackDelay time.Duration

	choice      components.MultiChoice
	input       components.TextInput
	shown       int
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)
var _ screen.BackInterceptor = (*PlayScreen)(nil)

// New creates a PlayScreen for the session described by v.
func New(runner *quiz.Runner, v quiz.View, feedbackDelay time.Duration) *PlayScreen {
	if feedbackDelay <= 0 {
		feedbackDelay = DefaultFeedbackDelay
	}
	p := &PlayScreen{
		runner:        runner,
		view:          v,
		feedbackDelay: feedbackDelay,
		shown:         -1,
	}
	p.syncWidgets()
	return p
}

func (p *PlayScreen) Init() tea.Cmd {
	if p.isFill() {
		return p.input.Init()
	}
	return nil
}

func (p *PlayScreen) Title() string {
	return p.view.Category.Name
}

func (p *PlayScreen) Status() string {
	if p.view.Total == 0 {
		return ""
	}
	status := fmt.Sprintf("第 %d/%d 题", p.view.Index+1, p.view.Total)
	if p.view.Mode == bank.ModeInstant {
		status += fmt.Sprintf("  答对 %d", p.view.CorrectSoFar)
	}
	return status + "  "
}

// InterceptBack is always true: Esc opens the quit confirmation.
func (p *PlayScreen) InterceptBack() bool {
	return true
}

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	if p.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "放弃作答"},
			{Key: "N", Description: "继续作答"},
		}
	}
	if p.view.Feedback != nil {
		return []layout.KeyHint{{Key: "Enter", Description: "下一题"}}
	}

	hints := make([]layout.KeyHint, 0, 4)
	if !p.isFill() {
		hints = append(hints, layout.KeyHint{Key: "↑↓/数字", Description: "选择"})
	}
	switch {
	case p.view.Mode == bank.ModeInstant:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "提交"})
	case p.view.IsLast():
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "交卷"})
	default:
		hints = append(hints,
			layout.KeyHint{Key: "Enter", Description: "下一题"},
			layout.KeyHint{Key: "Tab", Description: "跳过"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "退出"})
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		v, ok := p.runner.OnAutoAdvance(msg.tok)
		if !ok {
			return p, nil
		}
		return p.apply(v)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	if p.isFill() && p.view.Feedback == nil && !p.confirmQuit {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if p.confirmQuit {
		switch key {
		case "y", "Y":
			p.runner.Abandon()
			return p, func() tea.Msg { return router.PopToRootMsg{} }
		case "n", "N", "esc":
			p.confirmQuit = false
		}
		return p, nil
	}

	if key == "esc" {
		p.confirmQuit = true
		return p, nil
	}

	if p.view.Feedback != nil {
		if key == "enter" || key == "space" || key == " " {
			v, err := p.runner.OnContinue()
			if err != nil {
				return p.fail(err)
			}
			return p.apply(v)
		}
		return p, nil
	}

	switch key {
	case "enter":
		return p.submit()
	case "tab":
		if p.view.Mode != bank.ModeInstant && !p.view.IsLast() {
			v, err := p.runner.OnAdvance()
			if err != nil {
				return p.fail(err)
			}
			return p.apply(v)
		}
		return p, nil
	}

	var cmd tea.Cmd
	if p.isFill() {
		p.input, cmd = p.input.Update(msg)
	} else {
		p.choice, cmd = p.choice.Update(msg)
	}
	return p, cmd
}

// submit records the answer in the widget, then advances (staged),
// finishes the session (staged, last question) or checks the question
// and schedules the auto-advance (instant).
func (p *PlayScreen) submit() (screen.Screen, tea.Cmd) {
	v, err := p.runner.OnAnswerChanged(p.currentAnswer())
	if err != nil {
		return p.fail(err)
	}
	p.view = v

	if v.Mode == bank.ModeInstant || v.IsLast() {
		v, err = p.runner.OnSubmit()
	} else {
		v, err = p.runner.OnAdvance()
	}
	if err != nil {
		return p.fail(err)
	}
	return p.apply(v)
}

func (p *PlayScreen) currentAnswer() quiz.Answer {
	if p.isFill() {
		return quiz.Text(p.input.Value())
	}
	return quiz.Choice(p.choice.Selected)
}

// apply adopts a new view from the runner.
func (p *PlayScreen) apply(v quiz.View) (screen.Screen, tea.Cmd) {
	p.view = v
	p.errMsg = ""

	if v.State == quiz.StateCompleted && v.Result != nil {
		next := results.New(p.runner, v)
		return p, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}
	}

	if v.Feedback != nil {
		p.reveal(v.Feedback)
		if v.Pending != nil {
			tok := *v.Pending
			return p, tea.Tick(p.feedbackDelay, func(time.Time) tea.Msg {
				return advanceMsg{tok: tok}
			})
		}
		return p, nil
	}

	if p.syncWidgets() && p.isFill() {
		return p, p.input.Init()
	}
	return p, nil
}

func (p *PlayScreen) fail(err error) (screen.Screen, tea.Cmd) {
	if errors.Is(err, quiz.ErrNoSession) {
		return p, func() tea.Msg { return router.PopToRootMsg{} }
	}
	p.errMsg = err.Error()
	return p, nil
}

// syncWidgets rebuilds the answer widgets when the question changes and
// reports whether it did.
func (p *PlayScreen) syncWidgets() bool {
	q := p.view.Question
	if q == nil || p.shown == p.view.Index {
		return false
	}
	p.shown = p.view.Index

	if q.Kind == bank.KindFillInBlank {
		p.input = components.NewTextInput("输入答案", 0)
		if s, ok := p.view.Answer.TextValue(); ok {
			p.input.SetValue(s)
		}
		return true
	}

	p.choice = components.NewMultiChoice(q.Choices(), q.Kind == bank.KindMultipleChoice)
	if i, ok := p.view.Answer.ChoiceIndex(); ok && i >= 0 && i < len(q.Choices()) {
		p.choice.Selected = i
	}
	return true
}

// reveal marks the widgets with the instant verdict.
func (p *PlayScreen) reveal(fb *quiz.Feedback) {
	q := p.view.Question
	if q == nil {
		return
	}
	if q.Kind == bank.KindFillInBlank {
		p.input.Submit(fb.Correct)
		return
	}

	chosen := -1
	if i, ok := p.view.Answer.ChoiceIndex(); ok {
		chosen = i
	}
	correct := q.CorrectIndex
	if q.Kind == bank.KindTrueFalse {
		correct = 0
		if q.Answer == bank.LabelFalse {
			correct = 1
		}
	}
	p.choice.Reveal(chosen, correct)
}

func (p *PlayScreen) isFill() bool {
	return p.view.Question != nil && p.view.Question.Kind == bank.KindFillInBlank
}

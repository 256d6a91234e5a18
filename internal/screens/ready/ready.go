package ready

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/router"
	"github.com/abhisek/timu/internal/screen"
	"github.com/abhisek/timu/internal/screens/play"
	"github.com/abhisek/timu/internal/ui/components"
	"github.com/abhisek/timu/internal/ui/layout"
	"github.com/abhisek/timu/internal/ui/theme"
)

// countdownTickMsg is sent once per second while the preparation
// countdown runs.
type countdownTickMsg struct {
	tok quiz.Token
}

// loadedMsg carries the result of the bank load.
type loadedMsg struct {
	view quiz.View
	err  error
}

// Options configures the preparation screen.
type Options struct {
	PreparationSeconds int
	FeedbackDelay      time.Duration
}

// ReadyScreen shows the preparation countdown for a category, then loads
// its bank and hands over to the play screen.
type ReadyScreen struct {
	runner    *quiz.Runner
	category  bank.Category
	opts      Options
	remaining int
	token     quiz.Token
	ready     bool
	loading   bool
	cancel    context.CancelFunc
	errMsg    string
	errDetail string
	button    components.Button
}

var _ screen.Screen = (*ReadyScreen)(nil)
var _ screen.KeyHintProvider = (*ReadyScreen)(nil)
var _ screen.BackInterceptor = (*ReadyScreen)(nil)

// New creates a ReadyScreen for cat.
func New(runner *quiz.Runner, cat bank.Category, opts Options) *ReadyScreen {
	r := &ReadyScreen{
		runner:    runner,
		category:  cat,
		opts:      opts,
		remaining: opts.PreparationSeconds,
	}
	r.button = components.NewButton("开始答题", false, r.start)
	return r
}

func (r *ReadyScreen) Init() tea.Cmd {
	if r.remaining <= 0 {
		r.ready = true
		return nil
	}
	r.token = r.runner.Timers().Arm(quiz.TimerCountdown)
	return tick(r.token)
}

func tick(tok quiz.Token) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{tok: tok}
	})
}

func (r *ReadyScreen) Title() string {
	return r.category.Name
}

// InterceptBack is always true: Esc has to cancel the countdown or the
// pending load before leaving.
func (r *ReadyScreen) InterceptBack() bool {
	return true
}

func (r *ReadyScreen) KeyHints() []layout.KeyHint {
	switch {
	case r.errMsg != "":
		return []layout.KeyHint{{Key: "任意键", Description: "返回"}}
	case r.loading:
		return []layout.KeyHint{{Key: "Esc", Description: "取消"}}
	case r.ready:
		return []layout.KeyHint{
			{Key: "Enter", Description: "开始答题"},
			{Key: "Esc", Description: "返回"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "返回"}}
}

func (r *ReadyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case countdownTickMsg:
		return r.handleTick(msg)

	case loadedMsg:
		return r.handleLoaded(msg)

	case tea.KeyMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *ReadyScreen) handleTick(msg countdownTickMsg) (screen.Screen, tea.Cmd) {
	timers := r.runner.Timers()
	if !timers.Live(msg.tok) {
		return r, nil
	}
	r.remaining--
	if r.remaining > 0 {
		return r, tick(msg.tok)
	}
	timers.Fire(msg.tok)
	r.ready = true
	return r, nil
}

func (r *ReadyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if r.errMsg != "" {
		return r, back
	}

	if msg.String() == "esc" {
		r.runner.Timers().Cancel(quiz.TimerCountdown)
		if r.cancel != nil {
			r.cancel()
		}
		return r, back
	}

	r.button.Active = r.ready && !r.loading
	var cmd tea.Cmd
	r.button, cmd = r.button.Update(msg)
	return r, cmd
}

func back() tea.Msg {
	return router.PopScreenMsg{}
}

// start begins the bank load. The button is inactive while a load is
// pending, so a second press cannot start another.
func (r *ReadyScreen) start() tea.Cmd {
	r.loading = true
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	runner, id := r.runner, r.category.ID
	return func() tea.Msg {
		v, err := runner.OnCategorySelected(ctx, id)
		return loadedMsg{view: v, err: err}
	}
}

func (r *ReadyScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	r.loading = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if msg.err != nil {
		r.errMsg = describeLoadError(msg.err)
		r.errDetail = msg.err.Error()
		return r, nil
	}
	next := play.New(r.runner, msg.view, r.opts.FeedbackDelay)
	return r, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func describeLoadError(err error) string {
	switch {
	case errors.Is(err, bank.ErrNotFound):
		return "题库加载失败：找不到题库文件或网络请求失败"
	case errors.Is(err, bank.ErrMalformed):
		return "题库加载失败：题库格式不正确"
	case errors.Is(err, quiz.ErrOutOfRange):
		return "该题库没有题目"
	case errors.Is(err, quiz.ErrBusy):
		return "另一个题库正在加载，请稍后再试"
	}
	return "题库加载失败"
}

func (r *ReadyScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n\n")
	b.WriteString(layout.Centered(width, theme.Title, fmt.Sprintf("开始做%s", r.category.Name)))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle, describeCategory(r.category)))
	b.WriteString("\n\n")

	switch {
	case r.errMsg != "":
		notice := theme.Notice.Render(r.errMsg + "\n\n" + theme.Dimmed.Render(r.errDetail) + "\n\n按任意键返回")
		b.WriteString(layout.Centered(width, theme.Body, notice))
	case r.loading:
		b.WriteString(layout.Centered(width, theme.Hint, "正在加载题库，请稍候..."))
	case r.ready:
		btn := r.button
		btn.Active = true
		b.WriteString(layout.Centered(width, theme.Body, btn.View()))
	default:
		b.WriteString(layout.Centered(width, theme.Body, fmt.Sprintf("准备时间：%d秒", r.remaining)))
	}

	return b.String()
}

func describeCategory(c bank.Category) string {
	mode := "全部作答后统一交卷评分"
	if c.Mode == bank.ModeInstant {
		mode = "每题提交后立即评分"
	}
	return fmt.Sprintf("共 %d 题，每题 %d 分，%s", c.Count, c.ScorePerQuestion, mode)
}

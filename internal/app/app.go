package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/router"
	"github.com/abhisek/timu/internal/screen"
	"github.com/abhisek/timu/internal/screens/home"
	"github.com/abhisek/timu/internal/screens/nav"
	"github.com/abhisek/timu/internal/screens/ready"
	"github.com/abhisek/timu/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Runner             *quiz.Runner
	PreparationSeconds int
	FeedbackDelay      time.Duration
	Logger             *zap.Logger

	// Start, when set, opens this category right away instead of waiting
	// on the home menu.
	Start *bank.Category
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	log    *zap.Logger
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return AppModel{
		router: router.New(home.New(opts.Runner)),
		opts:   opts,
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.Start != nil {
		return nav.StartCategory(*m.opts.Start, false)
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case nav.StartCategoryMsg:
		m.log.Debug("open category", zap.String("category", msg.Category.ID), zap.Bool("replace", msg.Replace))
		next := ready.New(m.opts.Runner, msg.Category, ready.Options{
			PreparationSeconds: m.opts.PreparationSeconds,
			FeedbackDelay:      m.opts.FeedbackDelay,
		})
		if msg.Replace {
			return m, m.router.Replace(next)
		}
		return m, m.router.Push(next)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.opts.Runner.Abandon()
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title, status string
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if khp, ok := active.(screen.KeyHintProvider); ok {
		if hints := khp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "返回"},
			{Key: "Ctrl+C", Description: "退出"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Enter", Description: "确定"},
		{Key: "Ctrl+C", Description: "退出"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Runner == nil {
		return fmt.Errorf("app: no quiz runner")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

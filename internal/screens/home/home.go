package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/screen"
	"github.com/abhisek/timu/internal/screens/nav"
	"github.com/abhisek/timu/internal/ui/components"
	"github.com/abhisek/timu/internal/ui/layout"
	"github.com/abhisek/timu/internal/ui/theme"
)

// HomeScreen lists the categories and starts the chosen one.
type HomeScreen struct {
	runner     *quiz.Runner
	categories []bank.Category
	menu       components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a HomeScreen over the runner's categories.
func New(runner *quiz.Runner) *HomeScreen {
	categories := runner.Categories()

	items := make([]components.MenuItem, 0, len(categories)+1)
	for _, c := range categories {
		items = append(items, components.MenuItem{
			Label: menuLabel(c),
			Action: func() tea.Cmd {
				return nav.StartCategory(c, false)
			},
		})
	}
	items = append(items, components.MenuItem{
		Label:  "退出",
		Action: func() tea.Cmd { return tea.Quit },
	})

	return &HomeScreen{
		runner:     runner,
		categories: categories,
		menu:       components.NewMenu(items),
	}
}

func menuLabel(c bank.Category) string {
	label := fmt.Sprintf("%s（%d 题，每题 %d 分）", c.Name, c.Count, c.ScorePerQuestion)
	if c.Mode == bank.ModeInstant {
		label += "  即时评分"
	}
	return label
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Title, layout.AppName))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, theme.Subtitle, "选择题型开始练习"))
	b.WriteString("\n\n")

	card := theme.Card.Render(strings.TrimRight(h.menu.View(), "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))

	if sections := h.runner.Sections(); len(sections) > 0 {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(width, theme.Dimmed, renderSections(sections)))
	}

	return b.String()
}

func renderSections(sections []quiz.SectionResult) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, fmt.Sprintf("%s %d/%d", s.Category.Name, s.Result.TotalScore(), s.Result.MaxScore()))
	}
	return "已完成：" + strings.Join(parts, "  ")
}

func (h *HomeScreen) Title() string {
	return "首页"
}

// Status shows the running total once any category is finished.
func (h *HomeScreen) Status() string {
	if len(h.runner.Sections()) == 0 {
		return ""
	}
	return fmt.Sprintf("总分 %d  ", h.runner.GrandTotal())
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Enter", Description: "开始"},
		{Key: "Ctrl+C", Description: "退出"},
	}
}

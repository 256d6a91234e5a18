package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/router"
	"github.com/abhisek/timu/internal/screen"
	"github.com/abhisek/timu/internal/screens/nav"
	"github.com/abhisek/timu/internal/ui/components"
	"github.com/abhisek/timu/internal/ui/layout"
	"github.com/abhisek/timu/internal/ui/theme"
)

// ResultsScreen shows the score of a finished session and the review of
// every missed question.
type ResultsScreen struct {
	category bank.Category
	result   quiz.ScoreResult
	sections []quiz.SectionResult
	total    int
	hasNext  bool
	menu     components.Menu
	offset   int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for a completed view. The grand total is
// shown once the staged flow has no further category.
func New(runner *quiz.Runner, v quiz.View) *ResultsScreen {
	r := &ResultsScreen{
		category: v.Category,
		sections: runner.Sections(),
		total:    runner.GrandTotal(),
	}
	if v.Result != nil {
		r.result = *v.Result
	}

	var items []components.MenuItem
	if v.Mode != bank.ModeInstant {
		if next, ok := runner.NextCategory(v.Category.ID); ok {
			r.hasNext = true
			items = append(items, components.MenuItem{
				Label:  "下一题型：" + next.Name,
				Action: func() tea.Cmd { return nav.StartCategory(next, true) },
			})
		}
	}
	cat := v.Category
	items = append(items,
		components.MenuItem{
			Label:  "再做一次",
			Action: func() tea.Cmd { return nav.StartCategory(cat, true) },
		},
		components.MenuItem{
			Label:  "返回首页",
			Action: func() tea.Cmd { return func() tea.Msg { return router.PopToRootMsg{} } },
		},
	)
	r.menu = components.NewMenu(items)
	return r
}

func (r *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultsScreen) Title() string {
	return r.category.Name + " · 成绩"
}

func (r *ResultsScreen) Status() string {
	return fmt.Sprintf("%d/%d 分  ", r.result.TotalScore(), r.result.MaxScore())
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "选择"},
		{Key: "Enter", Description: "确定"},
	}
	if len(r.result.WrongAnswers) > 0 {
		hints = append(hints, layout.KeyHint{Key: "PgUp/PgDn", Description: "翻看错题"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "首页"})
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "pgdown":
			if r.offset < len(r.result.WrongAnswers)-1 {
				r.offset++
			}
			return r, nil
		case "pgup":
			if r.offset > 0 {
				r.offset--
			}
			return r, nil
		}
	}

	var cmd tea.Cmd
	r.menu, cmd = r.menu.Update(msg)
	return r, cmd
}

// showGrandTotal is true when no category follows this one and more
// than one category has been completed.
func (r *ResultsScreen) showGrandTotal() bool {
	return !r.hasNext && len(r.sections) > 1
}

func (r *ResultsScreen) View(width, height int) string {
	var top strings.Builder

	top.WriteString("\n")
	top.WriteString(layout.Centered(width, theme.Title, r.category.Name+" 完成！"))
	top.WriteString("\n\n")

	summary := fmt.Sprintf("得分：%d / %d\n正确：%d / %d\n正确率：%s",
		r.result.TotalScore(), r.result.MaxScore(),
		r.result.CorrectCount, r.result.TotalCount,
		r.result.AccuracyPercent())
	if r.showGrandTotal() {
		summary += "\n\n" + renderGrandTotal(r.sections, r.total)
	}
	top.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(summary)))
	top.WriteString("\n\n")

	menu := "  " + strings.ReplaceAll(strings.TrimRight(r.menu.View(), "\n"), "\n", "\n  ")

	used := lipgloss.Height(top.String()) + lipgloss.Height(menu) + 2
	review := r.renderReview(width-4, height-used)

	return top.String() + review + "\n\n" + menu
}

func renderGrandTotal(sections []quiz.SectionResult, total int) string {
	lines := make([]string, 0, len(sections)+1)
	maxScore := 0
	for _, s := range sections {
		lines = append(lines, fmt.Sprintf("%s：%d / %d", s.Category.Name, s.Result.TotalScore(), s.Result.MaxScore()))
		maxScore += s.Result.MaxScore()
	}
	lines = append(lines, theme.Selected.Render(fmt.Sprintf("总分：%d / %d", total, maxScore)))
	return strings.Join(lines, "\n")
}

// renderReview lists missed questions starting at offset, as many as fit
// in maxLines.
func (r *ResultsScreen) renderReview(width, maxLines int) string {
	misses := r.result.WrongAnswers
	if len(misses) == 0 {
		return "  " + theme.Correct.Render("全部正确！")
	}

	var b strings.Builder
	b.WriteString("  " + theme.Incorrect.Render(fmt.Sprintf("错题回顾（%d）", len(misses))))
	lines := 1

	style := lipgloss.NewStyle().Width(width).PaddingLeft(2)
	for i := r.offset; i < len(misses); i++ {
		entry := style.Render(renderMiss(misses[i]))
		h := lipgloss.Height(entry)
		if maxLines > 0 && lines+h > maxLines && i > r.offset {
			b.WriteString("\n  " + theme.Dimmed.Render(fmt.Sprintf("…还有 %d 题", len(misses)-i)))
			break
		}
		b.WriteString("\n" + entry)
		lines += h
	}
	return b.String()
}

func renderMiss(m quiz.Miss) string {
	return fmt.Sprintf("%d. %s\n%s  %s",
		m.Index+1, m.Question.Text,
		theme.Incorrect.Render("你的答案："+quiz.Format(m.Question, m.Answer)),
		theme.Correct.Render("正确答案："+m.Question.ExpectedAnswer()))
}

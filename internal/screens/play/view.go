package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/ui/components"
	"github.com/abhisek/timu/internal/ui/layout"
	"github.com/abhisek/timu/internal/ui/theme"
)

func (p *PlayScreen) View(width, height int) string {
	if p.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	if p.view.Question == nil {
		return layout.Centered(width, theme.Hint, "\n\n没有进行中的答题")
	}

	var b strings.Builder

	cw := width - 4
	if cw < 20 {
		cw = 20
	}

	progress := components.NewProgressBar(kindLabel(p.view.Question.Kind), p.view.AnsweredCount, p.view.Total, cw)
	b.WriteString("  " + progress.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	questionStyle := lipgloss.NewStyle().
		Width(cw).
		PaddingLeft(2).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(fmt.Sprintf("%d. %s", p.view.Index+1, p.view.Question.Text)))
	b.WriteString("\n\n")

	if p.isFill() {
		b.WriteString("  答案：" + p.input.View())
		b.WriteString("\n")
	} else {
		for _, line := range strings.Split(strings.TrimRight(p.choice.View(), "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
	}

	if p.view.Feedback != nil {
		b.WriteString("\n")
		b.WriteString(renderFeedback(p.view.Feedback))
	}

	if p.errMsg != "" {
		b.WriteString("\n")
		b.WriteString("  " + theme.Incorrect.Render(p.errMsg))
	}

	return b.String()
}

func renderFeedback(fb *quiz.Feedback) string {
	if fb.Correct {
		return "  " + theme.Correct.Render("回答正确！")
	}
	return "  " + theme.Incorrect.Render("回答错误") +
		theme.Dimmed.Render(fmt.Sprintf("  你的答案：%s  正确答案：%s", fb.Given, fb.Expected))
}

func renderQuitConfirm(width, height int) string {
	box := theme.Notice.Render("确定要放弃本次作答吗？\n\n已作答的题目不会计分。\n\nY 放弃    N 继续")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func kindLabel(k bank.Kind) string {
	switch k {
	case bank.KindMultipleChoice:
		return "选择题"
	case bank.KindFillInBlank:
		return "填空题"
	case bank.KindTrueFalse:
		return "判断题"
	}
	return ""
}

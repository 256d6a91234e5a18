package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMultiChoice_Navigation(t *testing.T) {
	m := NewMultiChoice([]string{"北京", "上海", "广州"}, true)

	m, _ = m.Update(specialKey(tea.KeyDown))
	m, _ = m.Update(specialKey(tea.KeyDown))
	m, _ = m.Update(specialKey(tea.KeyDown))
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2 (clamped)", m.Selected)
	}

	m, _ = m.Update(keyPress('1'))
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0 after pressing 1", m.Selected)
	}

	m, _ = m.Update(keyPress('9'))
	if m.Selected != 0 {
		t.Errorf("out-of-range digit moved selection to %d", m.Selected)
	}

	view := m.View()
	if !strings.Contains(view, "A. 北京") || !strings.Contains(view, "C. 广州") {
		t.Errorf("expected lettered options, got %q", view)
	}
}

func TestMultiChoice_RevealLocks(t *testing.T) {
	m := NewMultiChoice([]string{"正确", "错误"}, false)
	m.Reveal(1, 0)

	m, _ = m.Update(keyPress('2'))
	if m.Selected != 0 {
		t.Error("locked selector should ignore keys")
	}
	view := m.View()
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("expected verdict marks, got %q", view)
	}
}

func TestTextInput_Submit(t *testing.T) {
	ti := NewTextInput("输入答案", 0)
	ti.SetValue("北京")
	ti.Submit(true)

	ti, _ = ti.Update(keyPress('x'))
	if ti.Value() != "北京" {
		t.Errorf("Value = %q, submitted input should not change", ti.Value())
	}
	if !ti.Submitted() {
		t.Error("expected Submitted")
	}
}

func TestProgressBar_Percent(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{1, 4, 0.25},
		{5, 4, 1},
		{-1, 4, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.done, tt.total, 40)
		if got := p.Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestButton_InactiveIgnoresEnter(t *testing.T) {
	pressed := 0
	b := NewButton("开始答题", false, func() tea.Cmd { pressed++; return nil })

	b.Update(specialKey(tea.KeyEnter))
	b.Active = true
	b.Update(specialKey(tea.KeyEnter))
	if pressed != 1 {
		t.Errorf("pressed = %d, want 1", pressed)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "a"},
		{Label: "b", Disabled: true},
		{Label: "c"},
	})
	m, _ = m.Update(specialKey(tea.KeyDown))
	item, ok := m.SelectedItem()
	if !ok || item.Label != "c" {
		t.Errorf("selected %q, want c", item.Label)
	}
}

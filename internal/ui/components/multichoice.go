package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timu/internal/ui/theme"
)

// MultiChoice is a single-selection list used for multiple-choice and
// true/false questions.
type MultiChoice struct {
	Options []string

	// Lettered prefixes options with A, B, C...
	Lettered bool

	Selected int
	Locked   bool

	chosen  int
	correct int
}

// NewMultiChoice creates a selector with the first option highlighted.
func NewMultiChoice(options []string, lettered bool) MultiChoice {
	return MultiChoice{
		Options:  options,
		Lettered: lettered,
		chosen:   -1,
		correct:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the highlight with arrows or jumps to an option with its
// number key. Enter is left to the owning screen.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// Reveal locks the selector and marks the chosen and correct options.
// chosen is -1 when nothing was picked.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.Locked = true
	m.chosen = chosen
	m.correct = correct
}

// View renders the option list.
func (m MultiChoice) View() string {
	var s string
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Locked {
			prefix = "▸ "
		}

		label := fmt.Sprintf("%d) ", i+1)
		if m.Lettered && i < 26 {
			label = fmt.Sprintf("%c. ", 'A'+i)
		}
		line := prefix + label + opt

		switch {
		case m.Locked && i == m.correct:
			s += theme.Correct.Render(line+"  ✓") + "\n"
		case m.Locked && i == m.chosen:
			s += theme.Incorrect.Render(line+"  ✗") + "\n"
		case m.Locked:
			s += theme.Dimmed.Render(line) + "\n"
		case i == m.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}
	return s
}

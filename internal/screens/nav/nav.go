// Package nav holds navigation messages shared by screens that would
// otherwise import each other.
package nav

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timu/internal/bank"
)

// StartCategoryMsg asks the app to open the preparation screen for a
// category. Replace swaps out the active screen instead of pushing.
type StartCategoryMsg struct {
	Category bank.Category
	Replace  bool
}

// StartCategory returns a command emitting StartCategoryMsg.
func StartCategory(cat bank.Category, replace bool) tea.Cmd {
	return func() tea.Msg {
		return StartCategoryMsg{Category: cat, Replace: replace}
	}
}

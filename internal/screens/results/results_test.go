package results

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/router"
	"github.com/abhisek/timu/internal/screens/nav"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var testBanks = fstest.MapFS{
	"xz.json": {Data: []byte(`[{"question": "1 + 1 = ?", "options": ["1", "2"], "answer": "B"}]`)},
	"pd.json": {Data: []byte(`[{"question": "1 千克等于 1000 克。", "answer": "正确"}]`)},
}

func testRunner() *quiz.Runner {
	return quiz.NewRunner(quiz.Options{
		Loader: bank.NewFSLoader(testBanks, "test", nil),
		Categories: []bank.Category{
			{ID: "xz", Name: "选择题", File: "xz.json", Kind: bank.KindMultipleChoice, Count: 1, ScorePerQuestion: 2, Mode: bank.ModeStaged},
			{ID: "pd", Name: "判断题", File: "pd.json", Kind: bank.KindTrueFalse, Count: 1, ScorePerQuestion: 2, Mode: bank.ModeStaged},
		},
	})
}

// finish runs one category, answering with choice, and returns the
// completed view.
func finish(t *testing.T, r *quiz.Runner, id string, choice int) quiz.View {
	t.Helper()
	if _, err := r.OnCategorySelected(context.Background(), id); err != nil {
		t.Fatalf("OnCategorySelected: %v", err)
	}
	if _, err := r.OnAnswerChanged(quiz.Choice(choice)); err != nil {
		t.Fatalf("OnAnswerChanged: %v", err)
	}
	v, err := r.OnSubmit()
	if err != nil {
		t.Fatalf("OnSubmit: %v", err)
	}
	return v
}

func TestResultsScreen_Summary(t *testing.T) {
	r := testRunner()
	v := finish(t, r, "xz", 0)

	s := New(r, v)
	view := s.View(80, 40)
	for _, want := range []string{"得分：0 / 2", "正确率：0.00%", "错题回顾（1）", "正确答案：B. 2", "你的答案：A. 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.Status() != "0/2 分  " {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestResultsScreen_NextCategory(t *testing.T) {
	r := testRunner()
	s := New(r, finish(t, r, "xz", 1))

	if !s.hasNext {
		t.Fatal("expected a next category after xz")
	}
	if !strings.Contains(s.View(80, 40), "下一题型：判断题") {
		t.Error("expected the next category entry")
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command from the menu")
	}
	msg, ok := cmd().(nav.StartCategoryMsg)
	if !ok {
		t.Fatalf("expected StartCategoryMsg, got %T", cmd())
	}
	if msg.Category.ID != "pd" || !msg.Replace {
		t.Errorf("got %+v, want pd with Replace", msg)
	}
}

func TestResultsScreen_GrandTotal(t *testing.T) {
	r := testRunner()
	finish(t, r, "xz", 1)
	s := New(r, finish(t, r, "pd", 0))

	if s.hasNext {
		t.Fatal("pd is the last category")
	}
	view := s.View(80, 40)
	if !strings.Contains(view, "总分：4 / 4") {
		t.Errorf("expected the grand total in %q", view)
	}
	if !strings.Contains(view, "全部正确") {
		t.Error("expected the all-correct message")
	}
}

func TestResultsScreen_HomeAndScroll(t *testing.T) {
	r := testRunner()
	s := New(r, finish(t, r, "pd", 1))

	// pd has no successor: the menu is retry, home.
	scr, _ := s.Update(specialKey(tea.KeyDown))
	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg")
	}

	scr, _ = s.Update(specialKey(tea.KeyPgDown))
	if scr.(*ResultsScreen).offset != 0 {
		t.Error("one miss cannot scroll")
	}
}

package app

import (
	"testing"
	"testing/fstest"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/router"
	"github.com/abhisek/timu/internal/screens/nav"
	"github.com/abhisek/timu/internal/screens/ready"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var pd = bank.Category{
	ID: "pd", Name: "判断题", File: "pd.json", Kind: bank.KindTrueFalse,
	Count: 1, ScorePerQuestion: 2, Mode: bank.ModeStaged,
}

func testModel(start *bank.Category) AppModel {
	runner := quiz.NewRunner(quiz.Options{
		Loader: bank.NewFSLoader(fstest.MapFS{
			"pd.json": {Data: []byte(`[{"question": "鲸鱼属于鱼类。", "answer": "错误"}]`)},
		}, "test", nil),
		Categories: []bank.Category{pd},
	})
	return newAppModel(Options{Runner: runner, PreparationSeconds: 3, Start: start})
}

func step(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func TestApp_StartCategoryPushesReady(t *testing.T) {
	m := testModel(nil)
	if m.Init() != nil {
		t.Error("home start needs no initial command")
	}

	m, cmd := step(t, m, nav.StartCategoryMsg{Category: pd})
	if m.router.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", m.router.Depth())
	}
	if _, ok := m.router.Active().(*ready.ReadyScreen); !ok {
		t.Errorf("active = %T, want *ready.ReadyScreen", m.router.Active())
	}
	if cmd == nil {
		t.Error("expected the countdown tick from Init")
	}

	m, _ = step(t, m, nav.StartCategoryMsg{Category: pd, Replace: true})
	if m.router.Depth() != 2 {
		t.Errorf("Depth after replace = %d, want 2", m.router.Depth())
	}
}

func TestApp_StartFlag(t *testing.T) {
	m := testModel(&pd)
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected a start command")
	}
	msg, ok := cmd().(nav.StartCategoryMsg)
	if !ok || msg.Category.ID != "pd" {
		t.Errorf("got %#v", msg)
	}
}

func TestApp_EscDelegatedToInterceptor(t *testing.T) {
	m := testModel(nil)
	m, _ = step(t, m, nav.StartCategoryMsg{Category: pd})

	// The ready screen handles Esc itself and asks for a pop.
	m, cmd := step(t, m, specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg, got %T", msg)
	}
	m, _ = step(t, m, msg)
	if m.router.Depth() != 1 {
		t.Errorf("Depth = %d, want 1", m.router.Depth())
	}
}

func TestApp_EscAtRoot(t *testing.T) {
	m := testModel(nil)
	_, cmd := step(t, m, specialKey(tea.KeyEscape))
	if cmd != nil {
		t.Error("Esc on the home screen does nothing")
	}
}

func TestApp_View(t *testing.T) {
	m := testModel(nil)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if !m.View().AltScreen {
		t.Error("expected the alternate screen")
	}
	if m.width != 80 || m.height != 24 {
		t.Errorf("size = %dx%d, want 80x24", m.width, m.height)
	}

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !m.View().AltScreen {
		t.Error("expected the alternate screen for the size warning")
	}
}

package ready

import (
	"strings"
	"testing"
	"testing/fstest"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/timu/internal/bank"
	"github.com/abhisek/timu/internal/quiz"
	"github.com/abhisek/timu/internal/router"
	"github.com/abhisek/timu/internal/screens/play"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

var testCategory = bank.Category{
	ID: "pd", Name: "判断题", File: "pd.json", Kind: bank.KindTrueFalse,
	Count: 1, ScorePerQuestion: 2, Mode: bank.ModeStaged,
}

func testRunner(files fstest.MapFS) *quiz.Runner {
	return quiz.NewRunner(quiz.Options{
		Loader:     bank.NewFSLoader(files, "test", nil),
		Categories: []bank.Category{testCategory},
	})
}

func goodBanks() fstest.MapFS {
	return fstest.MapFS{
		"pd.json": {Data: []byte(`[{"question": "水在 0 摄氏度时会结冰。", "answer": "正确"}]`)},
	}
}

func update(t *testing.T, r *ReadyScreen, msg tea.Msg) (*ReadyScreen, tea.Cmd) {
	t.Helper()
	next, cmd := r.Update(msg)
	rs, ok := next.(*ReadyScreen)
	if !ok {
		t.Fatalf("Update returned %T, want *ReadyScreen", next)
	}
	return rs, cmd
}

func TestReadyScreen_Countdown(t *testing.T) {
	r := New(testRunner(goodBanks()), testCategory, Options{PreparationSeconds: 2})
	if r.Init() == nil {
		t.Fatal("expected a countdown tick")
	}
	if !strings.Contains(r.View(80, 20), "准备时间：2秒") {
		t.Error("expected the countdown in the view")
	}

	// Enter does nothing before the countdown ends.
	r, cmd := update(t, r, specialKey(tea.KeyEnter))
	if cmd != nil || r.loading {
		t.Fatal("start should be disabled during the countdown")
	}

	r, cmd = update(t, r, countdownTickMsg{tok: r.token})
	if r.remaining != 1 || cmd == nil {
		t.Fatalf("remaining = %d, want 1 with another tick scheduled", r.remaining)
	}
	r, cmd = update(t, r, countdownTickMsg{tok: r.token})
	if !r.ready || cmd != nil {
		t.Fatal("expected the countdown to finish")
	}
	if !strings.Contains(r.View(80, 20), "开始答题") {
		t.Error("expected the start button")
	}
}

func TestReadyScreen_StaleTickIgnored(t *testing.T) {
	runner := testRunner(goodBanks())
	first := New(runner, testCategory, Options{PreparationSeconds: 3})
	first.Init()
	stale := first.token

	// A second countdown supersedes the first one's token.
	second := New(runner, testCategory, Options{PreparationSeconds: 3})
	second.Init()

	second, cmd := update(t, second, countdownTickMsg{tok: stale})
	if cmd != nil || second.remaining != 3 {
		t.Errorf("stale tick changed the countdown: remaining = %d", second.remaining)
	}
}

func TestReadyScreen_EscCancelsCountdown(t *testing.T) {
	runner := testRunner(goodBanks())
	r := New(runner, testCategory, Options{PreparationSeconds: 3})
	r.Init()

	r, cmd := update(t, r, specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if runner.Timers().Pending(quiz.TimerCountdown) {
		t.Error("expected the countdown timer to be cancelled")
	}

	r, cmd = update(t, r, countdownTickMsg{tok: r.token})
	if cmd != nil {
		t.Error("tick after cancel should be dropped")
	}
}

func TestReadyScreen_LoadSuccess(t *testing.T) {
	r := New(testRunner(goodBanks()), testCategory, Options{})
	r.Init()
	if !r.ready {
		t.Fatal("zero preparation time should be ready immediately")
	}

	r, cmd := update(t, r, specialKey(tea.KeyEnter))
	if cmd == nil || !r.loading {
		t.Fatal("expected the load to start")
	}
	if !strings.Contains(r.View(80, 20), "正在加载题库") {
		t.Error("expected the loading indicator")
	}

	// A second Enter while loading is ignored.
	_, again := update(t, r, specialKey(tea.KeyEnter))
	if again != nil {
		t.Error("start should be disabled while loading")
	}

	r, cmd = update(t, r, cmd())
	if r.loading {
		t.Error("loading indicator should be hidden")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*play.PlayScreen); !ok {
		t.Errorf("replacement is %T, want *play.PlayScreen", msg.Screen)
	}
}

func TestReadyScreen_LoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{"missing", fstest.MapFS{}, "找不到题库文件"},
		{"malformed", fstest.MapFS{"pd.json": {Data: []byte(`{"not": "an array"}`)}}, "格式不正确"},
		{"empty", fstest.MapFS{"pd.json": {Data: []byte(`[]`)}}, "没有题目"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := testRunner(tt.files)
			r := New(runner, testCategory, Options{})
			r.Init()

			r, cmd := update(t, r, specialKey(tea.KeyEnter))
			r, _ = update(t, r, cmd())

			if !strings.Contains(r.View(80, 20), tt.want) {
				t.Errorf("view missing %q", tt.want)
			}
			if r.loading {
				t.Error("loading indicator should be hidden")
			}
			if _, ok := runner.Current(); ok {
				t.Error("a failed load must not leave a session")
			}

			_, cmd = update(t, r, keyPress('x'))
			if cmd == nil {
				t.Fatal("any key should dismiss the notice")
			}
			if _, ok := cmd().(router.PopScreenMsg); !ok {
				t.Error("expected PopScreenMsg")
			}
		})
	}
}

func TestReadyScreen_InterceptsBack(t *testing.T) {
	r := New(testRunner(goodBanks()), testCategory, Options{})
	if !r.InterceptBack() {
		t.Error("ready screen handles Esc itself")
	}
	if len(r.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
}

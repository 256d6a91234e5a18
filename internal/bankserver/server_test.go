package bankserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/timu/internal/bank"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"tk.json":   {Data: []byte(`[{"question":"capital of France?","answer":"paris"}]`)},
		"pd.yaml":   {Data: []byte("- question: 地球是圆的。\n  answer: 正确\n")},
		"notes.txt": {Data: []byte("not a bank")},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRouter_Healthz(t *testing.T) {
	w := get(t, NewRouter(testFS(), nil), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_ListBanks(t *testing.T) {
	w := get(t, NewRouter(testFS(), nil), "/banks")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Banks []string `json:"banks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"pd.yaml", "tk.json"}, body.Banks)
}

func TestRouter_GetBank(t *testing.T) {
	r := NewRouter(testFS(), nil)

	w := get(t, r, "/banks/tk.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "paris")

	w = get(t, r, "/banks/pd.yaml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "yaml")

	assert.Equal(t, http.StatusNotFound, get(t, r, "/banks/missing.json").Code)
	assert.Equal(t, http.StatusNotFound, get(t, r, "/banks/notes.txt").Code)
}

// The server must be usable as the source of an HTTP bank loader.
func TestRouter_ServesHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(NewRouter(testFS(), nil))
	defer srv.Close()

	l, err := bank.NewLoader(srv.URL+"/banks/", nil)
	require.NoError(t, err)

	qs, err := l.Load(context.Background(), bank.Category{ID: "tk", File: "tk.json", Kind: bank.KindFillInBlank})
	require.NoError(t, err)
	require.Len(t, qs, 1)

	qs, err = l.Load(context.Background(), bank.Category{ID: "pd", File: "pd.yaml", Kind: bank.KindTrueFalse})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, bank.LabelTrue, qs[0].Answer)

	_, err = l.Load(context.Background(), bank.Category{ID: "xz", File: "xz.json", Kind: bank.KindMultipleChoice})
	assert.ErrorIs(t, err, bank.ErrNotFound)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", NewRouter(testFS(), nil), zap.NewNop())
	}()
	cancel()
	assert.NoError(t, <-done)
}

package bank

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fillCategory = Category{ID: "tk", Name: "填空题", File: "tk.json", Kind: KindFillInBlank, Count: 2, ScorePerQuestion: 2}

func TestFSLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"tk.json": {Data: []byte(`[{"question":"capital of France?","answer":"paris"}]`)},
	}
	l := NewFSLoader(fsys, "test", nil)

	qs, err := l.Load(context.Background(), fillCategory)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "paris", qs[0].Answer)
}

func TestFSLoader_NotFound(t *testing.T) {
	l := NewFSLoader(fstest.MapFS{}, "test", nil)

	_, err := l.Load(context.Background(), fillCategory)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrMalformed))

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "tk", loadErr.Category)
	assert.Equal(t, ReasonNotFound, loadErr.Reason)
}

func TestFSLoader_Malformed(t *testing.T) {
	fsys := fstest.MapFS{
		"tk.json": {Data: []byte(`{"not":"a list"}`)},
	}
	l := NewFSLoader(fsys, "test", nil)

	_, err := l.Load(context.Background(), fillCategory)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFSLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewFSLoader(fstest.MapFS{}, "test", nil)

	_, err := l.Load(ctx, fillCategory)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDirLoader_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	doc := "- question: 一周有几天？\n  answer: \"7\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tk.yaml"), []byte(doc), 0o644))

	cat := fillCategory
	cat.File = "tk.yaml"
	qs, err := NewDirLoader(dir, nil).Load(context.Background(), cat)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "7", qs[0].Answer)
}

func TestEmbedded_LoadsSampleBanks(t *testing.T) {
	l := Embedded(nil)
	cats := []Category{
		{ID: "xz", File: "xz.json", Kind: KindMultipleChoice},
		{ID: "tk", File: "tk.json", Kind: KindFillInBlank},
		{ID: "pd", File: "pd.json", Kind: KindTrueFalse},
	}
	for _, cat := range cats {
		qs, err := l.Load(context.Background(), cat)
		require.NoError(t, err, cat.ID)
		assert.NotEmpty(t, qs, cat.ID)
		for _, q := range qs {
			assert.Equal(t, cat.Kind, q.Kind, "%s: %q", cat.ID, q.Text)
		}
	}
}

func TestHTTPLoader_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/banks/tk.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"question":"capital of France?","answer":"paris"}]`))
		case "/banks/bad.json":
			w.Write([]byte(`"just a string"`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l, err := NewHTTPLoader(srv.URL+"/banks", nil, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	qs, err := l.Load(context.Background(), fillCategory)
	require.NoError(t, err)
	require.Len(t, qs, 1)

	missing := fillCategory
	missing.File = "nope.json"
	_, err = l.Load(context.Background(), missing)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	bad := fillCategory
	bad.File = "bad.json"
	_, err = l.Load(context.Background(), bad)
	assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
}

func TestHTTPLoader_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	l, err := NewHTTPLoader(url, nil)
	require.NoError(t, err)
	_, err = l.Load(context.Background(), fillCategory)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestNewHTTPLoader_RejectsScheme(t *testing.T) {
	_, err := NewHTTPLoader("ftp://example.com/banks", nil)
	assert.Error(t, err)
}

func TestNewLoader(t *testing.T) {
	l, err := NewLoader("", nil)
	require.NoError(t, err)
	assert.IsType(t, &FSLoader{}, l)

	l, err = NewLoader("https://example.com/banks/", nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPLoader{}, l)

	l, err = NewLoader(t.TempDir(), nil)
	require.NoError(t, err)
	assert.IsType(t, &FSLoader{}, l)

	_, err = NewLoader(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

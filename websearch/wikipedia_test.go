// Wikipedia 引擎测试。
package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipediaEngine_SummaryHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/page/summary/"))
		w.Write([]byte(`{
			"title": "Present perfect",
			"extract": "The present perfect is a grammatical combination.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Present_perfect"}}
		}`))
	}))
	defer srv.Close()

	engine := NewWikipediaEngine(srv.URL, srv.URL+"/w/api.php", srv.Client())
	results, err := engine.Search(context.Background(), "Present perfect", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Wikipedia", results[0].Source)
	assert.Equal(t, "Present perfect", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Present_perfect", results[0].URL)
}

func TestWikipediaEngine_FallbackToSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("list") {
		case "search":
			assert.Equal(t, "subjunctive mood", r.URL.Query().Get("srsearch"))
			w.Write([]byte(`{"query": {"search": [{"title": "Subjunctive mood", "pageid": 42}]}}`))
		default:
			assert.Equal(t, "42", r.URL.Query().Get("pageids"))
			assert.Equal(t, "1", r.URL.Query().Get("exintro"))
			assert.Equal(t, "1", r.URL.Query().Get("explaintext"))
			w.Write([]byte(`{"query": {"pages": {"42": {"extract": "The subjunctive mood expresses hypothetical situations."}}}}`))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	engine := NewWikipediaEngine(srv.URL, srv.URL+"/w/api.php", srv.Client())
	results, err := engine.Search(context.Background(), "subjunctive mood", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Subjunctive mood", results[0].Title)
	assert.Contains(t, results[0].Content, "hypothetical")
	assert.Contains(t, results[0].URL, "Subjunctive")
}

func TestWikipediaEngine_FallbackSkipsEmptyExtract(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page/summary/", func(w http.ResponseWriter, r *http.Request) {
		// 摘要为空也触发回退
		w.Write([]byte(`{"title": "X", "extract": ""}`))
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("list") == "search" {
			w.Write([]byte(`{"query": {"search": [{"title": "Empty page", "pageid": 7}]}}`))
			return
		}
		w.Write([]byte(`{"query": {"pages": {"7": {"extract": ""}}}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	engine := NewWikipediaEngine(srv.URL, srv.URL+"/w/api.php", srv.Client())
	results, err := engine.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestWikipediaEngine_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	engine := NewWikipediaEngine(srv.URL, srv.URL+"/w/api.php", srv.Client())
	_, err := engine.Search(context.Background(), "q", 2)
	assert.Error(t, err)
}

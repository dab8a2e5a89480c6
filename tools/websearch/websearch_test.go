package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilySearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		var req tavilyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek r1", req.Query)
		assert.Equal(t, 3, req.MaxResults)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":"deepseek r1","results":[
			{"title":"a","url":"https://a.example","content":"first","score":0.9},
			{"title":"b","url":"https://b.example","content":"second","score":0.8},
			{"title":"c","url":"https://c.example","content":"third","score":0.7},
			{"title":"d","url":"https://d.example","content":"fourth","score":0.6}
		]}`))
	}))
	defer srv.Close()

	searcher := NewTavily(WithBaseURL(srv.URL), WithAPIKey("tvly-test"))
	results, err := searcher.Search(context.Background(), "deepseek r1", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, Result{URL: "https://a.example", Title: "a", Content: "first"}, results[0])
}

func TestTavilyErrors(t *testing.T) {
	_, err := NewTavily().Search(context.Background(), "q", 3)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":{"error":"Unauthorized: missing or invalid API key."}}`))
	}))
	defer srv.Close()
	_, err = NewTavily(WithBaseURL(srv.URL), WithAPIKey("bad")).Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid API key")
}

func TestSearxNGSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "zh-CN", r.URL.Query().Get("language"))
		json.NewEncoder(w).Encode(searxngResponse{
			Query: "golang",
			Results: []Result{
				{URL: "https://go.dev", Title: "Go", Content: "The Go programming language"},
				{URL: "https://empty.example"},
				{URL: "https://pkg.go.dev", Title: "Packages", Content: "Go packages"},
			},
		})
	}))
	defer srv.Close()

	searcher := NewSearxNG(WithBaseURL(srv.URL+"/"), WithLanguage("zh-CN"))
	results, err := searcher.Search(context.Background(), "golang", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go packages", results[1].Content)
}

func TestSearxNGNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	_, err := NewSearxNG(WithBaseURL(srv.URL)).Search(context.Background(), "golang", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

type staticSearcher struct {
	results []Result
	err     error
	gotMax  int
}

func (s *staticSearcher) Search(_ context.Context, _ string, maxResults int) ([]Result, error) {
	s.gotMax = maxResults
	return s.results, s.err
}

func TestTool(t *testing.T) {
	searcher := &staticSearcher{results: []Result{{Content: "one"}, {Content: "two"}, {Content: "three"}}}
	tool := New(searcher, 0)
	assert.Equal(t, "search_web", tool.Name())

	ret, err := tool.Call(context.Background(), `{"query_str":"deepseek"}`)
	require.NoError(t, err)
	assert.Equal(t, "one\n\ntwo\n\nthree", ret)
	assert.Equal(t, DefaultMaxResults, searcher.gotMax)

	_, err = tool.Call(context.Background(), `{}`)
	assert.Error(t, err)

	searcher.err = ErrMissingAPIKey
	_, err = tool.Call(context.Background(), `{"query_str":"deepseek"}`)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

const TavilyBaseURL = "https://api.tavily.com"

// Tavily searches with the Tavily search API
type Tavily struct {
	providerConfig
}

func NewTavily(opts ...ProviderOption) *Tavily {
	return &Tavily{
		providerConfig: newProviderConfig(TavilyBaseURL, opts),
	}
}

type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results,omitempty"`
	SearchDepth string `json:"search_depth,omitempty"`
}

func (t *Tavily) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if t.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(tavilyRequest{
		APIKey:      t.apiKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: "basic",
	}); err != nil {
		return nil, err
	}
	searchURL := strings.TrimRight(t.baseURL, "/") + "/search"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying tavily: %w", err)
	}
	defer httpResp.Body.Close()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "detail.error").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "detail").String()
		}
		return nil, fmt.Errorf("non-200 response from tavily: %d %s", httpResp.StatusCode, msg)
	}
	items := gjson.GetBytes(body, "results").Array()
	ret := make([]Result, 0, len(items))
	for _, item := range items {
		ret = append(ret, Result{
			URL:     item.Get("url").String(),
			Title:   item.Get("title").String(),
			Content: item.Get("content").String(),
		})
		if maxResults > 0 && len(ret) == maxResults {
			break
		}
	}
	return ret, nil
}

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SearxNG searches on a self hosted SearxNG instance
type SearxNG struct {
	providerConfig
}

func NewSearxNG(opts ...ProviderOption) *SearxNG {
	return &SearxNG{
		providerConfig: newProviderConfig("http://localhost:8080", opts),
	}
}

type searxngResponse struct {
	Query           string   `json:"query"`
	NumberOfResults int      `json:"number_of_results"`
	Results         []Result `json:"results"`
}

// Search queries the SearxNG json api in the general category
func (t *SearxNG) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	values := url.Values{}
	values.Set("q", query)
	values.Set("safesearch", "0")
	values.Set("format", "json")
	values.Set("categories", "general")
	if t.language != "" {
		values.Set("language", t.language)
	}
	searchURL := fmt.Sprintf("%s/search?%s", strings.TrimRight(t.baseURL, "/"), values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying searxng: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from searxng: %d", httpResp.StatusCode)
	}

	var resp searxngResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	ret := make([]Result, 0, len(resp.Results))
	for _, item := range resp.Results {
		if item.Content == "" && item.Title == "" {
			continue
		}
		ret = append(ret, item)
		if maxResults > 0 && len(ret) == maxResults {
			break
		}
	}
	return ret, nil
}

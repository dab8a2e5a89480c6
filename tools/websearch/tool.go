package websearch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bububa/qa-agents/schema"
	"github.com/bububa/qa-agents/tools"
)

const DefaultMaxResults = 3

// Input Schema for input to the web search tool
type Input struct {
	// QueryStr search keywords
	QueryStr string `json:"query_str" description:"搜索关键词 (search keywords)" validate:"required"`
}

func NewInput(query string) *Input {
	return &Input{QueryStr: query}
}

// Tool searches the web and returns the content of the top results separated by blank lines
type Tool struct {
	*tools.Function[Input, schema.String]
	searcher   Searcher
	maxResults int
}

// New returns a search_web tool, maxResults <= 0 falls back to DefaultMaxResults
func New(searcher Searcher, maxResults int, opts ...tools.Option) *Tool {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	ret := &Tool{
		searcher:   searcher,
		maxResults: maxResults,
	}
	defaults := []tools.Option{
		tools.WithTitle("search_web"),
		tools.WithDescription("使用网络搜索并返回相关结果。Searches the web and returns the relevant results."),
	}
	ret.Function = tools.NewFunction(ret.search, append(defaults, opts...)...)
	return ret
}

func (t *Tool) search(ctx context.Context, input *Input) (schema.String, error) {
	user, _ := schema.UserFromContext(ctx)
	t.Logger().Info("Start web search for "+user.UserName+" with "+input.QueryStr, zap.String("user_id", user.UserID))
	results, err := t.searcher.Search(ctx, input.QueryStr, t.maxResults)
	if err != nil {
		return "", err
	}
	texts := make([]string, 0, len(results))
	for _, v := range results {
		texts = append(texts, v.Content)
	}
	return schema.String(strings.Join(texts, "\n\n")), nil
}

package ragquery

import (
	"context"

	"go.uber.org/zap"

	"github.com/bububa/qa-agents/schema"
	"github.com/bububa/qa-agents/tools"
)

// Querier answers a question from an indexed document
type Querier interface {
	Query(ctx context.Context, query string) (string, error)
}

// Input Schema for input to the rag query tool
type Input struct {
	// QueryStr the question to look up
	QueryStr string `json:"query_str" description:"查询问题 (the question to look up in the documents)" validate:"required"`
}

func NewInput(query string) *Input {
	return &Input{QueryStr: query}
}

type Tool struct {
	*tools.Function[Input, schema.String]
	querier Querier
}

func New(querier Querier, opts ...tools.Option) *Tool {
	ret := &Tool{querier: querier}
	defaults := []tools.Option{
		tools.WithTitle("rag_query"),
		tools.WithDescription("从Deepseek文档查询Deepseek技术细节问题。Looks up DeepSeek technical details in the indexed documents."),
	}
	ret.Function = tools.NewFunction(ret.query, append(defaults, opts...)...)
	return ret
}

func (t *Tool) query(ctx context.Context, input *Input) (schema.String, error) {
	t.Logger().Info("Start rag search", zap.String("query", input.QueryStr))
	ret, err := t.querier.Query(ctx, input.QueryStr)
	if err != nil {
		return "", err
	}
	return schema.String(ret), nil
}

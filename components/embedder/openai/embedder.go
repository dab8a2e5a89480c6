package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/bububa/qa-agents/components"
	"github.com/bububa/qa-agents/components/embedder"
)

// Client is the part of *openai.Client the embedder needs
type Client interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

type Embedder struct {
	Client
	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

func New(client Client, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		Client: client,
	}
	for _, opt := range opts {
		opt(&i.Options)
	}
	if i.Model() == "" {
		embedder.WithModel(string(openai.SmallEmbedding3))(&i.Options)
	}
	return i
}

func (p *Embedder) Embed(ctx context.Context, text string, embedding *embedder.Embedding, usage *components.LLMUsage) error {
	ret, err := p.BatchEmbed(ctx, []string{text}, usage)
	if err != nil {
		return err
	}
	if len(ret) == 0 {
		return fmt.Errorf("embedding model %s returned no data", p.Model())
	}
	*embedding = ret[0]
	return nil
}

// BatchEmbed embeds parts in requests of at most BatchSize inputs, Index refers to the position in parts
func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	ret := make([]embedder.Embedding, 0, len(parts))
	batchSize := p.BatchSize()
	for offset := 0; offset < len(parts); offset += batchSize {
		end := min(offset+batchSize, len(parts))
		req := openai.EmbeddingRequest{
			Input: parts[offset:end],
			Model: openai.EmbeddingModel(p.Model()),
		}
		resp, err := p.CreateEmbeddings(ctx, req)
		if err != nil {
			return nil, err
		}
		if usage != nil {
			usage.InputTokens += int64(resp.Usage.PromptTokens)
		}
		for _, v := range resp.Data {
			idx := offset + v.Index
			if idx >= end {
				return nil, fmt.Errorf("embedding index %d out of range", v.Index)
			}
			ret = append(ret, embedder.Embedding{
				Object:    parts[idx],
				Embedding: v.Embedding,
				Index:     idx,
			})
		}
	}
	return ret, nil
}

package embedder

import (
	"context"
	"fmt"

	"github.com/bububa/qa-agents/components"
)

// Embedder turns text into vectors
type Embedder interface {
	Model() string
	Embed(context.Context, string, *Embedding, *components.LLMUsage) error
	BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]Embedding, error)
}

// Chunker splits a document text into chunks ready for embedding
type Chunker interface {
	Chunk(text string) []Chunk
}

// EmbedChunks processes a slice of text chunks and generates embeddings for each one.
// The returned slice keeps the order of chunks.
func EmbedChunks(ctx context.Context, embedder Embedder, chunks []Chunk, usage *components.LLMUsage) ([]EmbeddedChunk, error) {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Text)
	}

	ret, err := embedder.BatchEmbed(ctx, parts, usage)
	if err != nil {
		return nil, err
	}
	if len(ret) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d embeddings for %d chunks", len(ret), len(chunks))
	}
	embeddedChunks := make([]EmbeddedChunk, len(chunks))
	for _, v := range ret {
		if v.Index < 0 || v.Index >= len(chunks) {
			return nil, fmt.Errorf("embedding index %d out of range", v.Index)
		}
		embeddedChunks[v.Index] = EmbeddedChunk{
			Embedding: v,
			Chunk:     &chunks[v.Index],
		}
	}
	return embeddedChunks, nil
}

package vectordb

import (
	"context"

	"github.com/bububa/qa-agents/components/embedder"
)

type EngineType string

const (
	Memory  EngineType = "memory"
	Chromem EngineType = "chromem"
)

// Engine stores embeddings in named collections and runs similarity searches over them.
// Scores returned by Search are cosine similarities, higher is closer.
type Engine interface {
	Insert(ctx context.Context, collection string, records ...Record) error
	Search(context.Context, []float32, ...SearchOption) ([]Record, error)
	Count(ctx context.Context, collection string) (int, error)
}

// RecordsFromEmbeddings wraps embeddings into records with their derived ids
func RecordsFromEmbeddings(embeddings []embedder.Embedding) []Record {
	ret := make([]Record, 0, len(embeddings))
	for _, v := range embeddings {
		ret = append(ret, Record{ID: v.UUID(), Embedding: v})
	}
	return ret
}

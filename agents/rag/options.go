package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/components/document"
	"github.com/bububa/qa-agents/components/embedder"
	"github.com/bububa/qa-agents/components/vectordb"
	"github.com/bububa/qa-agents/components/vectordb/engines/chromem"
	"github.com/bububa/qa-agents/components/vectordb/engines/memory"
)

const (
	DefaultPersistDir = "./storage_chroma"
	DefaultCollection = "deepseek_docs"
	DefaultTopK       = 5
)

// EngineOpener opens the vector store persisted under dir
type EngineOpener func(ctx context.Context, dir string) (vectordb.Engine, error)

// ChromemOpener opens a persistent chromem-go database
func ChromemOpener(compress bool) EngineOpener {
	return func(_ context.Context, dir string) (vectordb.Engine, error) {
		return chromem.NewPersistent(dir, compress)
	}
}

// MemoryOpener keeps the vectors in process, the document is embedded again on every start
func MemoryOpener() EngineOpener {
	return func(context.Context, string) (vectordb.Engine, error) {
		return memory.New(), nil
	}
}

// OpenerFor returns the opener of an engine type
func OpenerFor(engine vectordb.EngineType, compress bool) (EngineOpener, error) {
	switch engine {
	case vectordb.Chromem, "":
		return ChromemOpener(compress), nil
	case vectordb.Memory:
		return MemoryOpener(), nil
	}
	return nil, fmt.Errorf("unsupported vector engine: %s", engine)
}

type Options struct {
	source     string
	persistDir string
	collection string
	topK       int
	chunker    embedder.Chunker
	loader     *document.Loader
	openEngine EngineOpener
	runner     *agents.Runner
	logger     *zap.Logger
}

type Option func(*Options)

// WithSource sets the document file the index is built from
func WithSource(fname string) Option {
	return func(o *Options) {
		o.source = fname
	}
}

func WithPersistDir(dir string) Option {
	return func(o *Options) {
		o.persistDir = dir
	}
}

func WithCollection(name string) Option {
	return func(o *Options) {
		o.collection = name
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		o.topK = k
	}
}

func WithChunker(chunker embedder.Chunker) Option {
	return func(o *Options) {
		o.chunker = chunker
	}
}

func WithLoader(loader *document.Loader) Option {
	return func(o *Options) {
		o.loader = loader
	}
}

func WithEngineOpener(fn EngineOpener) Option {
	return func(o *Options) {
		o.openEngine = fn
	}
}

func WithRunner(runner *agents.Runner) Option {
	return func(o *Options) {
		o.runner = runner
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/components"
	"github.com/bububa/qa-agents/components/document"
	"github.com/bububa/qa-agents/components/embedder"
	"github.com/bububa/qa-agents/components/embedder/splitter"
	"github.com/bububa/qa-agents/components/vectordb"
)

// InsufficientInfo is the answer when the documents cannot answer a question
const InsufficientInfo = "无法查询到必要的信息"

const qaPromptTemplate = "以下是上下文信息。\n" +
	"---------------------\n" +
	"%s\n" +
	"---------------------\n" +
	"仅根据上下文信息详细的回答问题，不要依赖于预置知识，不要编造。如果上下文信息无法解答问题，请回答'" + InsufficientInfo + "'。\n" +
	"问题: %s\n" +
	"回答: "

var (
	// ErrClosed the index was closed
	ErrClosed = errors.New("rag index closed")

	errNoDocument = errors.New("no document to index")
)

// Index answers questions from a single source document.
// Nothing is opened until the first Query: the vector store is opened then and,
// while its collection is empty, the document is loaded, chunked, embedded and inserted.
// A failed initialisation is retried on the next Query.
type Index struct {
	Options
	synthesizer *agents.Agent
	embedder    embedder.Embedder
	mu          sync.Mutex
	engine      vectordb.Engine
	closed      *atomic.Bool
}

func NewIndex(synthesizer *agents.Agent, e embedder.Embedder, opts ...Option) *Index {
	ret := &Index{
		synthesizer: synthesizer,
		embedder:    e,
		closed:      atomic.NewBool(false),
	}
	ret.persistDir = DefaultPersistDir
	ret.collection = DefaultCollection
	ret.topK = DefaultTopK
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.chunker == nil {
		ret.chunker = splitter.NewSentences()
	}
	if ret.loader == nil {
		ret.loader = document.NewLoader()
	}
	if ret.openEngine == nil {
		ret.openEngine = ChromemOpener(false)
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.runner == nil {
		ret.runner = agents.NewRunner(agents.WithLogger(ret.logger))
	}
	if ret.topK <= 0 {
		ret.topK = DefaultTopK
	}
	return ret
}

// Name is the source file name without extension, the store lives in persistDir/Name
func (i *Index) Name() string {
	base := filepath.Base(i.source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Query answers query from the document. Without document or matching chunks it returns InsufficientInfo.
func (i *Index) Query(ctx context.Context, query string) (string, error) {
	engine, err := i.open(ctx)
	if errors.Is(err, errNoDocument) {
		i.logger.Warn("rag document unavailable", zap.String("source", i.source), zap.Error(err))
		return InsufficientInfo, nil
	}
	if err != nil {
		return "", err
	}
	records, err := i.search(ctx, engine, query)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return InsufficientInfo, nil
	}
	texts := make([]string, 0, len(records))
	for _, record := range records {
		texts = append(texts, record.Embedding.Object)
	}
	prompt := fmt.Sprintf(qaPromptTemplate, strings.Join(texts, "\n\n"), query)
	res, err := i.runner.Run(ctx, i.synthesizer, prompt)
	if err != nil {
		return "", err
	}
	return res.FinalOutputText(), nil
}

// Close drops the store handle, later queries fail with ErrClosed
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed.Store(true)
	i.engine = nil
	return nil
}

func (i *Index) open(ctx context.Context) (vectordb.Engine, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed.Load() {
		return nil, ErrClosed
	}
	if i.engine == nil {
		i.logger.Info(fmt.Sprintf("Starting to create query engine for 【%s】", i.Name()))
		engine, err := i.openEngine(ctx, filepath.Join(i.persistDir, i.Name()))
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
		i.engine = engine
	}
	count, err := i.engine.Count(ctx, i.collection)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		i.logger.Debug("Loading vector index", zap.Int("chunks", count))
		return i.engine, nil
	}
	i.logger.Info("Creating vector index", zap.String("source", i.source))
	if err := i.build(ctx); err != nil {
		return nil, err
	}
	return i.engine, nil
}

func (i *Index) build(ctx context.Context) error {
	if i.source == "" {
		return errNoDocument
	}
	doc, err := i.loader.Load(ctx, i.source)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", errNoDocument, err)
	}
	if err != nil {
		return err
	}
	if doc.IsEmpty() {
		return fmt.Errorf("%w: %s is empty", errNoDocument, doc.Name())
	}
	chunks := i.chunker.Chunk(doc.Text)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: %s has no text", errNoDocument, doc.Name())
	}
	usage := new(components.LLMUsage)
	embedded, err := embedder.EmbedChunks(ctx, i.embedder, chunks, usage)
	if err != nil {
		return fmt.Errorf("embed %s: %w", doc.Name(), err)
	}
	embeddings := make([]embedder.Embedding, 0, len(embedded))
	for idx, v := range embedded {
		v.Embedding.Meta = map[string]string{
			"source": doc.Name(),
			"chunk":  strconv.Itoa(idx),
		}
		embeddings = append(embeddings, v.Embedding)
	}
	if err := i.engine.Insert(ctx, i.collection, vectordb.RecordsFromEmbeddings(embeddings)...); err != nil {
		return err
	}
	i.logger.Info("vector index created", zap.Int("chunks", len(embeddings)), zap.Int64("embedding_tokens", usage.InputTokens))
	return nil
}

func (i *Index) search(ctx context.Context, engine vectordb.Engine, query string) ([]vectordb.Record, error) {
	embedding := new(embedder.Embedding)
	if err := i.embedder.Embed(ctx, query, embedding, nil); err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return engine.Search(ctx, embedding.Embedding,
		vectordb.SearchWithCollection(i.collection),
		vectordb.SearchWithTopK(i.topK),
	)
}

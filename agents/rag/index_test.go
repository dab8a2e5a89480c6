package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/components"
	"github.com/bububa/qa-agents/components/embedder"
	"github.com/bububa/qa-agents/components/embedder/splitter"
	"github.com/bububa/qa-agents/components/vectordb"
	"github.com/bububa/qa-agents/components/vectordb/engines/memory"
)

// keywordEmbedder maps text onto a few keyword dimensions
type keywordEmbedder struct {
	mu      sync.Mutex
	batches int
}

var keywords = []string{"强化学习", "蒸馏", "开源", "天气"}

func (e *keywordEmbedder) vector(text string) []float32 {
	v := make([]float32, len(keywords)+1)
	for i, k := range keywords {
		v[i] = float32(strings.Count(text, k))
	}
	v[len(keywords)] = 0.01
	return v
}

func (e *keywordEmbedder) Model() string { return "keyword" }

func (e *keywordEmbedder) Embed(_ context.Context, text string, embedding *embedder.Embedding, _ *components.LLMUsage) error {
	*embedding = embedder.Embedding{Object: text, Embedding: e.vector(text)}
	return nil
}

func (e *keywordEmbedder) BatchEmbed(_ context.Context, parts []string, _ *components.LLMUsage) ([]embedder.Embedding, error) {
	e.mu.Lock()
	e.batches++
	e.mu.Unlock()
	ret := make([]embedder.Embedding, 0, len(parts))
	for i, p := range parts {
		ret = append(ret, embedder.Embedding{Object: p, Embedding: e.vector(p), Index: i})
	}
	return ret, nil
}

// echoClient answers with a fixed reply and records prompts
type echoClient struct {
	mu      sync.Mutex
	reply   string
	prompts []string
}

func (c *echoClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, req.Messages[len(req.Messages)-1].Content)
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c.reply}}},
	}, nil
}

const doc = "DeepSeek-R1 通过大规模强化学习训练推理能力。团队把推理能力蒸馏到小模型。模型权重全部开源。"

func writeDoc(t *testing.T, dir string) string {
	t.Helper()
	fname := filepath.Join(dir, "DeepSeek-R1-zh.txt")
	require.NoError(t, os.WriteFile(fname, []byte(doc), 0o644))
	return fname
}

func newTestIndex(t *testing.T, source string, clt *echoClient, emb *keywordEmbedder, opts ...Option) *Index {
	synth := agents.NewAgent("Synthesizer", agents.WithClient(clt), agents.WithModel("synth"))
	engine := memory.New()
	defaults := []Option{
		WithSource(source),
		WithPersistDir(t.TempDir()),
		WithTopK(1),
		WithChunker(splitter.NewSentences(splitter.WithChunkSize(1), splitter.WithOverlap(0))),
		WithEngineOpener(func(context.Context, string) (vectordb.Engine, error) { return engine, nil }),
	}
	return NewIndex(synth, emb, append(defaults, opts...)...)
}

func TestQuery(t *testing.T) {
	clt := &echoClient{reply: "R1 使用强化学习训练。"}
	emb := new(keywordEmbedder)
	idx := newTestIndex(t, writeDoc(t, t.TempDir()), clt, emb)
	assert.Equal(t, "DeepSeek-R1-zh", idx.Name())

	ret, err := idx.Query(context.Background(), "R1 是怎么用强化学习训练的？")
	require.NoError(t, err)
	assert.Equal(t, "R1 使用强化学习训练。", ret)
	require.Len(t, clt.prompts, 1)
	prompt := clt.prompts[0]
	assert.Contains(t, prompt, "以下是上下文信息")
	assert.Contains(t, prompt, "大规模强化学习")
	assert.NotContains(t, prompt, "蒸馏")
	assert.Contains(t, prompt, "问题: R1 是怎么用强化学习训练的？")

	_, err = idx.Query(context.Background(), "权重开源吗？")
	require.NoError(t, err)
	assert.Contains(t, clt.prompts[1], "全部开源")
	assert.Equal(t, 1, emb.batches)
}

func TestConcurrentFirstQuery(t *testing.T) {
	clt := &echoClient{reply: "R1 使用强化学习训练。"}
	emb := new(keywordEmbedder)
	idx := newTestIndex(t, writeDoc(t, t.TempDir()), clt, emb)
	defer idx.Close()

	const workers = 16
	var wg sync.WaitGroup
	answers := make([]string, workers)
	errs := make([]error, workers)
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			answers[n], errs[n] = idx.Query(context.Background(), "R1 如何用强化学习训练?")
		}(n)
	}
	wg.Wait()
	for n := 0; n < workers; n++ {
		require.NoError(t, errs[n])
		assert.Equal(t, "R1 使用强化学习训练。", answers[n])
	}
	emb.mu.Lock()
	defer emb.mu.Unlock()
	assert.Equal(t, 1, emb.batches)
	clt.mu.Lock()
	defer clt.mu.Unlock()
	assert.Len(t, clt.prompts, workers)
}

func TestQueryWithoutDocument(t *testing.T) {
	dir := t.TempDir()
	clt := &echoClient{reply: "unused"}
	emb := new(keywordEmbedder)
	idx := newTestIndex(t, filepath.Join(dir, "DeepSeek-R1-zh.txt"), clt, emb)

	ret, err := idx.Query(context.Background(), "R1 如何训练？")
	require.NoError(t, err)
	assert.Equal(t, InsufficientInfo, ret)
	assert.Empty(t, clt.prompts)

	writeDoc(t, dir)
	ret, err = idx.Query(context.Background(), "R1 如何训练？")
	require.NoError(t, err)
	assert.Equal(t, "unused", ret)
	assert.Equal(t, 1, emb.batches)
}

func TestQueryEmptyDocument(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(fname, []byte("\n\n"), 0o644))
	idx := newTestIndex(t, fname, &echoClient{}, new(keywordEmbedder))
	ret, err := idx.Query(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, InsufficientInfo, ret)
}

func TestOpenFailureIsRetried(t *testing.T) {
	errOpen := errors.New("disk unavailable")
	attempts := 0
	engine := memory.New()
	opener := func(context.Context, string) (vectordb.Engine, error) {
		attempts++
		if attempts == 1 {
			return nil, errOpen
		}
		return engine, nil
	}
	idx := newTestIndex(t, writeDoc(t, t.TempDir()), &echoClient{reply: "ok"}, new(keywordEmbedder), WithEngineOpener(opener))
	_, err := idx.Query(context.Background(), "q")
	assert.ErrorIs(t, err, errOpen)
	ret, err := idx.Query(context.Background(), "开源吗")
	require.NoError(t, err)
	assert.Equal(t, "ok", ret)
	assert.Equal(t, 2, attempts)
}

func TestClose(t *testing.T) {
	idx := newTestIndex(t, writeDoc(t, t.TempDir()), &echoClient{reply: "ok"}, new(keywordEmbedder))
	_, err := idx.Query(context.Background(), "q")
	require.NoError(t, err)
	require.NoError(t, idx.Close())
	_, err = idx.Query(context.Background(), "q")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPersistentIndexIsReused(t *testing.T) {
	persistDir := t.TempDir()
	source := writeDoc(t, t.TempDir())
	build := func(emb *keywordEmbedder) *Index {
		synth := agents.NewAgent("Synthesizer", agents.WithClient(&echoClient{reply: "ok"}), agents.WithModel("synth"))
		return NewIndex(synth, emb,
			WithSource(source),
			WithPersistDir(persistDir),
			WithChunker(splitter.NewSentences(splitter.WithChunkSize(1), splitter.WithOverlap(0))),
		)
	}

	first := new(keywordEmbedder)
	_, err := build(first).Query(context.Background(), "强化学习")
	require.NoError(t, err)
	assert.Equal(t, 1, first.batches)
	assert.DirExists(t, filepath.Join(persistDir, "DeepSeek-R1-zh"))

	second := new(keywordEmbedder)
	ret, err := build(second).Query(context.Background(), "强化学习")
	require.NoError(t, err)
	assert.Equal(t, "ok", ret)
	assert.Zero(t, second.batches)
}

func TestOpenerFor(t *testing.T) {
	opener, err := OpenerFor(vectordb.Memory, false)
	require.NoError(t, err)
	engine, err := opener(context.Background(), t.TempDir())
	require.NoError(t, err)
	n, err := engine.Count(context.Background(), DefaultCollection)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = OpenerFor(vectordb.Chromem, true)
	assert.NoError(t, err)
	_, err = OpenerFor("milvus", false)
	assert.Error(t, err)
}

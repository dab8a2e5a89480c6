package splitter

import (
	"bytes"
	"strings"

	"github.com/clipperhouse/uax29/sentences"

	"github.com/bububa/qa-agents/components/embedder"
)

// Sentences packs whole sentences into chunks of at most chunkSize tokens.
// A sentence longer than chunkSize becomes a chunk of its own.
type Sentences struct {
	chunkSize    int
	overlap      int
	tokenCounter TokenCounter
}

var _ embedder.Chunker = (*Sentences)(nil)

// Option is a function type for configuring the Sentences chunker.
type Option func(*Sentences)

func WithChunkSize(size int) Option {
	return func(o *Sentences) {
		o.chunkSize = size
	}
}

// WithOverlap sets how many tokens of trailing sentences are repeated at the start of the next chunk
func WithOverlap(overlap int) Option {
	return func(o *Sentences) {
		o.overlap = overlap
	}
}

func WithTokenCounter(counter TokenCounter) Option {
	return func(o *Sentences) {
		o.tokenCounter = counter
	}
}

func NewSentences(opts ...Option) *Sentences {
	ret := &Sentences{
		chunkSize: 512,
		overlap:   64,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tokenCounter == nil {
		ret.tokenCounter = WordsTokenCounter{}
	}
	if ret.chunkSize <= 0 {
		ret.chunkSize = 1
	}
	if ret.overlap < 0 {
		ret.overlap = 0
	}
	return ret
}

func (o *Sentences) TokenCount(txt string) int {
	return o.tokenCounter.Count([]byte(txt))
}

// Chunk splits text on sentence boundaries
func (o *Sentences) Chunk(text string) []embedder.Chunk {
	var (
		parts  [][]byte
		counts []int
	)
	for _, seg := range sentences.SegmentAll([]byte(text)) {
		if len(bytes.TrimSpace(seg)) == 0 {
			continue
		}
		parts = append(parts, seg)
		counts = append(counts, o.tokenCounter.Count(seg))
	}

	var (
		chunks  []embedder.Chunk
		start   int
		current int
	)
	for i, n := range counts {
		if current > 0 && current+n > o.chunkSize {
			chunks = append(chunks, o.newChunk(parts, start, i, current))
			next := max(start+1, i-o.overlapParts(counts, start, i))
			current = 0
			for j := next; j < i; j++ {
				current += counts[j]
			}
			start = next
		}
		current += n
	}
	if start < len(parts) {
		chunks = append(chunks, o.newChunk(parts, start, len(parts), current))
	}
	return chunks
}

func (o *Sentences) newChunk(parts [][]byte, start, end, tokens int) embedder.Chunk {
	return embedder.Chunk{
		Text:          strings.TrimSpace(string(bytes.Join(parts[start:end], nil))),
		TokenSize:     tokens,
		StartSentence: start,
		EndSentence:   end,
	}
}

// overlapParts calculates how many parts from the end of the
// previous chunk should be included in the next chunk to achieve the desired
// token overlap.
func (o *Sentences) overlapParts(counts []int, start, end int) int {
	var tokens, parts int
	for i := end - 1; i >= start && tokens < o.overlap; i-- {
		tokens += counts[i]
		parts++
	}
	return parts
}

package vectordb

import "github.com/bububa/qa-agents/components/embedder"

type SearchOptions struct {
	Collection string
	TopK       int
	MinScore   float64
	Meta       map[string]string
	Include    string
	Exclude    string

	hasMinScore bool
}

type SearchOption func(*SearchOptions)

func SearchWithCollection(name string) SearchOption {
	return func(r *SearchOptions) {
		r.Collection = name
	}
}

func SearchWithTopK(topK int) SearchOption {
	return func(r *SearchOptions) {
		r.TopK = topK
	}
}

func SearchWithMinScore(score float64) SearchOption {
	return func(r *SearchOptions) {
		r.MinScore = score
		r.hasMinScore = true
	}
}

func SearchWithMeta(meta map[string]string) SearchOption {
	return func(r *SearchOptions) {
		r.Meta = meta
	}
}

// SearchWithInclude keeps only documents containing v
func SearchWithInclude(v string) SearchOption {
	return func(r *SearchOptions) {
		r.Include = v
	}
}

// SearchWithExclude drops documents containing v
func SearchWithExclude(v string) SearchOption {
	return func(r *SearchOptions) {
		r.Exclude = v
	}
}

// NewSearchOptions applies opts over the engine defaults
func NewSearchOptions(defaults Options, opts ...SearchOption) SearchOptions {
	ret := SearchOptions{
		TopK:        defaults.TopK,
		MinScore:    defaults.MinScore,
		hasMinScore: defaults.hasMinScore,
	}
	for _, opt := range opts {
		opt(&ret)
	}
	if ret.TopK <= 0 {
		ret.TopK = DefaultTopK
	}
	return ret
}

// BelowMinScore reports whether score misses the threshold.
// A zero MinScore filters only when it was set with WithMinScore or SearchWithMinScore,
// so by default records with negative similarity are kept.
func (o SearchOptions) BelowMinScore(score float64) bool {
	if o.MinScore == 0 && !o.hasMinScore {
		return false
	}
	return score < o.MinScore
}

// Record represents a single result from a vector similarity search.
type Record struct {
	// ID is the identifier for the result
	ID string
	// Score is the similarity score for the result
	Score float64
	// Embedding embeddings for doc
	Embedding embedder.Embedding
}

package embedder

const DefaultBatchSize = 100

// Options holds the configuration shared by Embedder implementations.
type Options struct {
	// model specifies the model to use
	model string
	// batchSize caps the number of inputs per embeddings request
	batchSize int
}

// Option is a function type for configuring the embedder Options.
type Option func(*Options)

func WithModel(model string) Option {
	return func(o *Options) {
		o.model = model
	}
}

func WithBatchSize(size int) Option {
	return func(o *Options) {
		o.batchSize = size
	}
}

func (i Options) Model() string {
	return i.model
}

func (i Options) BatchSize() int {
	if i.batchSize <= 0 {
		return DefaultBatchSize
	}
	return i.batchSize
}

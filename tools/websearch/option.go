package websearch

import "net/http"

type ProviderOption func(*providerConfig)

type providerConfig struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

func WithBaseURL(baseURL string) ProviderOption {
	return func(c *providerConfig) {
		c.baseURL = baseURL
	}
}

func WithAPIKey(key string) ProviderOption {
	return func(c *providerConfig) {
		c.apiKey = key
	}
}

func WithLanguage(lang string) ProviderOption {
	return func(c *providerConfig) {
		c.language = lang
	}
}

func WithHttpClient(clt *http.Client) ProviderOption {
	return func(c *providerConfig) {
		c.httpClient = clt
	}
}

func newProviderConfig(defaultBaseURL string, opts []ProviderOption) providerConfig {
	cfg := providerConfig{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

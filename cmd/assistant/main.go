package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/qa-agents/agents"
	"github.com/bububa/qa-agents/agents/rag"
	"github.com/bububa/qa-agents/assistant"
	"github.com/bububa/qa-agents/components/embedder"
	openaiEmbedder "github.com/bububa/qa-agents/components/embedder/openai"
	"github.com/bububa/qa-agents/components/embedder/splitter"
	"github.com/bububa/qa-agents/components/vectordb"
	"github.com/bububa/qa-agents/config"
	"github.com/bububa/qa-agents/logger"
	"github.com/bububa/qa-agents/tools"
	"github.com/bububa/qa-agents/tools/ragquery"
	"github.com/bububa/qa-agents/tools/websearch"
)

var (
	configPath string
	modelName  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Bilingual question answering assistant",
	Long: `An interactive assistant answering questions in Chinese and English.
Math questions go to a calculator backed agent, other questions may use web search
and a local document index. Every answer is rated by a judge agent.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVar(&modelName, "model", "", "Default model for every agent, overrides models.default")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error), overrides log.level")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath, config.WithModel(modelName), config.WithLogLevel(logLevel))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer log.Sync()

	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	clt := openai.NewClientWithConfig(clientCfg)

	runner := agents.NewRunner(agents.WithMaxTurns(cfg.Agents.MaxTurns), agents.WithLogger(log))

	index, err := newIndex(cfg, clt, runner, log)
	if err != nil {
		return err
	}
	defer index.Close()

	settings := assistant.Settings{
		Models: assistant.Models{
			Default: cfg.Models.Default,
			Safety:  cfg.Models.Safety,
			Math:    cfg.Models.Math,
			Refine:  cfg.Models.Refine,
			Main:    cfg.Models.Main,
			Rate:    cfg.Models.Rate,
		},
		OutputMode:  agents.OutputMode(cfg.Agents.OutputMode),
		Temperature: cfg.Agents.Temperature,
		MaxTokens:   cfg.Agents.MaxTokens,
	}
	roster := assistant.NewRoster(clt, runner, settings,
		websearch.New(newSearcher(cfg.Search), cfg.Search.MaxResults, tools.WithLogHooks(log)),
		ragquery.New(index, tools.WithLogHooks(log)),
	)
	log.Info("assistant started",
		zap.String("model", cfg.Models.Default),
		zap.String("search", cfg.Search.Provider),
		zap.String("rag_source", cfg.RAG.Source))

	session := assistant.NewSession(assistant.NewPipeline(runner, roster), cfg.User, os.Stdin, os.Stdout)
	return session.Run(ctx)
}

func newSearcher(cfg config.SearchConfig) websearch.Searcher {
	opts := []websearch.ProviderOption{
		websearch.WithAPIKey(cfg.APIKey),
		websearch.WithLanguage(cfg.Language),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, websearch.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Provider == "searxng" {
		return websearch.NewSearxNG(opts...)
	}
	return websearch.NewTavily(opts...)
}

func newIndex(cfg *config.Config, clt *openai.Client, runner *agents.Runner, log *zap.Logger) (*rag.Index, error) {
	opener, err := rag.OpenerFor(vectordb.EngineType(cfg.RAG.Engine), cfg.RAG.Compress)
	if err != nil {
		return nil, err
	}
	var counter splitter.TokenCounter = splitter.WordsTokenCounter{}
	if tke, err := splitter.NewTikTokenCounter("cl100k_base"); err != nil {
		log.Warn("tiktoken unavailable, counting words", zap.Error(err))
	} else {
		counter = tke
	}
	model := cfg.Models.RAG
	if model == "" {
		model = cfg.Models.Default
	}
	synthesizer := agents.NewAgent("DocumentReader", agents.WithClient(clt), agents.WithModel(model))
	return rag.NewIndex(synthesizer,
		openaiEmbedder.New(clt, embedder.WithModel(cfg.RAG.EmbeddingModel)),
		rag.WithSource(cfg.RAG.Source),
		rag.WithPersistDir(cfg.RAG.PersistDir),
		rag.WithCollection(cfg.RAG.Collection),
		rag.WithTopK(cfg.RAG.TopK),
		rag.WithChunker(splitter.NewSentences(
			splitter.WithChunkSize(cfg.RAG.ChunkSize),
			splitter.WithOverlap(cfg.RAG.ChunkOverlap),
			splitter.WithTokenCounter(counter),
		)),
		rag.WithEngineOpener(opener),
		rag.WithRunner(runner),
		rag.WithLogger(log),
	), nil
}

package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lingorag/lingorag/api/handlers"
	"github.com/lingorag/lingorag/assistant"
	"github.com/lingorag/lingorag/config"
	"github.com/lingorag/lingorag/internal/metrics"
	"github.com/lingorag/lingorag/internal/server"
	"github.com/lingorag/lingorag/llm"
	"github.com/lingorag/lingorag/memory"
	"github.com/lingorag/lingorag/retrieval"
	"github.com/lingorag/lingorag/websearch"
)

// Server 是 LingoRAG 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager *server.Manager
	registry    *prometheus.Registry
	collector   *metrics.Collector

	assistant     *assistant.Assistant
	memoryManager *memory.Manager
}

// NewServer 组装全部组件并创建服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	s.collector = metrics.NewCollector("lingorag", s.registry)

	// 本地知识库。加载失败不阻止启动，问答降级为纯网络检索。
	var selector *retrieval.Selector
	store, err := retrieval.LoadLexicalStore(cfg.Knowledge.Path, retrieval.DefaultBM25Config())
	if err != nil {
		logger.Warn("knowledge base not available, local retrieval disabled",
			zap.String("path", cfg.Knowledge.Path),
			zap.Error(err))
	} else {
		lexical := retrieval.NewBM25Index(retrieval.DefaultBM25Config())
		lexical.Index(store.Passages())

		selectorCfg := retrieval.DefaultSelectorConfig()
		if cfg.Retrieval.SimilarityK > 0 {
			selectorCfg.TopK = cfg.Retrieval.SimilarityK
		}
		if cfg.Retrieval.DiversityFetchK > 0 {
			selectorCfg.DiversityFetchK = cfg.Retrieval.DiversityFetchK
		}
		if cfg.Retrieval.HybridLexicalWeight > 0 {
			selectorCfg.HybridLexicalWeight = cfg.Retrieval.HybridLexicalWeight
		}
		selector = retrieval.NewSelector(store, lexical, selectorCfg, logger)
		logger.Info("knowledge base loaded",
			zap.String("path", cfg.Knowledge.Path),
			zap.Int("passages", len(store.Passages())))
	}

	// 网络搜索
	var web *websearch.Adapter
	if cfg.WebSearch.Enabled {
		adapterCfg := websearch.DefaultAdapterConfig()
		if cfg.WebSearch.MaxResultsPerEngine > 0 {
			adapterCfg.MaxResultsPerEngine = cfg.WebSearch.MaxResultsPerEngine
		}
		if cfg.WebSearch.EngineTimeout > 0 {
			adapterCfg.EngineTimeout = cfg.WebSearch.EngineTimeout
		}
		if cfg.WebSearch.PauseInterval > 0 {
			adapterCfg.PauseInterval = cfg.WebSearch.PauseInterval
		}
		engines := []websearch.Engine{
			websearch.NewDuckDuckGoEngine("", nil),
			websearch.NewWikipediaEngine("", "", nil),
		}
		web = websearch.NewAdapter(engines, adapterCfg, s.collector, logger)
	}

	// 对话记忆
	if cfg.Memory.Enabled {
		memCfg := memory.Config{
			MaxHistory:       cfg.Memory.MaxHistory,
			MaxContextLength: cfg.Memory.MaxContextLength,
			HistoryFile:      cfg.Memory.HistoryFile,
		}
		fileStore, err := memory.NewFileStore(memCfg.HistoryFile)
		if err != nil {
			logger.Warn("history file not usable, memory runs in-process only",
				zap.String("path", memCfg.HistoryFile),
				zap.Error(err))
			s.memoryManager = memory.NewManager(memCfg, nil, s.collector, logger)
		} else {
			s.memoryManager = memory.NewManager(memCfg, fileStore, s.collector, logger)
		}
	}

	// 生成模型
	generator := llm.NewOllamaClient(llm.OllamaConfig{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	tokens := assistant.NewTiktokenCounter(cfg.LLM.Encoding, logger)

	s.assistant = assistant.New(selector, web, s.memoryManager, generator, tokens, s.collector, logger)
	return s, nil
}

// Start 启动 HTTP 服务器（非阻塞）
func (s *Server) Start() error {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(Version)
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", healthHandler.HandleHealthz)

	chatHandler := handlers.NewChatHandler(s.assistant, s.logger)
	mux.HandleFunc("/api/v1/chat", chatHandler.HandleChat)

	if s.memoryManager != nil {
		memoryHandler := handlers.NewMemoryHandler(s.memoryManager, s.logger)
		mux.HandleFunc("/api/v1/memory/stats", memoryHandler.HandleStats)
		mux.HandleFunc("/api/v1/memory/export", memoryHandler.HandleExport)
		mux.HandleFunc("/api/v1/memory", memoryHandler.HandleClear)
	}

	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		RequestLogger(s.logger),
	)

	s.httpManager = server.NewManager(handler, server.Config{
		Addr:            s.cfg.Server.Addr,
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.String("addr", s.cfg.Server.Addr))
	return nil
}

// WaitForShutdown 等待关闭信号并优雅停机
func (s *Server) WaitForShutdown() {
	s.httpManager.WaitForShutdown()
}

// Shutdown 主动关闭（测试用）
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpManager.Shutdown(ctx)
}

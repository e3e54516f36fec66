package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/BaSui01/formflow/agent"
	"github.com/BaSui01/formflow/api/handlers"
	"github.com/BaSui01/formflow/config"
	"github.com/BaSui01/formflow/internal/cache"
	"github.com/BaSui01/formflow/internal/database"
	"github.com/BaSui01/formflow/internal/metrics"
	"github.com/BaSui01/formflow/internal/migration"
	"github.com/BaSui01/formflow/internal/server"
	"github.com/BaSui01/formflow/internal/store"
	"github.com/BaSui01/formflow/internal/telemetry"
	"github.com/BaSui01/formflow/llm"
	llmfactory "github.com/BaSui01/formflow/llm/factory"
	"github.com/BaSui01/formflow/llm/tokenizer"
	"github.com/BaSui01/formflow/workflow"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Server 组装 FormFlow 的全部组件并管理 API 与 metrics 两个 HTTP 服务
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	otel   *telemetry.Providers

	collector *metrics.Collector
	pool      *database.PoolManager
	cache     *cache.Manager
	repo      store.Repository
	router    *workflow.Router

	healthHandler *handlers.HealthHandler
	formHandler   *handlers.FormHandler

	httpManager    *server.Manager
	metricsManager *server.Manager

	rateLimiterCancel context.CancelFunc
}

// NewServer 创建服务器，Init 之前不打开任何连接
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		otel:   otelProviders,
	}
}

// =============================================================================
// 🚀 初始化
// =============================================================================

// Init 按依赖顺序初始化：指标 → 存储 → 模型与工作流 → handlers → HTTP
func (s *Server) Init(ctx context.Context) error {
	s.collector = metrics.NewCollector("formflow", s.logger)

	if err := s.initStore(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	if err := s.initWorkflow(); err != nil {
		return fmt.Errorf("init workflow: %w", err)
	}
	s.initHandlers()

	s.httpManager = server.NewManager("api", s.Handler(), server.FromServerConfig(s.cfg.Server, s.cfg.Server.HTTPPort), s.logger)
	s.metricsManager = server.NewManager("metrics", s.metricsHandler(), server.FromServerConfig(s.cfg.Server, s.cfg.Server.MetricsPort), s.logger)
	return nil
}

// initStore 打开数据库、按需迁移并可选挂上 Redis 表单缓存
func (s *Server) initStore(ctx context.Context) error {
	driver, dsn, err := s.cfg.Database.Dialect()
	if err != nil {
		return err
	}

	if s.cfg.Database.AutoMigrate {
		if err := s.migrate(ctx); err != nil {
			return err
		}
	}

	db, err := database.Open(driver, dsn, s.logger)
	if err != nil {
		return err
	}
	poolCfg := database.DefaultPoolConfig()
	if s.cfg.Database.MaxOpenConns > 0 {
		poolCfg.MaxOpenConns = s.cfg.Database.MaxOpenConns
	}
	if s.cfg.Database.MaxIdleConns > 0 {
		poolCfg.MaxIdleConns = min(s.cfg.Database.MaxIdleConns, poolCfg.MaxOpenConns)
	}
	if s.cfg.Database.ConnMaxLifetime > 0 {
		poolCfg.ConnMaxLifetime = s.cfg.Database.ConnMaxLifetime
	}
	s.pool, err = database.NewPoolManager(db, poolCfg, s.logger,
		database.WithName(driver),
		database.WithStatsRecorder(s.collector),
	)
	if err != nil {
		return err
	}

	var repo store.Repository = store.NewGormRepository(s.pool.DB(), s.logger, store.WithQueryRecorder(s.collector))
	if s.cfg.Redis.Enabled {
		cacheCfg := cache.DefaultConfig()
		cacheCfg.Addr = s.cfg.Redis.Addr
		cacheCfg.Password = s.cfg.Redis.Password
		cacheCfg.DB = s.cfg.Redis.DB
		cacheCfg.TLS = s.cfg.Redis.TLS
		if s.cfg.Redis.PoolSize > 0 {
			cacheCfg.PoolSize = s.cfg.Redis.PoolSize
		}
		if s.cfg.Redis.TTL > 0 {
			cacheCfg.DefaultTTL = s.cfg.Redis.TTL
		}
		s.cache, err = cache.NewManager(cacheCfg, s.logger)
		if err != nil {
			// 缓存是可选的，不可用时直接读库
			s.logger.Warn("redis unavailable, form cache disabled", zap.Error(err))
		} else {
			repo = store.NewCachedRepository(repo, s.cache, cacheCfg.DefaultTTL, s.collector, s.logger)
		}
	}
	s.repo = repo
	return nil
}

// migrate 在独立连接上执行全部待应用迁移
func (s *Server) migrate(ctx context.Context) error {
	m, err := migration.NewMigratorFromConfig(s.cfg.Database, s.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			s.logger.Warn("close migrator", zap.Error(cerr))
		}
	}()
	return m.Up(ctx)
}

// initWorkflow 构造模型客户端、四个 agent 与路由器
func (s *Server) initWorkflow() error {
	provider, err := llmfactory.NewProviderFromConfig(s.cfg.LLM.Provider, llmfactory.ProviderConfig{
		APIKey:       s.cfg.LLM.APIKey,
		BaseURL:      s.cfg.LLM.BaseURL,
		Model:        s.cfg.LLM.Model,
		Timeout:      s.cfg.LLM.Timeout,
		Organization: s.cfg.LLM.Organization,
	}, s.logger)
	if err != nil {
		return err
	}

	opts := []llm.ClientOption{
		llm.WithLogger(s.logger),
		llm.WithRecorder(s.collector),
		llm.WithMaxTokens(s.cfg.LLM.MaxTokens),
	}
	if s.cfg.LLM.TokenCounter {
		opts = append(opts, llm.WithTokenCounter(tokenizer.ForModel(s.cfg.LLM.Model)))
	}
	client := llm.NewClient(provider, s.cfg.LLM.Model, opts...)

	s.router = workflow.NewRouter(workflow.Agents{
		Schema:     agent.NewSchemaAgent(client, s.logger),
		Validation: agent.NewValidationAgent(client, s.logger),
		Recovery:   agent.NewRecoveryAgent(client, s.logger),
		Learning:   agent.NewLearningAgent(client, s.logger),
	}, workflow.WithLogger(s.logger), workflow.WithRecorder(s.collector))

	s.logger.Info("workflow initialized",
		zap.String("provider", provider.Name()),
		zap.String("model", s.cfg.LLM.Model),
	)
	return nil
}

func (s *Server) initHandlers() {
	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.RegisterCheck(handlers.NewPingCheck("database", s.pool.Ping))
	if s.cache != nil {
		s.healthHandler.RegisterCheck(handlers.NewPingCheck("redis", s.cache.Ping))
	}
	s.formHandler = handlers.NewFormHandler(s.router, s.repo, s.logger,
		handlers.WithValidationRecorder(s.collector))
}

// =============================================================================
// 🌐 路由
// =============================================================================

// Handler 返回带完整中间件链的 API handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /ready", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))
	s.formHandler.Register(mux)

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}
	rlCtx, cancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = cancel

	return Chain(mux,
		Recovery(s.logger),
		RequestID(),
		OTelTracing(),
		SecurityHeaders(),
		CORS(s.cfg.Server.CORSAllowedOrigins),
		RequestLogger(s.logger),
		MetricsMiddleware(s.collector),
		RateLimiter(rlCtx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst, s.logger),
		Timeout(s.cfg.Server.RequestTimeout),
	)
}

func (s *Server) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.collector.Handler())
	return mux
}

// =============================================================================
// 🛑 运行与关闭
// =============================================================================

// Run 并行运行 API 与 metrics 服务，直到 ctx 取消或任一服务失败
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.httpManager.Run(gctx) })
	g.Go(func() error { return s.metricsManager.Run(gctx) })

	s.logger.Info("FormFlow servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)
	return g.Wait()
}

// Close 释放限流器、缓存、连接池与遥测
func (s *Server) Close(ctx context.Context) error {
	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}
	var errs []error
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if s.pool != nil {
		if err := s.pool.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if err := s.otel.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

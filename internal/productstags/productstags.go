// Package productstags 提供服务器的主入口和初始化逻辑
package productstags

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimmicro/grace"
	"github.com/rs/zerolog"

	"github.com/jimyag/productstags/internal/productstags/api"
	"github.com/jimyag/productstags/internal/productstags/config"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/internal/productstags/service"
)

type Server struct {
	cfg  *config.Config
	repo *repository.Repository
	api  *api.API
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	// 1. 打开数据库并建表
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	// 2. 组装服务，生成器通过 setter 注入索引器打破构造环
	guard := &service.BulkGuard{}
	indexer := service.NewIndexerService(repo, guard)
	generator := service.NewGeneratorService(repo, indexer)
	indexer.SetGenerator(generator)

	siteCache := service.NewSiteCacheService(repo, guard)
	regenerator := service.NewRegeneratorService(repo, indexer, siteCache, guard)
	products := service.NewProductService(repo, indexer)
	manager := service.NewManagerService(repo)

	// 3. 安装期引导：标准标签字段和可选的种子数据
	ctx := logger.WithContext(context.Background())
	setup := service.NewSetupService(repo)
	if err := setup.EnsureTagsField(ctx); err != nil {
		return nil, fmt.Errorf("ensure tags field: %w", err)
	}
	if cfg.SeedFile != "" {
		if err := setup.SeedFromFile(ctx, cfg.SeedFile); err != nil {
			return nil, fmt.Errorf("seed from %s: %w", cfg.SeedFile, err)
		}
	}

	// 4. 创建 API
	gin.SetMode(cfg.GinMode)
	apiInstance, err := api.New(cfg.Address, products, manager, regenerator, generator)
	if err != nil {
		return nil, err
	}

	server := &Server{
		cfg:  cfg,
		repo: repo,
		api:  apiInstance,
	}
	return server, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	return s.repo.Close()
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "ProductsTags Server"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	// 如果有参数，使用 Msgf 格式化消息
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	// 如果有参数，使用 Msgf 格式化消息
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

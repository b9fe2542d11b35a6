package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/pkg/apierror"
)

// RegeneratorService 全量重建器
// 丢弃两张索引表的全部内容，从产品标签数据从头重建，定时任务和手动触发共用
type RegeneratorService struct {
	projectRepo repository.ProjectRepository
	productRepo repository.ProductRepository
	indexRepo   repository.IndexRepository
	indexer     *IndexerService
	siteCache   *SiteCacheService
	guard       *BulkGuard

	running atomic.Bool
}

// NewRegeneratorService 创建全量重建器
func NewRegeneratorService(
	repo *repository.Repository,
	indexer *IndexerService,
	siteCache *SiteCacheService,
	guard *BulkGuard,
) *RegeneratorService {
	return &RegeneratorService{
		projectRepo: repository.NewProjectRepository(repo.DB()),
		productRepo: repository.NewProductRepository(repo.DB()),
		indexRepo:   repository.NewIndexRepository(repo.DB()),
		indexer:     indexer,
		siteCache:   siteCache,
		guard:       guard,
	}
}

// Running 是否有一次重建正在进行
func (s *RegeneratorService) Running() bool {
	return s.running.Load()
}

// CreateCache 全量重建两张索引表并刷新站点标签缓存
// 幂等：连续两次运行产出相同的表内容
func (s *RegeneratorService) CreateCache(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return apierror.ErrBulkRunInProgress
	}
	defer s.running.Store(false)

	logger := zerolog.Ctx(ctx)
	start := time.Now()

	s.guard.LockBulk()
	defer s.guard.UnlockBulk()

	record, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return fmt.Errorf("get default project: %w", err)
	}
	project := projectModelToEntity(record)

	for _, lang := range project.Languages {
		if err := s.indexRepo.TruncateProductTags(ctx, lang); err != nil {
			return fmt.Errorf("truncate product tags for %s: %w", lang, err)
		}
		if err := s.indexRepo.TruncateTagProducts(ctx, lang); err != nil {
			return fmt.Errorf("truncate tag products for %s: %w", lang, err)
		}
	}

	productIDs, err := s.productRepo.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active products: %w", err)
	}

	// 全量阶段不触发生成器，也持续回写搜索缓存
	bulk := &entity.BulkContext{SuppressEvents: true}

	rebuilt := 0
	for _, productID := range productIDs {
		product, err := s.indexer.LoadProduct(ctx, productID)
		if err != nil {
			logger.Error().Err(err).
				Str("productID", productID).
				Msg("Failed to load product during bulk rebuild, skipping")
			continue
		}
		if err := s.indexer.ReconcileForBulk(ctx, product, bulk); err != nil {
			logger.Error().Err(err).
				Str("productID", productID).
				Msg("Failed to reconcile product during bulk rebuild, skipping")
			continue
		}
		rebuilt++
	}

	if err := s.siteCache.rebuildLocked(ctx, project); err != nil {
		return fmt.Errorf("rebuild site tag cache: %w", err)
	}

	logger.Info().
		Int("products", rebuilt).
		Int("total", len(productIDs)).
		Dur("elapsed", time.Since(start)).
		Msg("Bulk tag index rebuild finished")
	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/pkg/delimited"
)

// SiteCacheService 分类站点标签缓存
// 为每个站点把其分类下活跃产品携带的标签聚合为一行，站点页的标签过滤不再实时聚合
type SiteCacheService struct {
	projectRepo repository.ProjectRepository
	productRepo repository.ProductRepository
	siteRepo    repository.SiteRepository
	indexRepo   repository.IndexRepository
	guard       *BulkGuard
}

// NewSiteCacheService 创建站点标签缓存服务
func NewSiteCacheService(repo *repository.Repository, guard *BulkGuard) *SiteCacheService {
	return &SiteCacheService{
		projectRepo: repository.NewProjectRepository(repo.DB()),
		productRepo: repository.NewProductRepository(repo.DB()),
		siteRepo:    repository.NewSiteRepository(repo.DB()),
		indexRepo:   repository.NewIndexRepository(repo.DB()),
		guard:       guard,
	}
}

// Rebuild 重建默认项目所有语言的站点标签缓存
func (s *SiteCacheService) Rebuild(ctx context.Context) error {
	s.guard.LockBulk()
	defer s.guard.UnlockBulk()

	record, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return fmt.Errorf("get default project: %w", err)
	}
	return s.rebuildLocked(ctx, projectModelToEntity(record))
}

// rebuildLocked 调用方已持有全量阶段锁
// 单个站点失败：记日志并跳过，不中断整轮重建
func (s *SiteCacheService) rebuildLocked(ctx context.Context, project *entity.Project) error {
	logger := zerolog.Ctx(ctx)

	for _, lang := range project.Languages {
		if err := s.indexRepo.TruncateSiteTags(ctx, lang); err != nil {
			return fmt.Errorf("truncate site tags for %s: %w", lang, err)
		}

		sites, err := s.siteRepo.ListByLang(ctx, lang)
		if err != nil {
			return fmt.Errorf("list sites for %s: %w", lang, err)
		}

		// 同一轮内分类到产品列表的查询结果可复用
		categoryProducts := make(map[string][]string)

		for _, record := range sites {
			site := siteModelToEntity(record)

			tags, err := s.collectSiteTags(ctx, lang, site, categoryProducts)
			if err != nil {
				logger.Error().Err(err).
					Str("siteID", site.ID).
					Str("lang", lang).
					Msg("Failed to collect tags for site, skipping")
				continue
			}
			// 没有标签的站点不写行
			if len(tags) == 0 {
				continue
			}

			if err := s.indexRepo.UpsertSiteTags(ctx, lang, site.ID, tags); err != nil {
				logger.Error().Err(err).
					Str("siteID", site.ID).
					Str("lang", lang).
					Msg("Failed to write site tags row, skipping")
			}
		}
	}

	return nil
}

// collectSiteTags 聚合一个站点的去重标签列表
// 站点主分类加附加分类下的活跃产品，各自在 products_to_tags 里的标签取并集
func (s *SiteCacheService) collectSiteTags(
	ctx context.Context,
	lang string,
	site *entity.Site,
	categoryProducts map[string][]string,
) ([]string, error) {
	productIDs := delimited.NewSet()
	for _, categoryID := range site.CategoryIDs() {
		ids, ok := categoryProducts[categoryID]
		if !ok {
			var err error
			ids, err = s.productRepo.ListActiveIDsByCategory(ctx, categoryID)
			if err != nil {
				return nil, fmt.Errorf("list products for category %s: %w", categoryID, err)
			}
			categoryProducts[categoryID] = ids
		}
		productIDs.Add(ids...)
	}
	if productIDs.Len() == 0 {
		return nil, nil
	}

	rows, err := s.indexRepo.ListProductTags(ctx, lang, productIDs.Items())
	if err != nil {
		return nil, fmt.Errorf("list product tags: %w", err)
	}

	tags := delimited.NewSet()
	for _, row := range rows {
		tags.Add(delimited.Split(row.Tags)...)
	}
	return tags.Items(), nil
}

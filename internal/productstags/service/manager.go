package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/pkg/apierror"
	"github.com/jimyag/productstags/pkg/delimited"
)

// ManagerService 标签索引的查询门面
// 所有读取都走派生表和缓存行，不碰产品权威数据
type ManagerService struct {
	projectRepo  repository.ProjectRepository
	productRepo  repository.ProductRepository
	siteRepo     repository.SiteRepository
	tagRepo      repository.TagRepository
	tagGroupRepo repository.TagGroupRepository
	indexRepo    repository.IndexRepository
}

// NewManagerService 创建查询门面
func NewManagerService(repo *repository.Repository) *ManagerService {
	return &ManagerService{
		projectRepo:  repository.NewProjectRepository(repo.DB()),
		productRepo:  repository.NewProductRepository(repo.DB()),
		siteRepo:     repository.NewSiteRepository(repo.DB()),
		tagRepo:      repository.NewTagRepository(repo.DB()),
		tagGroupRepo: repository.NewTagGroupRepository(repo.DB()),
		indexRepo:    repository.NewIndexRepository(repo.DB()),
	}
}

// GetProductIDsFromTags 返回携带任一给定标签的产品 ID（并集，去重）
// limit 小于等于 0 表示不限
func (s *ManagerService) GetProductIDsFromTags(ctx context.Context, lang string, tags []string, limit int) ([]string, error) {
	if err := s.checkLanguage(ctx, lang); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return []string{}, nil
	}

	rows, err := s.indexRepo.GetTagProducts(ctx, lang, tags)
	if err != nil {
		return nil, fmt.Errorf("get tag products: %w", err)
	}

	ids := delimited.NewSet()
	for _, row := range rows {
		ids.Add(delimited.Split(row.ProductIDs)...)
	}

	result := ids.Items()
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetProductsFromTags 返回携带任一给定标签的产品实体
func (s *ManagerService) GetProductsFromTags(ctx context.Context, lang string, tags []string, limit int) ([]*entity.Product, error) {
	ids, err := s.GetProductIDsFromTags(ctx, lang, tags, limit)
	if err != nil {
		return nil, err
	}

	products := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		record, err := s.productRepo.Get(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 索引落后于产品删除，下一次全量重建会清掉
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get product %s: %w", id, err)
		}
		product, err := productModelToEntity(record)
		if err != nil {
			return nil, fmt.Errorf("decode product %s: %w", id, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// GetTagsFromProduct 返回产品在某语言下的标签
// limit 小于等于 0 表示不限
func (s *ManagerService) GetTagsFromProduct(ctx context.Context, lang, productID string, limit int) ([]string, error) {
	if err := s.checkLanguage(ctx, lang); err != nil {
		return nil, err
	}

	row, err := s.indexRepo.GetProductTags(ctx, lang, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product tags: %w", err)
	}

	tags := delimited.Split(row.Tags)
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

// GetTagsForSite 返回列表页缓存行里的标签
func (s *ManagerService) GetTagsForSite(ctx context.Context, lang, siteID string) ([]string, error) {
	if err := s.checkLanguage(ctx, lang); err != nil {
		return nil, err
	}

	if _, err := s.siteRepo.Get(ctx, siteID, lang); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrSiteNotFound
		}
		return nil, fmt.Errorf("get site %s: %w", siteID, err)
	}

	row, err := s.indexRepo.GetSiteTags(ctx, lang, siteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get site tags: %w", err)
	}
	return delimited.Split(row.Tags), nil
}

// GetTagGroupsForSite 返回挂在列表页上的标签组及其成员
func (s *ManagerService) GetTagGroupsForSite(ctx context.Context, lang, siteID string) ([]*entity.TagGroup, error) {
	if err := s.checkLanguage(ctx, lang); err != nil {
		return nil, err
	}

	record, err := s.siteRepo.Get(ctx, siteID, lang)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrSiteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get site %s: %w", siteID, err)
	}
	site := siteModelToEntity(record)

	groups := make([]*entity.TagGroup, 0, len(site.TagGroups))
	for _, groupID := range site.TagGroups {
		groupRecord, err := s.tagGroupRepo.Get(ctx, groupID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 组被删后页面上的引用可能残留，跳过
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get tag group %s: %w", groupID, err)
		}

		members, err := s.tagGroupRepo.GetTags(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("get tags of group %s: %w", groupID, err)
		}
		tags := make([]string, 0, len(members))
		for _, member := range members {
			tags = append(tags, member.Tag)
		}

		group, err := tagGroupModelToEntity(groupRecord, tags)
		if err != nil {
			return nil, fmt.Errorf("decode tag group %s: %w", groupID, err)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// ListTags 列出字典里某语言的全部标签
func (s *ManagerService) ListTags(ctx context.Context, lang string) ([]*entity.Tag, error) {
	if err := s.checkLanguage(ctx, lang); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("get default project: %w", err)
	}

	records, err := s.tagRepo.List(ctx, project.Name, lang)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	tags := make([]*entity.Tag, 0, len(records))
	for _, record := range records {
		tag, err := tagModelToEntity(record)
		if err != nil {
			return nil, fmt.Errorf("decode tag %s: %w", record.Tag, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// checkLanguage 校验语言在默认项目里已启用
func (s *ManagerService) checkLanguage(ctx context.Context, lang string) error {
	record, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return fmt.Errorf("get default project: %w", err)
	}
	if !projectModelToEntity(record).HasLanguage(lang) {
		return apierror.ErrLanguageNotEnabled
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/delimited"
)

// BulkGuard 全量重建与增量写入之间的互斥锁
// 全量重建持有写锁作为独占阶段，增量保存持有读锁，两者不会交错写同一批行
type BulkGuard struct {
	mu sync.RWMutex
}

// LockBulk 进入全量重建阶段
func (g *BulkGuard) LockBulk() {
	g.mu.Lock()
}

// UnlockBulk 退出全量重建阶段
func (g *BulkGuard) UnlockBulk() {
	g.mu.Unlock()
}

// LockIncremental 进入增量写入
func (g *BulkGuard) LockIncremental() {
	g.mu.RLock()
}

// UnlockIncremental 退出增量写入
func (g *BulkGuard) UnlockIncremental() {
	g.mu.RUnlock()
}

// TagGenerator 属性标签生成器的回调接口
// 索引器在产品保存后按需触发定向生成，接口避免两个服务互相引用
type TagGenerator interface {
	Generate(ctx context.Context, productIDs []string) error
}

// IndexerService 增量索引器
// 把 products_to_tags 和 tags_to_products 两张派生表调和到与产品标签数据完全一致
type IndexerService struct {
	projectRepo repository.ProjectRepository
	productRepo repository.ProductRepository
	tagRepo     repository.TagRepository
	indexRepo   repository.IndexRepository
	guard       *BulkGuard

	generator TagGenerator // 可选，SetGenerator 注入
}

// NewIndexerService 创建增量索引器
func NewIndexerService(
	repo *repository.Repository,
	guard *BulkGuard,
) *IndexerService {
	return &IndexerService{
		projectRepo: repository.NewProjectRepository(repo.DB()),
		productRepo: repository.NewProductRepository(repo.DB()),
		tagRepo:     repository.NewTagRepository(repo.DB()),
		indexRepo:   repository.NewIndexRepository(repo.DB()),
		guard:       guard,
	}
}

// SetGenerator 注入属性标签生成器
// 生成器自身保存产品时会再次进入索引器，通过接口注入避免构造环
func (s *IndexerService) SetGenerator(generator TagGenerator) {
	s.generator = generator
}

// OnProductSave 产品保存钩子
// 调和两张索引表，随后按需对该产品触发一次定向属性标签生成
func (s *IndexerService) OnProductSave(
	ctx context.Context,
	product *entity.Product,
	generateAttributeListTags bool,
	bulk *entity.BulkContext,
) error {
	if bulk == nil {
		bulk = entity.DefaultBulkContext()
	}

	s.guard.LockIncremental()
	err := s.reconcile(ctx, product, bulk)
	s.guard.UnlockIncremental()
	if err != nil {
		return err
	}

	if generateAttributeListTags && !bulk.SuppressEvents && s.generator != nil {
		if err := s.generator.Generate(ctx, []string{product.ID}); err != nil {
			return fmt.Errorf("generate attribute tags for product %s: %w", product.ID, err)
		}
	}

	return nil
}

// ReconcileForBulk 全量重建期间的逐产品调和
// 调用方已经持有全量阶段锁，这里不再抢增量锁
func (s *IndexerService) ReconcileForBulk(ctx context.Context, product *entity.Product, bulk *entity.BulkContext) error {
	return s.reconcile(ctx, product, bulk)
}

// reconcile 对默认项目的每个语言执行一次调和
// 单步持久化失败：记日志并跳过，等下一次全量重建自愈
func (s *IndexerService) reconcile(ctx context.Context, product *entity.Product, bulk *entity.BulkContext) error {
	logger := zerolog.Ctx(ctx)

	project, err := s.defaultProject(ctx)
	if err != nil {
		return err
	}

	for _, lang := range project.Languages {
		currentTags := product.TagSet.Tags(lang)

		s.syncProductTags(ctx, logger, lang, product, currentTags, bulk)
		s.syncTagProducts(ctx, logger, lang, product.ID, currentTags)
	}

	return nil
}

// syncProductTags 调和 products_to_tags 行和产品搜索缓存列
func (s *IndexerService) syncProductTags(
	ctx context.Context,
	logger *zerolog.Logger,
	lang string,
	product *entity.Product,
	currentTags []string,
	bulk *entity.BulkContext,
) {
	_, err := s.indexRepo.GetProductTags(ctx, lang, product.ID)
	exists := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error().Err(err).
			Str("productID", product.ID).
			Str("lang", lang).
			Msg("Failed to read product tags row, skipping language")
		return
	}

	switch {
	case len(currentTags) == 0 && exists:
		// 产品之前有标签现在没有：删行，不留空行
		if err := s.indexRepo.DeleteProductTags(ctx, lang, product.ID); err != nil {
			logger.Error().Err(err).
				Str("productID", product.ID).
				Str("lang", lang).
				Msg("Failed to delete product tags row")
		}
	case len(currentTags) == 0:
		// 之前没有现在也没有：什么都不做
	default:
		if err := s.indexRepo.UpsertProductTags(ctx, lang, product.ID, currentTags); err != nil {
			logger.Error().Err(err).
				Str("productID", product.ID).
				Str("lang", lang).
				Msg("Failed to upsert product tags row")
		}
	}

	if bulk.SuppressSearchCache {
		return
	}

	// 无条件回写产品搜索缓存列，店面搜索过滤不用再 JOIN 索引表
	if err := s.productRepo.UpsertSearchCache(ctx, &model.ProductSearchCache{
		ID:     product.ID,
		Lang:   lang,
		Tags:   delimited.Join(currentTags),
		Titles: delimited.Join(s.tagTitles(ctx, lang, currentTags)),
	}); err != nil {
		logger.Error().Err(err).
			Str("productID", product.ID).
			Str("lang", lang).
			Msg("Failed to update product search cache")
	}
}

// syncTagProducts 调和 tags_to_products 侧
func (s *IndexerService) syncTagProducts(
	ctx context.Context,
	logger *zerolog.Logger,
	lang string,
	productID string,
	currentTags []string,
) {
	// 找出当前数据库里把该产品记为成员的所有标签行
	rows, err := s.indexRepo.FindTagsWithProduct(ctx, lang, productID)
	if err != nil {
		logger.Error().Err(err).
			Str("productID", productID).
			Str("lang", lang).
			Msg("Failed to find tags with product, skipping language")
		return
	}

	tagsWithProduct := delimited.NewSet()
	tagProductIDs := make(map[string]*delimited.Set, len(rows))
	for _, row := range rows {
		tagsWithProduct.Add(row.Tag)
		tagProductIDs[row.Tag] = delimited.DecodeSet(row.ProductIDs)
	}

	current := delimited.NewSet(currentTags...)

	// 之前有、现在没有的标签：把产品从行里移除，移空则删行
	deleteRows := []string{}
	for _, tag := range tagsWithProduct.Diff(current) {
		ids := tagProductIDs[tag]
		ids.Remove(productID)

		if ids.Len() == 0 {
			deleteRows = append(deleteRows, tag)
			continue
		}
		if err := s.indexRepo.UpsertTagProducts(ctx, lang, tag, ids.Items()); err != nil {
			logger.Error().Err(err).
				Str("tag", tag).
				Str("lang", lang).
				Msg("Failed to remove product from tag row")
		}
	}
	if len(deleteRows) > 0 {
		if err := s.indexRepo.DeleteTagProducts(ctx, lang, deleteRows); err != nil {
			logger.Error().Err(err).
				Strs("tags", deleteRows).
				Str("lang", lang).
				Msg("Failed to delete empty tag rows")
		}
	}

	// 新增的标签：已有行（其他产品携带）就追加，否则插入只含该产品的新行
	newTags := current.Diff(tagsWithProduct)
	if len(newTags) == 0 {
		return
	}

	otherRows, err := s.indexRepo.GetTagProducts(ctx, lang, newTags)
	if err != nil {
		logger.Error().Err(err).
			Str("lang", lang).
			Msg("Failed to read existing tag rows, skipping new tags")
		return
	}

	existing := make(map[string]*delimited.Set, len(otherRows))
	for _, row := range otherRows {
		existing[row.Tag] = delimited.DecodeSet(row.ProductIDs)
	}

	for _, tag := range newTags {
		ids, ok := existing[tag]
		if !ok {
			ids = delimited.NewSet()
		}
		ids.Add(productID)

		if err := s.indexRepo.UpsertTagProducts(ctx, lang, tag, ids.Items()); err != nil {
			logger.Error().Err(err).
				Str("tag", tag).
				Str("lang", lang).
				Msg("Failed to add product to tag row")
		}
	}
}

// tagTitles 把标签名解析为标题，用于搜索缓存
// 字典里查不到的标签沿用标签名
func (s *IndexerService) tagTitles(ctx context.Context, lang string, tags []string) []string {
	project, err := s.defaultProject(ctx)
	if err != nil {
		return tags
	}

	titles := make([]string, 0, len(tags))
	for _, tag := range tags {
		record, err := s.tagRepo.Get(ctx, project.Name, lang, tag)
		if err != nil {
			titles = append(titles, tag)
			continue
		}
		titles = append(titles, record.Title)
	}
	return titles
}

// defaultProject 读出默认项目及其语言列表
func (s *IndexerService) defaultProject(ctx context.Context) (*entity.Project, error) {
	record, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("get default project: %w", err)
	}
	return projectModelToEntity(record), nil
}

// LoadProduct 读取产品并转换为实体
func (s *IndexerService) LoadProduct(ctx context.Context, productID string) (*entity.Product, error) {
	record, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return productModelToEntity(record)
}

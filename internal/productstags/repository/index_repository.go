package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/delimited"
)

// IndexRepository 派生索引表仓库接口
// 三张表的行只由索引器、全量重建和列表页缓存写入
type IndexRepository interface {
	// products_to_tags
	GetProductTags(ctx context.Context, lang, productID string) (*model.ProductTags, error)
	UpsertProductTags(ctx context.Context, lang, productID string, tags []string) error
	DeleteProductTags(ctx context.Context, lang, productID string) error
	TruncateProductTags(ctx context.Context, lang string) error
	ListProductTags(ctx context.Context, lang string, productIDs []string) ([]*model.ProductTags, error)

	// tags_to_products
	GetTagProducts(ctx context.Context, lang string, tags []string) ([]*model.TagProducts, error)
	// FindTagsWithProduct 获取产品列表中包含某产品的所有行
	FindTagsWithProduct(ctx context.Context, lang, productID string) ([]*model.TagProducts, error)
	UpsertTagProducts(ctx context.Context, lang, tag string, productIDs []string) error
	DeleteTagProducts(ctx context.Context, lang string, tags []string) error
	TruncateTagProducts(ctx context.Context, lang string) error

	// site_tags
	GetSiteTags(ctx context.Context, lang, siteID string) (*model.SiteTags, error)
	UpsertSiteTags(ctx context.Context, lang, siteID string, tags []string) error
	TruncateSiteTags(ctx context.Context, lang string) error
}

type indexRepository struct {
	db *gorm.DB
}

// NewIndexRepository 创建索引表仓库
func NewIndexRepository(db *gorm.DB) IndexRepository {
	return &indexRepository{db: db}
}

// GetProductTags 获取产品的标签索引行
func (r *indexRepository) GetProductTags(ctx context.Context, lang, productID string) (*model.ProductTags, error) {
	var row model.ProductTags
	if err := r.db.WithContext(ctx).
		Where("lang = ? AND product_id = ?", lang, productID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertProductTags 写入产品的标签索引行
func (r *indexRepository) UpsertProductTags(ctx context.Context, lang, productID string, tags []string) error {
	row := &model.ProductTags{
		Lang:      lang,
		ProductID: productID,
		Tags:      delimited.Join(tags),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lang"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tags"}),
		}).
		Create(row).Error
}

// DeleteProductTags 删除产品的标签索引行
func (r *indexRepository) DeleteProductTags(ctx context.Context, lang, productID string) error {
	return r.db.WithContext(ctx).
		Where("lang = ? AND product_id = ?", lang, productID).
		Delete(&model.ProductTags{}).Error
}

// TruncateProductTags 清空某语言的产品标签索引
func (r *indexRepository) TruncateProductTags(ctx context.Context, lang string) error {
	return r.db.WithContext(ctx).
		Where("lang = ?", lang).
		Delete(&model.ProductTags{}).Error
}

// ListProductTags 批量获取多个产品的标签索引行
func (r *indexRepository) ListProductTags(ctx context.Context, lang string, productIDs []string) ([]*model.ProductTags, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var rows []*model.ProductTags
	if err := r.db.WithContext(ctx).
		Where("lang = ? AND product_id IN ?", lang, productIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTagProducts 获取多个标签的产品索引行
func (r *indexRepository) GetTagProducts(ctx context.Context, lang string, tags []string) ([]*model.TagProducts, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	var rows []*model.TagProducts
	if err := r.db.WithContext(ctx).
		Where("lang = ? AND tag IN ?", lang, tags).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindTagsWithProduct 获取产品列表中包含某产品的所有行
func (r *indexRepository) FindTagsWithProduct(ctx context.Context, lang, productID string) ([]*model.TagProducts, error) {
	var rows []*model.TagProducts
	if err := r.db.WithContext(ctx).
		Where("lang = ? AND product_ids LIKE ?", lang, delimited.Pattern(productID)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertTagProducts 写入标签的产品索引行
func (r *indexRepository) UpsertTagProducts(ctx context.Context, lang, tag string, productIDs []string) error {
	row := &model.TagProducts{
		Lang:       lang,
		Tag:        tag,
		ProductIDs: delimited.Join(productIDs),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lang"}, {Name: "tag"}},
			DoUpdates: clause.AssignmentColumns([]string{"product_ids"}),
		}).
		Create(row).Error
}

// DeleteTagProducts 删除多个标签的产品索引行
func (r *indexRepository) DeleteTagProducts(ctx context.Context, lang string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("lang = ? AND tag IN ?", lang, tags).
		Delete(&model.TagProducts{}).Error
}

// TruncateTagProducts 清空某语言的标签产品索引
func (r *indexRepository) TruncateTagProducts(ctx context.Context, lang string) error {
	return r.db.WithContext(ctx).
		Where("lang = ?", lang).
		Delete(&model.TagProducts{}).Error
}

// GetSiteTags 获取列表页的标签缓存行
func (r *indexRepository) GetSiteTags(ctx context.Context, lang, siteID string) (*model.SiteTags, error) {
	var row model.SiteTags
	if err := r.db.WithContext(ctx).
		Where("lang = ? AND site_id = ?", lang, siteID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpsertSiteTags 写入列表页的标签缓存行
func (r *indexRepository) UpsertSiteTags(ctx context.Context, lang, siteID string, tags []string) error {
	row := &model.SiteTags{
		Lang:   lang,
		SiteID: siteID,
		Tags:   delimited.Join(tags),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lang"}, {Name: "site_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tags"}),
		}).
		Create(row).Error
}

// TruncateSiteTags 清空某语言的列表页标签缓存
func (r *indexRepository) TruncateSiteTags(ctx context.Context, lang string) error {
	return r.db.WithContext(ctx).
		Where("lang = ?", lang).
		Delete(&model.SiteTags{}).Error
}

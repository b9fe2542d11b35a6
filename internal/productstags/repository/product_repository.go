package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// ProductRepository 产品仓库接口（产品存储的薄封装）
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Get(ctx context.Context, id string) (*model.Product, error)
	Save(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	ListActiveIDs(ctx context.Context) ([]string, error)
	ListActiveIDsByCategory(ctx context.Context, categoryID string) ([]string, error)
	ListActiveIDsWithoutValues(ctx context.Context) ([]string, error)
	UpsertSearchCache(ctx context.Context, cache *model.ProductSearchCache) error
	GetSearchCache(ctx context.Context, id, lang string) (*model.ProductSearchCache, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建产品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create 创建产品
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Get 根据 ID 获取产品
func (r *productRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Save 保存产品
func (r *productRepository) Save(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete 删除产品
func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Product{}).Error
}

// ListActiveIDs 获取所有激活产品的 ID
func (r *productRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("active = ?", true).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListActiveIDsByCategory 获取某分类下所有激活产品的 ID
func (r *productRepository) ListActiveIDsByCategory(ctx context.Context, categoryID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("active = ? AND categories LIKE ?", true, "%,"+categoryID+",%").
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListActiveIDsWithoutValues 获取没有任何属性字段值的激活产品 ID
// 清理任务用它找出可能还挂着过期生成标签的产品
func (r *productRepository) ListActiveIDsWithoutValues(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("active = ? AND (field_values IS NULL OR field_values = '' OR field_values = '{}')", true).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpsertSearchCache 写入产品搜索缓存行
func (r *productRepository) UpsertSearchCache(ctx context.Context, cache *model.ProductSearchCache) error {
	cache.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}, {Name: "lang"}},
			DoUpdates: clause.AssignmentColumns([]string{"tags", "titles", "updated_at"}),
		}).
		Create(cache).Error
}

// GetSearchCache 读取产品搜索缓存行
func (r *productRepository) GetSearchCache(ctx context.Context, id, lang string) (*model.ProductSearchCache, error) {
	var cache model.ProductSearchCache
	if err := r.db.WithContext(ctx).
		Where("id = ? AND lang = ?", id, lang).
		First(&cache).Error; err != nil {
		return nil, err
	}
	return &cache, nil
}

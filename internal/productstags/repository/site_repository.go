package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// SiteRepository 分类列表页仓库接口
type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	Get(ctx context.Context, id, lang string) (*model.Site, error)
	Save(ctx context.Context, site *model.Site) error
	ListByLang(ctx context.Context, lang string) ([]*model.Site, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*model.Site, error)
}

// CategoryRepository 产品分类仓库接口
type CategoryRepository interface {
	Upsert(ctx context.Context, category *model.Category) error
	Get(ctx context.Context, id string) (*model.Category, error)
	ListWithField(ctx context.Context, fieldID string) ([]*model.Category, error)
}

type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository 创建列表页仓库
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

// Create 创建列表页
func (r *siteRepository) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

// Get 根据 ID 和语言获取列表页
func (r *siteRepository) Get(ctx context.Context, id, lang string) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).
		Where("id = ? AND lang = ?", id, lang).
		First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// Save 保存列表页
func (r *siteRepository) Save(ctx context.Context, site *model.Site) error {
	site.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(site).Error
}

// ListByLang 获取某语言的所有列表页
func (r *siteRepository) ListByLang(ctx context.Context, lang string) ([]*model.Site, error) {
	var sites []*model.Site
	if err := r.db.WithContext(ctx).
		Where("lang = ?", lang).
		Order("id").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

// ListByCategory 获取关联某分类的所有列表页（主分类或额外分类）
func (r *siteRepository) ListByCategory(ctx context.Context, categoryID string) ([]*model.Site, error) {
	var sites []*model.Site
	if err := r.db.WithContext(ctx).
		Where("category_id = ? OR extra_categories LIKE ?", categoryID, "%,"+categoryID+",%").
		Order("id").
		Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Upsert 创建或更新分类
func (r *categoryRepository) Upsert(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(category).Error
}

// Get 根据 ID 获取分类
func (r *categoryRepository) Get(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListWithField 获取挂载了某字段的所有分类
func (r *categoryRepository) ListWithField(ctx context.Context, fieldID string) ([]*model.Category, error) {
	var categories []*model.Category
	if err := r.db.WithContext(ctx).
		Where("fields LIKE ?", "%,"+fieldID+",%").
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// TagRepository 标签字典仓库接口
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Get(ctx context.Context, project, lang, name string) (*model.Tag, error)
	GetByTitle(ctx context.Context, project, lang, title string) (*model.Tag, error)
	Exists(ctx context.Context, project, lang, name string) (bool, error)
	List(ctx context.Context, project, lang string) ([]*model.Tag, error)
	Delete(ctx context.Context, project, lang, name string) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签字典仓库
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// Create 创建标签
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// Get 根据内部标签名获取标签
func (r *tagRepository) Get(ctx context.Context, project, lang, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).
		Where("project = ? AND lang = ? AND tag = ?", project, lang, name).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetByTitle 根据标题获取标签
// 标题在语言内唯一，生成器用它避免重复创建标签
func (r *tagRepository) GetByTitle(ctx context.Context, project, lang, title string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).
		Where("project = ? AND lang = ? AND title = ?", project, lang, title).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Exists 判断标签是否存在
func (r *tagRepository) Exists(ctx context.Context, project, lang, name string) (bool, error) {
	_, err := r.Get(ctx, project, lang, name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// List 获取某项目、某语言的所有标签
func (r *tagRepository) List(ctx context.Context, project, lang string) ([]*model.Tag, error) {
	var tags []*model.Tag
	if err := r.db.WithContext(ctx).
		Where("project = ? AND lang = ?", project, lang).
		Order("tag").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Delete 删除标签
func (r *tagRepository) Delete(ctx context.Context, project, lang, name string) error {
	return r.db.WithContext(ctx).
		Where("project = ? AND lang = ? AND tag = ?", project, lang, name).
		Delete(&model.Tag{}).Error
}

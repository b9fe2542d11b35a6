package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// FieldRepository 属性字段配置仓库接口
type FieldRepository interface {
	Create(ctx context.Context, field *model.Field) error
	Get(ctx context.Context, id string) (*model.Field, error)
	Save(ctx context.Context, field *model.Field) error
	Delete(ctx context.Context, id string) error
	ListByType(ctx context.Context, types ...string) ([]*model.Field, error)
	ListEditedSince(ctx context.Context, since time.Time, types ...string) ([]*model.Field, error)
}

type fieldRepository struct {
	db *gorm.DB
}

// NewFieldRepository 创建字段仓库
func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

// Create 创建字段
func (r *fieldRepository) Create(ctx context.Context, field *model.Field) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// Get 根据 ID 获取字段
func (r *fieldRepository) Get(ctx context.Context, id string) (*model.Field, error) {
	var field model.Field
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// Save 保存字段
func (r *fieldRepository) Save(ctx context.Context, field *model.Field) error {
	field.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(field).Error
}

// Delete 删除字段
func (r *fieldRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Field{}).Error
}

// ListByType 按类型获取字段
func (r *fieldRepository) ListByType(ctx context.Context, types ...string) ([]*model.Field, error) {
	var fields []*model.Field
	if err := r.db.WithContext(ctx).
		Where("type IN ?", types).
		Order("id").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// ListEditedSince 按类型获取某时间之后编辑过的字段（生成器增量模式）
func (r *fieldRepository) ListEditedSince(ctx context.Context, since time.Time, types ...string) ([]*model.Field, error) {
	var fields []*model.Field
	if err := r.db.WithContext(ctx).
		Where("type IN ? AND updated_at > ?", types, since).
		Order("id").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

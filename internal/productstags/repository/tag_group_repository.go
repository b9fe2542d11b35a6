package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// TagGroupRepository 标签组仓库接口
type TagGroupRepository interface {
	Create(ctx context.Context, group *model.TagGroup) error
	Get(ctx context.Context, id string) (*model.TagGroup, error)
	// Lookup 按 (项目, 语言, 标题, 工作标题, 生成器) 查找标签组
	Lookup(ctx context.Context, project, lang, title, workingTitle, generator string) (*model.TagGroup, error)
	ListByGenerator(ctx context.Context, generator string) ([]*model.TagGroup, error)
	Delete(ctx context.Context, id string) error

	AddTags(ctx context.Context, groupID string, tags []string, generator string) error
	RemoveTagsByGenerator(ctx context.Context, groupID, generator string) error
	GetTags(ctx context.Context, groupID string) ([]*model.TagGroupTag, error)
	// HasForeignTags 判断组内是否有其他来源创建的成员
	HasForeignTags(ctx context.Context, groupID, generator string) (bool, error)
}

type tagGroupRepository struct {
	db *gorm.DB
}

// NewTagGroupRepository 创建标签组仓库
func NewTagGroupRepository(db *gorm.DB) TagGroupRepository {
	return &tagGroupRepository{db: db}
}

// Create 创建标签组
func (r *tagGroupRepository) Create(ctx context.Context, group *model.TagGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Get 根据 ID 获取标签组
func (r *tagGroupRepository) Get(ctx context.Context, id string) (*model.TagGroup, error) {
	var group model.TagGroup
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// Lookup 按 (项目, 语言, 标题, 工作标题, 生成器) 查找标签组
func (r *tagGroupRepository) Lookup(ctx context.Context, project, lang, title, workingTitle, generator string) (*model.TagGroup, error) {
	var group model.TagGroup
	if err := r.db.WithContext(ctx).
		Where("project = ? AND lang = ? AND title = ? AND working_title = ? AND generator = ?",
			project, lang, title, workingTitle, generator).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// ListByGenerator 获取某生成器创建的所有标签组
func (r *tagGroupRepository) ListByGenerator(ctx context.Context, generator string) ([]*model.TagGroup, error) {
	var groups []*model.TagGroup
	if err := r.db.WithContext(ctx).
		Where("generator = ?", generator).
		Order("id").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete 删除标签组及其成员记录
func (r *tagGroupRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&model.TagGroupTag{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.TagGroup{}).Error
	})
}

// AddTags 向标签组添加成员
// 同一 (标签, 来源) 已存在时忽略
func (r *tagGroupRepository) AddTags(ctx context.Context, groupID string, tags []string, generator string) error {
	if len(tags) == 0 {
		return nil
	}

	rows := make([]model.TagGroupTag, 0, len(tags))
	now := time.Now()
	for _, tag := range tags {
		rows = append(rows, model.TagGroupTag{
			GroupID:   groupID,
			Tag:       tag,
			Generator: generator,
			CreatedAt: now,
		})
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return err
	}

	return r.touch(ctx, groupID)
}

// RemoveTagsByGenerator 移除组内某来源创建的所有成员
func (r *tagGroupRepository) RemoveTagsByGenerator(ctx context.Context, groupID, generator string) error {
	if err := r.db.WithContext(ctx).
		Where("group_id = ? AND generator = ?", groupID, generator).
		Delete(&model.TagGroupTag{}).Error; err != nil {
		return err
	}
	return r.touch(ctx, groupID)
}

// GetTags 获取组内所有成员记录
func (r *tagGroupRepository) GetTags(ctx context.Context, groupID string) ([]*model.TagGroupTag, error) {
	var tags []*model.TagGroupTag
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// HasForeignTags 判断组内是否有其他来源创建的成员
func (r *tagGroupRepository) HasForeignTags(ctx context.Context, groupID, generator string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.TagGroupTag{}).
		Where("group_id = ? AND generator != ?", groupID, generator).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// touch 更新组的修改时间
func (r *tagGroupRepository) touch(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).
		Model(&model.TagGroup{}).
		Where("id = ?", groupID).
		Update("updated_at", time.Now()).Error
}

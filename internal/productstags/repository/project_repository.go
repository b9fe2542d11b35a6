package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// ProjectRepository 项目仓库接口（本地化注册表）
type ProjectRepository interface {
	Upsert(ctx context.Context, project *model.Project) error
	Get(ctx context.Context, name string) (*model.Project, error)
	GetDefault(ctx context.Context) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository 创建项目仓库
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Upsert 创建或更新项目
func (r *projectRepository) Upsert(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_default", "languages", "updated_at"}),
		}).
		Create(project).Error
}

// Get 根据名称获取项目
func (r *projectRepository) Get(ctx context.Context, name string) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// GetDefault 获取默认项目
func (r *projectRepository) GetDefault(ctx context.Context) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List 获取所有项目
func (r *projectRepository) List(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	if err := r.db.WithContext(ctx).
		Order("name").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/delimited"
)

// SetupService 安装期引导
// 保证标准标签字段存在，并支持从 YAML 文档导入项目、分类、列表页和字段配置
type SetupService struct {
	projectRepo  repository.ProjectRepository
	fieldRepo    repository.FieldRepository
	categoryRepo repository.CategoryRepository
	siteRepo     repository.SiteRepository
}

// NewSetupService 创建引导服务
func NewSetupService(repo *repository.Repository) *SetupService {
	return &SetupService{
		projectRepo:  repository.NewProjectRepository(repo.DB()),
		fieldRepo:    repository.NewFieldRepository(repo.DB()),
		categoryRepo: repository.NewCategoryRepository(repo.DB()),
		siteRepo:     repository.NewSiteRepository(repo.DB()),
	}
}

// EnsureTagsField 保证固定 ID 的标准标签字段存在
// 已存在但类型漂移时改回标准类型，重复执行安全
func (s *SetupService) EnsureTagsField(ctx context.Context) error {
	existing, err := s.fieldRepo.Get(ctx, entity.TagsFieldID)
	if err == nil {
		if existing.Type == entity.FieldTypeTags {
			return nil
		}
		existing.Type = entity.FieldTypeTags
		if err := s.fieldRepo.Save(ctx, existing); err != nil {
			return fmt.Errorf("update tags field: %w", err)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("get tags field: %w", err)
	}

	field := &entity.Field{
		ID:   entity.TagsFieldID,
		Type: entity.FieldTypeTags,
		Titles: map[string]string{
			"en": "Tags",
			"de": "Tags",
		},
	}
	record, err := fieldEntityToModel(field)
	if err != nil {
		return fmt.Errorf("encode tags field: %w", err)
	}
	if err := s.fieldRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("create tags field: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("fieldID", entity.TagsFieldID).
		Msg("Created standard tags field")
	return nil
}

// SeedDocument 种子文档
type SeedDocument struct {
	Projects []struct {
		Name      string   `yaml:"name"`
		Default   bool     `yaml:"default"`
		Languages []string `yaml:"languages"`
	} `yaml:"projects"`
	Categories []struct {
		ID     string   `yaml:"id"`
		Fields []string `yaml:"fields"`
	} `yaml:"categories"`
	Sites []struct {
		ID              string   `yaml:"id"`
		Lang            string   `yaml:"lang"`
		CategoryID      string   `yaml:"categoryId"`
		ExtraCategories []string `yaml:"extraCategories"`
	} `yaml:"sites"`
	Fields []struct {
		ID      string            `yaml:"id"`
		Type    string            `yaml:"type"`
		Titles  map[string]string `yaml:"titles"`
		Options struct {
			GenerateTags bool `yaml:"generateTags"`
			SearchFilter bool `yaml:"searchFilter"`
			Entries      []struct {
				Value  string            `yaml:"value"`
				Titles map[string]string `yaml:"titles"`
				Image  string            `yaml:"image"`
			} `yaml:"entries"`
		} `yaml:"options"`
	} `yaml:"fields"`
}

// SeedFromFile 从 YAML 文件导入基础数据
func (s *SetupService) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	return s.Seed(ctx, data)
}

// Seed 导入一份种子文档
// 项目和分类按主键覆盖，列表页和字段只在首次导入时创建
func (s *SetupService) Seed(ctx context.Context, data []byte) error {
	logger := zerolog.Ctx(ctx)

	var doc SeedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode seed document: %w", err)
	}

	for _, p := range doc.Projects {
		if err := s.projectRepo.Upsert(ctx, &model.Project{
			Name:      p.Name,
			IsDefault: p.Default,
			Languages: delimited.Join(p.Languages),
		}); err != nil {
			return fmt.Errorf("seed project %s: %w", p.Name, err)
		}
	}

	for _, c := range doc.Categories {
		if err := s.categoryRepo.Upsert(ctx, &model.Category{
			ID:     c.ID,
			Fields: delimited.Join(c.Fields),
		}); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}

	for _, site := range doc.Sites {
		record := siteEntityToModel(&entity.Site{
			ID:              site.ID,
			Lang:            site.Lang,
			CategoryID:      site.CategoryID,
			ExtraCategories: site.ExtraCategories,
		})
		if err := s.siteRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("seed site %s/%s: %w", site.ID, site.Lang, err)
		}
	}

	for _, f := range doc.Fields {
		entries := make([]entity.FieldEntry, 0, len(f.Options.Entries))
		for _, entry := range f.Options.Entries {
			entries = append(entries, entity.FieldEntry{
				Value:  entry.Value,
				Titles: entry.Titles,
				Image:  entry.Image,
			})
		}
		field := &entity.Field{
			ID:     f.ID,
			Type:   f.Type,
			Titles: f.Titles,
			Options: entity.FieldOptions{
				GenerateTags: f.Options.GenerateTags,
				SearchFilter: f.Options.SearchFilter,
				Entries:      entries,
			},
		}
		if err := field.Validate(); err != nil {
			return fmt.Errorf("seed field %s: %w", f.ID, err)
		}
		record, err := fieldEntityToModel(field)
		if err != nil {
			return fmt.Errorf("encode field %s: %w", f.ID, err)
		}
		if err := s.fieldRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("seed field %s: %w", f.ID, err)
		}
	}

	logger.Info().
		Int("projects", len(doc.Projects)).
		Int("categories", len(doc.Categories)).
		Int("sites", len(doc.Sites)).
		Int("fields", len(doc.Fields)).
		Msg("Seed document imported")
	return nil
}

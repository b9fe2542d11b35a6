package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/delimited"
)

const testProject = "shop"

// testEnv 一套完整接线的服务，背后是临时 SQLite 库
type testEnv struct {
	repo        *repository.Repository
	indexer     *IndexerService
	generator   *GeneratorService
	siteCache   *SiteCacheService
	regenerator *RegeneratorService
	products    *ProductService
	manager     *ManagerService
	setup       *SetupService

	indexRepo    repository.IndexRepository
	productRepo  repository.ProductRepository
	fieldRepo    repository.FieldRepository
	tagRepo      repository.TagRepository
	tagGroupRepo repository.TagGroupRepository
	siteRepo     repository.SiteRepository
	categoryRepo repository.CategoryRepository
}

func setupTestEnv(t *testing.T) (*testEnv, context.Context) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := repository.New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(tmpDir)
	})

	guard := &BulkGuard{}
	indexer := NewIndexerService(repo, guard)
	generator := NewGeneratorService(repo, indexer)
	indexer.SetGenerator(generator)
	siteCache := NewSiteCacheService(repo, guard)

	env := &testEnv{
		repo:        repo,
		indexer:     indexer,
		generator:   generator,
		siteCache:   siteCache,
		regenerator: NewRegeneratorService(repo, indexer, siteCache, guard),
		products:    NewProductService(repo, indexer),
		manager:     NewManagerService(repo),
		setup:       NewSetupService(repo),

		indexRepo:    repository.NewIndexRepository(repo.DB()),
		productRepo:  repository.NewProductRepository(repo.DB()),
		fieldRepo:    repository.NewFieldRepository(repo.DB()),
		tagRepo:      repository.NewTagRepository(repo.DB()),
		tagGroupRepo: repository.NewTagGroupRepository(repo.DB()),
		siteRepo:     repository.NewSiteRepository(repo.DB()),
		categoryRepo: repository.NewCategoryRepository(repo.DB()),
	}

	logger := zerolog.Nop()
	ctx := logger.WithContext(context.Background())

	// 默认项目：en + de 两个语言
	require.NoError(t, env.repo.DB().WithContext(ctx).Create(&model.Project{
		Name:      testProject,
		IsDefault: true,
		Languages: delimited.Join([]string{"en", "de"}),
	}).Error)

	return env, ctx
}

// createProduct 建一个带用户标签的活跃产品并走保存钩子
func (env *testEnv) createProduct(t *testing.T, ctx context.Context, id string, tags map[string][]string) *entity.Product {
	t.Helper()

	tagSet := entity.TagSet{}
	for lang, names := range tags {
		for _, name := range names {
			env.ensureDictTag(t, ctx, lang, name)
			tagSet.Add(lang, name, entity.GeneratorUser)
		}
	}

	product, err := env.products.Create(ctx, &entity.Product{
		ID:     id,
		Active: true,
		TagSet: tagSet,
	})
	require.NoError(t, err)
	return product
}

// ensureDictTag 把标签写进字典，标题首字母大写无所谓，直接用标签名
func (env *testEnv) ensureDictTag(t *testing.T, ctx context.Context, lang, name string) {
	t.Helper()
	exists, err := env.tagRepo.Exists(ctx, testProject, lang, name)
	require.NoError(t, err)
	if exists {
		return
	}
	require.NoError(t, env.tagRepo.Create(ctx, &model.Tag{
		Project:   testProject,
		Lang:      lang,
		Tag:       name,
		Title:     name,
		Generator: entity.GeneratorUser,
	}))
}

// createField 建一个属性字段
func (env *testEnv) createField(t *testing.T, ctx context.Context, field *entity.Field) {
	t.Helper()
	record, err := fieldEntityToModel(field)
	require.NoError(t, err)
	require.NoError(t, env.fieldRepo.Create(ctx, record))
}

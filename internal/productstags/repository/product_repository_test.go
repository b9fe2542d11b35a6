package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

func TestProductRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	productRepo := NewProductRepository(repo.DB())
	ctx := context.Background()

	now := time.Now()
	products := []*model.Product{
		{ID: "prod-1", Active: true, Categories: ",cat-1,", FieldValues: `{"field-1":["v1"]}`, CreatedAt: now, UpdatedAt: now},
		{ID: "prod-2", Active: true, Categories: ",cat-1,cat-2,", CreatedAt: now, UpdatedAt: now},
		{ID: "prod-3", Active: false, Categories: ",cat-2,", CreatedAt: now, UpdatedAt: now},
	}

	for _, p := range products {
		require.NoError(t, productRepo.Create(ctx, p))
	}

	t.Run("Get", func(t *testing.T) {
		got, err := productRepo.Get(ctx, "prod-1")
		require.NoError(t, err)
		assert.True(t, got.Active)

		_, err = productRepo.Get(ctx, "prod-404")
		assert.Error(t, err)
	})

	t.Run("ListActiveIDs", func(t *testing.T) {
		ids, err := productRepo.ListActiveIDs(ctx)
		require.NoError(t, err)
		// 未激活的产品不参与索引
		assert.Equal(t, []string{"prod-1", "prod-2"}, ids)
	})

	t.Run("ListActiveIDsByCategory", func(t *testing.T) {
		ids, err := productRepo.ListActiveIDsByCategory(ctx, "cat-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"prod-1", "prod-2"}, ids)

		ids, err = productRepo.ListActiveIDsByCategory(ctx, "cat-2")
		require.NoError(t, err)
		assert.Equal(t, []string{"prod-2"}, ids)
	})

	t.Run("ListActiveIDsWithoutValues", func(t *testing.T) {
		ids, err := productRepo.ListActiveIDsWithoutValues(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"prod-2"}, ids)
	})

	t.Run("Save", func(t *testing.T) {
		got, err := productRepo.Get(ctx, "prod-2")
		require.NoError(t, err)

		got.TagData = `{"en":[{"tag":"red","generator":"user"}]}`
		require.NoError(t, productRepo.Save(ctx, got))

		got, err = productRepo.Get(ctx, "prod-2")
		require.NoError(t, err)
		assert.Contains(t, got.TagData, "red")
	})

	t.Run("SearchCache", func(t *testing.T) {
		err := productRepo.UpsertSearchCache(ctx, &model.ProductSearchCache{
			ID:     "prod-1",
			Lang:   "en",
			Tags:   ",red,",
			Titles: ",Red,",
		})
		require.NoError(t, err)

		cache, err := productRepo.GetSearchCache(ctx, "prod-1", "en")
		require.NoError(t, err)
		assert.Equal(t, ",red,", cache.Tags)

		// 再次写入覆盖
		err = productRepo.UpsertSearchCache(ctx, &model.ProductSearchCache{
			ID:   "prod-1",
			Lang: "en",
			Tags: ",red,blue,",
		})
		require.NoError(t, err)

		cache, err = productRepo.GetSearchCache(ctx, "prod-1", "en")
		require.NoError(t, err)
		assert.Equal(t, ",red,blue,", cache.Tags)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, productRepo.Delete(ctx, "prod-3"))

		_, err := productRepo.Get(ctx, "prod-3")
		assert.Error(t, err)
	})
}

func TestFieldRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	fieldRepo := NewFieldRepository(repo.DB())
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	fields := []*model.Field{
		{ID: "field-1", Type: "attribute-list", Options: `{"generateTags":true}`, CreatedAt: old, UpdatedAt: old},
		{ID: "field-2", Type: "attribute-group", Options: `{"generateTags":true}`, CreatedAt: old, UpdatedAt: time.Now()},
		{ID: "field-3", Type: "productstags.tags", CreatedAt: old, UpdatedAt: old},
	}
	for _, f := range fields {
		require.NoError(t, fieldRepo.Create(ctx, f))
	}

	t.Run("ListByType", func(t *testing.T) {
		got, err := fieldRepo.ListByType(ctx, "attribute-list", "attribute-group")
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = fieldRepo.ListByType(ctx, "productstags.tags")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("ListEditedSince", func(t *testing.T) {
		since := time.Now().Add(-time.Hour)
		got, err := fieldRepo.ListEditedSince(ctx, since, "attribute-list", "attribute-group")
		require.NoError(t, err)
		// field-1 上次编辑在窗口之前，被增量模式跳过
		require.Len(t, got, 1)
		assert.Equal(t, "field-2", got[0].ID)
	})

	t.Run("SaveBumpsUpdatedAt", func(t *testing.T) {
		field, err := fieldRepo.Get(ctx, "field-1")
		require.NoError(t, err)

		before := field.UpdatedAt
		require.NoError(t, fieldRepo.Save(ctx, field))

		field, err = fieldRepo.Get(ctx, "field-1")
		require.NoError(t, err)
		assert.True(t, field.UpdatedAt.After(before))
	})
}

func TestProjectRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	projectRepo := NewProjectRepository(repo.DB())
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, projectRepo.Upsert(ctx, &model.Project{
		Name:      "main",
		IsDefault: true,
		Languages: ",en,de,",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	got, err := projectRepo.GetDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", got.Name)
	assert.Equal(t, ",en,de,", got.Languages)

	// Upsert 更新语言列表
	require.NoError(t, projectRepo.Upsert(ctx, &model.Project{
		Name:      "main",
		IsDefault: true,
		Languages: ",en,de,fr,",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	got, err = projectRepo.Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, ",en,de,fr,", got.Languages)
}

func TestSiteAndCategoryRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	siteRepo := NewSiteRepository(repo.DB())
	categoryRepo := NewCategoryRepository(repo.DB())
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, categoryRepo.Upsert(ctx, &model.Category{ID: "cat-1", Fields: ",field-1,", CreatedAt: now}))
	require.NoError(t, categoryRepo.Upsert(ctx, &model.Category{ID: "cat-2", Fields: ",field-1,field-2,", CreatedAt: now}))

	sites := []*model.Site{
		{ID: "site-1", Lang: "en", CategoryID: "cat-1", CreatedAt: now, UpdatedAt: now},
		{ID: "site-2", Lang: "en", CategoryID: "cat-2", ExtraCategories: ",cat-1,", CreatedAt: now, UpdatedAt: now},
		{ID: "site-1", Lang: "de", CategoryID: "cat-1", CreatedAt: now, UpdatedAt: now},
	}
	for _, s := range sites {
		require.NoError(t, siteRepo.Create(ctx, s))
	}

	t.Run("ListByLang", func(t *testing.T) {
		got, err := siteRepo.ListByLang(ctx, "en")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("ListByCategory", func(t *testing.T) {
		// 主分类或额外分类命中都算关联
		got, err := siteRepo.ListByCategory(ctx, "cat-1")
		require.NoError(t, err)
		assert.Len(t, got, 3)

		got, err = siteRepo.ListByCategory(ctx, "cat-2")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("ListWithField", func(t *testing.T) {
		got, err := categoryRepo.ListWithField(ctx, "field-2")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "cat-2", got[0].ID)
	})

	t.Run("SaveTagGroups", func(t *testing.T) {
		site, err := siteRepo.Get(ctx, "site-1", "en")
		require.NoError(t, err)

		site.TagGroups = ",tg-1,"
		require.NoError(t, siteRepo.Save(ctx, site))

		site, err = siteRepo.Get(ctx, "site-1", "en")
		require.NoError(t, err)
		assert.Equal(t, ",tg-1,", site.TagGroups)
	})
}

func TestCronRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	cronRepo := NewCronRepository(repo.DB())
	ctx := context.Background()

	// 从未运行过返回零值
	last, err := cronRepo.GetLastRun(ctx, "generate-tags")
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	now := time.Now().Truncate(time.Second)
	require.NoError(t, cronRepo.SetLastRun(ctx, "generate-tags", now))

	last, err = cronRepo.GetLastRun(ctx, "generate-tags")
	require.NoError(t, err)
	assert.WithinDuration(t, now, last, time.Second)

	// 覆盖更新
	later := now.Add(time.Hour)
	require.NoError(t, cronRepo.SetLastRun(ctx, "generate-tags", later))

	last, err = cronRepo.GetLastRun(ctx, "generate-tags")
	require.NoError(t, err)
	assert.WithinDuration(t, later, last, time.Second)
}

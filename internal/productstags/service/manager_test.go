package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/apierror"
)

func TestManager_GetProductIDsFromTags_Union(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red"}})
	env.createProduct(t, ctx, "prod-2", map[string][]string{"en": {"blue"}})
	env.createProduct(t, ctx, "prod-3", map[string][]string{"en": {"red", "blue"}})

	// 多个标签取并集，重复的产品只出现一次
	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", []string{"red", "blue"}, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod-1", "prod-2", "prod-3"}, ids)
}

func TestManager_GetProductIDsFromTags_Limit(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red"}})
	env.createProduct(t, ctx, "prod-2", map[string][]string{"en": {"red"}})
	env.createProduct(t, ctx, "prod-3", map[string][]string{"en": {"red"}})

	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", []string{"red"}, 2)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestManager_GetProductIDsFromTags_EmptyInput(t *testing.T) {
	env, ctx := setupTestEnv(t)

	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManager_GetProductsFromTags(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red"}})

	products, err := env.manager.GetProductsFromTags(ctx, "en", []string{"red"}, 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "prod-1", products[0].ID)
	assert.Equal(t, []string{"red"}, products[0].TagSet.Tags("en"))
}

func TestManager_GetTagsFromProduct_Limit(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red", "blue", "green"}})

	tags, err := env.manager.GetTagsFromProduct(ctx, "en", "prod-1", 2)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestManager_GetTagsFromProduct_NoRow(t *testing.T) {
	env, ctx := setupTestEnv(t)

	// 没有索引行的产品返回空列表而不是错误
	tags, err := env.manager.GetTagsFromProduct(ctx, "en", "prod-absent", 0)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestManager_RejectsUnknownLanguage(t *testing.T) {
	env, ctx := setupTestEnv(t)

	_, err := env.manager.GetProductIDsFromTags(ctx, "fr", []string{"red"}, 0)
	assert.ErrorIs(t, err, apierror.ErrLanguageNotEnabled)

	_, err = env.manager.GetTagsFromProduct(ctx, "fr", "prod-1", 0)
	assert.ErrorIs(t, err, apierror.ErrLanguageNotEnabled)
}

func TestManager_GetTagsForSite_UnknownSite(t *testing.T) {
	env, ctx := setupTestEnv(t)

	_, err := env.manager.GetTagsForSite(ctx, "en", "site-absent")
	assert.ErrorIs(t, err, apierror.ErrSiteNotFound)
}

func TestManager_GetTagGroupsForSite(t *testing.T) {
	env, ctx := setupTestEnv(t)

	require.NoError(t, env.categoryRepo.Upsert(ctx, &model.Category{
		ID:     "cat-1",
		Fields: ",field-1,",
	}))
	require.NoError(t, env.siteRepo.Create(ctx, &model.Site{
		ID:         "site-1",
		Lang:       "en",
		CategoryID: "cat-1",
	}))
	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))
	require.NoError(t, env.generator.Generate(ctx, nil))

	groups, err := env.manager.GetTagGroupsForSite(ctx, "en", "site-1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Color", groups[0].Title)
	assert.ElementsMatch(t, []string{"red", "blue"}, groups[0].Tags)
}

func TestManager_ListTags(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.ensureDictTag(t, ctx, "en", "red")
	env.ensureDictTag(t, ctx, "en", "blue")
	env.ensureDictTag(t, ctx, "de", "rot")

	tags, err := env.manager.ListTags(ctx, "en")
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

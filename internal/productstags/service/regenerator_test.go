package service

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/delimited"
)

func TestRegenerator_RebuildsFromScratch(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red", "blue"}})
	env.createProduct(t, ctx, "prod-2", map[string][]string{"en": {"red"}})

	// 注入一条索引垃圾，重建后必须消失
	require.NoError(t, env.indexRepo.UpsertProductTags(ctx, "en", "prod-gone", []string{"stale"}))
	require.NoError(t, env.indexRepo.UpsertTagProducts(ctx, "en", "stale", []string{"prod-gone"}))

	require.NoError(t, env.regenerator.CreateCache(ctx))

	_, err := env.indexRepo.GetProductTags(ctx, "en", "prod-gone")
	assert.Error(t, err)
	rows, err := env.indexRepo.GetTagProducts(ctx, "en", []string{"stale"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", []string{"red"}, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"prod-1", "prod-2"}, ids)
}

func TestRegenerator_SkipsInactiveProducts(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red"}})

	// 下架产品后重建，索引里不再出现它
	product, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	product.Active = false
	record, err := productEntityToModel(product)
	require.NoError(t, err)
	require.NoError(t, env.productRepo.Save(ctx, record))

	require.NoError(t, env.regenerator.CreateCache(ctx))

	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", []string{"red"}, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRegenerator_Idempotent(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red", "blue"}})
	env.createProduct(t, ctx, "prod-2", map[string][]string{"en": {"blue"}})

	require.NoError(t, env.regenerator.CreateCache(ctx))
	first := snapshotIndex(t, env, ctx)

	require.NoError(t, env.regenerator.CreateCache(ctx))
	second := snapshotIndex(t, env, ctx)

	assert.Equal(t, first, second)
}

func TestRegenerator_RebuildsSiteCache(t *testing.T) {
	env, ctx := setupTestEnv(t)

	require.NoError(t, env.categoryRepo.Upsert(ctx, &model.Category{ID: "cat-1"}))
	require.NoError(t, env.siteRepo.Create(ctx, &model.Site{
		ID:         "site-1",
		Lang:       "en",
		CategoryID: "cat-1",
	}))

	product := env.createProduct(t, ctx, "prod-1", map[string][]string{"en": {"red"}})
	product.Categories = []string{"cat-1"}
	record, err := productEntityToModel(product)
	require.NoError(t, err)
	require.NoError(t, env.productRepo.Save(ctx, record))

	require.NoError(t, env.regenerator.CreateCache(ctx))

	tags, err := env.manager.GetTagsForSite(ctx, "en", "site-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"red"}, tags)
}

// snapshotIndex 抓两张索引表的全部内容用于比对
// 分隔列表按元素排序后归一化，重建只保证集合相等不保证元素顺序
func snapshotIndex(t *testing.T, env *testEnv, ctx context.Context) map[string]string {
	t.Helper()
	snapshot := map[string]string{}

	var productRows []*model.ProductTags
	require.NoError(t, env.repo.DB().WithContext(ctx).Order("lang, product_id").Find(&productRows).Error)
	for _, row := range productRows {
		tags := delimited.Split(row.Tags)
		sort.Strings(tags)
		snapshot["p2t/"+row.Lang+"/"+row.ProductID] = delimited.Join(tags)
	}

	var tagRows []*model.TagProducts
	require.NoError(t, env.repo.DB().WithContext(ctx).Order("lang, tag").Find(&tagRows).Error)
	for _, row := range tagRows {
		ids := delimited.Split(row.ProductIDs)
		sort.Strings(ids)
		snapshot["t2p/"+row.Lang+"/"+row.Tag] = delimited.Join(ids)
	}

	return snapshot
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

func colorField(id string, fieldType string) *entity.Field {
	return &entity.Field{
		ID:     id,
		Type:   fieldType,
		Titles: map[string]string{"en": "Color", "de": "Farbe"},
		Options: entity.FieldOptions{
			GenerateTags: true,
			Entries: []entity.FieldEntry{
				{Value: "r", Titles: map[string]string{"en": "Red", "de": "Rot"}},
				{Value: "b", Titles: map[string]string{"en": "Blue", "de": "Blau"}},
			},
		},
	}
}

func TestGenerator_CreatesGroupAndTags(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))

	product, err := env.products.Create(ctx, &entity.Product{
		ID:          "prod-1",
		Active:      true,
		FieldValues: map[string][]string{"field-1": {"r"}},
	})
	require.NoError(t, err)

	require.NoError(t, env.generator.Generate(ctx, nil))

	// 每个语言一个组，组里镜像条目派生的标签
	group, err := env.tagGroupRepo.Lookup(ctx, testProject, "en", "Color", "field-1", entity.GeneratorAttributeTags)
	require.NoError(t, err)
	members, err := env.tagGroupRepo.GetTags(ctx, group.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(members))
	for _, member := range members {
		names = append(names, member.Tag)
	}
	assert.ElementsMatch(t, []string{"red", "blue"}, names)

	// 选了 "Red" 的产品拿到生成器名下的 "red"
	product, err = env.products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"red"},
		product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))
	assert.Equal(t, []string{"rot"},
		product.TagSet.TagsByGenerator("de", entity.GeneratorAttributeTags))

	// 索引表同步跟上
	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", []string{"red"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-1"}, ids)
}

func TestGenerator_Idempotent(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))
	env.products.Create(ctx, &entity.Product{
		ID:          "prod-1",
		Active:      true,
		FieldValues: map[string][]string{"field-1": {"r"}},
	})

	require.NoError(t, env.generator.Generate(ctx, nil))
	first, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)

	require.NoError(t, env.generator.Generate(ctx, []string{"prod-1"}))
	second, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)

	assert.Equal(t,
		first.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags),
		second.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))

	// 字典里没有重复建标签
	tags, err := env.tagRepo.List(ctx, testProject, "en")
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestGenerator_AttributeGroupExclusive(t *testing.T) {
	env, ctx := setupTestEnv(t)

	// 属性组字段：产品只选一个条目，未选条目的标签被禁
	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeGroup))
	env.products.Create(ctx, &entity.Product{
		ID:          "prod-1",
		Active:      true,
		FieldValues: map[string][]string{"field-1": {"r"}},
	})

	require.NoError(t, env.generator.Generate(ctx, nil))

	product, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"red"},
		product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))
	assert.NotContains(t,
		product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags), "blue")
}

func TestGenerator_ForbiddenWinsOverWanted(t *testing.T) {
	env, ctx := setupTestEnv(t)

	// 两个属性组字段共享 "Red" 条目标题：一个选了、一个没选
	// 同一个标签既该加又该禁时按排除处理
	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeGroup))
	env.createField(t, ctx, colorField("field-2", entity.FieldTypeAttributeGroup))
	env.products.Create(ctx, &entity.Product{
		ID:     "prod-1",
		Active: true,
		FieldValues: map[string][]string{
			"field-1": {"r"},
			"field-2": {"b"},
		},
	})

	require.NoError(t, env.generator.Generate(ctx, nil))

	product, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Empty(t, product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))
}

func TestGenerator_KeepsUserTags(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))
	env.ensureDictTag(t, ctx, "en", "handmade")

	env.products.Create(ctx, &entity.Product{
		ID:          "prod-1",
		Active:      true,
		FieldValues: map[string][]string{"field-1": {"b"}},
	})
	_, err := env.products.AddTag(ctx, "prod-1", "en", "handmade")
	require.NoError(t, err)

	require.NoError(t, env.generator.Generate(ctx, nil))

	product, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"handmade"},
		product.TagSet.TagsByGenerator("en", entity.GeneratorUser))
	assert.Equal(t, []string{"blue"},
		product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))
}

func TestGenerator_ValueChangeSwapsTags(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeGroup))
	env.products.Create(ctx, &entity.Product{
		ID:          "prod-1",
		Active:      true,
		FieldValues: map[string][]string{"field-1": {"r"}},
	})
	require.NoError(t, env.generator.Generate(ctx, nil))

	// 换了选中的条目后定向重算，旧标签被摘掉
	product, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	product.FieldValues["field-1"] = []string{"b"}
	_, err = env.products.Update(ctx, product)
	require.NoError(t, err)

	product, err = env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"blue"},
		product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))
}

func TestGenerator_DeletesObsoleteGroups(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))
	require.NoError(t, env.generator.Generate(ctx, nil))

	group, err := env.tagGroupRepo.Lookup(ctx, testProject, "en", "Color", "field-1", entity.GeneratorAttributeTags)
	require.NoError(t, err)

	// 字段不再生成标签后，下一次运行删掉它的组
	require.NoError(t, env.fieldRepo.Delete(ctx, "field-1"))
	require.NoError(t, env.generator.Generate(ctx, nil))

	_, err = env.tagGroupRepo.Get(ctx, group.ID)
	assert.Error(t, err)
}

func TestGenerator_KeepsGroupWithForeignTags(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))
	require.NoError(t, env.generator.Generate(ctx, nil))

	group, err := env.tagGroupRepo.Lookup(ctx, testProject, "en", "Color", "field-1", entity.GeneratorAttributeTags)
	require.NoError(t, err)

	// 用户手工往组里加了标签：组里有外来成员时整组保留
	env.ensureDictTag(t, ctx, "en", "vintage")
	require.NoError(t, env.tagGroupRepo.AddTags(ctx, group.ID, []string{"vintage"}, entity.GeneratorUser))

	require.NoError(t, env.fieldRepo.Delete(ctx, "field-1"))
	require.NoError(t, env.generator.Generate(ctx, nil))

	kept, err := env.tagGroupRepo.Get(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, kept.ID)
}

func TestGenerator_AttachesGroupToSites(t *testing.T) {
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

	group, err := env.tagGroupRepo.Lookup(ctx, testProject, "en", "Color", "field-1", entity.GeneratorAttributeTags)
	require.NoError(t, err)

	site, err := env.siteRepo.Get(ctx, "site-1", "en")
	require.NoError(t, err)
	assert.Contains(t, site.TagGroups, ","+group.ID+",")

	// 再跑一遍不会重复挂
	require.NoError(t, env.generator.Generate(ctx, nil))
	site, err = env.siteRepo.Get(ctx, "site-1", "en")
	require.NoError(t, err)
	assert.Equal(t, ","+group.ID+",", site.TagGroups)
}

func TestGenerator_SearchFilterFieldSkipsSites(t *testing.T) {
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

	field := colorField("field-1", entity.FieldTypeAttributeList)
	field.Options.SearchFilter = true
	env.createField(t, ctx, field)

	require.NoError(t, env.generator.Generate(ctx, nil))

	site, err := env.siteRepo.Get(ctx, "site-1", "en")
	require.NoError(t, err)
	assert.Empty(t, site.TagGroups)
}

func TestGenerator_Cleanup(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))
	env.products.Create(ctx, &entity.Product{
		ID:          "prod-1",
		Active:      true,
		FieldValues: map[string][]string{"field-1": {"r"}},
	})
	require.NoError(t, env.generator.Generate(ctx, nil))

	// 属性值清空后产品不该再带生成标签
	product, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	product.FieldValues = nil
	record, err := productEntityToModel(product)
	require.NoError(t, err)
	require.NoError(t, env.productRepo.Save(ctx, record))

	require.NoError(t, env.generator.Cleanup(ctx))

	product, err = env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.Empty(t, product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))

	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", []string{"red"}, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGenerator_IncrementalRunKeepsUneditedFieldTags(t *testing.T) {
	env, ctx := setupTestEnv(t)

	env.createField(t, ctx, colorField("field-1", entity.FieldTypeAttributeList))
	env.createField(t, ctx, &entity.Field{
		ID:     "field-2",
		Type:   entity.FieldTypeAttributeList,
		Titles: map[string]string{"en": "Size", "de": "Größe"},
		Options: entity.FieldOptions{
			GenerateTags: true,
			Entries: []entity.FieldEntry{
				{Value: "m", Titles: map[string]string{"en": "Medium", "de": "Mittel"}},
			},
		},
	})
	env.products.Create(ctx, &entity.Product{
		ID:     "prod-1",
		Active: true,
		FieldValues: map[string][]string{
			"field-1": {"r"},
			"field-2": {"m"},
		},
	})

	require.NoError(t, env.generator.Generate(ctx, nil))

	// 两个字段都没再被编辑，第二次增量运行不同步任何字段，
	// 但产品重写仍按所有生成字段取条目映射，已有标签不能被抹掉
	require.NoError(t, env.generator.Generate(ctx, nil))

	product, err := env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"red", "medium"},
		product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))

	// 只编辑 field-1，field-2 走只读映射，它的标签和索引行都要活下来
	record, err := env.fieldRepo.Get(ctx, "field-1")
	require.NoError(t, err)
	require.NoError(t, env.fieldRepo.Save(ctx, record))
	require.NoError(t, env.generator.Generate(ctx, nil))

	product, err = env.products.Get(ctx, "prod-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"red", "medium"},
		product.TagSet.TagsByGenerator("en", entity.GeneratorAttributeTags))

	ids, err := env.manager.GetProductIDsFromTags(ctx, "en", []string{"medium"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"prod-1"}, ids)
}

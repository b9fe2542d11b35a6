package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/delimited"
	"github.com/jimyag/productstags/pkg/idgen"
	"github.com/jimyag/productstags/pkg/tagname"
)

// CronGenerateTags 生成器增量模式的时间戳键
const CronGenerateTags = "generate-tags"

// GeneratorService 属性标签生成器
// 让每个开启 generate_tags 的属性字段都有对应的标签组，
// 组内标签镜像字段条目，产品按选中的条目值获得生成标签
type GeneratorService struct {
	projectRepo  repository.ProjectRepository
	productRepo  repository.ProductRepository
	fieldRepo    repository.FieldRepository
	categoryRepo repository.CategoryRepository
	siteRepo     repository.SiteRepository
	tagRepo      repository.TagRepository
	tagGroupRepo repository.TagGroupRepository
	cronRepo     repository.CronRepository
	indexer      *IndexerService
}

// NewGeneratorService 创建属性标签生成器
func NewGeneratorService(repo *repository.Repository, indexer *IndexerService) *GeneratorService {
	return &GeneratorService{
		projectRepo:  repository.NewProjectRepository(repo.DB()),
		productRepo:  repository.NewProductRepository(repo.DB()),
		fieldRepo:    repository.NewFieldRepository(repo.DB()),
		categoryRepo: repository.NewCategoryRepository(repo.DB()),
		siteRepo:     repository.NewSiteRepository(repo.DB()),
		tagRepo:      repository.NewTagRepository(repo.DB()),
		tagGroupRepo: repository.NewTagGroupRepository(repo.DB()),
		cronRepo:     repository.NewCronRepository(repo.DB()),
		indexer:      indexer,
	}
}

// fieldTags 一个字段在一次运行里产出的映射：lang -> 条目值 -> 标签名
type fieldTags map[string]map[string]string

// Generate 运行生成器
// productIDs 为空走增量模式：跳过上次运行后未编辑过的字段，重写全部活跃产品；
// 非空走定向模式：强制重算给定产品，绕过字段编辑时间过滤
func (s *GeneratorService) Generate(ctx context.Context, productIDs []string) error {
	logger := zerolog.Ctx(ctx)
	start := time.Now()
	targeted := len(productIDs) > 0

	project, err := s.defaultProject(ctx)
	if err != nil {
		return err
	}

	// 产品重写时必须看到全部生成字段的映射，
	// 增量模式只对编辑过的字段执行组和字典写入，其余字段只读解析
	fields, err := s.loadFields(ctx)
	if err != nil {
		return err
	}
	sync, err := s.fieldsToSync(ctx, fields, targeted)
	if err != nil {
		return err
	}

	// 阶段一：字段 -> 标签组与标签字典
	entryTags := make(map[string]fieldTags, len(fields))
	for _, field := range fields {
		if err := field.Validate(); err != nil {
			logger.Warn().Err(err).
				Str("fieldID", field.ID).
				Msg("Skipping misconfigured field")
			continue
		}

		var (
			tags fieldTags
			err  error
		)
		if _, ok := sync[field.ID]; ok {
			tags, err = s.syncField(ctx, project, field)
		} else {
			tags, err = s.resolveFieldTags(ctx, project, field)
		}
		if err != nil {
			logger.Error().Err(err).
				Str("fieldID", field.ID).
				Msg("Failed to sync field tags, skipping field")
			continue
		}
		entryTags[field.ID] = tags
	}

	// 阶段二：重写受影响产品上生成器名下的标签
	if !targeted {
		productIDs, err = s.productRepo.ListActiveIDs(ctx)
		if err != nil {
			return fmt.Errorf("list active products: %w", err)
		}
	}
	for _, productID := range productIDs {
		if err := s.rewriteProduct(ctx, project, fields, entryTags, productID); err != nil {
			logger.Error().Err(err).
				Str("productID", productID).
				Msg("Failed to rewrite product tags, skipping")
		}
	}

	// 阶段三：删掉不再被任何生成字段引用且没有外来标签的组
	if err := s.deleteObsoleteGroups(ctx, project); err != nil {
		return err
	}

	if !targeted {
		if err := s.cronRepo.SetLastRun(ctx, CronGenerateTags, start); err != nil {
			return fmt.Errorf("record generator run: %w", err)
		}
	}

	logger.Info().
		Int("fields", len(sync)).
		Int("products", len(productIDs)).
		Bool("targeted", targeted).
		Dur("elapsed", time.Since(start)).
		Msg("Attribute tag generation finished")
	return nil
}

// Cleanup 清理定时任务
// 没有任何属性值的活跃产品不应再带生成标签，逐个摘除并保存
func (s *GeneratorService) Cleanup(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	project, err := s.defaultProject(ctx)
	if err != nil {
		return err
	}

	productIDs, err := s.productRepo.ListActiveIDsWithoutValues(ctx)
	if err != nil {
		return fmt.Errorf("list products without values: %w", err)
	}

	cleaned := 0
	for _, productID := range productIDs {
		product, err := s.indexer.LoadProduct(ctx, productID)
		if err != nil {
			logger.Error().Err(err).
				Str("productID", productID).
				Msg("Failed to load product for cleanup, skipping")
			continue
		}

		changed := false
		for _, lang := range project.Languages {
			if len(product.TagSet.TagsByGenerator(lang, entity.GeneratorAttributeTags)) == 0 {
				continue
			}
			product.TagSet.RemoveByGenerator(lang, entity.GeneratorAttributeTags)
			changed = true
		}
		if !changed {
			continue
		}

		if err := s.saveAndIndex(ctx, product); err != nil {
			logger.Error().Err(err).
				Str("productID", productID).
				Msg("Failed to save cleaned product, skipping")
			continue
		}
		cleaned++
	}

	logger.Info().
		Int("products", cleaned).
		Msg("Generated tag cleanup finished")
	return nil
}

// loadFields 取出当前全部生成字段
func (s *GeneratorService) loadFields(ctx context.Context) ([]*entity.Field, error) {
	records, err := s.fieldRepo.ListByType(ctx, entity.FieldTypeAttributeList, entity.FieldTypeAttributeGroup)
	if err != nil {
		return nil, fmt.Errorf("list attribute fields: %w", err)
	}

	fields := make([]*entity.Field, 0, len(records))
	for _, record := range records {
		field, err := fieldModelToEntity(record)
		if err != nil {
			return nil, fmt.Errorf("decode field %s: %w", record.ID, err)
		}
		if !field.GeneratesTags() {
			continue
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// fieldsToSync 本次要写入组和字典的字段集合
// 定向模式同步全部，增量模式只同步上次运行后编辑过的
func (s *GeneratorService) fieldsToSync(ctx context.Context, fields []*entity.Field, targeted bool) (map[string]struct{}, error) {
	sync := make(map[string]struct{}, len(fields))
	if targeted {
		for _, field := range fields {
			sync[field.ID] = struct{}{}
		}
		return sync, nil
	}

	lastRun, err := s.cronRepo.GetLastRun(ctx, CronGenerateTags)
	if err != nil {
		return nil, fmt.Errorf("get generator last run: %w", err)
	}
	for _, field := range fields {
		if field.UpdatedAt.After(lastRun) {
			sync[field.ID] = struct{}{}
		}
	}
	return sync, nil
}

// resolveFieldTags 只读地解出字段条目到标签名的映射
// 条目标题在字典里已有标签就复用，否则按标题派生
func (s *GeneratorService) resolveFieldTags(ctx context.Context, project *entity.Project, field *entity.Field) (fieldTags, error) {
	tags := make(fieldTags, len(project.Languages))
	for _, lang := range project.Languages {
		langTags := make(map[string]string, len(field.Options.Entries))
		for _, entry := range field.Options.Entries {
			title := entry.Title(lang)
			existing, err := s.tagRepo.GetByTitle(ctx, project.Name, lang, title)
			switch {
			case err == nil:
				langTags[entry.Value] = existing.Tag
			case errors.Is(err, gorm.ErrRecordNotFound):
				if name := tagname.Clear(title); name != "" {
					langTags[entry.Value] = name
				}
			default:
				return nil, fmt.Errorf("lookup tag by title %q: %w", title, err)
			}
		}
		tags[lang] = langTags
	}
	return tags, nil
}

// syncField 同步一个字段在每个语言下的标签组和标签
func (s *GeneratorService) syncField(ctx context.Context, project *entity.Project, field *entity.Field) (fieldTags, error) {
	tags := make(fieldTags, len(project.Languages))

	for _, lang := range project.Languages {
		group, err := s.ensureGroup(ctx, project, lang, field)
		if err != nil {
			return nil, err
		}

		// 先清掉组里本生成器的旧成员，字段条目变化后不会残留过期标签
		if err := s.tagGroupRepo.RemoveTagsByGenerator(ctx, group.ID, entity.GeneratorAttributeTags); err != nil {
			return nil, fmt.Errorf("clear generated tags of group %s: %w", group.ID, err)
		}

		langTags := make(map[string]string, len(field.Options.Entries))
		names := make([]string, 0, len(field.Options.Entries))
		for _, entry := range field.Options.Entries {
			name, err := s.ensureTag(ctx, project.Name, lang, entry.Title(lang), entry.Image)
			if err != nil {
				return nil, err
			}
			langTags[entry.Value] = name
			names = append(names, name)
		}
		tags[lang] = langTags

		if err := s.tagGroupRepo.AddTags(ctx, group.ID, names, entity.GeneratorAttributeTags); err != nil {
			return nil, fmt.Errorf("add tags to group %s: %w", group.ID, err)
		}

		// 已是默认搜索过滤器的字段不再挂到列表页，避免重复的过滤入口
		if !field.Options.SearchFilter {
			if err := s.attachGroupToSites(ctx, lang, field.ID, group.ID); err != nil {
				return nil, err
			}
		}
	}

	return tags, nil
}

// ensureGroup 按（项目、语言、标题、内部名、生成器）五元组找组，没有就建
func (s *GeneratorService) ensureGroup(ctx context.Context, project *entity.Project, lang string, field *entity.Field) (*model.TagGroup, error) {
	title := field.Title(lang)
	workingTitle := groupWorkingTitle(field.ID)

	group, err := s.tagGroupRepo.Lookup(ctx, project.Name, lang, title, workingTitle, entity.GeneratorAttributeTags)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup tag group for field %s: %w", field.ID, err)
	}

	id, err := idgen.GenerateTagGroupID()
	if err != nil {
		return nil, fmt.Errorf("generate tag group id: %w", err)
	}
	group = &model.TagGroup{
		ID:           id,
		Project:      project.Name,
		Lang:         lang,
		Title:        title,
		WorkingTitle: workingTitle,
		Generator:    entity.GeneratorAttributeTags,
	}
	if err := s.tagGroupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create tag group for field %s: %w", field.ID, err)
	}
	return group, nil
}

// ensureTag 按标题复用字典里已有的标签，缺失时从标题派生标签名并入库
func (s *GeneratorService) ensureTag(ctx context.Context, project, lang, title, image string) (string, error) {
	existing, err := s.tagRepo.GetByTitle(ctx, project, lang, title)
	if err == nil {
		return existing.Tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("lookup tag by title %q: %w", title, err)
	}

	name := tagname.Clear(title)
	if name == "" {
		return "", fmt.Errorf("entry title %q yields empty tag name", title)
	}
	if err := s.tagRepo.Create(ctx, &model.Tag{
		Project:   project,
		Lang:      lang,
		Tag:       name,
		Title:     title,
		Image:     image,
		Generator: entity.GeneratorAttributeTags,
	}); err != nil {
		return "", fmt.Errorf("create tag %q: %w", name, err)
	}
	return name, nil
}

// attachGroupToSites 把组 ID 挂到所有关联该字段分类的列表页上
func (s *GeneratorService) attachGroupToSites(ctx context.Context, lang, fieldID, groupID string) error {
	categories, err := s.categoryRepo.ListWithField(ctx, fieldID)
	if err != nil {
		return fmt.Errorf("list categories with field %s: %w", fieldID, err)
	}

	seen := map[string]struct{}{}
	for _, category := range categories {
		sites, err := s.siteRepo.ListByCategory(ctx, category.ID)
		if err != nil {
			return fmt.Errorf("list sites for category %s: %w", category.ID, err)
		}
		for _, site := range sites {
			if site.Lang != lang {
				continue
			}
			if _, ok := seen[site.ID]; ok {
				continue
			}
			seen[site.ID] = struct{}{}

			if delimited.Contains(site.TagGroups, groupID) {
				continue
			}
			groups := delimited.NewSet(delimited.Split(site.TagGroups)...)
			groups.Add(groupID)
			site.TagGroups = groups.Encode()
			if err := s.siteRepo.Save(ctx, site); err != nil {
				return fmt.Errorf("attach group to site %s: %w", site.ID, err)
			}
		}
	}
	return nil
}

// rewriteProduct 重写一个产品上生成器名下的标签
// 产品按每个字段实际选中的条目值取标签并集，再减去属性组字段未选条目的标签；
// 同一个标签既该加又该禁时按排除处理
func (s *GeneratorService) rewriteProduct(
	ctx context.Context,
	project *entity.Project,
	fields []*entity.Field,
	entryTags map[string]fieldTags,
	productID string,
) error {
	product, err := s.indexer.LoadProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}

	changed := false
	for _, lang := range project.Languages {
		wanted := delimited.NewSet()
		forbidden := delimited.NewSet()

		for _, field := range fields {
			tags := entryTags[field.ID]
			if tags == nil {
				continue
			}
			langTags := tags[lang]

			selected := map[string]struct{}{}
			for _, value := range product.SelectedValues(field.ID) {
				selected[value] = struct{}{}
				if tag, ok := langTags[value]; ok {
					wanted.Add(tag)
				}
			}

			// 属性组字段：未选条目的标签列入禁用
			if field.Type != entity.FieldTypeAttributeGroup {
				continue
			}
			for value, tag := range langTags {
				if _, ok := selected[value]; !ok {
					forbidden.Add(tag)
				}
			}
		}
		wanted.Remove(forbidden.Items()...)

		current := product.TagSet.TagsByGenerator(lang, entity.GeneratorAttributeTags)
		if sameTags(current, wanted) {
			continue
		}

		product.TagSet.RemoveByGenerator(lang, entity.GeneratorAttributeTags)
		for _, tag := range wanted.Items() {
			product.TagSet.Add(lang, tag, entity.GeneratorAttributeTags)
		}
		changed = true
	}

	if !changed {
		return nil
	}
	return s.saveAndIndex(ctx, product)
}

// saveAndIndex 持久化产品并走保存钩子调和索引
func (s *GeneratorService) saveAndIndex(ctx context.Context, product *entity.Product) error {
	record, err := productEntityToModel(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	if err := s.productRepo.Save(ctx, record); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	// 生成器自己改写的产品不再触发生成，避免递归
	return s.indexer.OnProductSave(ctx, product, false, nil)
}

// deleteObsoleteGroups 删除不再被任何生成字段引用的组
// 组里有其他来源的标签时保留整组
func (s *GeneratorService) deleteObsoleteGroups(ctx context.Context, project *entity.Project) error {
	logger := zerolog.Ctx(ctx)

	// 以当前全部生成字段为准，不受增量模式编辑时间过滤影响
	records, err := s.fieldRepo.ListByType(ctx, entity.FieldTypeAttributeList, entity.FieldTypeAttributeGroup)
	if err != nil {
		return fmt.Errorf("list attribute fields: %w", err)
	}
	live := map[string]struct{}{}
	for _, record := range records {
		field, err := fieldModelToEntity(record)
		if err != nil || !field.GeneratesTags() {
			continue
		}
		live[groupWorkingTitle(field.ID)] = struct{}{}
	}

	groups, err := s.tagGroupRepo.ListByGenerator(ctx, entity.GeneratorAttributeTags)
	if err != nil {
		return fmt.Errorf("list generated tag groups: %w", err)
	}

	for _, group := range groups {
		if group.Project != project.Name {
			continue
		}
		if _, ok := live[group.WorkingTitle]; ok {
			continue
		}

		foreign, err := s.tagGroupRepo.HasForeignTags(ctx, group.ID, entity.GeneratorAttributeTags)
		if err != nil {
			logger.Error().Err(err).
				Str("groupID", group.ID).
				Msg("Failed to check group for foreign tags, keeping group")
			continue
		}
		if foreign {
			continue
		}

		if err := s.tagGroupRepo.Delete(ctx, group.ID); err != nil {
			logger.Error().Err(err).
				Str("groupID", group.ID).
				Msg("Failed to delete obsolete tag group")
			continue
		}
		logger.Info().
			Str("groupID", group.ID).
			Str("workingTitle", group.WorkingTitle).
			Msg("Deleted obsolete tag group")
	}

	return nil
}

// defaultProject 读出默认项目
func (s *GeneratorService) defaultProject(ctx context.Context) (*entity.Project, error) {
	record, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("get default project: %w", err)
	}
	return projectModelToEntity(record), nil
}

// groupWorkingTitle 字段 ID 派生的组内部名，跨语言稳定
func groupWorkingTitle(fieldID string) string {
	return tagname.Clear(fieldID)
}

// sameTags 比较当前生成标签集合与目标集合是否一致（忽略顺序）
func sameTags(current []string, wanted *delimited.Set) bool {
	if len(current) != wanted.Len() {
		return false
	}
	for _, tag := range current {
		if !wanted.Has(tag) {
			return false
		}
	}
	return true
}

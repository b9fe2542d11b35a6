package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/internal/productstags/repository/model"
	"github.com/jimyag/productstags/pkg/apierror"
	"github.com/jimyag/productstags/pkg/delimited"
	"github.com/jimyag/productstags/pkg/idgen"
	"github.com/jimyag/productstags/pkg/tagname"
)

// ProductService 产品写入口
// 所有改动都经过保存钩子，索引表始终跟着权威数据走
type ProductService struct {
	projectRepo repository.ProjectRepository
	productRepo repository.ProductRepository
	tagRepo     repository.TagRepository
	indexer     *IndexerService
}

// NewProductService 创建产品服务
func NewProductService(repo *repository.Repository, indexer *IndexerService) *ProductService {
	return &ProductService{
		projectRepo: repository.NewProjectRepository(repo.DB()),
		productRepo: repository.NewProductRepository(repo.DB()),
		tagRepo:     repository.NewTagRepository(repo.DB()),
		indexer:     indexer,
	}
}

// Create 创建产品
// 入库前清洗标签数据（去掉未启用语言和字典里不存在的标签），随后走保存钩子建索引
func (s *ProductService) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if product.ID == "" {
		id, err := idgen.GenerateProductID()
		if err != nil {
			return nil, fmt.Errorf("generate product id: %w", err)
		}
		product.ID = id
	} else if err := checkProductID(product.ID); err != nil {
		return nil, err
	}

	if err := s.sanitizeTags(ctx, product); err != nil {
		return nil, err
	}

	record, err := productEntityToModel(product)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	if err := s.productRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.indexer.OnProductSave(ctx, product, true, nil); err != nil {
		return nil, err
	}
	return product, nil
}

// Get 读取产品
func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	record, err := s.productRepo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return productModelToEntity(record)
}

// Update 整体更新产品
// 属性值可能变了，保存钩子会对该产品触发一次定向标签生成
func (s *ProductService) Update(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := checkProductID(product.ID); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, product.ID); err != nil {
		return nil, err
	}

	if err := s.sanitizeTags(ctx, product); err != nil {
		return nil, err
	}

	record, err := productEntityToModel(product)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	if err := s.productRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	if err := s.indexer.OnProductSave(ctx, product, true, nil); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除产品并把它从索引表里摘掉
// 等价于保存一个没有任何标签的产品：两张表里的行被删或减员
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	product.TagSet = entity.TagSet{}
	if err := s.indexer.OnProductSave(ctx, product, false, nil); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// AddTag 给产品添加一个用户标签
// 字典里没有的标签顺手入字典，标签名非法时拒绝
func (s *ProductService) AddTag(ctx context.Context, productID, lang, tag string) (*entity.Product, error) {
	project, title, err := s.checkTagInput(ctx, lang, tag)
	if err != nil {
		return nil, err
	}
	name := tagname.Clear(tag)

	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.tagRepo.Exists(ctx, project.Name, lang, name)
	if err != nil {
		return nil, fmt.Errorf("check tag %q: %w", name, err)
	}
	if !exists {
		if err := s.tagRepo.Create(ctx, &model.Tag{
			Project:   project.Name,
			Lang:      lang,
			Tag:       name,
			Title:     title,
			Generator: entity.GeneratorUser,
		}); err != nil {
			return nil, fmt.Errorf("create tag %q: %w", name, err)
		}
	}

	if !product.TagSet.Add(lang, name, entity.GeneratorUser) {
		// 已经带着这个标签，不重复保存
		return product, nil
	}

	return s.save(ctx, product)
}

// RemoveTag 从产品上摘掉一个标签
// 不区分来源：用户也可以手工摘掉生成的标签，下一次生成器运行可能再加回来
func (s *ProductService) RemoveTag(ctx context.Context, productID, lang, tag string) (*entity.Product, error) {
	if _, _, err := s.checkTagInput(ctx, lang, tag); err != nil {
		return nil, err
	}
	name := tagname.Clear(tag)

	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.TagSet.Remove(lang, name)
	return s.save(ctx, product)
}

// save 持久化并走保存钩子
func (s *ProductService) save(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	record, err := productEntityToModel(product)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	if err := s.productRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	if err := s.indexer.OnProductSave(ctx, product, false, nil); err != nil {
		return nil, err
	}
	return product, nil
}

// checkProductID 校验外部传入的产品 ID
// ID 会原样进入 tags_to_products 的分隔列表行，带分隔符的 ID 会被拆成多个假成员
func checkProductID(id string) error {
	if strings.Contains(id, delimited.Separator) {
		return apierror.ErrInvalidProductID
	}
	return nil
}

// checkTagInput 校验语言和标签名，返回默认项目和清洗前的标题
func (s *ProductService) checkTagInput(ctx context.Context, lang, tag string) (*entity.Project, string, error) {
	record, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("get default project: %w", err)
	}
	project := projectModelToEntity(record)
	if !project.HasLanguage(lang) {
		return nil, "", apierror.ErrLanguageNotEnabled
	}

	if tagname.Clear(tag) == "" {
		return nil, "", apierror.ErrInvalidTagName
	}
	return project, tag, nil
}

// sanitizeTags 产品保存前的标签清洗
// 丢掉未启用语言下的标签和字典里已不存在的标签
func (s *ProductService) sanitizeTags(ctx context.Context, product *entity.Product) error {
	logger := zerolog.Ctx(ctx)

	record, err := s.projectRepo.GetDefault(ctx)
	if err != nil {
		return fmt.Errorf("get default project: %w", err)
	}
	project := projectModelToEntity(record)

	product.TagSet = product.TagSet.Cleanup(project.Languages, func(lang, tag string) bool {
		exists, err := s.tagRepo.Exists(ctx, project.Name, lang, tag)
		if err != nil {
			logger.Error().Err(err).
				Str("tag", tag).
				Str("lang", lang).
				Msg("Failed to check tag existence, dropping tag")
			return false
		}
		return exists
	})
	return nil
}

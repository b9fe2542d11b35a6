package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/pkg/apierror"
	"github.com/jimyag/productstags/pkg/ginx"
)

func (a *API) registerProductRoutes(group *gin.RouterGroup) {
	group.POST("/products", ginx.Adapt5(a.createProduct))
	group.GET("/products/:id", ginx.Adapt5(a.getProduct))
	group.PUT("/products/:id", ginx.Adapt5(a.updateProduct))
	group.DELETE("/products/:id", ginx.Adapt4(a.deleteProduct))
	group.POST("/products/:id/tags", ginx.Adapt5(a.addProductTag))
	group.DELETE("/products/:id/tags/:tag", ginx.Adapt5(a.removeProductTag))
}

// CreateProductArgs 创建产品请求
type CreateProductArgs struct {
	ID          string                         `json:"id"`
	Active      *bool                          `json:"active"`
	Categories  []string                       `json:"categories"`
	FieldValues map[string][]string            `json:"fieldValues"`
	Tags        map[string][]ProductTagPayload `json:"tags"`
}

// ProductTagPayload 请求体里的一条标签分配
type ProductTagPayload struct {
	Tag       string `json:"tag"`
	Generator string `json:"generator"`
}

func (args *CreateProductArgs) toEntity() *entity.Product {
	active := true
	if args.Active != nil {
		active = *args.Active
	}

	tagSet := entity.TagSet{}
	for lang, tags := range args.Tags {
		for _, tag := range tags {
			generator := tag.Generator
			if generator == "" {
				generator = entity.GeneratorUser
			}
			tagSet.Add(lang, tag.Tag, generator)
		}
	}

	return &entity.Product{
		ID:          args.ID,
		Active:      active,
		Categories:  args.Categories,
		FieldValues: args.FieldValues,
		TagSet:      tagSet,
	}
}

func (a *API) createProduct(ctx *gin.Context, args *CreateProductArgs) (*entity.Product, error) {
	return a.products.Create(ctx, args.toEntity())
}

// ProductIDArgs 路径里的产品 ID
type ProductIDArgs struct {
	ID string `uri:"id" binding:"required"`
}

func (a *API) getProduct(ctx *gin.Context, args *ProductIDArgs) (*entity.Product, error) {
	return a.products.Get(ctx, args.ID)
}

// UpdateProductArgs 更新产品请求
type UpdateProductArgs struct {
	UriID string `uri:"id" json:"-"`
	CreateProductArgs
}

// IsValid 校验参数
func (args *UpdateProductArgs) IsValid() error {
	if args.UriID == "" {
		return apierror.NewError("InvalidParameter.Missing", "product id is required")
	}
	return nil
}

func (a *API) updateProduct(ctx *gin.Context, args *UpdateProductArgs) (*entity.Product, error) {
	product := args.toEntity()
	if args.ID != "" && args.ID != args.UriID {
		return nil, apierror.NewError("InvalidParameter.Mismatch", "product id in path and body differ")
	}
	product.ID = args.UriID
	return a.products.Update(ctx, product)
}

func (a *API) deleteProduct(ctx *gin.Context, args *ProductIDArgs) error {
	return a.products.Delete(ctx, args.ID)
}

// AddProductTagArgs 添加标签请求
type AddProductTagArgs struct {
	ID   string `uri:"id" json:"-"`
	Lang string `json:"lang"`
	Tag  string `json:"tag"`
}

// IsValid 校验参数
func (args *AddProductTagArgs) IsValid() error {
	if args.ID == "" || args.Lang == "" || args.Tag == "" {
		return apierror.NewError("InvalidParameter.Missing", "product id, lang and tag are required")
	}
	return nil
}

func (a *API) addProductTag(ctx *gin.Context, args *AddProductTagArgs) (*entity.Product, error) {
	return a.products.AddTag(ctx, args.ID, args.Lang, args.Tag)
}

// RemoveProductTagArgs 移除标签请求
type RemoveProductTagArgs struct {
	ID   string `uri:"id"`
	Tag  string `uri:"tag"`
	Lang string `form:"lang"`
}

// IsValid 校验参数
func (args *RemoveProductTagArgs) IsValid() error {
	if args.ID == "" || args.Tag == "" || args.Lang == "" {
		return apierror.NewError("InvalidParameter.Missing", "product id, tag and lang are required")
	}
	return nil
}

func (a *API) removeProductTag(ctx *gin.Context, args *RemoveProductTagArgs) (*entity.Product, error) {
	return a.products.RemoveTag(ctx, args.ID, args.Lang, args.Tag)
}

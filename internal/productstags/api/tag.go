package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jimyag/productstags/internal/productstags/entity"
	"github.com/jimyag/productstags/pkg/apierror"
	"github.com/jimyag/productstags/pkg/ginx"
)

func (a *API) registerTagRoutes(group *gin.RouterGroup) {
	group.GET("/tags", ginx.Adapt5(a.listTags))
	group.GET("/tags/products", ginx.Adapt5(a.getProductsFromTags))
	group.GET("/products/:id/tags", ginx.Adapt5(a.getProductTags))
	group.GET("/sites/:id/tags", ginx.Adapt5(a.getSiteTags))
	group.GET("/sites/:id/tag-groups", ginx.Adapt5(a.getSiteTagGroups))
}

// ListTagsArgs 标签字典查询
type ListTagsArgs struct {
	Lang string `form:"lang"`
}

// IsValid 校验参数
func (args *ListTagsArgs) IsValid() error {
	if args.Lang == "" {
		return apierror.NewError("InvalidParameter.Missing", "lang is required")
	}
	return nil
}

func (a *API) listTags(ctx *gin.Context, args *ListTagsArgs) ([]*entity.Tag, error) {
	return a.manager.ListTags(ctx, args.Lang)
}

// ProductsFromTagsArgs 按标签查产品
type ProductsFromTagsArgs struct {
	Lang    string `form:"lang"`
	Tags    string `form:"tags"` // 逗号分隔
	Limit   int    `form:"limit"`
	Details bool   `form:"details"` // 返回完整产品而不只是 ID
}

// IsValid 校验参数
func (args *ProductsFromTagsArgs) IsValid() error {
	if args.Lang == "" || args.Tags == "" {
		return apierror.NewError("InvalidParameter.Missing", "lang and tags are required")
	}
	return nil
}

func (args *ProductsFromTagsArgs) tagList() []string {
	tags := []string{}
	for _, tag := range strings.Split(args.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ProductsFromTagsResponse 按标签查产品的响应
type ProductsFromTagsResponse struct {
	ProductIDs []string          `json:"productIds"`
	Products   []*entity.Product `json:"products,omitempty"`
}

func (a *API) getProductsFromTags(ctx *gin.Context, args *ProductsFromTagsArgs) (*ProductsFromTagsResponse, error) {
	tags := args.tagList()

	if args.Details {
		products, err := a.manager.GetProductsFromTags(ctx, args.Lang, tags, args.Limit)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(products))
		for _, product := range products {
			ids = append(ids, product.ID)
		}
		return &ProductsFromTagsResponse{ProductIDs: ids, Products: products}, nil
	}

	ids, err := a.manager.GetProductIDsFromTags(ctx, args.Lang, tags, args.Limit)
	if err != nil {
		return nil, err
	}
	return &ProductsFromTagsResponse{ProductIDs: ids}, nil
}

// EntityTagsArgs 按 ID 加语言查标签
type EntityTagsArgs struct {
	ID   string `uri:"id"`
	Lang string `form:"lang"`
}

// IsValid 校验参数
func (args *EntityTagsArgs) IsValid() error {
	if args.ID == "" || args.Lang == "" {
		return apierror.NewError("InvalidParameter.Missing", "id and lang are required")
	}
	return nil
}

// TagsResponse 标签列表响应
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// ProductTagsArgs 查产品标签，可选截断数量
type ProductTagsArgs struct {
	ID    string `uri:"id"`
	Lang  string `form:"lang"`
	Limit int    `form:"limit"`
}

// IsValid 校验参数
func (args *ProductTagsArgs) IsValid() error {
	if args.ID == "" || args.Lang == "" {
		return apierror.NewError("InvalidParameter.Missing", "id and lang are required")
	}
	return nil
}

func (a *API) getProductTags(ctx *gin.Context, args *ProductTagsArgs) (*TagsResponse, error) {
	tags, err := a.manager.GetTagsFromProduct(ctx, args.Lang, args.ID, args.Limit)
	if err != nil {
		return nil, err
	}
	return &TagsResponse{Tags: tags}, nil
}

func (a *API) getSiteTags(ctx *gin.Context, args *EntityTagsArgs) (*TagsResponse, error) {
	tags, err := a.manager.GetTagsForSite(ctx, args.Lang, args.ID)
	if err != nil {
		return nil, err
	}
	return &TagsResponse{Tags: tags}, nil
}

func (a *API) getSiteTagGroups(ctx *gin.Context, args *EntityTagsArgs) ([]*entity.TagGroup, error) {
	return a.manager.GetTagGroupsForSite(ctx, args.Lang, args.ID)
}

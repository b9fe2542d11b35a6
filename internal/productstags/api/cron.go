package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jimyag/productstags/pkg/ginx"
)

func (a *API) registerCronRoutes(group *gin.RouterGroup) {
	group.POST("/cron/create-cache", ginx.Adapt1(a.createCache))
	group.POST("/cron/generate-tags", ginx.Adapt4(a.generateTags))
	group.POST("/cron/cleanup", ginx.Adapt1(a.cleanup))
}

func (a *API) createCache(ctx *gin.Context) error {
	return a.regenerator.CreateCache(ctx)
}

// GenerateTagsArgs 手动触发标签生成
// ProductIDs 非空时走定向模式
type GenerateTagsArgs struct {
	ProductIDs []string `json:"productIds"`
}

func (a *API) generateTags(ctx *gin.Context, args *GenerateTagsArgs) error {
	return a.generator.Generate(ctx, args.ProductIDs)
}

func (a *API) cleanup(ctx *gin.Context) error {
	return a.generator.Cleanup(ctx)
}

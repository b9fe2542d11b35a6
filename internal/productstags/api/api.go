// Package api 对外的 HTTP 接口
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jimyag/productstags/internal/productstags/service"
)

// API HTTP 处理器集合
type API struct {
	engine *gin.Engine
	server *http.Server

	products    *service.ProductService
	manager     *service.ManagerService
	regenerator *service.RegeneratorService
	generator   *service.GeneratorService
}

// New 创建 API
func New(
	address string,
	products *service.ProductService,
	manager *service.ManagerService,
	regenerator *service.RegeneratorService,
	generator *service.GeneratorService,
) (*API, error) {
	engine := gin.Default()
	api := &API{
		engine:      engine,
		products:    products,
		manager:     manager,
		regenerator: regenerator,
		generator:   generator,
	}
	api.registerRoutes(engine.Group("/api"))
	api.server = &http.Server{
		Addr:    address,
		Handler: engine,
	}
	return api, nil
}

func (a *API) registerRoutes(group *gin.RouterGroup) {
	a.registerProductRoutes(group)
	a.registerTagRoutes(group)
	a.registerCronRoutes(group)
}

// Run 启动 HTTP 服务
func (a *API) Run(ctx context.Context) error {
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅停机
func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "ProductsTags API"
}

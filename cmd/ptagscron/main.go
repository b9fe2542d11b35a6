// ptagscron 在服务进程之外运行维护任务
//
//	ptagscron create-cache            全量重建标签索引
//	ptagscron generate-tags [id ...]  运行属性标签生成器，带产品 ID 时定向重算
//	ptagscron cleanup                 摘除无属性值产品上的生成标签
//	ptagscron seed <file>             导入 YAML 种子文档
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/jimmicro/version"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jimyag/productstags/internal/productstags/config"
	"github.com/jimyag/productstags/internal/productstags/repository"
	"github.com/jimyag/productstags/internal/productstags/service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	ctx := logger.WithContext(context.Background())

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create config")
	}
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open repository")
	}
	defer repo.Close()

	guard := &service.BulkGuard{}
	indexer := service.NewIndexerService(repo, guard)
	generator := service.NewGeneratorService(repo, indexer)
	indexer.SetGenerator(generator)
	siteCache := service.NewSiteCacheService(repo, guard)
	regenerator := service.NewRegeneratorService(repo, indexer, siteCache, guard)

	switch os.Args[1] {
	case "create-cache":
		err = regenerator.CreateCache(ctx)
	case "generate-tags":
		err = generator.Generate(ctx, os.Args[2:])
	case "cleanup":
		err = generator.Cleanup(ctx)
	case "seed":
		if len(os.Args) != 3 {
			usage()
			os.Exit(2)
		}
		err = service.NewSetupService(repo).SeedFromFile(ctx, os.Args[2])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Command failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ptagscron <create-cache|generate-tags [id ...]|cleanup|seed <file>>")
}

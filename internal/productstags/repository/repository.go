// Package repository 提供数据持久化层实现
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// Repository 数据库仓库
type Repository struct {
	db *gorm.DB
}

// New 创建新的 Repository 实例
func New(dbPath string) (*Repository, error) {
	// 确保数据库目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// 连接数据库（使用纯 Go SQLite 驱动，不需要 CGO）
	// 直接使用 database/sql + modernc.org/sqlite 创建连接，然后传递给 GORM
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// 使用 GORM 的 Dialector 包装已创建的 sql.DB 连接
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	// 自动迁移
	if err := db.AutoMigrate(
		&model.Project{},
		&model.Product{},
		&model.ProductSearchCache{},
		&model.Field{},
		&model.Category{},
		&model.Site{},
		&model.Tag{},
		&model.TagGroup{},
		&model.TagGroupTag{},
		&model.ProductTags{},
		&model.TagProducts{},
		&model.SiteTags{},
		&model.CronState{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	// 创建索引（GORM 的 AutoMigrate 可能不会创建所有索引，手动确保）
	if err := createIndexes(db); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &Repository{db: db}, nil
}

// DB 返回 GORM 数据库实例（用于 Repository 实现）
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 返回带上下文的数据库实例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Close 关闭数据库连接
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// createIndexes 创建额外的索引和唯一约束
func createIndexes(db *gorm.DB) error {
	// 标签字典：同一项目、同一语言内标签名唯一
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name_unique
		ON tags(project, lang, tag)
	`).Error; err != nil {
		return fmt.Errorf("create unique index on tags(tag): %w", err)
	}

	// 标签字典：同一项目、同一语言内标题唯一（同一标题不产生两个标签名）
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_title_unique
		ON tags(project, lang, title)
	`).Error; err != nil {
		return fmt.Errorf("create unique index on tags(title): %w", err)
	}

	// 标签组成员：同一组内同一标签同一来源只有一条记录
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_tag_group_tags_unique
		ON tag_group_tags(group_id, tag, generator)
	`).Error; err != nil {
		return fmt.Errorf("create unique index on tag_group_tags: %w", err)
	}

	// 标签组：同一项目、语言下 (标题, 工作标题, 生成器) 唯一，生成器按这个三元组查找复用
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_tag_groups_lookup_unique
		ON tag_groups(project, lang, title, working_title, generator)
	`).Error; err != nil {
		return fmt.Errorf("create unique index on tag_groups: %w", err)
	}

	return nil
}

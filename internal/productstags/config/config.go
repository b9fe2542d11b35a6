package config

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type Config struct {
	// DBPath 是 SQLite 数据库文件路径
	// 可以通过环境变量 PTAGS_DB 配置
	// 默认：~/.local/share/productstags/productstags.db
	DBPath string

	// Address 是 HTTP 服务绑定地址
	// 可以通过环境变量 PTAGS_ADDRESS 配置
	Address string

	// SeedFile 是启动时导入的种子文档路径，为空则不导入
	// 可以通过环境变量 PTAGS_SEED 配置
	SeedFile string

	// GinMode 是 gin 的运行模式
	// 可以通过环境变量 PTAGS_GIN_MODE 配置，默认 release
	GinMode string
}

func New() (*Config, error) {
	cfg := &Config{
		DBPath:   getDBPath(),
		Address:  getAddress(),
		SeedFile: os.Getenv("PTAGS_SEED"),
		GinMode:  getGinMode(),
	}
	return cfg, nil
}

// getDBPath 获取数据库路径，优先使用环境变量
func getDBPath() string {
	// 1. 优先使用环境变量 PTAGS_DB
	if path := os.Getenv("PTAGS_DB"); path != "" {
		return path
	}

	// 2. 使用用户主目录下的 .local/share/productstags
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "productstags", "productstags.db")
	}

	// 3. 如果无法获取主目录，使用当前目录下的 data
	return filepath.Join(".", "data", "productstags.db")
}

// getAddress 获取绑定地址，优先使用环境变量 PTAGS_ADDRESS
func getAddress() string {
	if addr := os.Getenv("PTAGS_ADDRESS"); addr != "" {
		return addr
	}

	return "0.0.0.0:7878"
}

// getGinMode 获取 gin 运行模式，优先使用环境变量 PTAGS_GIN_MODE
func getGinMode() string {
	if mode := os.Getenv("PTAGS_GIN_MODE"); mode != "" {
		return mode
	}

	return gin.ReleaseMode
}

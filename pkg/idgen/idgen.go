package idgen

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// ErrNotInitialized Sonyflake 初始化失败后生成器不可用
var ErrNotInitialized = errors.New("sonyflake is not initialized")

// Generator 递增 ID 生成器
// 使用 Sonyflake 算法生成全局唯一且递增的 ID
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// initDefaultGenerator 初始化默认生成器
func initDefaultGenerator() {
	defaultGenerator = New()
}

// DefaultGenerator 返回默认的 ID 生成器
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	return defaultGenerator
}

// New 创建新的 ID 生成器
func New() *Generator {
	// 使用默认设置创建 Sonyflake
	// 如果需要自定义机器 ID，可以通过 Settings 配置
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), // 起始时间
	})
	if sf == nil {
		// 默认机器 ID 取私网 IP 低 16 位，没有私网 IP 的主机上会失败，
		// 退回用主机名哈希作为机器 ID
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			MachineID: machineIDFromHostname,
		})
	}

	return &Generator{
		sf: sf,
	}
}

// machineIDFromHostname 主机名哈希兜底的机器 ID
func machineIDFromHostname() (uint16, error) {
	name, err := os.Hostname()
	if err != nil {
		return 0, err
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return uint16(h.Sum32()), nil
}

// generateIDWithPrefix 生成带前缀的 ID
func (g *Generator) generateIDWithPrefix(prefix, errorMsg string) (string, error) {
	if g.sf == nil {
		return "", fmt.Errorf("%s: %w", errorMsg, ErrNotInitialized)
	}
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errorMsg, err)
	}
	return fmt.Sprintf("%s-%d", prefix, id), nil
}

// GenerateProductID 生成产品 ID（格式：prod-{递增 ID}）
func (g *Generator) GenerateProductID() (string, error) {
	return g.generateIDWithPrefix("prod", "generate product ID")
}

// GenerateTagGroupID 生成标签组 ID（格式：tg-{递增 ID}）
func (g *Generator) GenerateTagGroupID() (string, error) {
	return g.generateIDWithPrefix("tg", "generate tag group ID")
}

// GenerateSiteID 生成列表页 ID（格式：site-{递增 ID}）
func (g *Generator) GenerateSiteID() (string, error) {
	return g.generateIDWithPrefix("site", "generate site ID")
}

// GenerateID 生成通用递增 ID
func (g *Generator) GenerateID() (uint64, error) {
	if g.sf == nil {
		return 0, ErrNotInitialized
	}
	return g.sf.NextID()
}

// 包级别的便捷函数，使用默认生成器

// GenerateProductID 使用默认生成器生成产品 ID
func GenerateProductID() (string, error) {
	return DefaultGenerator().GenerateProductID()
}

// GenerateTagGroupID 使用默认生成器生成标签组 ID
func GenerateTagGroupID() (string, error) {
	return DefaultGenerator().GenerateTagGroupID()
}

// GenerateSiteID 使用默认生成器生成列表页 ID
func GenerateSiteID() (string, error) {
	return DefaultGenerator().GenerateSiteID()
}

// GenerateID 使用默认生成器生成通用递增 ID
func GenerateID() (uint64, error) {
	return DefaultGenerator().GenerateID()
}

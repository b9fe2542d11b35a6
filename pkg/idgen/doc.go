// Package idgen 提供递增 ID 生成器
//
// 使用 Sonyflake 算法生成全局唯一且递增的 ID。
// Sonyflake 是 Snowflake 算法的改进版本，生成的 ID 具有以下特性：
//   - 全局唯一
//   - 时间有序（递增）
//   - 64 位整数
//   - 分布式友好
//
// 生成的 ID 格式：
//   - 产品 ID: prod-{递增数字}
//   - 标签组 ID: tg-{递增数字}
//   - 列表页 ID: site-{递增数字}
//
// 使用方式：
//
// 方式一：使用包级别的便捷函数（推荐，使用默认生成器）
//
//	productID, err := idgen.GenerateProductID()
//	// productID: "prod-1234567890"
//
//	groupID, err := idgen.GenerateTagGroupID()
//	// groupID: "tg-1234567891"
//
// 方式二：使用默认生成器
//
//	gen := idgen.DefaultGenerator()
//	productID, err := gen.GenerateProductID()
//
// 方式三：创建自定义生成器
//
//	gen := idgen.New()
//	productID, err := gen.GenerateProductID()
package idgen

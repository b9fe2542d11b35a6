package entity

// BulkContext 批量操作的显式开关，代替全局可变状态
// 全量重建时通过它抑制逐产品的副作用
type BulkContext struct {
	// SuppressSearchCache 跳过产品搜索缓存列的回写
	SuppressSearchCache bool
	// SuppressEvents 跳过产品保存后的标签生成器触发
	SuppressEvents bool
}

// DefaultBulkContext 单个产品保存时使用的默认上下文：不抑制任何副作用
func DefaultBulkContext() *BulkContext {
	return &BulkContext{}
}

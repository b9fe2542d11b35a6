package model

import (
	"time"
)

// CronState 定时任务状态表，记录每个任务上次成功运行的时间
// 属性标签生成器用它实现增量模式
type CronState struct {
	Name    string    `gorm:"primaryKey;type:text;column:name" json:"name"`
	LastRun time.Time `gorm:"type:datetime;not null;column:last_run" json:"lastRun"`
}

// TableName 指定表名
func (CronState) TableName() string {
	return "cron_state"
}

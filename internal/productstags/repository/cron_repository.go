package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jimyag/productstags/internal/productstags/repository/model"
)

// CronRepository 定时任务状态仓库接口
type CronRepository interface {
	GetLastRun(ctx context.Context, name string) (time.Time, error)
	SetLastRun(ctx context.Context, name string, lastRun time.Time) error
}

type cronRepository struct {
	db *gorm.DB
}

// NewCronRepository 创建定时任务状态仓库
func NewCronRepository(db *gorm.DB) CronRepository {
	return &cronRepository{db: db}
}

// GetLastRun 获取任务上次成功运行的时间
// 从未运行过时返回零值时间
func (r *cronRepository) GetLastRun(ctx context.Context, name string) (time.Time, error) {
	var state model.CronState
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return state.LastRun, nil
}

// SetLastRun 记录任务成功运行的时间
func (r *cronRepository) SetLastRun(ctx context.Context, name string, lastRun time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_run"}),
		}).
		Create(&model.CronState{Name: name, LastRun: lastRun}).Error
}

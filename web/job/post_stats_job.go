package job

import (
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/metrics"

	"gorm.io/gorm"
)

// PostStatsJob publishes the number of posts in each status, so a growing
// moderation queue is visible on /metrics.
type PostStatsJob struct {
	db *gorm.DB
}

func NewPostStatsJob(db *gorm.DB) *PostStatsJob {
	return &PostStatsJob{db: db}
}

func (j *PostStatsJob) Run() {
	var rows []struct {
		Status model.PostStatus
		Count  int64
	}
	err := j.db.Model(&model.Post{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		logger.Warning("post stats job err:", err)
		return
	}

	counts := map[model.PostStatus]int64{
		model.PostPending:  0,
		model.PostApproved: 0,
		model.PostRejected: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	for status, n := range counts {
		metrics.PostsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
}

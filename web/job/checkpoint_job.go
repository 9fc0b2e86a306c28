package job

import (
	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/logger"

	"gorm.io/gorm"
)

// CheckpointJob folds the SQLite write-ahead log back into the database file.
type CheckpointJob struct {
	db *gorm.DB
}

func NewCheckpointJob(db *gorm.DB) *CheckpointJob {
	return &CheckpointJob{db: db}
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(j.db); err != nil {
		logger.Warning("wal checkpoint failed:", err)
		return
	}
	logger.Debug("wal checkpoint done")
}

package service

import (
	"context"
	"strings"

	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/util/metrics"
	"github.com/quillpress/quillpress/web/entity"

	"gorm.io/gorm"
)

// ModerationService moves posts out of pending. Approved and rejected are final.
type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

// ParseStatus reads the status filter of the admin listing; empty means pending.
func ParseStatus(raw string) (model.PostStatus, error) {
	switch status := model.PostStatus(strings.TrimSpace(raw)); status {
	case "":
		return model.PostPending, nil
	case model.PostPending, model.PostApproved, model.PostRejected:
		return status, nil
	default:
		return "", common.NewValidationError("invalid status", map[string][]string{
			"status": {"must be one of pending, approved, rejected"},
		})
	}
}

// List returns posts in the given status without expanding author or category.
func (s *ModerationService) List(ctx context.Context, status model.PostStatus, page entity.Page) ([]model.Post, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&model.Post{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	posts := make([]model.Post, 0, page.Limit)
	err := db.Where("status = ?", status).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *ModerationService) ListPending(ctx context.Context, page entity.Page) ([]model.Post, int64, error) {
	return s.List(ctx, model.PostPending, page)
}

func (s *ModerationService) Approve(ctx context.Context, id uint) error {
	return s.transition(ctx, id, "approved", map[string]any{
		"status": model.PostApproved,
	})
}

// Reject requires a non-blank comment, which is stored with the post.
func (s *ModerationService) Reject(ctx context.Context, id uint, form *entity.RejectForm) error {
	comment := strings.TrimSpace(form.Comment)
	if comment == "" {
		return common.NewValidationError("comment is required", map[string][]string{
			"comment": {"is required"},
		})
	}
	return s.transition(ctx, id, "rejected", map[string]any{
		"status":            model.PostRejected,
		"rejection_comment": comment,
	})
}

// transition applies updates to a pending post. The write is conditional on the
// status still being pending, so two concurrent decisions cannot both succeed.
func (s *ModerationService) transition(ctx context.Context, id uint, verb string, updates map[string]any) error {
	db := s.db.WithContext(ctx)
	post := &model.Post{}
	if err := db.First(post, id).Error; err != nil {
		if database.IsNotFound(err) {
			return common.NewNotFoundError("post not found")
		}
		return err
	}
	notPending := common.NewValidationError("only pending posts can be "+verb, nil)
	if post.Status != model.PostPending {
		return notPending
	}

	res := db.Model(&model.Post{}).
		Where("id = ? AND status = ?", id, model.PostPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notPending
	}

	metrics.ModerationDecisions.WithLabelValues(verb).Inc()
	logger.Infof("post %d %s", id, verb)
	return nil
}

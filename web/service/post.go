package service

import (
	"context"

	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/util/slug"
	"github.com/quillpress/quillpress/web/entity"

	"gorm.io/gorm"
)

// PostService serves authors and readers. Readers only ever see approved posts.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// slugTaken reports whether another post already uses s. exceptId 0 checks all posts.
func (s *PostService) slugTaken(db *gorm.DB, sl string, exceptId uint) (bool, error) {
	q := db.Model(&model.Post{}).Where("slug = ?", sl)
	if exceptId != 0 {
		q = q.Where("id <> ?", exceptId)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// Create stores a new pending post written by authorId.
func (s *PostService) Create(ctx context.Context, authorId uint, form *entity.CreatePostForm) (*model.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	sl := slug.Make(form.Title)
	taken, err := s.slugTaken(db, sl, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.NewConflictError("post slug already exists")
	}

	post := &model.Post{
		Title:      form.Title,
		Slug:       sl,
		Content:    form.Content,
		AuthorId:   authorId,
		CategoryId: form.CategoryId,
		Status:     model.PostPending,
	}
	if err := db.Create(post).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, common.NewConflictError("post slug already exists")
		}
		return nil, err
	}
	logger.Infof("post %d %q submitted by user %d", post.Id, post.Slug, authorId)
	return post, nil
}

// ListPublished returns approved posts with author and category filled in.
func (s *PostService) ListPublished(ctx context.Context, page entity.Page) ([]model.Post, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&model.Post{}).Where("status = ?", model.PostApproved).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	posts := make([]model.Post, 0, page.Limit)
	err := db.Preload("Author").Preload("Category").
		Where("status = ?", model.PostApproved).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPublished returns an approved post. Pending and rejected posts are reported
// as not found, to their authors as well.
func (s *PostService) GetPublished(ctx context.Context, id uint) (*model.Post, error) {
	post := &model.Post{}
	err := s.db.WithContext(ctx).Preload("Author").Preload("Category").
		Where("id = ? AND status = ?", id, model.PostApproved).
		First(post).Error
	if database.IsNotFound(err) {
		return nil, common.NewNotFoundError("post not found")
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Update changes the fields present in form. Only the author may edit, and only
// while the post is pending.
func (s *PostService) Update(ctx context.Context, callerId, id uint, form *entity.UpdatePostForm) (*model.Post, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	post, err := s.editable(db, callerId, id, "edit")
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if form.Title != nil {
		sl := slug.Make(*form.Title)
		taken, err := s.slugTaken(db, sl, post.Id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.NewConflictError("post slug already exists")
		}
		post.Title, post.Slug = *form.Title, sl
		updates["title"], updates["slug"] = post.Title, post.Slug
	}
	if form.Content != nil {
		post.Content = *form.Content
		updates["content"] = post.Content
	}
	if form.CategoryId != nil {
		post.CategoryId = *form.CategoryId
		updates["category_id"] = post.CategoryId
	}

	if err := db.Model(&model.Post{}).Where("id = ?", post.Id).Updates(updates).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, common.NewConflictError("post slug already exists")
		}
		return nil, err
	}
	return post, nil
}

// Delete removes a pending post on behalf of its author.
func (s *PostService) Delete(ctx context.Context, callerId, id uint) error {
	db := s.db.WithContext(ctx)
	if _, err := s.editable(db, callerId, id, "delete"); err != nil {
		return err
	}
	if err := db.Delete(&model.Post{}, id).Error; err != nil {
		return err
	}
	logger.Infof("post %d deleted by its author %d", id, callerId)
	return nil
}

// editable loads a post and checks that callerId wrote it and that it is still pending.
func (s *PostService) editable(db *gorm.DB, callerId, id uint, action string) (*model.Post, error) {
	post := &model.Post{}
	if err := db.First(post, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, common.NewNotFoundError("post not found")
		}
		return nil, err
	}
	if post.AuthorId != callerId {
		return nil, common.NewForbiddenError("you can only " + action + " your own posts")
	}
	if post.Status != model.PostPending {
		return nil, common.NewValidationError("you can only "+action+" pending posts", nil)
	}
	return post, nil
}

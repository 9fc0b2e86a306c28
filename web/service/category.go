package service

import (
	"context"
	"strings"

	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/logger"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/util/slug"
	"github.com/quillpress/quillpress/web/entity"

	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func categoryName(form *entity.CategoryForm) (string, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return "", common.NewValidationError("category name is required", map[string][]string{
			"name": {"is required"},
		})
	}
	return name, nil
}

// Create adds a category. Names must be unique at creation time.
func (s *CategoryService) Create(ctx context.Context, form *entity.CategoryForm) (*model.Category, error) {
	name, err := categoryName(form)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, common.NewConflictError("category already exists")
	}

	category := &model.Category{Name: name, Slug: slug.Make(name)}
	if err := db.Create(category).Error; err != nil {
		return nil, err
	}
	logger.Infof("category %d %q created", category.Id, category.Slug)
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, page entity.Page) ([]model.Category, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&model.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	categories := make([]model.Category, 0, page.Limit)
	err := db.Order("id ASC").Offset(page.Offset()).Limit(page.Limit).Find(&categories).Error
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Update renames a category. Unlike Create it does not check for a name clash.
func (s *CategoryService) Update(ctx context.Context, id uint, form *entity.CategoryForm) (*model.Category, error) {
	name, err := categoryName(form)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	category := &model.Category{}
	if err := db.First(category, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, common.NewNotFoundError("category not found")
		}
		return nil, err
	}

	category.Name = name
	category.Slug = slug.Make(name)
	if err := db.Model(category).Updates(map[string]any{"name": category.Name, "slug": category.Slug}).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Posts that reference it are left as they are.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	category := &model.Category{}
	if err := db.First(category, id).Error; err != nil {
		if database.IsNotFound(err) {
			return common.NewNotFoundError("category not found")
		}
		return err
	}
	if err := db.Delete(&model.Category{}, id).Error; err != nil {
		return err
	}
	logger.Infof("category %d deleted", id)
	return nil
}

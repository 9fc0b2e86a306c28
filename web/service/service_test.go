package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quillpress/quillpress/config"
	"github.com/quillpress/quillpress/database"
	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-signing-secret"

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	c, err := config.ParseDatabaseURL("sqlite://" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db, err := database.Open(c, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func registerForm(email string) *entity.RegisterForm {
	return &entity.RegisterForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "secret1",
		Avatar:    "https://example.com/a.png",
	}
}

func mustRegister(t *testing.T, db *gorm.DB, email string, role model.Role) *model.User {
	t.Helper()
	u, err := NewAuthService(db, testSecret).Register(context.Background(), registerForm(email), role)
	require.NoError(t, err)
	return u
}

func mustCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	c, err := NewCategoryService(db).Create(context.Background(), &entity.CategoryForm{Name: name})
	require.NoError(t, err)
	return c
}

func mustPost(t *testing.T, db *gorm.DB, authorId, categoryId uint, title string) *model.Post {
	t.Helper()
	p, err := NewPostService(db).Create(context.Background(), authorId, &entity.CreatePostForm{
		Title:      title,
		Content:    "Long enough content for a post.",
		CategoryId: categoryId,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T {
	return &v
}

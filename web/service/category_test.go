package service

import (
	"context"
	"testing"

	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate(t *testing.T) {
	db := setup(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	c, err := svc.Create(ctx, &entity.CategoryForm{Name: "  Go Tips "})
	require.NoError(t, err)
	assert.Equal(t, "Go Tips", c.Name)
	assert.Equal(t, "go-tips", c.Slug)

	_, err = svc.Create(ctx, &entity.CategoryForm{Name: "Go Tips"})
	assert.True(t, common.Is(err, common.KindConflict))

	_, err = svc.Create(ctx, &entity.CategoryForm{Name: "   "})
	assert.True(t, common.Is(err, common.KindValidation))
}

func TestCategoryList(t *testing.T) {
	db := setup(t)
	svc := NewCategoryService(db)
	for _, name := range []string{"One", "Two", "Three"} {
		mustCategory(t, db, name)
	}

	got, total, err := svc.List(context.Background(), entity.Page{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Three", got[0].Name)
}

func TestCategoryUpdate(t *testing.T) {
	db := setup(t)
	svc := NewCategoryService(db)
	ctx := context.Background()
	c := mustCategory(t, db, "News")
	mustCategory(t, db, "Misc")

	updated, err := svc.Update(ctx, c.Id, &entity.CategoryForm{Name: "Misc"})
	require.NoError(t, err)
	assert.Equal(t, "misc", updated.Slug)

	_, err = svc.Update(ctx, c.Id+100, &entity.CategoryForm{Name: "Other"})
	assert.True(t, common.Is(err, common.KindNotFound))
}

func TestCategoryDeleteKeepsPosts(t *testing.T) {
	db := setup(t)
	svc := NewCategoryService(db)
	ctx := context.Background()
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)
	c := mustCategory(t, db, "News")
	p := mustPost(t, db, u.Id, c.Id, "Hello World")

	require.NoError(t, svc.Delete(ctx, c.Id))

	var post model.Post
	require.NoError(t, db.First(&post, p.Id).Error)
	assert.Equal(t, c.Id, post.CategoryId)

	err := svc.Delete(ctx, c.Id)
	assert.True(t, common.Is(err, common.KindNotFound))
}

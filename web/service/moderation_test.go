package service

import (
	"context"
	"sync"
	"testing"

	"github.com/quillpress/quillpress/database/model"
	"github.com/quillpress/quillpress/util/common"
	"github.com/quillpress/quillpress/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]model.PostStatus{
		"":         model.PostPending,
		"pending":  model.PostPending,
		"approved": model.PostApproved,
		"rejected": model.PostRejected,
	} {
		got, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("draft")
	assert.True(t, common.Is(err, common.KindValidation))
}

func TestListPending(t *testing.T) {
	db := setup(t)
	svc := NewModerationService(db)
	ctx := context.Background()
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)
	c := mustCategory(t, db, "News")
	first := mustPost(t, db, u.Id, c.Id, "First Post")
	second := mustPost(t, db, u.Id, c.Id, "Second Post")
	require.NoError(t, svc.Approve(ctx, first.Id))

	list, total, err := svc.ListPending(ctx, entity.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, second.Id, list[0].Id)
	assert.Nil(t, list[0].Author)
	assert.Nil(t, list[0].Category)
}

func TestApprove(t *testing.T) {
	db := setup(t)
	svc := NewModerationService(db)
	ctx := context.Background()
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)
	c := mustCategory(t, db, "News")
	p := mustPost(t, db, u.Id, c.Id, "Hello World")

	require.NoError(t, svc.Approve(ctx, p.Id))

	err := svc.Approve(ctx, p.Id)
	assert.True(t, common.Is(err, common.KindValidation))
	err = svc.Reject(ctx, p.Id, &entity.RejectForm{Comment: "too late"})
	assert.True(t, common.Is(err, common.KindValidation))

	err = svc.Approve(ctx, p.Id+100)
	assert.True(t, common.Is(err, common.KindNotFound))

	got, err := NewPostService(db).GetPublished(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, model.PostApproved, got.Status)
}

func TestRejectStoresComment(t *testing.T) {
	db := setup(t)
	svc := NewModerationService(db)
	ctx := context.Background()
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)
	c := mustCategory(t, db, "News")
	p := mustPost(t, db, u.Id, c.Id, "Hello World")

	err := svc.Reject(ctx, p.Id, &entity.RejectForm{Comment: "  "})
	assert.True(t, common.Is(err, common.KindValidation))

	require.NoError(t, svc.Reject(ctx, p.Id, &entity.RejectForm{Comment: "needs sources"}))

	rejected, total, err := svc.List(ctx, model.PostRejected, entity.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rejected, 1)
	require.NotNil(t, rejected[0].RejectionComment)
	assert.Equal(t, "needs sources", *rejected[0].RejectionComment)

	err = svc.Approve(ctx, p.Id)
	assert.True(t, common.Is(err, common.KindValidation))
}

func TestConcurrentDecisionsOnlyOneWins(t *testing.T) {
	db := setup(t)
	svc := NewModerationService(db)
	ctx := context.Background()
	u := mustRegister(t, db, "ada@example.com", model.RoleUser)
	c := mustCategory(t, db, "News")
	p := mustPost(t, db, u.Id, c.Id, "Hello World")

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				errs[i] = svc.Approve(ctx, p.Id)
			} else {
				errs[i] = svc.Reject(ctx, p.Id, &entity.RejectForm{Comment: "no"})
			}
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}

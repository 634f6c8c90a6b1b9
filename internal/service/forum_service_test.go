package service_test

import (
	"context"
	"testing"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertMany(t *testing.T) {
	h := newHarness(t)

	forums, err := h.svc.Forums.InsertMany(context.Background(), []models.ForumInput{
		{Name: "English"}, {Name: "Japanese/日本語"},
	})
	require.NoError(t, err)
	require.Len(t, forums, 2)

	listed, err := h.svc.Forums.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "English", listed[0].Name)
	assert.Equal(t, forums[1].ID, listed[1].ID)
	assert.Equal(t, 1, h.repos.TxCalls)
}

func TestInsertMany_AllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		seed    []string
		batch   []models.ForumInput
		kind    apperr.Kind
		message string
	}{
		{
			name:    "duplicate of an existing forum",
			seed:    []string{"English"},
			batch:   []models.ForumInput{{Name: "Dutch/Nederlands"}, {Name: "English"}},
			kind:    apperr.KindConflict,
			message: "Forum name already exists",
		},
		{
			name:    "duplicate inside the batch",
			batch:   []models.ForumInput{{Name: "Others"}, {Name: "Others"}},
			kind:    apperr.KindConflict,
			message: "Forum name already exists",
		},
		{
			name:    "empty name",
			batch:   []models.ForumInput{{Name: "Others"}, {Name: ""}},
			kind:    apperr.KindValidation,
			message: "Forum name is required",
		},
		{
			name:    "empty batch",
			batch:   nil,
			kind:    apperr.KindValidation,
			message: "At least one forum is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			for _, name := range tt.seed {
				h.forum(t, name)
			}

			_, err := h.svc.Forums.InsertMany(context.Background(), tt.batch)

			assertKind(t, err, tt.kind, tt.message)
			assert.Len(t, h.repos.Store.Forums, len(tt.seed))
		})
	}
}

func TestDeleteForum_AnyAuthenticatedCaller(t *testing.T) {
	h := newHarness(t)
	forum := h.forum(t, "English")

	_, err := h.svc.Forums.Delete(context.Background(), auth.Anonymous, forum.ID)
	assertKind(t, err, apperr.KindUnauthenticated, apperr.MsgUnauthenticated)

	result, err := h.svc.Forums.Delete(context.Background(), auth.NewIdentity(models.NewID()), forum.ID)
	require.NoError(t, err)
	assert.Equal(t, "Forum with id "+forum.ID+" has been deleted", result.Message)

	_, err = h.svc.Forums.GetByID(context.Background(), forum.ID)
	assertKind(t, err, apperr.KindNotFound, "Forum not found")
}

func TestGetForum_PopulatesPostsInOrder(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	first := h.post(t, user, forum)
	second := h.post(t, user, forum)

	got, err := h.svc.Forums.GetByID(context.Background(), forum.ID)
	require.NoError(t, err)

	require.Len(t, got.Posts, 2)
	assert.Equal(t, first.ID, got.Posts[0].ID)
	assert.Equal(t, second.ID, got.Posts[1].ID)
}

func TestInsertForum_PostsRenderAsEmptyList(t *testing.T) {
	h := newHarness(t)

	forum := h.forum(t, "English")
	require.NotNil(t, forum.Posts)
	assert.Empty(t, forum.Posts)

	forums, err := h.svc.Forums.InsertMany(context.Background(), []models.ForumInput{{Name: "Japanese/日本語"}})
	require.NoError(t, err)
	require.NotNil(t, forums[0].Posts)
	assert.Empty(t, forums[0].Posts)
}

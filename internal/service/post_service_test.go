package service_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/config"
	"github.com/hacklingo-backend/internal/mocks"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_LinksAuthorAndForum(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")

	post := h.post(t, user, forum)

	assert.True(t, models.ValidID(post.ID))
	assert.Equal(t, []string{post.ID}, h.repos.Store.Users[user.ID].Posts)
	assert.Equal(t, []string{post.ID}, h.repos.Store.Forums[forum.ID].Posts)
	assert.Equal(t, 1, h.repos.TxCalls)
}

func TestCreatePost_RoundTrip(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	input := &models.PostInput{UserID: user.ID, ForumID: forum.ID, Title: "Halo", Content: "Salam kenal"}

	created, err := h.svc.Posts.Create(context.Background(), auth.NewIdentity(user.ID), input, nil)
	require.NoError(t, err)

	got, err := h.svc.Posts.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, input.UserID, got.UserID)
	assert.Equal(t, input.ForumID, got.ForumID)
	assert.Equal(t, input.Title, got.Title)
	assert.Equal(t, input.Content, got.Content)
	assert.Empty(t, got.Comments)
}

func TestCreatePost_TitleLength(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	caller := auth.NewIdentity(user.ID)

	_, err := h.svc.Posts.Create(context.Background(), caller, &models.PostInput{
		UserID: user.ID, ForumID: forum.ID, Title: strings.Repeat("a", 121), Content: "x",
	}, nil)
	assertKind(t, err, apperr.KindValidation, "Max title length is 120 characters")

	_, err = h.svc.Posts.Create(context.Background(), caller, &models.PostInput{
		UserID: user.ID, ForumID: forum.ID, Title: strings.Repeat("a", 120), Content: "x",
	}, nil)
	assert.NoError(t, err)
}

func TestCreatePost_Failures(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	other := h.register(t, "andi")
	forum := h.forum(t, "English")

	tests := []struct {
		name    string
		caller  auth.Identity
		input   models.PostInput
		kind    apperr.Kind
		message string
	}{
		{
			name:    "no identity",
			caller:  auth.Anonymous,
			input:   models.PostInput{UserID: user.ID, ForumID: forum.ID, Title: "t", Content: "c"},
			kind:    apperr.KindUnauthenticated,
			message: apperr.MsgUnauthenticated,
		},
		{
			name:    "posting as someone else",
			caller:  auth.NewIdentity(other.ID),
			input:   models.PostInput{UserID: user.ID, ForumID: forum.ID, Title: "t", Content: "c"},
			kind:    apperr.KindForbidden,
			message: apperr.MsgForbidden,
		},
		{
			name:    "missing title reported first",
			caller:  auth.NewIdentity(user.ID),
			input:   models.PostInput{UserID: user.ID},
			kind:    apperr.KindValidation,
			message: "Title is required",
		},
		{
			name:    "malformed forum id",
			caller:  auth.NewIdentity(user.ID),
			input:   models.PostInput{UserID: user.ID, ForumID: "short", Title: "t", Content: "c"},
			kind:    apperr.KindNotFound,
			message: "Forum not found",
		},
		{
			name:    "unknown forum",
			caller:  auth.NewIdentity(user.ID),
			input:   models.PostInput{UserID: user.ID, ForumID: models.NewID(), Title: "t", Content: "c"},
			kind:    apperr.KindNotFound,
			message: "Forum not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Posts.Create(context.Background(), tt.caller, &tt.input, nil)
			assertKind(t, err, tt.kind, tt.message)
		})
	}

	assert.Empty(t, h.repos.Store.Posts, "failed creates must not write")
	assert.Empty(t, h.repos.Store.Users[user.ID].Posts)
	assert.Empty(t, h.repos.Store.Forums[forum.ID].Posts)
}

func TestCreatePost_UserIDDefaultsToCaller(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	input := &models.PostInput{ForumID: forum.ID, Title: "t", Content: "c"}

	post, err := h.svc.Posts.Create(context.Background(), auth.NewIdentity(user.ID), input, nil)
	require.NoError(t, err)

	assert.Equal(t, user.ID, post.UserID)
	assert.Empty(t, input.UserID, "caller input is not mutated")
}

func TestCreatePost_WithImage(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	file := &models.Attachment{Filename: "voice.mp3", ContentType: "audio/mpeg", Body: strings.NewReader("ID3")}

	post, err := h.svc.Posts.Create(context.Background(), auth.NewIdentity(user.ID),
		&models.PostInput{ForumID: forum.ID, Title: "t", Content: "c"}, file)
	require.NoError(t, err)

	assert.Equal(t, "https://storage.googleapis.com/test-bucket/voice.mp3", post.ImageURL)
	require.Equal(t, 1, h.uploader.Count())
	assert.Equal(t, "ID3", h.uploader.Uploads[0].Body)
}

func TestCreatePost_ConcurrentAppendsAreKept(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.Posts.Create(context.Background(), auth.NewIdentity(user.ID),
				&models.PostInput{ForumID: forum.ID, Title: "t", Content: "c"}, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, h.repos.Store.Users[user.ID].Posts, n)
	assert.Len(t, h.repos.Store.Forums[forum.ID].Posts, n)
}

func TestUpdatePost(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	post := h.post(t, user, forum)
	comment := h.comment(t, user, post)
	title := "Judul baru"

	updated, err := h.svc.Posts.Update(context.Background(), auth.NewIdentity(user.ID), post.ID,
		&models.PostPatch{Title: &title}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Judul baru", updated.Title)
	assert.Equal(t, post.Content, updated.Content)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, comment.ID, updated.Comments[0].ID)
}

func TestUpdatePost_NonOwnerForbidden(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	other := h.register(t, "andi")
	forum := h.forum(t, "English")
	post := h.post(t, user, forum)
	title := "hijacked"

	_, err := h.svc.Posts.Update(context.Background(), auth.NewIdentity(other.ID), post.ID,
		&models.PostPatch{Title: &title}, nil)

	assertKind(t, err, apperr.KindForbidden, "You are forbidden from doing this action")
	assert.Equal(t, "Belajar bahasa", h.repos.Store.Posts[post.ID].Title)
}

func TestUpdatePost_TitleTooLong(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	post := h.post(t, user, forum)
	title := strings.Repeat("b", 121)

	_, err := h.svc.Posts.Update(context.Background(), auth.NewIdentity(user.ID), post.ID,
		&models.PostPatch{Title: &title}, nil)

	assertKind(t, err, apperr.KindValidation, "Max title length is 120 characters")
}

func TestDeletePost_KeepsBackReferences(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	post := h.post(t, user, forum)

	result, err := h.svc.Posts.Delete(context.Background(), auth.NewIdentity(user.ID), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Post with id "+post.ID+" has been deleted", result.Message)

	assert.Equal(t, []string{post.ID}, h.repos.Store.Users[user.ID].Posts)
	assert.Equal(t, []string{post.ID}, h.repos.Store.Forums[forum.ID].Posts)

	got, err := h.svc.Forums.GetByID(context.Background(), forum.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Posts, "population skips the deleted post")
}

func TestCreatePost_FailedLinkRollsBack(t *testing.T) {
	h := newHarness(t)
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	h.repos.BeforeTx = func() { delete(h.repos.Store.Forums, forum.ID) }
	file := &models.Attachment{Filename: "board.png", ContentType: "image/png", Body: strings.NewReader("png")}

	_, err := h.svc.Posts.Create(context.Background(), auth.NewIdentity(user.ID), &models.PostInput{
		UserID:  user.ID,
		ForumID: forum.ID,
		Title:   "Belajar bahasa",
		Content: "Ada yang mau latihan bareng?",
	}, file)

	assertKind(t, err, apperr.KindNotFound, "Forum not found")
	assert.Equal(t, 1, h.repos.RolledBack)
	assert.Empty(t, h.repos.Store.Posts)
	assert.Empty(t, h.repos.Store.Users[user.ID].Posts)

	require.Equal(t, 1, h.uploader.Count())
	assert.Equal(t, []string{"https://storage.googleapis.com/test-bucket/board.png"}, h.uploader.Removed)
}

// racingUploader deletes a record while its upload is in flight
type racingUploader struct {
	*mocks.MockUploader
	onUpload func()
}

func (u *racingUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	u.onUpload()
	return u.MockUploader.Upload(ctx, filename, contentType, body)
}

func TestUpdatePost_FailedWriteDiscardsUpload(t *testing.T) {
	var repos *mocks.MockRepositories
	var postID string
	h := newHarness(t, func(cfg *config.Config, collab *service.Collaborators) {
		collab.Uploader = &racingUploader{
			MockUploader: collab.Uploader.(*mocks.MockUploader),
			onUpload:     func() { delete(repos.Store.Posts, postID) },
		}
	})
	repos = h.repos
	user := h.register(t, "budi")
	forum := h.forum(t, "English")
	postID = h.post(t, user, forum).ID
	file := &models.Attachment{Filename: "new.png", ContentType: "image/png", Body: strings.NewReader("png")}

	_, err := h.svc.Posts.Update(context.Background(), auth.NewIdentity(user.ID), postID, &models.PostPatch{}, file)

	assertKind(t, err, apperr.KindNotFound, "Post not found")
	require.Equal(t, 1, h.uploader.Count())
	assert.Equal(t, []string{"https://storage.googleapis.com/test-bucket/new.png"}, h.uploader.Removed)
}

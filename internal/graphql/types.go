package graphql

import (
	"time"

	"github.com/hacklingo-backend/internal/models"
)

// Object resolvers. Every schema field is nullable, so scalars resolve to
// pointers and an empty string or zero time renders as null.

func text(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func texts(values []string) *[]*string {
	if values == nil {
		return nil
	}
	out := make([]*string, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return &out
}

type userResolver struct {
	user *models.User

	// populated users carry resolved posts and comments; otherwise the
	// stored ids are rendered as id-only records
	populated bool
	posts     []*models.Post
	comments  []*models.Comment
}

func newUser(u *models.User) *userResolver {
	return &userResolver{user: u}
}

func newPopulatedUser(u *models.PopulatedUser) *userResolver {
	return &userResolver{user: u.User, populated: true, posts: u.Posts, comments: u.Comments}
}

// newUserSummary renders a search projection; back-references and
// timestamps resolve to null
func newUserSummary(s *models.UserSummary) *userResolver {
	return &userResolver{user: &models.User{
		ID:              s.ID,
		Username:        s.Username,
		Email:           s.Email,
		Role:            s.Role,
		NativeLanguage:  s.NativeLanguage,
		TargetLanguage:  s.TargetLanguage,
		ProfileImageURL: s.ProfileImageURL,
	}}
}

func newUserSummaries(summaries []*models.UserSummary) *[]*userResolver {
	out := make([]*userResolver, len(summaries))
	for i, s := range summaries {
		out[i] = newUserSummary(s)
	}
	return &out
}

func (r *userResolver) ID() *string { return text(r.user.ID) }
func (r *userResolver) Username() *string { return text(r.user.Username) }
func (r *userResolver) Email() *string { return text(r.user.Email) }
func (r *userResolver) Role() *string { return text(r.user.Role) }
func (r *userResolver) NativeLanguage() *string { return text(r.user.NativeLanguage) }
func (r *userResolver) TargetLanguage() *[]*string { return texts(r.user.TargetLanguage) }
func (r *userResolver) ProfileImageURL() *string { return text(r.user.ProfileImageURL) }
func (r *userResolver) CreatedAt() *string { return timestamp(r.user.CreatedAt) }
func (r *userResolver) UpdatedAt() *string { return timestamp(r.user.UpdatedAt) }

func (r *userResolver) Posts() *[]*postResolver {
	if r.populated {
		return newPosts(r.posts)
	}
	return postRefs(r.user.Posts)
}

func (r *userResolver) Comments() *[]*commentResolver {
	if r.populated {
		return newComments(r.comments)
	}
	return commentRefs(r.user.Comments)
}

type postResolver struct {
	post *models.Post

	populated bool
	comments  []*models.Comment
}

func newPost(p *models.Post) *postResolver {
	return &postResolver{post: p}
}

func newPopulatedPost(p *models.PopulatedPost) *postResolver {
	return &postResolver{post: p.Post, populated: true, comments: p.Comments}
}

func newPosts(posts []*models.Post) *[]*postResolver {
	out := make([]*postResolver, len(posts))
	for i, p := range posts {
		out[i] = newPost(p)
	}
	return &out
}

// postRefs renders unpopulated back-references as posts holding only an id
func postRefs(ids []string) *[]*postResolver {
	if ids == nil {
		return nil
	}
	out := make([]*postResolver, len(ids))
	for i, id := range ids {
		out[i] = newPost(&models.Post{ID: id})
	}
	return &out
}

func (r *postResolver) ID() *string { return text(r.post.ID) }
func (r *postResolver) UserID() *string { return text(r.post.UserID) }
func (r *postResolver) ForumID() *string { return text(r.post.ForumID) }
func (r *postResolver) Title() *string { return text(r.post.Title) }
func (r *postResolver) Content() *string { return text(r.post.Content) }
func (r *postResolver) ImageURL() *string { return text(r.post.ImageURL) }
func (r *postResolver) CreatedAt() *string { return timestamp(r.post.CreatedAt) }
func (r *postResolver) UpdatedAt() *string { return timestamp(r.post.UpdatedAt) }

func (r *postResolver) Comments() *[]*commentResolver {
	if r.populated {
		return newComments(r.comments)
	}
	return commentRefs(r.post.Comments)
}

type commentResolver struct {
	comment *models.Comment
}

func newComment(c *models.Comment) *commentResolver {
	return &commentResolver{comment: c}
}

func newComments(comments []*models.Comment) *[]*commentResolver {
	out := make([]*commentResolver, len(comments))
	for i, c := range comments {
		out[i] = newComment(c)
	}
	return &out
}

func commentRefs(ids []string) *[]*commentResolver {
	if ids == nil {
		return nil
	}
	out := make([]*commentResolver, len(ids))
	for i, id := range ids {
		out[i] = newComment(&models.Comment{ID: id})
	}
	return &out
}

func (r *commentResolver) ID() *string { return text(r.comment.ID) }
func (r *commentResolver) UserID() *string { return text(r.comment.UserID) }
func (r *commentResolver) PostID() *string { return text(r.comment.PostID) }
func (r *commentResolver) Content() *string { return text(r.comment.Content) }
func (r *commentResolver) CreatedAt() *string { return timestamp(r.comment.CreatedAt) }
func (r *commentResolver) UpdatedAt() *string { return timestamp(r.comment.UpdatedAt) }

type forumResolver struct {
	forum *models.Forum

	populated bool
	posts     []*models.Post
}

func newForum(f *models.Forum) *forumResolver {
	return &forumResolver{forum: f}
}

func newPopulatedForum(f *models.PopulatedForum) *forumResolver {
	return &forumResolver{forum: f.Forum, populated: true, posts: f.Posts}
}

func (r *forumResolver) ID() *string { return text(r.forum.ID) }
func (r *forumResolver) Name() *string { return text(r.forum.Name) }
func (r *forumResolver) CreatedAt() *string { return timestamp(r.forum.CreatedAt) }
func (r *forumResolver) UpdatedAt() *string { return timestamp(r.forum.UpdatedAt) }

func (r *forumResolver) Posts() *[]*postResolver {
	if r.populated {
		return newPosts(r.posts)
	}
	return postRefs(r.forum.Posts)
}

type messageResolver struct {
	message string
}

func newMessage(res *models.DeleteResult) *messageResolver {
	return &messageResolver{message: res.Message}
}

func (r *messageResolver) Message() *string { return text(r.message) }

type insertForumsResolver struct {
	result *models.InsertForumsResult
}

func (r *insertForumsResolver) Message() *string { return text(r.result.Message) }
func (r *insertForumsResolver) Forums() *[]*string { return texts(r.result.Forums) }

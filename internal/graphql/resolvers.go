package graphql

import (
	"context"

	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/service"
)

// Uploads are multipart-only, so GraphQL mutations never carry an attachment.

type callerKey struct{}

func withCaller(ctx context.Context, caller auth.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func callerFrom(ctx context.Context) auth.Identity {
	caller, _ := ctx.Value(callerKey{}).(auth.Identity)
	return caller
}

// Input objects. Every input field is nullable.

type signUpInput struct {
	Username       *string
	Email          *string
	Password       *string
	Role           *string
	NativeLanguage *string
	TargetLanguage *[]*string
}

type loginInput struct {
	Email    *string
	Password *string
}

type postInput struct {
	UserID  *string
	Content *string
	Title   *string
	ForumID *string
}

type commentInput struct {
	UserID  *string
	Content *string
	PostID  *string
}

type forumInput struct {
	Name *string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefAll(values *[]*string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(*values))
	for _, v := range *values {
		out = append(out, deref(v))
	}
	return out
}

// rootResolver serves both Query and Mutation fields
type rootResolver struct {
	h        *Handler
	services *service.Services
}

func (r *rootResolver) fail(field string, err error) error {
	r.h.observeError(err, field)
	return newResolverError(err)
}

func (r *rootResolver) FindUsersByNativeLanguage(ctx context.Context, args struct{ NativeLanguage *string }) (*[]*userResolver, error) {
	users, err := r.services.Users.Find(ctx, models.UserFilter{NativeLanguage: deref(args.NativeLanguage)})
	if err != nil {
		return nil, r.fail("findUsersByNativeLanguage", err)
	}
	return newUserSummaries(users), nil
}

func (r *rootResolver) FindUsers(ctx context.Context, args struct {
	NativeLanguage *string
	Username       *string
}) (*[]*userResolver, error) {
	users, err := r.services.Users.Find(ctx, models.UserFilter{
		NativeLanguage: deref(args.NativeLanguage),
		Username:       deref(args.Username),
	})
	if err != nil {
		return nil, r.fail("findUsers", err)
	}
	return newUserSummaries(users), nil
}

func (r *rootResolver) FindUserByID(ctx context.Context, args struct{ ID *string }) (*userResolver, error) {
	user, err := r.services.Users.GetByID(ctx, deref(args.ID))
	if err != nil {
		return nil, r.fail("findUserById", err)
	}
	return newPopulatedUser(user), nil
}

func (r *rootResolver) FindAllForums(ctx context.Context) (*[]*forumResolver, error) {
	forums, err := r.services.Forums.List(ctx)
	if err != nil {
		return nil, r.fail("findAllForums", err)
	}
	out := make([]*forumResolver, len(forums))
	for i, f := range forums {
		out[i] = newForum(f)
	}
	return &out, nil
}

func (r *rootResolver) FindForumByID(ctx context.Context, args struct{ ID *string }) (*forumResolver, error) {
	forum, err := r.services.Forums.GetByID(ctx, deref(args.ID))
	if err != nil {
		return nil, r.fail("findForumById", err)
	}
	return newPopulatedForum(forum), nil
}

func (r *rootResolver) FindPostByID(ctx context.Context, args struct{ ID *string }) (*postResolver, error) {
	post, err := r.services.Posts.GetByID(ctx, deref(args.ID))
	if err != nil {
		return nil, r.fail("findPostById", err)
	}
	return newPopulatedPost(post), nil
}

func (r *rootResolver) FindCommentByID(ctx context.Context, args struct{ ID *string }) (*commentResolver, error) {
	comment, err := r.services.Comments.GetByID(ctx, deref(args.ID))
	if err != nil {
		return nil, r.fail("findCommentById", err)
	}
	return newComment(comment), nil
}

func (r *rootResolver) InsertNewUser(ctx context.Context, args struct{ Input signUpInput }) (*userResolver, error) {
	in := args.Input
	user, err := r.services.Users.Register(ctx, &models.UserInput{
		Username:       deref(in.Username),
		Email:          deref(in.Email),
		Password:       deref(in.Password),
		NativeLanguage: deref(in.NativeLanguage),
		Role:           deref(in.Role),
		TargetLanguage: derefAll(in.TargetLanguage),
	}, nil)
	if err != nil {
		return nil, r.fail("insertNewUser", err)
	}
	return newUser(user), nil
}

func (r *rootResolver) Login(ctx context.Context, args struct{ Input loginInput }) (*userResolver, error) {
	user, err := r.services.Users.Login(ctx, &models.LoginInput{
		Email:    deref(args.Input.Email),
		Password: deref(args.Input.Password),
	})
	if err != nil {
		return nil, r.fail("login", err)
	}
	return newUser(user), nil
}

func (r *rootResolver) UpdateUserByID(ctx context.Context, args struct {
	Input signUpInput
	ID    *string
}) (*userResolver, error) {
	in := args.Input
	summary, err := r.services.Users.Update(ctx, callerFrom(ctx), deref(args.ID), &models.UserPatch{
		Username:       in.Username,
		Email:          in.Email,
		Password:       in.Password,
		NativeLanguage: in.NativeLanguage,
		Role:           in.Role,
		TargetLanguage: derefAll(in.TargetLanguage),
	}, nil)
	if err != nil {
		return nil, r.fail("updateUserById", err)
	}
	return newUserSummary(summary), nil
}

func (r *rootResolver) DeleteUserByID(ctx context.Context, args struct{ ID string }) (*messageResolver, error) {
	res, err := r.services.Users.Delete(ctx, callerFrom(ctx), args.ID)
	if err != nil {
		return nil, r.fail("deleteUserById", err)
	}
	return newMessage(res), nil
}

func (r *rootResolver) InsertNewPost(ctx context.Context, args struct{ Input postInput }) (*postResolver, error) {
	in := args.Input
	post, err := r.services.Posts.Create(ctx, callerFrom(ctx), &models.PostInput{
		UserID:  deref(in.UserID),
		Title:   deref(in.Title),
		Content: deref(in.Content),
		ForumID: deref(in.ForumID),
	}, nil)
	if err != nil {
		return nil, r.fail("insertNewPost", err)
	}
	return newPost(post), nil
}

// UpdatePostByID ignores userId and forumId; both are fixed at creation
func (r *rootResolver) UpdatePostByID(ctx context.Context, args struct {
	Input postInput
	ID    *string
}) (*postResolver, error) {
	post, err := r.services.Posts.Update(ctx, callerFrom(ctx), deref(args.ID), &models.PostPatch{
		Title:   args.Input.Title,
		Content: args.Input.Content,
	}, nil)
	if err != nil {
		return nil, r.fail("updatePostById", err)
	}
	return newPopulatedPost(post), nil
}

func (r *rootResolver) DeletePostByID(ctx context.Context, args struct{ ID string }) (*messageResolver, error) {
	res, err := r.services.Posts.Delete(ctx, callerFrom(ctx), args.ID)
	if err != nil {
		return nil, r.fail("deletePostById", err)
	}
	return newMessage(res), nil
}

func (r *rootResolver) InsertForums(ctx context.Context, args struct{ Input []*forumInput }) (*insertForumsResolver, error) {
	inputs := make([]models.ForumInput, len(args.Input))
	for i, in := range args.Input {
		if in != nil {
			inputs[i].Name = deref(in.Name)
		}
	}
	forums, err := r.services.Forums.InsertMany(ctx, inputs)
	if err != nil {
		return nil, r.fail("insertForums", err)
	}
	return &insertForumsResolver{result: models.NewInsertForumsResult(forums)}, nil
}

func (r *rootResolver) InsertForum(ctx context.Context, args struct{ Input forumInput }) (*forumResolver, error) {
	forum, err := r.services.Forums.Insert(ctx, &models.ForumInput{Name: deref(args.Input.Name)})
	if err != nil {
		return nil, r.fail("insertForum", err)
	}
	return newForum(forum), nil
}

func (r *rootResolver) DeleteForumByID(ctx context.Context, args struct{ ID string }) (*messageResolver, error) {
	res, err := r.services.Forums.Delete(ctx, callerFrom(ctx), args.ID)
	if err != nil {
		return nil, r.fail("deleteForumById", err)
	}
	return newMessage(res), nil
}

func (r *rootResolver) InsertNewComment(ctx context.Context, args struct{ Input commentInput }) (*commentResolver, error) {
	in := args.Input
	comment, err := r.services.Comments.Create(ctx, callerFrom(ctx), &models.CommentInput{
		UserID:  deref(in.UserID),
		Content: deref(in.Content),
		PostID:  deref(in.PostID),
	})
	if err != nil {
		return nil, r.fail("insertNewComment", err)
	}
	return newComment(comment), nil
}

func (r *rootResolver) UpdateCommentByID(ctx context.Context, args struct {
	Input commentInput
	ID    *string
}) (*commentResolver, error) {
	comment, err := r.services.Comments.Update(ctx, callerFrom(ctx), deref(args.ID), &models.CommentPatch{
		Content: args.Input.Content,
	})
	if err != nil {
		return nil, r.fail("updateCommentById", err)
	}
	return newComment(comment), nil
}

func (r *rootResolver) DeleteCommentByID(ctx context.Context, args struct{ ID string }) (*messageResolver, error) {
	res, err := r.services.Comments.Delete(ctx, callerFrom(ctx), args.ID)
	if err != nil {
		return nil, r.fail("deleteCommentById", err)
	}
	return newMessage(res), nil
}

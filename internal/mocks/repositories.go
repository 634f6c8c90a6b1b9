package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/repository"
)

// Store is the shared in-memory table set behind the mock repositories. It
// emulates the unique indexes and the non-cascading deletes of the real
// schema, and hands out copies so callers cannot mutate stored rows.
type Store struct {
	mu sync.Mutex

	Users    map[string]*models.User
	Forums   map[string]*models.Forum
	Posts    map[string]*models.Post
	Comments map[string]*models.Comment

	userOrder  []string
	forumOrder []string

	// Err, when set, is returned by every repository call
	Err error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		Users:    make(map[string]*models.User),
		Forums:   make(map[string]*models.Forum),
		Posts:    make(map[string]*models.Post),
		Comments: make(map[string]*models.Comment),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.TargetLanguage = copyStrings(u.TargetLanguage)
	c.Posts = copyStrings(u.Posts)
	c.Comments = copyStrings(u.Comments)
	return &c
}

func cloneForum(f *models.Forum) *models.Forum {
	c := *f
	c.Posts = copyStrings(f.Posts)
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Comments = copyStrings(p.Comments)
	return &c
}

func cloneComment(cm *models.Comment) *models.Comment {
	c := *cm
	return &c
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// snapshot returns a deep copy of the tables
func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := NewStore()
	for id, u := range s.Users {
		c.Users[id] = cloneUser(u)
	}
	for id, f := range s.Forums {
		c.Forums[id] = cloneForum(f)
	}
	for id, p := range s.Posts {
		c.Posts[id] = clonePost(p)
	}
	for id, cm := range s.Comments {
		c.Comments[id] = cloneComment(cm)
	}
	c.userOrder = copyStrings(s.userOrder)
	c.forumOrder = copyStrings(s.forumOrder)
	return c
}

// restore puts the tables of snap back in place. Err is left alone.
func (s *Store) restore(snap *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Users = snap.Users
	s.Forums = snap.Forums
	s.Posts = snap.Posts
	s.Comments = snap.Comments
	s.userOrder = snap.userOrder
	s.forumOrder = snap.forumOrder
}

// MockRepositories bundles mock repositories over one Store. It also acts
// as the TxRunner: transactions run one at a time and a failed one leaves
// the store as it was before it began.
type MockRepositories struct {
	Store   *Store
	User    *MockUserRepository
	Forum   *MockForumRepository
	Post    *MockPostRepository
	Comment *MockCommentRepository
	Ref     *MockReferenceRepository

	// BeforeTx, when set, runs at the start of every transaction before
	// the rollback point is taken. Tests use it to commit a competing
	// change between a service's checks and its writes.
	BeforeTx func()

	TxCalls    int
	RolledBack int
	txMu       sync.Mutex
}

var _ repository.TxRunner = (*MockRepositories)(nil)

// NewMockRepositories creates mock repositories over a fresh store
func NewMockRepositories() *MockRepositories {
	store := NewStore()
	return &MockRepositories{
		Store:   store,
		User:    &MockUserRepository{store: store},
		Forum:   &MockForumRepository{store: store},
		Post:    &MockPostRepository{store: store},
		Comment: &MockCommentRepository{store: store},
		Ref:     &MockReferenceRepository{store: store},
	}
}

// Repositories returns the aggregate used by services
func (m *MockRepositories) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:      m.User,
		Forum:     m.Forum,
		Post:      m.Post,
		Comment:   m.Comment,
		Reference: m.Ref,
	}
}

func (m *MockRepositories) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.TxCalls++
	if m.BeforeTx != nil {
		m.BeforeTx()
	}

	snap := m.Store.snapshot()
	if err := fn(m.Repositories()); err != nil {
		m.Store.restore(snap)
		m.RolledBack++
		return err
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	store *Store
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) taken(user *models.User) bool {
	for id, u := range m.store.Users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return true
		}
	}
	return false
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return m.store.Err
	}
	if m.taken(user) {
		return apperr.Conflict(apperr.MsgUserTaken, fmt.Errorf("duplicate username/email"))
	}
	user.CreatedAt, user.UpdatedAt = now(), now()
	m.store.Users[user.ID] = cloneUser(user)
	m.store.userOrder = append(m.store.userOrder, user.ID)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	if u, ok := m.store.Users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	for _, u := range m.store.Users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) FindByFilter(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	users := []*models.User{}
	needle := strings.ToLower(filter.Username)
	for _, id := range m.store.userOrder {
		u := m.store.Users[id]
		if filter.NativeLanguage != "" && u.NativeLanguage != filter.NativeLanguage {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(u.Username), needle) {
			continue
		}
		users = append(users, cloneUser(u))
	}
	return users, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	stored, ok := m.store.Users[user.ID]
	if !ok {
		return false, nil
	}
	if m.taken(user) {
		return false, apperr.Conflict(apperr.MsgUserTaken, fmt.Errorf("duplicate username/email"))
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Role = user.Role
	stored.NativeLanguage = user.NativeLanguage
	stored.TargetLanguage = copyStrings(user.TargetLanguage)
	stored.ProfileImageURL = user.ProfileImageURL
	stored.UpdatedAt = now()
	user.UpdatedAt = stored.UpdatedAt
	return true, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	if _, ok := m.store.Users[id]; !ok {
		return false, nil
	}
	delete(m.store.Users, id)
	m.store.userOrder = removeID(m.store.userOrder, id)
	return true, nil
}

func (m *MockUserRepository) AppendPost(ctx context.Context, userID, postID string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	u, ok := m.store.Users[userID]
	if !ok {
		return false, nil
	}
	u.Posts = append(u.Posts, postID)
	return true, nil
}

func (m *MockUserRepository) AppendComment(ctx context.Context, userID, commentID string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	u, ok := m.store.Users[userID]
	if !ok {
		return false, nil
	}
	u.Comments = append(u.Comments, commentID)
	return true, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return len(m.store.Users), m.store.Err
}

// MockForumRepository is a mock implementation of ForumRepository
type MockForumRepository struct {
	store *Store

	BatchInsertCalls int
}

var _ repository.ForumRepository = (*MockForumRepository)(nil)

func (m *MockForumRepository) nameTaken(name string) bool {
	for _, f := range m.store.Forums {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (m *MockForumRepository) insert(forum *models.Forum) {
	forum.CreatedAt, forum.UpdatedAt = now(), now()
	m.store.Forums[forum.ID] = cloneForum(forum)
	m.store.forumOrder = append(m.store.forumOrder, forum.ID)
}

func (m *MockForumRepository) Create(ctx context.Context, forum *models.Forum) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return m.store.Err
	}
	if m.nameTaken(forum.Name) {
		return apperr.Conflict(apperr.MsgForumNameTaken, fmt.Errorf("duplicate forum name %q", forum.Name))
	}
	m.insert(forum)
	return nil
}

// BatchInsert is all-or-nothing, like the COPY inside a transaction
func (m *MockForumRepository) BatchInsert(ctx context.Context, forums []*models.Forum) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.BatchInsertCalls++
	if m.store.Err != nil {
		return 0, m.store.Err
	}

	seen := make(map[string]bool, len(forums))
	for _, f := range forums {
		if seen[f.Name] || m.nameTaken(f.Name) {
			return 0, apperr.Conflict(apperr.MsgForumNameTaken, fmt.Errorf("duplicate forum name %q", f.Name))
		}
		seen[f.Name] = true
	}
	for _, f := range forums {
		m.insert(f)
	}
	return len(forums), nil
}

func (m *MockForumRepository) GetByID(ctx context.Context, id string) (*models.Forum, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	if f, ok := m.store.Forums[id]; ok {
		return cloneForum(f), nil
	}
	return nil, nil
}

func (m *MockForumRepository) List(ctx context.Context) ([]*models.Forum, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	forums := make([]*models.Forum, 0, len(m.store.forumOrder))
	for _, id := range m.store.forumOrder {
		forums = append(forums, cloneForum(m.store.Forums[id]))
	}
	return forums, nil
}

func (m *MockForumRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	if _, ok := m.store.Forums[id]; !ok {
		return false, nil
	}
	delete(m.store.Forums, id)
	m.store.forumOrder = removeID(m.store.forumOrder, id)
	return true, nil
}

func (m *MockForumRepository) AppendPost(ctx context.Context, forumID, postID string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	f, ok := m.store.Forums[forumID]
	if !ok {
		return false, nil
	}
	f.Posts = append(f.Posts, postID)
	return true, nil
}

func (m *MockForumRepository) Count(ctx context.Context) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return len(m.store.Forums), m.store.Err
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	store *Store
}

var _ repository.PostRepository = (*MockPostRepository)(nil)

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return m.store.Err
	}
	post.CreatedAt, post.UpdatedAt = now(), now()
	m.store.Posts[post.ID] = clonePost(post)
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	if p, ok := m.store.Posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, nil
}

func (m *MockPostRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	posts := []*models.Post{}
	for _, id := range ids {
		if p, ok := m.store.Posts[id]; ok {
			posts = append(posts, clonePost(p))
		}
	}
	return posts, nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	stored, ok := m.store.Posts[post.ID]
	if !ok {
		return false, nil
	}
	stored.Title = post.Title
	stored.Content = post.Content
	stored.ImageURL = post.ImageURL
	stored.UpdatedAt = now()
	post.UpdatedAt = stored.UpdatedAt
	return true, nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	if _, ok := m.store.Posts[id]; !ok {
		return false, nil
	}
	delete(m.store.Posts, id)
	return true, nil
}

func (m *MockPostRepository) AppendComment(ctx context.Context, postID, commentID string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	p, ok := m.store.Posts[postID]
	if !ok {
		return false, nil
	}
	p.Comments = append(p.Comments, commentID)
	return true, nil
}

func (m *MockPostRepository) Count(ctx context.Context) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return len(m.store.Posts), m.store.Err
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	store *Store
}

var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return m.store.Err
	}
	comment.CreatedAt, comment.UpdatedAt = now(), now()
	m.store.Comments[comment.ID] = cloneComment(comment)
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	if c, ok := m.store.Comments[id]; ok {
		return cloneComment(c), nil
	}
	return nil, nil
}

func (m *MockCommentRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Comment, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}
	comments := []*models.Comment{}
	for _, id := range ids {
		if c, ok := m.store.Comments[id]; ok {
			comments = append(comments, cloneComment(c))
		}
	}
	return comments, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	stored, ok := m.store.Comments[comment.ID]
	if !ok {
		return false, nil
	}
	stored.Content = comment.Content
	stored.UpdatedAt = now()
	comment.UpdatedAt = stored.UpdatedAt
	return true, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}
	if _, ok := m.store.Comments[id]; !ok {
		return false, nil
	}
	delete(m.store.Comments, id)
	return true, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return len(m.store.Comments), m.store.Err
}

// MockReferenceRepository is a mock implementation of ReferenceRepository
type MockReferenceRepository struct {
	store *Store
}

var _ repository.ReferenceRepository = (*MockReferenceRepository)(nil)

func (m *MockReferenceRepository) FindDangling(ctx context.Context) ([]models.DanglingReference, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return nil, m.store.Err
	}

	refs := []models.DanglingReference{}
	add := func(parentKind, parentID, childKind string, ids []string, exists func(string) bool) {
		for _, id := range ids {
			if !exists(id) {
				refs = append(refs, models.DanglingReference{
					ParentKind: parentKind, ParentID: parentID, ChildKind: childKind, ChildID: id,
				})
			}
		}
	}
	postExists := func(id string) bool { _, ok := m.store.Posts[id]; return ok }
	commentExists := func(id string) bool { _, ok := m.store.Comments[id]; return ok }

	for _, id := range m.store.userOrder {
		u := m.store.Users[id]
		add(models.KindUser, u.ID, models.KindPost, u.Posts, postExists)
		add(models.KindUser, u.ID, models.KindComment, u.Comments, commentExists)
	}
	for _, id := range m.store.forumOrder {
		f := m.store.Forums[id]
		add(models.KindForum, f.ID, models.KindPost, f.Posts, postExists)
	}
	for _, p := range m.store.Posts {
		add(models.KindPost, p.ID, models.KindComment, p.Comments, commentExists)
	}
	return refs, nil
}

func (m *MockReferenceRepository) Remove(ctx context.Context, ref models.DanglingReference) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if m.store.Err != nil {
		return false, m.store.Err
	}

	switch {
	case ref.ParentKind == models.KindUser && ref.ChildKind == models.KindPost:
		if u, ok := m.store.Users[ref.ParentID]; ok {
			u.Posts = removeID(u.Posts, ref.ChildID)
			return true, nil
		}
	case ref.ParentKind == models.KindUser && ref.ChildKind == models.KindComment:
		if u, ok := m.store.Users[ref.ParentID]; ok {
			u.Comments = removeID(u.Comments, ref.ChildID)
			return true, nil
		}
	case ref.ParentKind == models.KindForum && ref.ChildKind == models.KindPost:
		if f, ok := m.store.Forums[ref.ParentID]; ok {
			f.Posts = removeID(f.Posts, ref.ChildID)
			return true, nil
		}
	case ref.ParentKind == models.KindPost && ref.ChildKind == models.KindComment:
		if p, ok := m.store.Posts[ref.ParentID]; ok {
			p.Comments = removeID(p.Comments, ref.ChildID)
			return true, nil
		}
	default:
		return false, fmt.Errorf("unknown back-reference %s -> %s", ref.ParentKind, ref.ChildKind)
	}
	return false, nil
}

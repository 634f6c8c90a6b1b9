package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hacklingo-backend/internal/api"
	"github.com/hacklingo-backend/internal/config"
	"github.com/hacklingo-backend/internal/metrics"
	"github.com/hacklingo-backend/internal/mocks"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *gin.Engine
	repos    *mocks.MockRepositories
	uploader *mocks.MockUploader
	metrics  *metrics.Metrics
}

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(ctx context.Context) error { return f.err }

func setupTestRouter(t *testing.T, health api.HealthChecker) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := mocks.NewMockRepositories()
	uploader := mocks.NewMockUploader()
	m := metrics.New()

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Storage: config.StorageConfig{Bucket: "test-bucket", MaxUploadSize: 1024},
		Auth:    config.AuthConfig{IdentityHeader: "userid"},
	}

	services := service.NewServices(repos.Repositories(), repos, service.Collaborators{
		Hasher:   mocks.NewMockHasher(),
		Uploader: uploader,
		Metrics:  m,
	}, cfg, zerolog.Nop())

	router := api.NewRouter(services, cfg, zerolog.Nop(), api.Options{Metrics: m, Health: health})
	return &testServer{router: router, repos: repos, uploader: uploader, metrics: m}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("userid", userID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) register(t *testing.T, name string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/users/register", "", map[string]interface{}{
		"username":       name,
		"email":          name + "@mail.com",
		"password":       "Test123",
		"nativeLanguage": "English",
		"role":           "regular",
		"targetLanguage": []string{"Japanese/日本語"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["_id"].(string)
}

func (s *testServer) seedForum(t *testing.T, name string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/forums", "", []map[string]string{{"name": name}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["forums"].([]interface{})[0].(string)
}

func (s *testServer) createPost(t *testing.T, userID, forumID string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/posts", userID, map[string]string{
		"userId": userID, "forumId": forumID, "title": "Hello", "content": "Konnichiwa",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["_id"].(string)
}

func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	s := setupTestRouter(t, fakeHealth{})

	w := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "hacklingo", body["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	s := setupTestRouter(t, fakeHealth{err: errors.New("connection refused")})

	w := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decode(t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestRouter(t, nil)
	s.do(t, http.MethodGet, "/posts/123", "", nil)

	w := s.do(t, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hacklingo_http_requests_total{method="GET",route="/posts/:id",status="404"} 1`)
	assert.Contains(t, w.Body.String(), `hacklingo_errors_total{frontend="rest",kind="not_found"} 1`)
}

func TestRegister(t *testing.T) {
	s := setupTestRouter(t, nil)

	w := s.do(t, http.MethodPost, "/users/register", "", map[string]interface{}{
		"username": "hiro", "email": "hiro@mail.com", "password": "Test123",
		"nativeLanguage": "Japanese/日本語", "role": "moderator",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.True(t, models.ValidID(body["_id"].(string)))
	assert.Equal(t, "moderator", body["role"])
	assert.NotContains(t, w.Body.String(), "Test123")
	assert.NotContains(t, body, "password")
	assert.Equal(t, []interface{}{}, body["posts"])
}

func TestRegister_ValidationMessages(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		message string
	}{
		{"missing username", map[string]interface{}{}, "Username is required"},
		{"weak password", map[string]interface{}{
			"username": "a", "email": "a@mail.com", "password": "weakpass", "nativeLanguage": "English", "role": "regular",
		}, "Password has to have at least 1 number and 1 capital letter"},
		{"unknown language", map[string]interface{}{
			"username": "a", "email": "a@mail.com", "password": "Test123", "nativeLanguage": "Klingon", "role": "regular",
		}, "Native language is not in any of the options"},
		{"bad role", map[string]interface{}{
			"username": "a", "email": "a@mail.com", "password": "Test123", "nativeLanguage": "English", "role": "admin",
		}, "Role must be either 'regular' or 'moderator'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestRouter(t, nil)
			w := s.do(t, http.MethodPost, "/users/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["message"])
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := setupTestRouter(t, nil)
	s.register(t, "hiro")

	w := s.do(t, http.MethodPost, "/users/register", "", map[string]interface{}{
		"username": "other", "email": "hiro@mail.com", "password": "Test123",
		"nativeLanguage": "English", "role": "regular",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This username/email has been taken", decode(t, w)["message"])
}

func TestRegister_MultipartWithImage(t *testing.T) {
	s := setupTestRouter(t, nil)
	fields := map[string]string{
		"username": "hiro", "email": "hiro@mail.com", "password": "Test123",
		"nativeLanguage": "English", "role": "regular",
	}

	body, contentType := multipartBody(t, fields, "Avatar.PNG", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/users/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "https://storage.googleapis.com/test-bucket/avatar.png", decode(t, w)["profileImageUrl"])
	assert.Equal(t, 1, s.uploader.Count())
}

func TestRegister_MultipartRejections(t *testing.T) {
	fields := map[string]string{
		"username": "hiro", "email": "hiro@mail.com", "password": "Test123",
		"nativeLanguage": "English", "role": "regular",
	}

	tests := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
		message     string
	}{
		{"not media", "notes.pdf", "application/pdf", []byte("%PDF"), "File must be an image or audio file"},
		{"too large", "big.png", "image/png", bytes.Repeat([]byte("x"), 2048), "File too large, max size is 1024 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestRouter(t, nil)
			body, contentType := multipartBody(t, fields, tt.filename, tt.contentType, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/users/register", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["message"])
			assert.Zero(t, s.uploader.Count())
			assert.Empty(t, s.repos.Store.Users)
		})
	}
}

func TestLogin(t *testing.T) {
	s := setupTestRouter(t, nil)
	id := s.register(t, "hiro")

	w := s.do(t, http.MethodPost, "/users/login", "", map[string]string{"email": "hiro@mail.com", "password": "Test123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["_id"])

	w = s.do(t, http.MethodPost, "/users/login", "", map[string]string{"email": "hiro@mail.com", "password": "Wrong123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFindUsers(t *testing.T) {
	s := setupTestRouter(t, nil)
	s.register(t, "hiro")
	s.register(t, "hana")
	s.register(t, "budi")

	w := s.do(t, http.MethodGet, "/users?username=H&nativeLanguage=English", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.NotContains(t, users[0], "posts")
	assert.NotContains(t, users[0], "createdAt")
}

func TestCreatePost_AuthorizationStatuses(t *testing.T) {
	s := setupTestRouter(t, nil)
	owner := s.register(t, "hiro")
	other := s.register(t, "hana")
	forum := s.seedForum(t, "English")

	payload := map[string]string{"userId": owner, "forumId": forum, "title": "t", "content": "c"}

	w := s.do(t, http.MethodPost, "/posts", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "You do not have access to this action", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/posts", other, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are forbidden from doing this action", decode(t, w)["message"])

	payload["forumId"] = models.NewID()
	w = s.do(t, http.MethodPost, "/posts", owner, payload)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data not found", decode(t, w)["message"])
}

func TestCreatePost_TitleLimit(t *testing.T) {
	s := setupTestRouter(t, nil)
	owner := s.register(t, "hiro")
	forum := s.seedForum(t, "English")

	w := s.do(t, http.MethodPost, "/posts", owner, map[string]string{
		"forumId": forum, "title": strings.Repeat("a", 121), "content": "c",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Max title length is 120 characters", decode(t, w)["message"])
}

func TestPostLifecycle(t *testing.T) {
	s := setupTestRouter(t, nil)
	owner := s.register(t, "hiro")
	forum := s.seedForum(t, "English")
	post := s.createPost(t, owner, forum)

	w := s.do(t, http.MethodPost, "/comments", owner, map[string]string{"postId": post, "content": "first"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode(t, w)["_id"].(string)

	w = s.do(t, http.MethodPut, "/posts/"+post, owner, map[string]string{"title": "Updated"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Updated", body["title"])
	assert.Equal(t, "Konnichiwa", body["content"])
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, comment, comments[0].(map[string]interface{})["_id"])

	w = s.do(t, http.MethodGet, "/forums/"+forum, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["posts"], 1)

	w = s.do(t, http.MethodDelete, "/comments/"+comment, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Comment with id "+comment+" has been deleted", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/comments/"+comment, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data not found", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/users/"+owner, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)
	assert.Len(t, user["posts"], 1)
	assert.Empty(t, user["comments"])
}

func TestForums(t *testing.T) {
	s := setupTestRouter(t, nil)

	w := s.do(t, http.MethodPost, "/forums", "", []map[string]string{{"name": "English"}, {"name": "Others"}})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Insert Forums Success!!", body["message"])
	assert.Len(t, body["forums"], 2)

	w = s.do(t, http.MethodPost, "/forums", "", []map[string]string{{"name": "Dutch/Nederlands"}, {"name": "English"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Forum name already exists", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/forums", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var forums []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forums))
	assert.Len(t, forums, 2)

	id := forums[0]["_id"].(string)
	w = s.do(t, http.MethodDelete, "/forums/"+id, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodDelete, "/forums/"+id, models.NewID(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Forum with id "+id+" has been deleted", decode(t, w)["message"])
}

func TestUserUpdateAndDelete(t *testing.T) {
	s := setupTestRouter(t, nil)
	id := s.register(t, "hiro")
	other := s.register(t, "hana")

	w := s.do(t, http.MethodPut, "/users/"+id, other, map[string]string{"username": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/users/"+id, id, map[string]string{"username": "hiroshi"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "hiroshi", decode(t, w)["username"])

	w = s.do(t, http.MethodDelete, "/users/short", id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/users/"+id, id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User with id "+id+" has been deleted", decode(t, w)["message"])
}

func TestMalformedBody(t *testing.T) {
	s := setupTestRouter(t, nil)

	w := s.do(t, http.MethodPost, "/users/register", "", `{"username":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w)["message"])
}

func TestInternalErrorIsMasked(t *testing.T) {
	s := setupTestRouter(t, nil)
	s.repos.Store.Err = errors.New("connection reset by peer")

	w := s.do(t, http.MethodGet, "/forums", "", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

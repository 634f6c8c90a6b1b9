package mocks

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/hacklingo-backend/internal/password"
	"github.com/hacklingo-backend/internal/storage"
)

// MockHasher is a reversible stand-in for bcrypt so tests stay fast
type MockHasher struct {
	HashError error
}

var _ password.Hasher = (*MockHasher)(nil)

func NewMockHasher() *MockHasher {
	return &MockHasher{}
}

func (m *MockHasher) Hash(plain string) (string, error) {
	if m.HashError != nil {
		return "", m.HashError
	}
	return "hashed:" + plain, nil
}

func (m *MockHasher) Verify(plain, hash string) bool {
	return hash == "hashed:"+plain
}

// Upload is one call recorded by MockUploader
type Upload struct {
	Filename    string
	ContentType string
	Body        string
}

// MockUploader records uploads and returns predictable URLs
type MockUploader struct {
	mu          sync.Mutex
	Uploads     []Upload
	UploadError error
	Removed     []string
	RemoveError error
}

var _ storage.Uploader = (*MockUploader)(nil)

func NewMockUploader() *MockUploader {
	return &MockUploader{}
}

func (m *MockUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if m.UploadError != nil {
		return "", m.UploadError
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads = append(m.Uploads, Upload{Filename: filename, ContentType: contentType, Body: string(data)})
	return storage.PublicURL("test-bucket", strings.ToLower(filename)), nil
}

func (m *MockUploader) Remove(ctx context.Context, url string) error {
	if m.RemoveError != nil {
		return m.RemoveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, url)
	return nil
}

// Count returns how many uploads were made
func (m *MockUploader) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploads)
}

package storage

import (
	"strings"
	"testing"

	"github.com/hacklingo-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestCheckMediaType(t *testing.T) {
	tests := []struct {
		contentType string
		wantErr     bool
	}{
		{"image/png", false},
		{"image/jpeg", false},
		{"audio/mpeg", false},
		{"audio/ogg; codecs=opus", false},
		{"IMAGE/GIF", false},
		{"application/pdf", true},
		{"text/plain", true},
		{"video/mp4", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := CheckMediaType(tt.contentType)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, apperr.KindInvalidUpload, apperr.KindOf(err))
			assert.Equal(t, apperr.MsgInvalidUpload, err.Error())
		})
	}
}

func TestObjectName(t *testing.T) {
	a := ObjectName("Profile.PNG")
	b := ObjectName("Profile.PNG")

	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
	assert.Len(t, strings.TrimSuffix(a, ".png"), 36)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/hacklingo/abc.png",
		PublicURL("hacklingo", "abc.png"),
	)
}

func TestObjectFromURL(t *testing.T) {
	object, ok := ObjectFromURL("hacklingo", PublicURL("hacklingo", "abc.png"))
	assert.True(t, ok)
	assert.Equal(t, "abc.png", object)

	_, ok = ObjectFromURL("hacklingo", PublicURL("other", "abc.png"))
	assert.False(t, ok)

	_, ok = ObjectFromURL("hacklingo", PublicBaseURL+"/hacklingo/")
	assert.False(t, ok)
}

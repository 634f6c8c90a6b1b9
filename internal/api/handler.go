package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/hacklingo-backend/internal/apperr"
	"github.com/hacklingo-backend/internal/auth"
	"github.com/hacklingo-backend/internal/config"
	"github.com/hacklingo-backend/internal/metrics"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/service"
)

var errInvalidBody = apperr.Validation(apperr.FieldViolation{Message: "Invalid request body"})

// handler is the state shared by the entity handlers
type handler struct {
	services *service.Services
	cfg      *config.Config
	metrics  *metrics.Metrics
}

// caller reads the asserted identity from the identity header
func (h *handler) caller(c *gin.Context) auth.Identity {
	return auth.NewIdentity(c.GetHeader(h.cfg.Auth.IdentityHeader))
}

// bind decodes a JSON, urlencoded or multipart body into dst. An empty
// body leaves dst untouched.
func (h *handler) bind(c *gin.Context, dst interface{}) error {
	err := c.ShouldBind(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return errInvalidBody
}

// attachment returns the multipart "file" part, nil when the request has
// none. The returned func closes it.
func (h *handler) attachment(c *gin.Context) (*models.Attachment, func(), error) {
	noop := func() {}
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, noop, nil
	}

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errInvalidBody
	}

	if limit := h.cfg.Storage.MaxUploadSize; limit > 0 && header.Size > limit {
		return nil, noop, apperr.Validation(apperr.FieldViolation{
			Field:   "file",
			Message: fmt.Sprintf("File too large, max size is %d bytes", limit),
		})
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	return &models.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { file.Close() }, nil
}

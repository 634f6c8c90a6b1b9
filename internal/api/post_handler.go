package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hacklingo-backend/internal/models"
	"github.com/rs/zerolog"
)

// PostHandler handles post endpoints
type PostHandler struct {
	handler
	log zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(base handler, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		handler: base,
		log:     log.With().Str("handler", "post").Logger(),
	}
}

// Create handles POST /posts (JSON, or multipart with an optional "file")
func (h *PostHandler) Create(c *gin.Context) {
	var input models.PostInput
	if err := h.bind(c, &input); err != nil {
		h.fail(c, h.log, err)
		return
	}
	file, closeFile, err := h.attachment(c)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	defer closeFile()

	post, err := h.services.Posts.Create(c.Request.Context(), h.caller(c), &input, file)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// GetByID handles GET /posts/:id
func (h *PostHandler) GetByID(c *gin.Context) {
	post, err := h.services.Posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Update handles PUT /posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	var patch models.PostPatch
	if err := h.bind(c, &patch); err != nil {
		h.fail(c, h.log, err)
		return
	}
	file, closeFile, err := h.attachment(c)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	defer closeFile()

	post, err := h.services.Posts.Update(c.Request.Context(), h.caller(c), c.Param("id"), &patch, file)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	result, err := h.services.Posts.Delete(c.Request.Context(), h.caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hacklingo-backend/internal/models"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	handler
	log zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(base handler, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		handler: base,
		log:     log.With().Str("handler", "comment").Logger(),
	}
}

// Create handles POST /comments
func (h *CommentHandler) Create(c *gin.Context) {
	var input models.CommentInput
	if err := h.bind(c, &input); err != nil {
		h.fail(c, h.log, err)
		return
	}

	comment, err := h.services.Comments.Create(c.Request.Context(), h.caller(c), &input)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GetByID handles GET /comments/:id
func (h *CommentHandler) GetByID(c *gin.Context) {
	comment, err := h.services.Comments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Update handles PUT /comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var patch models.CommentPatch
	if err := h.bind(c, &patch); err != nil {
		h.fail(c, h.log, err)
		return
	}

	comment, err := h.services.Comments.Update(c.Request.Context(), h.caller(c), c.Param("id"), &patch)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	result, err := h.services.Comments.Delete(c.Request.Context(), h.caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

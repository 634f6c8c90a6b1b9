package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hacklingo-backend/internal/models"
	"github.com/rs/zerolog"
)

// ForumHandler handles forum endpoints
type ForumHandler struct {
	handler
	log zerolog.Logger
}

// NewForumHandler creates a new ForumHandler
func NewForumHandler(base handler, log zerolog.Logger) *ForumHandler {
	return &ForumHandler{
		handler: base,
		log:     log.With().Str("handler", "forum").Logger(),
	}
}

// InsertMany handles POST /forums with a JSON array of {name}
func (h *ForumHandler) InsertMany(c *gin.Context) {
	var inputs []models.ForumInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		h.fail(c, h.log, errInvalidBody)
		return
	}

	forums, err := h.services.Forums.InsertMany(c.Request.Context(), inputs)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, models.NewInsertForumsResult(forums))
}

// List handles GET /forums
func (h *ForumHandler) List(c *gin.Context) {
	forums, err := h.services.Forums.List(c.Request.Context())
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, forums)
}

// GetByID handles GET /forums/:id
func (h *ForumHandler) GetByID(c *gin.Context) {
	forum, err := h.services.Forums.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, forum)
}

// Delete handles DELETE /forums/:id
func (h *ForumHandler) Delete(c *gin.Context) {
	result, err := h.services.Forums.Delete(c.Request.Context(), h.caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

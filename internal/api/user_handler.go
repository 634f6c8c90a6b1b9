package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hacklingo-backend/internal/models"
	"github.com/rs/zerolog"
)

// UserHandler handles user endpoints
type UserHandler struct {
	handler
	log zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(base handler, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		handler: base,
		log:     log.With().Str("handler", "user").Logger(),
	}
}

// Register handles POST /users/register
// Accepts a JSON body, or a multipart form with an optional profile image
// in the "file" part
func (h *UserHandler) Register(c *gin.Context) {
	var input models.UserInput
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

	user, err := h.services.Users.Register(c.Request.Context(), &input, file)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := h.bind(c, &input); err != nil {
		h.fail(c, h.log, err)
		return
	}

	user, err := h.services.Users.Login(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Find handles GET /users?nativeLanguage=&username=
func (h *UserHandler) Find(c *gin.Context) {
	users, err := h.services.Users.Find(c.Request.Context(), models.UserFilter{
		NativeLanguage: c.Query("nativeLanguage"),
		Username:       c.Query("username"),
	})
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.services.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var patch models.UserPatch
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

	user, err := h.services.Users.Update(c.Request.Context(), h.caller(c), c.Param("id"), &patch, file)
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	result, err := h.services.Users.Delete(c.Request.Context(), h.caller(c), c.Param("id"))
	if err != nil {
		h.fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

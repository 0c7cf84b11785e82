// Package api exposes the directory over HTTP for management tooling.
// The in-process API in pkg/userdir remains the primary contract; this
// layer is a thin peripheral surface on top of it.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/userdir-dev/userdir/internal/auth"
	"github.com/userdir-dev/userdir/pkg/schema"
	"github.com/userdir-dev/userdir/pkg/userdir"
)

type Handler struct {
	Store userdir.Store
}

// Register mounts the directory routes on the given group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.GET("/users/:username", h.GetUser)
	g.PATCH("/users/:username", h.UpdateUser)
	g.DELETE("/users/:username", h.DeleteUser)
	g.GET("/activity", h.GetActivity)
}

type createUserInput struct {
	Username string            `json:"username" binding:"required"`
	Email    string            `json:"email" binding:"required"`
	Password string            `json:"password"`
	Metadata map[string]string `json:"metadata"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var input createUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metadata := input.Metadata
	// Credentials stay at this boundary: the directory only ever stores
	// the hash, carried as ordinary metadata.
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if metadata == nil {
			metadata = make(map[string]string, 1)
		}
		metadata["password_hash"] = hash
	}

	record, err := h.Store.Create(input.Username, input.Email, metadata)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *Handler) GetUser(c *gin.Context) {
	record, err := h.Store.Find(c.Param("username"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var changes schema.UserChanges
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.Store.Update(c.Param("username"), changes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.Store.Delete(c.Param("username")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.List())
}

func (h *Handler) GetActivity(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Activity())
}

// abortWithError maps directory errors onto HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, userdir.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, userdir.ErrDuplicateUser):
		status = http.StatusConflict
	case errors.Is(err, userdir.ErrInvalidEmail), errors.Is(err, userdir.ErrInvalidUsername):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/indianathe3rdKing/quicklog-api/internal/usecase/user"
	apperrors "github.com/indianathe3rdKing/quicklog-api/pkg/errors"
	"github.com/indianathe3rdKing/quicklog-api/pkg/logger"
)

// UserHandler handles HTTP requests for user and saved-word operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUserRequest represents the HTTP request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest represents the HTTP request body for updating a user.
// Omitted fields are written as null on the stored record.
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// WordRequest represents the HTTP request body for word append and removal
type WordRequest struct {
	Word string `json:"word" binding:"required"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Words     []string  `json:"words"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// WordsResponse represents the HTTP response for a word list
type WordsResponse struct {
	Words []string `json:"words"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// toResponse maps a usecase user DTO to its HTTP shape
func toResponse(u *user.User) UserResponse {
	words := u.Words
	if words == nil {
		words = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Words:     words,
	}
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		log.Error("create user failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(resp))
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "User ID is required",
		})
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		log.Warn("get user failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "User ID is required",
		})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid update user request", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		log.Warn("update user failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "User ID is required",
		})
		return
	}

	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id})
	if err != nil {
		log.Error("delete user failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user deleted",
		"id":      resp.ID,
	})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{})
	if err != nil {
		log.Error("list users failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i := range resp.Users {
		users[i] = toResponse(&resp.Users[i])
	}

	c.JSON(http.StatusOK, ListUsersResponse{Users: users})
}

// AppendWord handles POST /users/:id/words
func (h *UserHandler) AppendWord(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "User ID is required",
		})
		return
	}

	var req WordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid append word request", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.AppendWord(c.Request.Context(), user.AppendWordRequest{
		ID:   id,
		Word: req.Word,
	})
	if err != nil {
		log.Warn("append word failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, WordsResponse{Words: resp.Words})
}

// RemoveWord handles DELETE /users/:id/words
func (h *UserHandler) RemoveWord(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "User ID is required",
		})
		return
	}

	var req WordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid remove word request", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.uc.RemoveWord(c.Request.Context(), user.RemoveWordRequest{
		ID:   id,
		Word: req.Word,
	})
	if err != nil {
		log.Warn("remove word failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "word removed",
		"id":      resp.ID,
		"word":    resp.Word,
		"words":   resp.Words,
	})
}

// ListWords handles GET /users/:id/words
func (h *UserHandler) ListWords(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "User ID is required",
		})
		return
	}

	resp, err := h.uc.ListWords(c.Request.Context(), user.ListWordsRequest{ID: id})
	if err != nil {
		log.Error("list words failed", zap.String("id", id), zap.Error(err))
		h.handleError(c, err)
		return
	}

	words := resp.Words
	if words == nil {
		words = []string{}
	}

	c.JSON(http.StatusOK, WordsResponse{Words: words})
}

// Login handles POST /login. The route exists for the browser extension but
// has never been implemented.
func (h *UserHandler) Login(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"message": "login is not implemented",
	})
}

// handleError converts usecase errors to appropriate HTTP responses.
// Server-side faults are reported generically; the cause stays in the logs.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		status := statuser.HTTPStatus()
		if status < http.StatusInternalServerError {
			c.JSON(status, ErrorResponse{
				Error:   errorCode(status),
				Message: err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// errorCode maps an HTTP status to a stable machine-readable error code.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}

package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tasktrack/tasktrack/internal/auth/dto"
	"github.com/tasktrack/tasktrack/internal/auth/jwt"
	"github.com/tasktrack/tasktrack/internal/auth/service"
	apperrors "github.com/tasktrack/tasktrack/internal/errors"
	"github.com/tasktrack/tasktrack/internal/task"
	"github.com/tasktrack/tasktrack/internal/transport/http/middleware"
)

type Handler struct {
	auth   service.AuthService
	tasks  task.Service
	issuer jwt.Issuer
	log    *zap.Logger
}

func NewHandler(auth service.AuthService, tasks task.Service, issuer jwt.Issuer, log *zap.Logger) *Handler {
	return &Handler{auth: auth, tasks: tasks, issuer: issuer, log: log}
}

func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := r.Group("/api/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)
	users.POST("/refresh", h.refresh)
	users.POST("/logout", h.logout)
	users.GET("/me", middleware.RequireAuth(h.issuer), h.me)

	tasks := r.Group("/api/tasks", middleware.RequireAuth(h.issuer))
	tasks.POST("", h.createTask)
	tasks.GET("", h.listTasks)
	tasks.GET("/:id", h.getTask)
	tasks.PUT("/:id", h.updateTask)
	tasks.DELETE("/:id", h.deleteTask)
}

func (h *Handler) register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.auth.Register(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"type":         "Bearer",
		"expiresIn":    int(pair.AccessTTL.Seconds()),
		"user":         pair.User,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var body dto.RefreshDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"type":         "Bearer",
		"expiresIn":    int(pair.AccessTTL.Seconds()),
	})
}

func (h *Handler) logout(c *gin.Context) {
	var body dto.LogoutDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), body); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	view, err := h.auth.CurrentUser(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) createTask(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var body task.CreateInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.tasks.Create(c.Request.Context(), body, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) listTasks(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	filter := task.Filter{
		Status:   task.Status(c.Query("status")),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if from := c.Query("dueDateFrom"); from != "" {
		ts, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad dueDateFrom"})
			return
		}
		filter.DueDateFrom = &ts
	}
	if to := c.Query("dueDateTo"); to != "" {
		ts, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad dueDateTo"})
			return
		}
		filter.DueDateTo = &ts
	}

	page := task.Page{
		Number: atoiDefault(c.Query("page"), 0),
		Size:   atoiDefault(c.Query("size"), 20),
		SortBy: c.Query("sort"),
		Desc:   c.Query("order") == "desc",
	}

	tasks, total, err := h.tasks.List(c.Request.Context(), filter, page, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": tasks,
		"total": total,
		"page":  page.Number,
		"size":  page.Size,
	})
}

func (h *Handler) getTask(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad task id"})
		return
	}
	t, err := h.tasks.Get(c.Request.Context(), id, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) updateTask(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad task id"})
		return
	}
	var body task.UpdateInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.tasks.Update(c.Request.Context(), id, body, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteTask(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad task id"})
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), id, principal); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleError is the single place domain outcomes become status codes.
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case apperrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case apperrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/internal/handler"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/service/admin"
	"github.com/medhub/clinic-api/pkg/apperror"
)

type Handler struct {
	service *admin.Service
}

func NewHandler(service *admin.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/admin/login", h.Login)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperror.BadRequest("invalid request body", err))
		return
	}

	tok, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok})
}

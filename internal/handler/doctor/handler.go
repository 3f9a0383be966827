package doctor

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/internal/handler"
	"github.com/medhub/clinic-api/internal/middleware"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/service/doctor"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/token"
)

type Handler struct {
	service *doctor.Service
	tokens  *token.Service
}

func NewHandler(service *doctor.Service, tokens *token.Service) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// RegisterRoutes mounts the doctor directory. Listing and filtering are
// public; creating and deleting require an admin token.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	adminOnly := middleware.RequireRole(h.tokens, token.RoleAdmin, "token")
	r.GET("/doctor", h.List)
	r.GET("/doctor/filter/:name/:specialty", h.Filter)
	r.POST("/doctor/login", h.Login)
	r.POST("/doctor/:token", adminOnly, h.Create)
	r.DELETE("/doctor/:id/:token", adminOnly, h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

func (h *Handler) Filter(c *gin.Context) {
	filter := &model.DoctorFilter{
		Name:      c.Param("name"),
		Specialty: c.Param("specialty"),
	}
	doctors, err := h.service.Filter(c.Request.Context(), filter)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperror.BadRequest("invalid request body", err))
		return
	}

	if _, err := h.service.Create(c.Request.Context(), &req); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Message(c, http.StatusCreated, "doctor created successfully")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperror.BadRequest("invalid doctor id", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Message(c, http.StatusOK, "doctor deleted successfully")
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
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

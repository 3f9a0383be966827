package patient

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/internal/handler"
	"github.com/medhub/clinic-api/internal/middleware"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/service/patient"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/token"
)

type Handler struct {
	service *patient.Service
	tokens  *token.Service
}

func NewHandler(service *patient.Service, tokens *token.Service) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// RegisterRoutes mounts the legacy patient endpoints. GET /patient/{token}
// and GET /patient/{id}/{token} share the first wildcard position, so both
// register under :tokenOrId and each handler reads the segment it needs.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/patient", h.Register)
	r.POST("/patient/login", h.Login)
	r.GET("/patient/:tokenOrId",
		middleware.RequireRole(h.tokens, token.RolePatient, "tokenOrId"), h.Details)
	r.GET("/patient/:tokenOrId/:token",
		middleware.RequireRole(h.tokens, token.RolePatient, "token"), h.Appointments)
	r.GET("/patient/filter/:condition/:name/:token",
		middleware.RequireRole(h.tokens, token.RolePatient, "token"), h.Filter)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperror.BadRequest("invalid request body", err))
		return
	}

	if err := h.service.Register(c.Request.Context(), &req); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Message(c, http.StatusCreated, "signup successful")
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

func (h *Handler) Details(c *gin.Context) {
	p, err := h.service.Details(c.Request.Context(), c.Param("tokenOrId"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patient": p})
}

func (h *Handler) Appointments(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("tokenOrId"), 10, 64)
	if err != nil {
		handler.Error(c, apperror.BadRequest("invalid patient id", err))
		return
	}

	views, err := h.service.Appointments(c.Request.Context(), id, c.Param("token"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

func (h *Handler) Filter(c *gin.Context) {
	views, err := h.service.Filter(c.Request.Context(), c.Param("name"), c.Param("condition"), c.Param("token"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

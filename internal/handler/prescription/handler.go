package prescription

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/internal/handler"
	"github.com/medhub/clinic-api/internal/middleware"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/service/prescription"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/token"
)

type Handler struct {
	service *prescription.Service
	tokens  *token.Service
}

func NewHandler(service *prescription.Service, tokens *token.Service) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	doctorOnly := middleware.RequireRole(h.tokens, token.RoleDoctor, "token")
	r.POST("/prescription/:token", doctorOnly, h.Save)
	r.GET("/prescription/:appointmentId/:token", doctorOnly, h.GetByAppointment)
}

func (h *Handler) Save(c *gin.Context) {
	var req model.SavePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperror.BadRequest("invalid request body", err))
		return
	}

	if _, err := h.service.Save(c.Request.Context(), &req); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Message(c, http.StatusCreated, "prescription saved")
}

func (h *Handler) GetByAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("appointmentId"), 10, 64)
	if err != nil {
		handler.Error(c, apperror.BadRequest("invalid appointment id", err))
		return
	}

	p, err := h.service.GetByAppointmentID(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescription": p})
}

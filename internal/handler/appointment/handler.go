package appointment

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/internal/handler"
	"github.com/medhub/clinic-api/internal/middleware"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/service/appointment"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/token"
)

type Handler struct {
	service *appointment.Service
	tokens  *token.Service
}

func NewHandler(service *appointment.Service, tokens *token.Service) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// RegisterRoutes mounts the legacy appointment endpoints. The bearer
// token rides in the final path segment on every route.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/appointments/:date/:patientName/:token",
		middleware.RequireRole(h.tokens, token.RoleDoctor, "token"), h.ListForDoctor)
	r.POST("/appointments/:token",
		middleware.RequireRole(h.tokens, token.RolePatient, "token"), h.Book)
	r.PUT("/appointments/:token",
		middleware.RequireRole(h.tokens, token.RolePatient, "token"), h.Update)
	r.DELETE("/appointments/:id/:token",
		middleware.RequireRole(h.tokens, token.RolePatient, "token"), h.Cancel)
}

func (h *Handler) ListForDoctor(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		handler.Error(c, apperror.BadRequest("invalid date, expected yyyy-MM-dd", err))
		return
	}

	patientName := c.Param("patientName")
	if patientName == "null" || patientName == "all" {
		patientName = ""
	}

	views, err := h.service.ListForDoctor(c.Request.Context(), date, patientName, c.Param("token"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": views})
}

func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperror.BadRequest("invalid request body", err))
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Validate(ctx, &req); err != nil {
		handler.Error(c, err)
		return
	}
	if _, err := h.service.Book(ctx, &req); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Message(c, http.StatusCreated, "appointment booked successfully")
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperror.BadRequest("invalid request body", err))
		return
	}

	if err := h.service.Update(c.Request.Context(), &req); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Message(c, http.StatusOK, "appointment updated successfully")
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		handler.Error(c, apperror.BadRequest("invalid appointment id", err))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id, c.Param("token")); err != nil {
		handler.Error(c, err)
		return
	}
	handler.Message(c, http.StatusOK, "appointment cancelled successfully")
}

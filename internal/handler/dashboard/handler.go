package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/clinic-api/pkg/token"
)

// Handler serves the HTML dashboards. A bad or wrong-role token does not
// get a JSON error here; the browser is bounced back to the login page.
type Handler struct {
	tokens *token.Service
}

func NewHandler(tokens *token.Service) *Handler {
	return &Handler{tokens: tokens}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/adminDashboard/:token", h.AdminDashboard)
	r.GET("/doctorDashboard/:token", h.DoctorDashboard)
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	h.render(c, token.RoleAdmin, "adminDashboard.html")
}

func (h *Handler) DoctorDashboard(c *gin.Context) {
	h.render(c, token.RoleDoctor, "doctorDashboard.html")
}

func (h *Handler) render(c *gin.Context, role token.Role, template string) {
	if !h.tokens.Validate(c.Param("token"), role) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, template, gin.H{"token": c.Param("token")})
}

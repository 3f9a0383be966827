package dashboard

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/clinic-api/pkg/token"
)

func newTestRouter(t *testing.T) (*gin.Engine, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := token.NewService(token.Config{Secret: "test-secret", ExpiryHours: 1})

	engine := gin.New()
	engine.SetHTMLTemplate(template.Must(template.New("").Parse(`
{{define "index.html"}}index{{end}}
{{define "adminDashboard.html"}}admin{{end}}
{{define "doctorDashboard.html"}}doctor{{end}}`)))
	NewHandler(tokens).RegisterRoutes(engine)
	return engine, tokens
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDashboards(t *testing.T) {
	engine, tokens := newTestRouter(t)

	adminTok, err := tokens.Issue("admin", token.RoleAdmin)
	require.NoError(t, err)
	docTok, err := tokens.Issue("adams@clinic.test", token.RoleDoctor)
	require.NoError(t, err)

	t.Run("index renders", func(t *testing.T) {
		w := get(engine, "/")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin token renders admin view", func(t *testing.T) {
		w := get(engine, "/adminDashboard/"+adminTok)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin")
	})

	t.Run("doctor token renders doctor view", func(t *testing.T) {
		w := get(engine, "/doctorDashboard/"+docTok)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong role redirects home", func(t *testing.T) {
		w := get(engine, "/adminDashboard/"+docTok)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("garbage token redirects home", func(t *testing.T) {
		w := get(engine, "/doctorDashboard/garbage")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

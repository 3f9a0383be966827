package doctor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository/repositorytest"
	"github.com/medhub/clinic-api/internal/service/doctor"
	"github.com/medhub/clinic-api/pkg/token"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repositorytest.Store, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repositorytest.NewStore()
	tokens := token.NewService(token.Config{Secret: "test-secret", ExpiryHours: 1})
	svc := doctor.NewService(store.DoctorRepo(), tokens, zerolog.Nop())

	engine := gin.New()
	NewHandler(svc, tokens).RegisterRoutes(engine)
	return engine, store, tokens
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func listDoctors(t *testing.T, w *httptest.ResponseRecorder) []model.Doctor {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Doctors []model.Doctor `json:"doctors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Doctors
}

func TestListAndFilterEndpoints(t *testing.T) {
	engine, store, _ := newTestRouter(t)
	store.AddDoctor(&model.Doctor{Name: "Dr. Adams", Email: "adams@clinic.test", Specialty: "Cardiology"})
	store.AddDoctor(&model.Doctor{Name: "Dr. Brown", Email: "brown@clinic.test", Specialty: "Dermatology"})

	t.Run("list all", func(t *testing.T) {
		doctors := listDoctors(t, doRequest(engine, http.MethodGet, "/doctor", ""))
		assert.Len(t, doctors, 2)
	})

	t.Run("filter by name", func(t *testing.T) {
		doctors := listDoctors(t, doRequest(engine, http.MethodGet, "/doctor/filter/brown/all", ""))
		require.Len(t, doctors, 1)
		assert.Equal(t, "Dr. Brown", doctors[0].Name)
	})

	t.Run("filter by specialty", func(t *testing.T) {
		doctors := listDoctors(t, doRequest(engine, http.MethodGet, "/doctor/filter/null/Cardiology", ""))
		require.Len(t, doctors, 1)
		assert.Equal(t, "Dr. Adams", doctors[0].Name)
	})
}

func TestCreateAndDeleteEndpoints(t *testing.T) {
	engine, store, tokens := newTestRouter(t)

	adminTok, err := tokens.Issue("admin", token.RoleAdmin)
	require.NoError(t, err)

	createBody := `{"name":"Dr. Adams","email":"adams@clinic.test","password":"correct-horse","specialty":"Cardiology"}`

	t.Run("admin creates", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/doctor/"+adminTok, createBody)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, store.Doctors, 1)
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		patTok, err := tokens.Issue("john@example.com", token.RolePatient)
		require.NoError(t, err)
		w := doRequest(engine, http.MethodPost, "/doctor/"+patTok, createBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short password rejected by binding", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/doctor/"+adminTok,
			`{"name":"Dr. X","email":"x@clinic.test","password":"short","specialty":"ENT"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("admin deletes", func(t *testing.T) {
		var id int64
		for _, d := range store.Doctors {
			id = d.ID
		}
		w := doRequest(engine, http.MethodDelete, fmt.Sprintf("/doctor/%d/%s", id, adminTok), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, store.Doctors)

		w = doRequest(engine, http.MethodDelete, fmt.Sprintf("/doctor/%d/%s", id, adminTok), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	engine, _, tokens := newTestRouter(t)

	adminTok, err := tokens.Issue("admin", token.RoleAdmin)
	require.NoError(t, err)
	w := doRequest(engine, http.MethodPost, "/doctor/"+adminTok,
		`{"name":"Dr. Adams","email":"adams@clinic.test","password":"correct-horse","specialty":"Cardiology"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("valid login returns doctor token", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/doctor/login",
			`{"email":"adams@clinic.test","password":"correct-horse"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, tokens.Validate(body["token"], token.RoleDoctor))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/doctor/login",
			`{"email":"adams@clinic.test","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// Package api_test drives the assembled HTTP surface end to end: a
// patient signs up, books with a doctor, the doctor prescribes, and the
// appointment shows up completed in the patient's history.
package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/clinic-api/internal/config"
	"github.com/medhub/clinic-api/internal/email"
	adminHandler "github.com/medhub/clinic-api/internal/handler/admin"
	appointmentHandler "github.com/medhub/clinic-api/internal/handler/appointment"
	doctorHandler "github.com/medhub/clinic-api/internal/handler/doctor"
	patientHandler "github.com/medhub/clinic-api/internal/handler/patient"
	prescriptionHandler "github.com/medhub/clinic-api/internal/handler/prescription"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository/repositorytest"
	"github.com/medhub/clinic-api/internal/router"
	adminService "github.com/medhub/clinic-api/internal/service/admin"
	appointmentService "github.com/medhub/clinic-api/internal/service/appointment"
	doctorService "github.com/medhub/clinic-api/internal/service/doctor"
	patientService "github.com/medhub/clinic-api/internal/service/patient"
	prescriptionService "github.com/medhub/clinic-api/internal/service/prescription"
	"github.com/medhub/clinic-api/pkg/security"
	"github.com/medhub/clinic-api/pkg/token"
)

func newTestAPI(t *testing.T) (*gin.Engine, *repositorytest.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := repositorytest.NewStore()
	tokens := token.NewService(token.Config{Secret: "test-secret", ExpiryHours: 1})
	logger := zerolog.Nop()
	mailer := email.NewService(config.SMTPConfig{}, logger)

	appointmentSvc := appointmentService.NewService(
		store.AppointmentRepo(), store.PatientRepo(), store.DoctorRepo(),
		store.OutboxRepo(), tokens, mailer, logger)
	patientSvc := patientService.NewService(store.PatientRepo(), store.AppointmentRepo(), tokens, logger)
	doctorSvc := doctorService.NewService(store.DoctorRepo(), tokens, logger)
	adminSvc := adminService.NewService(store.AdminRepo(), tokens, logger)
	prescriptionSvc := prescriptionService.NewService(
		store.PrescriptionRepo(), store.AppointmentRepo(), store.OutboxRepo(), logger)

	engine := router.New(
		router.Options{Logger: logger},
		appointmentHandler.NewHandler(appointmentSvc, tokens),
		patientHandler.NewHandler(patientSvc, tokens),
		prescriptionHandler.NewHandler(prescriptionSvc, tokens),
		doctorHandler.NewHandler(doctorSvc, tokens),
		adminHandler.NewHandler(adminSvc),
	)
	return engine, store
}

type response struct {
	code int
	body map[string]json.RawMessage
	raw  string
}

func call(t *testing.T, engine *gin.Engine, method, path string, payload interface{}) response {
	t.Helper()
	var req *http.Request
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, strings.NewReader(string(data)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	body := map[string]json.RawMessage{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return response{code: w.Code, body: body, raw: w.Body.String()}
}

func (r response) str(t *testing.T, key string) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(r.body[key], &s), "key %q missing in %s", key, r.raw)
	return s
}

func TestClinicFlow(t *testing.T) {
	engine, store := newTestAPI(t)

	// Seed the admin account; there is no signup route for admins.
	hash, err := security.HashPassword("admin-pass")
	require.NoError(t, err)
	store.AddAdmin(&model.Admin{Username: "admin", Password: hash})

	// Admin logs in and registers a doctor.
	resp := call(t, engine, http.MethodPost, "/admin/login",
		map[string]string{"username": "admin", "password": "admin-pass"})
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	adminTok := resp.str(t, "token")

	resp = call(t, engine, http.MethodPost, "/doctor/"+adminTok, map[string]string{
		"name": "Dr. Adams", "email": "adams@clinic.test",
		"password": "correct-horse", "specialty": "Cardiology",
	})
	require.Equal(t, http.StatusCreated, resp.code, resp.raw)

	// Patient signs up and logs in.
	resp = call(t, engine, http.MethodPost, "/patient", map[string]string{
		"name": "John Smith", "email": "john@example.com",
		"password": "secret", "phone": "555-0101", "address": "12 Main St",
	})
	require.Equal(t, http.StatusCreated, resp.code, resp.raw)

	resp = call(t, engine, http.MethodPost, "/patient/login",
		map[string]string{"email": "john@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	patientTok := resp.str(t, "token")

	// Patient books tomorrow's visit.
	when := time.Now().Add(24 * time.Hour)
	resp = call(t, engine, http.MethodPost, "/appointments/"+patientTok, map[string]interface{}{
		"doctor_id": 1, "patient_id": 1, "appointment_time": when.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.code, resp.raw)

	// Doctor logs in and sees the appointment on their schedule.
	resp = call(t, engine, http.MethodPost, "/doctor/login",
		map[string]string{"email": "adams@clinic.test", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	doctorTok := resp.str(t, "token")

	resp = call(t, engine, http.MethodGet,
		fmt.Sprintf("/appointments/%s/null/%s", when.Format("2006-01-02"), doctorTok), nil)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	var schedule []model.AppointmentView
	require.NoError(t, json.Unmarshal(resp.body["appointments"], &schedule))
	require.Len(t, schedule, 1)
	aptID := schedule[0].ID
	assert.Equal(t, model.AppointmentStatusScheduled, schedule[0].Status)

	// Doctor prescribes, completing the appointment.
	resp = call(t, engine, http.MethodPost, "/prescription/"+doctorTok, map[string]interface{}{
		"appointment_id": aptID, "patient_name": "John Smith",
		"medication": "Amoxicillin", "dosage": "500mg",
	})
	require.Equal(t, http.StatusCreated, resp.code, resp.raw)

	// The visit now shows as past in the patient's history.
	resp = call(t, engine, http.MethodGet, "/patient/filter/past/null/"+patientTok, nil)
	require.Equal(t, http.StatusOK, resp.code, resp.raw)
	var history []model.AppointmentView
	require.NoError(t, json.Unmarshal(resp.body["appointments"], &history))
	require.Len(t, history, 1)
	assert.Equal(t, model.AppointmentStatusCompleted, history[0].Status)

	// Every write left an outbox event behind.
	assert.Equal(t, []string{model.EventAppointmentBooked, model.EventAppointmentCompleted}, store.EventTypes())
}

func TestCancellationIsOwnerOnly(t *testing.T) {
	engine, store := newTestAPI(t)
	doc := store.AddDoctor(&model.Doctor{Name: "Dr. Adams", Email: "adams@clinic.test"})
	owner := store.AddPatient(&model.Patient{Name: "John Smith", Email: "john@example.com", Password: "secret", Phone: "555-0101"})
	store.AddPatient(&model.Patient{Name: "Mallory", Email: "mallory@example.com", Password: "secret", Phone: "555-0666"})
	apt := store.AddAppointment(&model.Appointment{DoctorID: doc.ID, PatientID: owner.ID, AppointmentTime: time.Now().Add(24 * time.Hour)})

	login := func(email string) string {
		resp := call(t, engine, http.MethodPost, "/patient/login",
			map[string]string{"email": email, "password": "secret"})
		require.Equal(t, http.StatusOK, resp.code, resp.raw)
		return resp.str(t, "token")
	}

	malloryTok := login("mallory@example.com")
	resp := call(t, engine, http.MethodDelete, fmt.Sprintf("/appointments/%d/%s", apt.ID, malloryTok), nil)
	assert.Equal(t, http.StatusForbidden, resp.code, resp.raw)

	ownerTok := login("john@example.com")
	resp = call(t, engine, http.MethodDelete, fmt.Sprintf("/appointments/%d/%s", apt.ID, ownerTok), nil)
	assert.Equal(t, http.StatusOK, resp.code, resp.raw)

	resp = call(t, engine, http.MethodDelete, fmt.Sprintf("/appointments/%d/%s", apt.ID, ownerTok), nil)
	assert.Equal(t, http.StatusNotFound, resp.code, resp.raw)
}

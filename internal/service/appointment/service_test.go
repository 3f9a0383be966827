package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medhub/clinic-api/internal/config"
	"github.com/medhub/clinic-api/internal/email"
	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/internal/repository/repositorytest"
	"github.com/medhub/clinic-api/pkg/apperror"
	"github.com/medhub/clinic-api/pkg/token"
)

func newTestService(t *testing.T) (*Service, *repositorytest.Store, *token.Service) {
	t.Helper()
	store := repositorytest.NewStore()
	tokens := token.NewService(token.Config{Secret: "test-secret", ExpiryHours: 1})
	mailer := email.NewService(config.SMTPConfig{}, zerolog.Nop())
	svc := NewService(
		store.AppointmentRepo(),
		store.PatientRepo(),
		store.DoctorRepo(),
		store.OutboxRepo(),
		tokens,
		mailer,
		zerolog.Nop(),
	)
	return svc, store, tokens
}

func seedPair(store *repositorytest.Store) (*model.Doctor, *model.Patient) {
	doc := store.AddDoctor(&model.Doctor{Name: "Dr. Adams", Email: "adams@clinic.test", Specialty: "Cardiology"})
	pat := store.AddPatient(&model.Patient{Name: "John Smith", Email: "john@example.com", Phone: "555-0101", Address: "12 Main St"})
	return doc, pat
}

func TestValidate(t *testing.T) {
	svc, store, _ := newTestService(t)
	doc, pat := seedPair(store)
	ctx := context.Background()
	tomorrow := time.Now().Add(24 * time.Hour)

	t.Run("valid request passes", func(t *testing.T) {
		err := svc.Validate(ctx, &model.BookAppointmentRequest{
			DoctorID: doc.ID, PatientID: pat.ID, AppointmentTime: tomorrow,
		})
		assert.NoError(t, err)
	})

	t.Run("missing references rejected", func(t *testing.T) {
		err := svc.Validate(ctx, &model.BookAppointmentRequest{AppointmentTime: tomorrow})
		assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	})

	t.Run("zero time rejected", func(t *testing.T) {
		err := svc.Validate(ctx, &model.BookAppointmentRequest{DoctorID: doc.ID, PatientID: pat.ID})
		assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	})

	t.Run("yesterday rejected", func(t *testing.T) {
		err := svc.Validate(ctx, &model.BookAppointmentRequest{
			DoctorID: doc.ID, PatientID: pat.ID, AppointmentTime: time.Now().Add(-24 * time.Hour),
		})
		assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	})

	t.Run("earlier today accepted", func(t *testing.T) {
		y, m, d := time.Now().Date()
		startOfDay := time.Date(y, m, d, 0, 0, 1, 0, time.Local)
		err := svc.Validate(ctx, &model.BookAppointmentRequest{
			DoctorID: doc.ID, PatientID: pat.ID, AppointmentTime: startOfDay,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown doctor rejected", func(t *testing.T) {
		err := svc.Validate(ctx, &model.BookAppointmentRequest{
			DoctorID: 999, PatientID: pat.ID, AppointmentTime: tomorrow,
		})
		assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	})

	t.Run("unknown patient rejected", func(t *testing.T) {
		err := svc.Validate(ctx, &model.BookAppointmentRequest{
			DoctorID: doc.ID, PatientID: 999, AppointmentTime: tomorrow,
		})
		assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	})
}

func TestBook(t *testing.T) {
	svc, store, _ := newTestService(t)
	doc, pat := seedPair(store)
	ctx := context.Background()

	apt, err := svc.Book(ctx, &model.BookAppointmentRequest{
		DoctorID:        doc.ID,
		PatientID:       pat.ID,
		AppointmentTime: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotZero(t, apt.ID)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, []string{model.EventAppointmentBooked}, store.EventTypes())
}

func TestUpdate(t *testing.T) {
	svc, store, _ := newTestService(t)
	doc, pat := seedPair(store)
	other := store.AddDoctor(&model.Doctor{Name: "Dr. Brown", Email: "brown@clinic.test", Specialty: "Dermatology"})
	ctx := context.Background()

	apt := store.AddAppointment(&model.Appointment{
		DoctorID: doc.ID, PatientID: pat.ID,
		AppointmentTime: time.Now().Add(24 * time.Hour),
		Status:          model.AppointmentStatusCompleted,
	})

	t.Run("overwrites fields, keeps status", func(t *testing.T) {
		newTime := time.Now().Add(72 * time.Hour)
		err := svc.Update(ctx, &model.UpdateAppointmentRequest{
			ID: apt.ID, DoctorID: other.ID, PatientID: pat.ID, AppointmentTime: newTime,
		})
		require.NoError(t, err)

		updated := store.Appointments[apt.ID]
		assert.Equal(t, other.ID, updated.DoctorID)
		assert.WithinDuration(t, newTime, updated.AppointmentTime, time.Second)
		assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		err := svc.Update(ctx, &model.UpdateAppointmentRequest{ID: 999, DoctorID: doc.ID, PatientID: pat.ID})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestCancel(t *testing.T) {
	svc, store, tokens := newTestService(t)
	doc, pat := seedPair(store)
	ctx := context.Background()

	newApt := func() *model.Appointment {
		return store.AddAppointment(&model.Appointment{
			DoctorID: doc.ID, PatientID: pat.ID,
			AppointmentTime: time.Now().Add(24 * time.Hour),
		})
	}

	t.Run("owner can cancel", func(t *testing.T) {
		apt := newApt()
		tok, err := tokens.Issue(pat.Email, token.RolePatient)
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(ctx, apt.ID, tok))
		_, ok := store.Appointments[apt.ID]
		assert.False(t, ok)
		assert.Contains(t, store.EventTypes(), model.EventAppointmentCancelled)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		apt := newApt()
		tok, err := tokens.Issue("intruder@example.com", token.RolePatient)
		require.NoError(t, err)

		err = svc.Cancel(ctx, apt.ID, tok)
		assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
		_, ok := store.Appointments[apt.ID]
		assert.True(t, ok)
	})

	t.Run("garbage token unauthorized", func(t *testing.T) {
		apt := newApt()
		err := svc.Cancel(ctx, apt.ID, "not-a-token")
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		tok, err := tokens.Issue(pat.Email, token.RolePatient)
		require.NoError(t, err)
		err = svc.Cancel(ctx, 999, tok)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}

func TestListForDoctor(t *testing.T) {
	svc, store, tokens := newTestService(t)
	doc, pat := seedPair(store)
	jane := store.AddPatient(&model.Patient{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0102"})
	ctx := context.Background()

	day := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)
	store.AddAppointment(&model.Appointment{DoctorID: doc.ID, PatientID: pat.ID, AppointmentTime: day.Add(9 * time.Hour)})
	store.AddAppointment(&model.Appointment{DoctorID: doc.ID, PatientID: jane.ID, AppointmentTime: day.Add(14 * time.Hour)})
	// Outside the requested day.
	store.AddAppointment(&model.Appointment{DoctorID: doc.ID, PatientID: pat.ID, AppointmentTime: day.Add(30 * time.Hour)})

	tok, err := tokens.Issue(doc.Email, token.RoleDoctor)
	require.NoError(t, err)

	t.Run("full day window", func(t *testing.T) {
		views, err := svc.ListForDoctor(ctx, day, "", tok)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "John Smith", views[0].PatientName)
		assert.Equal(t, "Jane Doe", views[1].PatientName)
	})

	t.Run("patient name filter", func(t *testing.T) {
		views, err := svc.ListForDoctor(ctx, day, "jane", tok)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Jane Doe", views[0].PatientName)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		views, err := svc.ListForDoctor(ctx, day.AddDate(0, 0, 5), "", tok)
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})

	t.Run("bad token unauthorized", func(t *testing.T) {
		_, err := svc.ListForDoctor(ctx, day, "", "bogus")
		assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	})
}

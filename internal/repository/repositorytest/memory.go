// Package repositorytest provides in-memory repository implementations
// for service and handler tests. They mirror the Postgres repositories'
// error behavior: not-found and conflict conditions surface as apperror
// values, never as raw sql errors.
package repositorytest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/medhub/clinic-api/internal/model"
	"github.com/medhub/clinic-api/pkg/apperror"
)

type Store struct {
	mu sync.Mutex

	Appointments  map[int64]*model.Appointment
	Patients      map[int64]*model.Patient
	Doctors       map[int64]*model.Doctor
	Admins        map[string]*model.Admin
	Prescriptions map[int64]*model.Prescription
	Events        []*model.OutboxEvent

	nextAppointmentID  int64
	nextPatientID      int64
	nextDoctorID       int64
	nextPrescriptionID int64
	nextEventID        int64
}

func NewStore() *Store {
	return &Store{
		Appointments:  make(map[int64]*model.Appointment),
		Patients:      make(map[int64]*model.Patient),
		Doctors:       make(map[int64]*model.Doctor),
		Admins:        make(map[string]*model.Admin),
		Prescriptions: make(map[int64]*model.Prescription),
	}
}

// AddPatient, AddDoctor and AddAdmin seed fixtures, assigning IDs.
func (s *Store) AddPatient(p *model.Patient) *model.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPatientID++
	p.ID = s.nextPatientID
	s.Patients[p.ID] = p
	return p
}

func (s *Store) AddDoctor(d *model.Doctor) *model.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDoctorID++
	d.ID = s.nextDoctorID
	s.Doctors[d.ID] = d
	return d
}

func (s *Store) AddAdmin(a *model.Admin) *model.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = int64(len(s.Admins) + 1)
	s.Admins[a.Username] = a
	return a
}

func (s *Store) AddAppointment(a *model.Appointment) *model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAppointmentID++
	a.ID = s.nextAppointmentID
	s.Appointments[a.ID] = a
	return a
}

// EventTypes returns the recorded outbox event types in insertion order.
func (s *Store) EventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		types = append(types, e.EventType)
	}
	return types
}

type AppointmentRepo struct{ *Store }

func (s *Store) AppointmentRepo() *AppointmentRepo { return &AppointmentRepo{s} }

func (r *AppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextAppointmentID++
	apt.ID = r.nextAppointmentID
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	cp := *apt
	r.Appointments[apt.ID] = &cp
	return nil
}

func (r *AppointmentRepo) Get(_ context.Context, id int64) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.Appointments[id]
	if !ok {
		return nil, apperror.NotFound("appointment", nil)
	}
	cp := *apt
	return &cp, nil
}

func (r *AppointmentRepo) GetDetail(ctx context.Context, id int64) (*model.AppointmentDetail, error) {
	apt, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.detail(apt), nil
}

func (r *AppointmentRepo) detail(apt *model.Appointment) *model.AppointmentDetail {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &model.AppointmentDetail{Appointment: *apt}
	if doc, ok := r.Doctors[apt.DoctorID]; ok {
		d.DoctorName = doc.Name
	}
	if p, ok := r.Patients[apt.PatientID]; ok {
		d.PatientName = p.Name
		d.PatientEmail = p.Email
		d.PatientPhone = p.Phone
		d.PatientAddress = p.Address
	}
	return d
}

func (r *AppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Appointments[apt.ID]; !ok {
		return apperror.NotFound("appointment", nil)
	}
	cp := *apt
	cp.UpdatedAt = time.Now()
	r.Appointments[apt.ID] = &cp
	return nil
}

func (r *AppointmentRepo) UpdateStatus(_ context.Context, id int64, status model.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.Appointments[id]
	if !ok {
		return apperror.NotFound("appointment", nil)
	}
	apt.Status = status
	apt.UpdatedAt = time.Now()
	return nil
}

func (r *AppointmentRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Appointments[id]; !ok {
		return apperror.NotFound("appointment", nil)
	}
	delete(r.Appointments, id)
	return nil
}

func (r *AppointmentRepo) ListForDoctor(_ context.Context, doctorEmail string, start, end time.Time, patientName string) ([]*model.AppointmentDetail, error) {
	r.mu.Lock()
	var doctorID int64
	for _, d := range r.Doctors {
		if strings.EqualFold(d.Email, doctorEmail) {
			doctorID = d.ID
		}
	}
	apts := make([]*model.Appointment, 0)
	for _, a := range r.Appointments {
		if a.DoctorID != doctorID {
			continue
		}
		if a.AppointmentTime.Before(start) || a.AppointmentTime.After(end) {
			continue
		}
		cp := *a
		apts = append(apts, &cp)
	}
	r.mu.Unlock()

	details := make([]*model.AppointmentDetail, 0, len(apts))
	for _, a := range apts {
		d := r.detail(a)
		if patientName != "" && !strings.Contains(strings.ToLower(d.PatientName), strings.ToLower(patientName)) {
			continue
		}
		details = append(details, d)
	}
	sortDetails(details)
	return details, nil
}

func (r *AppointmentRepo) ListForPatient(_ context.Context, patientID int64, filter *model.PatientAppointmentFilter) ([]*model.AppointmentDetail, error) {
	r.mu.Lock()
	apts := make([]*model.Appointment, 0)
	for _, a := range r.Appointments {
		if a.PatientID != patientID {
			continue
		}
		if filter != nil && filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		cp := *a
		apts = append(apts, &cp)
	}
	r.mu.Unlock()

	details := make([]*model.AppointmentDetail, 0, len(apts))
	for _, a := range apts {
		d := r.detail(a)
		if filter != nil && filter.DoctorName != "" &&
			!strings.Contains(strings.ToLower(d.DoctorName), strings.ToLower(filter.DoctorName)) {
			continue
		}
		details = append(details, d)
	}
	sortDetails(details)
	return details, nil
}

func sortDetails(details []*model.AppointmentDetail) {
	for i := 1; i < len(details); i++ {
		for j := i; j > 0 && details[j].AppointmentTime.Before(details[j-1].AppointmentTime); j-- {
			details[j], details[j-1] = details[j-1], details[j]
		}
	}
}

type PatientRepo struct{ *Store }

func (s *Store) PatientRepo() *PatientRepo { return &PatientRepo{s} }

func (r *PatientRepo) Create(_ context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Patients {
		if strings.EqualFold(p.Email, patient.Email) || p.Phone == patient.Phone {
			return apperror.Conflict("patient already exists", nil)
		}
	}
	r.nextPatientID++
	patient.ID = r.nextPatientID
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	cp := *patient
	r.Patients[patient.ID] = &cp
	return nil
}

func (r *PatientRepo) Get(_ context.Context, id int64) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Patients[id]
	if !ok {
		return nil, apperror.NotFound("patient", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *PatientRepo) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Patients {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("patient", nil)
}

func (r *PatientRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Patients {
		if strings.EqualFold(p.Email, email) || p.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

type DoctorRepo struct{ *Store }

func (s *Store) DoctorRepo() *DoctorRepo { return &DoctorRepo{s} }

func (r *DoctorRepo) Create(_ context.Context, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.Doctors {
		if strings.EqualFold(d.Email, doctor.Email) {
			return apperror.Conflict("doctor already exists", nil)
		}
	}
	r.nextDoctorID++
	doctor.ID = r.nextDoctorID
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt
	cp := *doctor
	r.Doctors[doctor.ID] = &cp
	return nil
}

func (r *DoctorRepo) Get(_ context.Context, id int64) (*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.Doctors[id]
	if !ok {
		return nil, apperror.NotFound("doctor", nil)
	}
	cp := *d
	return &cp, nil
}

func (r *DoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.Doctors {
		if strings.EqualFold(d.Email, email) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("doctor", nil)
}

func (r *DoctorRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Doctors[id]; !ok {
		return apperror.NotFound("doctor", nil)
	}
	delete(r.Doctors, id)
	return nil
}

func (r *DoctorRepo) List(_ context.Context, filter *model.DoctorFilter) ([]*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doctors := make([]*model.Doctor, 0, len(r.Doctors))
	for _, d := range r.Doctors {
		if filter != nil {
			if filter.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Name)) {
				continue
			}
			if filter.Specialty != "" && !strings.EqualFold(d.Specialty, filter.Specialty) {
				continue
			}
		}
		cp := *d
		doctors = append(doctors, &cp)
	}
	for i := 1; i < len(doctors); i++ {
		for j := i; j > 0 && doctors[j].ID < doctors[j-1].ID; j-- {
			doctors[j], doctors[j-1] = doctors[j-1], doctors[j]
		}
	}
	return doctors, nil
}

type AdminRepo struct{ *Store }

func (s *Store) AdminRepo() *AdminRepo { return &AdminRepo{s} }

func (r *AdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Admins[username]
	if !ok {
		return nil, apperror.NotFound("admin", nil)
	}
	cp := *a
	return &cp, nil
}

type PrescriptionRepo struct{ *Store }

func (s *Store) PrescriptionRepo() *PrescriptionRepo { return &PrescriptionRepo{s} }

func (r *PrescriptionRepo) Create(_ context.Context, p *model.Prescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Prescriptions {
		if existing.AppointmentID == p.AppointmentID {
			return apperror.Conflict("prescription already exists for appointment", nil)
		}
	}
	r.nextPrescriptionID++
	p.ID = r.nextPrescriptionID
	p.CreatedAt = time.Now()
	cp := *p
	r.Prescriptions[p.ID] = &cp
	return nil
}

func (r *PrescriptionRepo) GetByAppointmentID(_ context.Context, appointmentID int64) (*model.Prescription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Prescriptions {
		if p.AppointmentID == appointmentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("prescription", nil)
}

type OutboxRepo struct{ *Store }

func (s *Store) OutboxRepo() *OutboxRepo { return &OutboxRepo{s} }

func (r *OutboxRepo) Create(_ context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return apperror.Internal(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextEventID++
	r.Events = append(r.Events, &model.OutboxEvent{
		ID:        r.nextEventID,
		EventType: eventType,
		Payload:   data,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *OutboxRepo) ListPending(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pending := make([]*model.OutboxEvent, 0)
	for _, e := range r.Events {
		if e.Status != model.OutboxStatusPending {
			continue
		}
		cp := *e
		pending = append(pending, &cp)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *OutboxRepo) MarkProcessed(_ context.Context, id int64) error {
	return r.markStatus(id, model.OutboxStatusProcessed)
}

func (r *OutboxRepo) MarkFailed(_ context.Context, id int64) error {
	return r.markStatus(id, model.OutboxStatusFailed)
}

func (r *OutboxRepo) markStatus(id int64, status model.OutboxStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.Events {
		if e.ID == id {
			now := time.Now()
			e.Status = status
			e.ProcessedAt = &now
			return nil
		}
	}
	return apperror.NotFound("outbox event", nil)
}

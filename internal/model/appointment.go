package model

import "time"

// AppointmentStatus is the numeric lifecycle state persisted with each
// appointment: 0 while scheduled, 1 once a prescription completes it.
type AppointmentStatus int

const (
	AppointmentStatusScheduled AppointmentStatus = 0
	AppointmentStatusCompleted AppointmentStatus = 1
)

type Appointment struct {
	ID              int64             `db:"id" json:"id"`
	DoctorID        int64             `db:"doctor_id" json:"doctor_id"`
	PatientID       int64             `db:"patient_id" json:"patient_id"`
	AppointmentTime time.Time         `db:"appointment_time" json:"appointment_time"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentDetail is an appointment row joined with the referenced
// doctor and patient, as the list queries return it.
type AppointmentDetail struct {
	Appointment
	DoctorName     string `db:"doctor_name"`
	PatientName    string `db:"patient_name"`
	PatientEmail   string `db:"patient_email"`
	PatientPhone   string `db:"patient_phone"`
	PatientAddress string `db:"patient_address"`
}

// AppointmentView is the reduced projection returned by every
// list-returning endpoint. It never carries credentials.
type AppointmentView struct {
	ID              int64             `json:"id"`
	DoctorID        int64             `json:"doctor_id"`
	DoctorName      string            `json:"doctor_name"`
	PatientID       int64             `json:"patient_id"`
	PatientName     string            `json:"patient_name"`
	PatientEmail    string            `json:"patient_email"`
	PatientPhone    string            `json:"patient_phone"`
	PatientAddress  string            `json:"patient_address"`
	AppointmentTime time.Time         `json:"appointment_time"`
	Status          AppointmentStatus `json:"status"`
}

func (d *AppointmentDetail) View() AppointmentView {
	return AppointmentView{
		ID:              d.ID,
		DoctorID:        d.DoctorID,
		DoctorName:      d.DoctorName,
		PatientID:       d.PatientID,
		PatientName:     d.PatientName,
		PatientEmail:    d.PatientEmail,
		PatientPhone:    d.PatientPhone,
		PatientAddress:  d.PatientAddress,
		AppointmentTime: d.AppointmentTime,
		Status:          d.Status,
	}
}

// AppointmentViews projects a detail slice, returning an empty (not nil)
// slice so list responses serialize as [].
func AppointmentViews(details []*AppointmentDetail) []AppointmentView {
	views := make([]AppointmentView, 0, len(details))
	for _, d := range details {
		views = append(views, d.View())
	}
	return views
}

type BookAppointmentRequest struct {
	DoctorID        int64     `json:"doctor_id"`
	PatientID       int64     `json:"patient_id"`
	AppointmentTime time.Time `json:"appointment_time"`
}

type UpdateAppointmentRequest struct {
	ID              int64     `json:"id" binding:"required"`
	DoctorID        int64     `json:"doctor_id"`
	PatientID       int64     `json:"patient_id"`
	AppointmentTime time.Time `json:"appointment_time"`
}

// PatientAppointmentFilter narrows a patient's appointment listing.
// A nil Status means both past and future; an empty DoctorName means
// any doctor.
type PatientAppointmentFilter struct {
	Status     *AppointmentStatus
	DoctorName string
}

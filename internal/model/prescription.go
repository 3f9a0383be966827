package model

import "time"

type Prescription struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointment_id"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	Medication    string    `db:"medication" json:"medication"`
	Dosage        string    `db:"dosage" json:"dosage"`
	DoctorNotes   string    `db:"doctor_notes" json:"doctor_notes"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type SavePrescriptionRequest struct {
	AppointmentID int64  `json:"appointment_id" binding:"required"`
	PatientName   string `json:"patient_name"`
	Medication    string `json:"medication" binding:"required"`
	Dosage        string `json:"dosage"`
	DoctorNotes   string `json:"doctor_notes"`
}

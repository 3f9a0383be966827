package model

import "time"

type Doctor struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	Specialty string    `db:"specialty" json:"specialty"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateDoctorRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Specialty string `json:"specialty" binding:"required"`
	Phone     string `json:"phone"`
}

// DoctorFilter narrows the public doctor listing. Blank or "all" fields
// match everything.
type DoctorFilter struct {
	Name      string
	Specialty string
}

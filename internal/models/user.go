package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultAgencyName = "Default Agency"

type Agency struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	Email         string    `json:"user_email" db:"user_email"`
	ContactNumber string    `json:"contact_number" db:"contact_number"`
	AgencyID      uuid.UUID `json:"agency_id" db:"agency_id"`
	Role          Role      `json:"role" db:"role"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

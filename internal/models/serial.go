package models

import (
	"time"

	"github.com/google/uuid"
)

type SerialNumber struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Value     string     `json:"serial_number" db:"serial_value"`
	Pool      SerialPool `json:"pool" db:"pool"`
	IsIssued  bool       `json:"is_issued" db:"is_issued"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type SerialFilter struct {
	Pool   *SerialPool
	Issued *bool
	Limit  int
}

type SerialStats struct {
	Total             int `json:"total" db:"total"`
	UnusedDefault     int `json:"unusedDefault" db:"unused_default"`
	UnusedAllianzWell int `json:"unusedAllianzWell" db:"unused_allianz_well"`
	Used              int `json:"used" db:"used"`
}

type SerialImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

type CreateSerialRequest struct {
	SerialNumber string     `json:"serialNumber" binding:"required"`
	Pool         SerialPool `json:"pool"`
}

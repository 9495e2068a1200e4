package models

import "github.com/google/uuid"

type Policy struct {
	ID       uuid.UUID      `json:"id" db:"id"`
	Name     string         `json:"name" db:"name"`
	Type     string         `json:"policy_type" db:"policy_type"`
	Category PolicyCategory `json:"category" db:"category"`
}

func (p Policy) IsManual() bool {
	return p.Category == PolicyCategoryManual
}

package repository

import (
	"context"
	"fmt"

	"submission-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertByEmailTx returns the id of the user with the given email, creating
// it under the named agency when absent. An existing row is left unchanged.
func (r *UserRepository) UpsertByEmailTx(ctx context.Context, tx *sqlx.Tx, user models.User, agencyName string) (uuid.UUID, error) {
	var id uuid.UUID
	query := `
		INSERT INTO users (first_name, last_name, user_email, contact_number, agency_id, role)
		VALUES ($1, $2, $3, $4, (SELECT id FROM agency WHERE name = $5), $6)
		ON CONFLICT (user_email) DO UPDATE SET user_email = EXCLUDED.user_email
		RETURNING id`

	err := tx.GetContext(ctx, &id, query,
		user.FirstName, user.LastName, user.Email, user.ContactNumber, agencyName, user.Role)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert user %s: %w", user.Email, err)
	}
	return id, nil
}

package repository

import (
	"context"
	"fmt"

	"submission-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) GetByType(ctx context.Context, policyType string) (*models.Policy, error) {
	var policy models.Policy
	query := `SELECT id, name, policy_type, category FROM policy WHERE policy_type = $1`

	if err := r.db.GetContext(ctx, &policy, query, policyType); err != nil {
		return nil, fmt.Errorf("failed to get policy %q: %w", policyType, err)
	}
	return &policy, nil
}

func (r *PolicyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Policy, error) {
	var policy models.Policy
	query := `SELECT id, name, policy_type, category FROM policy WHERE id = $1`

	if err := r.db.GetContext(ctx, &policy, query, id); err != nil {
		return nil, fmt.Errorf("failed to get policy %s: %w", id, err)
	}
	return &policy, nil
}

func (r *PolicyRepository) List(ctx context.Context) ([]models.Policy, error) {
	policies := []models.Policy{}
	query := `SELECT id, name, policy_type, category FROM policy ORDER BY policy_type`

	if err := r.db.SelectContext(ctx, &policies, query); err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	return policies, nil
}

// Upsert inserts the policy unless its type is already registered and
// reports whether a row was added.
func (r *PolicyRepository) Upsert(ctx context.Context, policy models.Policy) (bool, error) {
	query := `
		INSERT INTO policy (name, policy_type, category)
		VALUES (:name, :policy_type, :category)
		ON CONFLICT (policy_type) DO NOTHING`

	result, err := r.db.NamedExecContext(ctx, query, policy)
	if err != nil {
		return false, fmt.Errorf("failed to upsert policy %q: %w", policy.Type, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return n > 0, nil
}

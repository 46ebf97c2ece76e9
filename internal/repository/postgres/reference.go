package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"equiprent-backend/internal/repository"
)

// referenceRepository probes the externally-owned equipment and
// customer tables. Read-only: this core never writes them.
type referenceRepository struct {
	db *sql.DB
}

func NewReferenceRepository(db *sql.DB) repository.ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) EquipmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM equipment WHERE id = $1)`, id)
}

func (r *referenceRepository) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id)
}

func (r *referenceRepository) exists(ctx context.Context, query string, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return exists, nil
}

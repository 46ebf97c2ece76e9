package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

// Schema: rental_contracts(id uuid pk, equipment_id uuid, customer_id uuid,
// start_date timestamptz, end_date timestamptz, shifts int, shift_price_cents bigint,
// status text, suspended_date timestamptz, cancelled_date timestamptz,
// finished_date timestamptz, added_date timestamptz, update_date timestamptz,
// deleted_date timestamptz, concurrency_token bytea) with secondary indexes
// on (equipment_id) and (status, end_date).

const contractColumns = `id, equipment_id, customer_id, start_date, end_date, shifts, shift_price_cents, status, suspended_date, cancelled_date, finished_date, added_date, update_date, deleted_date, concurrency_token`

// reservingStatuses filters to contracts still holding the equipment.
const reservingStatuses = `('ACTIVE', 'SUSPENDED')`

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

// newToken mints an opaque concurrency token. Callers compare it
// byte-for-byte and never interpret it.
func newToken() []byte {
	u := uuid.New()
	return u[:]
}

func (r *contractRepository) Insert(ctx context.Context, c *domain.RentalContract) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockEquipment(ctx, tx, c.EquipmentID); err != nil {
		return err
	}
	if err := checkOverlapLocked(ctx, tx, c.EquipmentID, c.StartDate, c.EndDate, nil); err != nil {
		return err
	}

	token := newToken()
	query := `INSERT INTO rental_contracts (` + contractColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = tx.ExecContext(ctx, query,
		c.ID, c.EquipmentID, c.CustomerID, c.StartDate, c.EndDate,
		c.Shifts, c.ShiftPriceCents, c.Status,
		nullTime(c.SuspendedDate), nullTime(c.CancelledDate), nullTime(c.FinishedDate),
		c.AddedDate, nullTime(c.UpdateDate), nullTime(c.DeletedDate), token)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert tx: %w", err)
	}
	c.ConcurrencyToken = token
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.RentalContract, error) {
	query := `SELECT ` + contractColumns + ` FROM rental_contracts WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_date IS NULL`
	}
	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Kind: "contract", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return c, nil
}

func (r *contractRepository) ListReserving(ctx context.Context, equipmentID uuid.UUID, excludeID *uuid.UUID) ([]domain.RentalContract, error) {
	query := `SELECT ` + contractColumns + ` FROM rental_contracts
	          WHERE equipment_id = $1 AND deleted_date IS NULL AND status IN ` + reservingStatuses
	args := []interface{}{equipmentID}
	if excludeID != nil {
		query += ` AND id <> $2`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY start_date`
	return r.list(ctx, query, args...)
}

func (r *contractRepository) ListActiveEndingBefore(ctx context.Context, cutoff time.Time) ([]domain.RentalContract, error) {
	query := `SELECT ` + contractColumns + ` FROM rental_contracts
	          WHERE status = 'ACTIVE' AND deleted_date IS NULL AND end_date <= $1
	          ORDER BY end_date`
	return r.list(ctx, query, cutoff)
}

func (r *contractRepository) Update(ctx context.Context, c *domain.RentalContract, expectedToken []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockEquipment(ctx, tx, c.EquipmentID); err != nil {
		return err
	}
	// Status-only transitions keep their window, so re-checking is a
	// no-op for them; date or equipment changes need the invariant
	// held against concurrent writers. Self-exclusion by id prevents
	// a contract conflicting with its own stored window.
	if err := checkOverlapLocked(ctx, tx, c.EquipmentID, c.StartDate, c.EndDate, &c.ID); err != nil {
		return err
	}

	token := newToken()
	now := time.Now().UTC()
	query := `UPDATE rental_contracts
	          SET equipment_id = $1, customer_id = $2, start_date = $3, end_date = $4,
	              shifts = $5, shift_price_cents = $6, status = $7,
	              suspended_date = $8, cancelled_date = $9, finished_date = $10,
	              update_date = $11, concurrency_token = $12
	          WHERE id = $13 AND deleted_date IS NULL AND concurrency_token = $14`
	res, err := tx.ExecContext(ctx, query,
		c.EquipmentID, c.CustomerID, c.StartDate, c.EndDate,
		c.Shifts, c.ShiftPriceCents, c.Status,
		nullTime(c.SuspendedDate), nullTime(c.CancelledDate), nullTime(c.FinishedDate),
		now, token, c.ID, expectedToken)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if affected == 0 {
		// Either the row is gone (or soft-deleted) or another writer
		// rotated the token since the caller's read.
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM rental_contracts WHERE id = $1 AND deleted_date IS NULL)`,
			c.ID).Scan(&exists); err != nil {
			return fmt.Errorf("update contract: %w", err)
		}
		if exists {
			return &domain.ConcurrencyConflictError{ContractID: c.ID}
		}
		return &domain.NotFoundError{Kind: "contract", ID: c.ID}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update tx: %w", err)
	}
	c.ConcurrencyToken = token
	c.UpdateDate = &now
	return nil
}

func (r *contractRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_contracts SET deleted_date = $2, update_date = $2, concurrency_token = $3
		 WHERE id = $1 AND deleted_date IS NULL`,
		id, now, newToken())
	if err != nil {
		return fmt.Errorf("soft delete contract: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete contract: %w", err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Kind: "contract", ID: id}
	}
	return nil
}

func (r *contractRepository) Restore(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_contracts SET deleted_date = NULL, update_date = $2, concurrency_token = $3
		 WHERE id = $1 AND deleted_date IS NOT NULL`,
		id, now, newToken())
	if err != nil {
		return fmt.Errorf("restore contract: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("restore contract: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM rental_contracts WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("restore contract: %w", err)
		}
		if exists {
			return &domain.NotDeletedError{ContractID: id}
		}
		return &domain.NotFoundError{Kind: "contract", ID: id}
	}
	return nil
}

func (r *contractRepository) ListDeleted(ctx context.Context) ([]domain.RentalContract, error) {
	query := `SELECT ` + contractColumns + ` FROM rental_contracts
	          WHERE deleted_date IS NOT NULL ORDER BY deleted_date DESC`
	return r.list(ctx, query)
}

func (r *contractRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.RentalContract, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []domain.RentalContract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}

// lockEquipment takes a transaction-scoped advisory lock keyed on the
// equipment id. Row locks cannot guard against phantom inserts of new
// overlapping contracts, an advisory lock on the equipment can.
func lockEquipment(ctx context.Context, tx *sql.Tx, equipmentID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, equipmentID.String()); err != nil {
		return fmt.Errorf("lock equipment %s: %w", equipmentID, err)
	}
	return nil
}

// checkOverlapLocked is the authoritative overlap guard, run with the
// equipment lock held. The service performs the same check before
// writing for a fast validation failure; this one closes the race.
func checkOverlapLocked(ctx context.Context, tx *sql.Tx, equipmentID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error {
	query := `SELECT id FROM rental_contracts
	          WHERE equipment_id = $1 AND deleted_date IS NULL AND status IN ` + reservingStatuses + `
	            AND start_date < $3 AND end_date > $2`
	args := []interface{}{equipmentID, start, end}
	if excludeID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeID)
	}
	query += ` LIMIT 1`

	var conflictID uuid.UUID
	err := tx.QueryRowContext(ctx, query, args...).Scan(&conflictID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	return &domain.OverlapError{EquipmentID: equipmentID, ConflictingID: conflictID}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContract(row rowScanner) (*domain.RentalContract, error) {
	var c domain.RentalContract
	var suspended, cancelled, finished, updated, deleted sql.NullTime
	err := row.Scan(&c.ID, &c.EquipmentID, &c.CustomerID, &c.StartDate, &c.EndDate,
		&c.Shifts, &c.ShiftPriceCents, &c.Status,
		&suspended, &cancelled, &finished,
		&c.AddedDate, &updated, &deleted, &c.ConcurrencyToken)
	if err != nil {
		return nil, err
	}
	c.SuspendedDate = timePtr(suspended)
	c.CancelledDate = timePtr(cancelled)
	c.FinishedDate = timePtr(finished)
	c.UpdateDate = timePtr(updated)
	c.DeletedDate = timePtr(deleted)
	return &c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

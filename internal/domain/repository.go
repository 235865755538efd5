// internal/domain/repository.go
//
// Domain-table query helpers.
//
// Context
// -------
// These functions provide CRUD access to the **domain** table.  Callers
// supply a *sqlx.DB connected to the control-plane database; each helper
// executes parameterised SQL and maps store-level failures onto the typed
// errors in internal/errs:
//
//   - no rows            → NotFoundError
//   - duplicate key 1062 → DuplicateError (unique `name` index)
//
// Delete runs inside one transaction: child config rows are removed, rows
// that reference the victim as their fallback target have the pointer
// nulled out (fallback is advisory, not structural), and only then is the
// domain row deleted.
//
// Notes
// -----
// • Column list matches the fields in `Record`; update both together.
// • Oxford commas, two spaces after periods.
package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/domainconf/internal/errs"
)

const columns = `id, name, description, is_active, default_config,
                 fallback_domain_id, created_at, updated_at`

// Create inserts a new domain row and returns the stored record.
func Create(ctx context.Context, db *sqlx.DB, rec *Record) (*Record, error) {
	const q = `
        INSERT INTO domain
               (name, description, is_active, default_config, fallback_domain_id)
        VALUES (?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, q,
		rec.Name, rec.Description, rec.IsActive,
		nullableDoc(rec.DefaultConfig), rec.FallbackDomainID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, errs.Duplicatef("domain %q already exists", rec.Name)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return ByID(ctx, db, uint64(id))
}

// ByID fetches a single domain row by primary key.
func ByID(ctx context.Context, db *sqlx.DB, id uint64) (*Record, error) {
	const q = `SELECT ` + columns + ` FROM domain WHERE id = ? LIMIT 1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, id); err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundf("domain id %d not found", id)
		}
		return nil, err
	}
	return &rec, nil
}

// ByName fetches a single domain row by its normalized name.
func ByName(ctx context.Context, db *sqlx.DB, name string) (*Record, error) {
	const q = `SELECT ` + columns + ` FROM domain WHERE name = ? LIMIT 1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, name); err != nil {
		if isNoRows(err) {
			return nil, errs.NotFoundf("domain %q not found", name)
		}
		return nil, err
	}
	return &rec, nil
}

// All returns every domain, newest first.  With activeOnly the inactive
// rows are excluded at SQL level.
func All(ctx context.Context, db *sqlx.DB, activeOnly bool) ([]Record, error) {
	q := `SELECT ` + columns + ` FROM domain`
	if activeOnly {
		q += ` WHERE is_active = TRUE`
	}
	q += ` ORDER BY id DESC`
	rows := make([]Record, 0, 16)
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReferencedBy returns the domains whose fallback pointer targets id.
// Callers use the result to invalidate the referrers' cache entries when
// the target changes or disappears.
func ReferencedBy(ctx context.Context, db *sqlx.DB, id uint64) ([]Record, error) {
	const q = `SELECT ` + columns + ` FROM domain WHERE fallback_domain_id = ?`
	rows := make([]Record, 0, 4)
	if err := db.SelectContext(ctx, &rows, q, id); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update writes the full row back.  The caller is expected to have read,
// validated, and mutated the record first.
func Update(ctx context.Context, db *sqlx.DB, rec *Record) (*Record, error) {
	const q = `
        UPDATE domain
           SET name = ?, description = ?, is_active = ?,
               default_config = ?, fallback_domain_id = ?
         WHERE id = ?`
	_, err := db.ExecContext(ctx, q,
		rec.Name, rec.Description, rec.IsActive,
		nullableDoc(rec.DefaultConfig), rec.FallbackDomainID, rec.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, errs.Duplicatef("domain %q already exists", rec.Name)
		}
		return nil, err
	}
	return ByID(ctx, db, rec.ID)
}

// Delete removes a domain and, atomically with it, every child config row.
// Rows pointing at the victim through fallback_domain_id are nulled out in
// the same transaction.
func Delete(ctx context.Context, db *sqlx.DB, id uint64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM config WHERE domain_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE domain SET fallback_domain_id = NULL WHERE fallback_domain_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM domain WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFoundf("domain id %d not found", id)
	}
	return tx.Commit()
}

// nullableDoc maps an empty JSON document to SQL NULL so the column stays
// clean for `IS NULL` checks.
func nullableDoc(doc []byte) any {
	if len(doc) == 0 {
		return nil
	}
	return doc
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isDuplicateKey recognises the MySQL/MariaDB duplicate-entry error (1062)
// without importing driver-specific types.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
